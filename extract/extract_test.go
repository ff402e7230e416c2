// Copyright 2018-present Reso-nance Numerique.
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ondulab/CISYNTH-CIS-Bootloader/system"
)

func TestExternalDataCopiesExactBytes(t *testing.T) {
	fs := system.NewMemFilesystem()
	fs.PutFile("/pkg.bin", []byte("0123456789abcdef"))
	src, err := fs.Open("/pkg.bin", false, false)
	require.NoError(t, err)
	_, err = src.Seek(4, system.SeekStart)
	require.NoError(t, err)

	require.NoError(t, ExternalData(fs, src, 5, "/External_MAX8.tar.gz", nil, 0))

	out, ok := fs.GetFile("/External_MAX8.tar.gz")
	require.True(t, ok)
	assert.Equal(t, "45678", string(out))
}

func TestExternalDataEmptyRegionTruncatesDestination(t *testing.T) {
	fs := system.NewMemFilesystem()
	fs.PutFile("/External_MAX8.tar.gz", []byte("stale contents"))
	fs.PutFile("/pkg.bin", []byte("body"))
	src, err := fs.Open("/pkg.bin", false, false)
	require.NoError(t, err)

	require.NoError(t, ExternalData(fs, src, 0, "/External_MAX8.tar.gz", nil, 0))

	out, ok := fs.GetFile("/External_MAX8.tar.gz")
	require.True(t, ok)
	assert.Empty(t, out)
}
