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

package system

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemFilesystemWriteIsVisibleAfterClose(t *testing.T) {
	fs := NewMemFilesystem()

	f, err := fs.Open("/firmware/out.bin", true, true)
	require.NoError(t, err)
	_, err = f.Write([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	got, ok := fs.GetFile("/firmware/out.bin")
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), got)
}

func TestMemFilesystemSeekAndReadFromOffset(t *testing.T) {
	fs := NewMemFilesystem()
	fs.PutFile("/pkg.bin", []byte("0123456789"))

	f, err := fs.Open("/pkg.bin", false, false)
	require.NoError(t, err)
	defer f.Close()

	pos, err := f.Seek(-4, SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(6), pos)

	buf := make([]byte, 4)
	n, err := f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "6789", string(buf[:n]))

	_, err = f.Read(buf)
	assert.Equal(t, io.EOF, err)
}

func TestMemFilesystemOpenMissingFileForRead(t *testing.T) {
	fs := NewMemFilesystem()
	_, err := fs.Open("/absent.bin", false, false)
	assert.True(t, os.IsNotExist(err))
}

func TestMemFilesystemRenameReplacesTarget(t *testing.T) {
	fs := NewMemFilesystem()
	fs.PutFile("/firmware/backup.bin.tmp", []byte("new"))
	fs.PutFile("/firmware/backup.bin", []byte("old"))

	require.NoError(t, fs.Rename("/firmware/backup.bin.tmp", "/firmware/backup.bin"))

	got, ok := fs.GetFile("/firmware/backup.bin")
	require.True(t, ok)
	assert.Equal(t, []byte("new"), got)
	_, ok = fs.GetFile("/firmware/backup.bin.tmp")
	assert.False(t, ok)
}

func TestMemFilesystemReadDirListsOnlyDirectChildren(t *testing.T) {
	fs := NewMemFilesystem()
	fs.PutFile("/firmware/a.bin", []byte("a"))
	fs.PutFile("/firmware/sub/b.bin", []byte("b"))
	fs.PutFile("/c.bin", []byte("c"))

	entries, err := fs.ReadDir("/firmware")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.bin", entries[0].Name)
}
