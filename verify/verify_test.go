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

package verify

import (
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ondulab/CISYNTH-CIS-Bootloader/system"
)

func buildPackage(body []byte) []byte {
	crc := crc32.ChecksumIEEE(body)
	trailer := make([]byte, 4)
	binary.LittleEndian.PutUint32(trailer, crc)
	return append(append([]byte{}, body...), trailer...)
}

func TestVerifyAcceptsCorrectTrailer(t *testing.T) {
	fs := system.NewMemFilesystem()
	fs.PutFile("/pkg.bin", buildPackage([]byte("hello world, this is a package body")))

	crc := &system.SoftwareCRC32{}
	err := Verify(fs, "/pkg.bin", crc, 8, nil)
	require.NoError(t, err)
}

func TestVerifyRejectsMutatedByte(t *testing.T) {
	fs := system.NewMemFilesystem()
	pkg := buildPackage([]byte("hello world, this is a package body"))
	pkg[3] ^= 0xFF
	fs.PutFile("/pkg.bin", pkg)

	crc := &system.SoftwareCRC32{}
	err := Verify(fs, "/pkg.bin", crc, 8, nil)
	assert.ErrorIs(t, err, ErrCRCMismatch)
}

func TestVerifyRejectsWrongLength(t *testing.T) {
	fs := system.NewMemFilesystem()
	pkg := buildPackage([]byte("hello world, this is a package body"))
	pkg = append(pkg, 0x00) // shift the trailer boundary
	fs.PutFile("/pkg.bin", pkg)

	crc := &system.SoftwareCRC32{}
	err := Verify(fs, "/pkg.bin", crc, 8, nil)
	assert.ErrorIs(t, err, ErrCRCMismatch)
}
