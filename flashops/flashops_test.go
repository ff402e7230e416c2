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

package flashops

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ondulab/CISYNTH-CIS-Bootloader/system"
)

func TestBackupThenEraseThenProgramRestoresOriginalContents(t *testing.T) {
	flash := system.NewHostFlash(0x1000, 4096, 1024, 0x3000)
	region := system.Region{StartAddr: 0x1000, Capacity: 4096}

	// seed flash with non-erased content
	original := make([]byte, 100)
	for i := range original {
		original[i] = byte(i)
	}
	var block [32]byte
	for off := 0; off < len(original); off += 32 {
		for i := range block {
			block[i] = 0xFF
		}
		end := off + 32
		if end > len(original) {
			copy(block[:], original[off:])
		} else {
			copy(block[:], original[off:end])
		}
		require.NoError(t, flash.WriteBlock(0x1000+uint32(off), block))
	}

	fs := system.NewMemFilesystem()
	require.NoError(t, Backup(flash, fs, region, 100, "/backup.bin", nil, 0))

	backedUp, ok := fs.GetFile("/backup.bin")
	require.True(t, ok)

	require.NoError(t, Erase(flash, region, 100, nil, 0))

	f, err := fs.Open("/backup.bin", false, false)
	require.NoError(t, err)
	defer f.Close()

	var progBlock [32]byte
	require.NoError(t, Program(flash, 0x1000, f, uint32(len(backedUp)), &progBlock, nil, 0))

	roundTripped := make([]byte, system.BlockSize*4)
	n, err := flash.ReadAt(roundTripped, 0x1000)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(roundTripped[:100], backedUp[:100]))
	_ = n
}

func TestBackupSkipsExistingFile(t *testing.T) {
	flash := system.NewHostFlash(0x1000, 4096, 1024, 0x3000)
	fs := system.NewMemFilesystem()
	fs.PutFile("/backup.bin", []byte("already there"))

	err := Backup(flash, fs, system.Region{StartAddr: 0x1000}, 100, "/backup.bin", nil, 0)
	require.NoError(t, err)

	contents, _ := fs.GetFile("/backup.bin")
	assert.Equal(t, "already there", string(contents))
}

func TestProgramRejectsMisalignedBase(t *testing.T) {
	flash := system.NewHostFlash(0x1000, 4096, 1024, 0x3000)
	fs := system.NewMemFilesystem()
	fs.PutFile("/src.bin", []byte("data"))
	f, err := fs.Open("/src.bin", false, false)
	require.NoError(t, err)
	var block [32]byte
	err = Program(flash, 0x1001, f, 4, &block, nil, 0)
	assert.ErrorIs(t, err, ErrMisaligned)
}

func TestProgramPadsFinalPartialBlockWith0xFF(t *testing.T) {
	flash := system.NewHostFlash(0x1000, 4096, 1024, 0x3000)
	fs := system.NewMemFilesystem()
	data := bytes.Repeat([]byte{0xAA}, 40) // not a multiple of 32
	fs.PutFile("/src.bin", data)
	f, err := fs.Open("/src.bin", false, false)
	require.NoError(t, err)

	var block [32]byte
	require.NoError(t, Program(flash, 0x1000, f, uint32(len(data)), &block, nil, 0))

	out := make([]byte, 64)
	_, err = flash.ReadAt(out, 0x1000)
	require.NoError(t, err)
	assert.Equal(t, data, out[:40])
	for _, b := range out[40:64] {
		assert.Equal(t, byte(0xFF), b)
	}
}

func TestEraseCoversWholeRegionAcrossMultipleSectors(t *testing.T) {
	flash := system.NewHostFlash(0x1000, 4096, 256, 0x3000)
	region := system.Region{StartAddr: 0x1000}
	require.NoError(t, Erase(flash, region, 1000, nil, 0)) // spans 4 sectors of 256
}
