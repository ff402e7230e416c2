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
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The software accumulator plus the caller-side terminal XOR must land
// on the same value as the standard one-shot checksum, or packages
// produced by the external tool would never verify.
func TestSoftwareCRC32MatchesOneShotChecksum(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")

	c := &SoftwareCRC32{}
	c.Reset()
	got := c.Accumulate(data) ^ 0xFFFFFFFF
	assert.Equal(t, crc32.ChecksumIEEE(data), got)
}

func TestSoftwareCRC32ChunkingDoesNotChangeTheResult(t *testing.T) {
	data := make([]byte, 1000)
	for i := range data {
		data[i] = byte(i * 7)
	}

	c := &SoftwareCRC32{}
	c.Reset()
	whole := c.Accumulate(data)

	c.Reset()
	var chunked uint32
	for off := 0; off < len(data); off += 33 {
		end := off + 33
		if end > len(data) {
			end = len(data)
		}
		chunked = c.Accumulate(data[off:end])
	}
	assert.Equal(t, whole, chunked)
}

func TestHostFlashEraseRestoresErasedPattern(t *testing.T) {
	f := NewHostFlash(0x1000, 4096, 1024, 0x3000)

	var block [BlockSize]byte
	for i := range block {
		block[i] = 0xAB
	}
	require.NoError(t, f.WriteBlock(0x1000, block))

	out := make([]byte, BlockSize)
	_, err := f.ReadAt(out, 0x1000)
	require.NoError(t, err)
	assert.Equal(t, block[:], out)

	require.NoError(t, f.EraseSector(0, f.SectorOf(0x1000)))
	_, err = f.ReadAt(out, 0x1000)
	require.NoError(t, err)
	for _, b := range out {
		assert.Equal(t, byte(0xFF), b)
	}
}

func TestHostFlashRejectsMisalignedWrite(t *testing.T) {
	f := NewHostFlash(0, 4096, 1024, 4096)
	var block [BlockSize]byte
	assert.Error(t, f.WriteBlock(7, block))
}
