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
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/Ondulab/CISYNTH-CIS-Bootloader/progress"
	"github.com/Ondulab/CISYNTH-CIS-Bootloader/system"
)

// ErrMisaligned is returned when regionBase is not BlockSize aligned.
var ErrMisaligned = errors.New("flashops: misaligned flash write address")

// ErrWriteFailed is returned when the flash driver's reliable-write
// primitive exhausts its retries on a block.
var ErrWriteFailed = errors.New("flashops: block write failed")

// Program streams size bytes starting at the current position of src
// into flash starting at regionBase, decomposing the stream into
// exactly BlockSize blocks. The final partial block is padded with
// 0xFF up to a full block before being written — the pad-to-0xFF
// convention leaves erased bits erased, which is benign (spec.md
// §4.5.3). Progress is reported in data bytes, excluding padding.
//
// block is a caller-supplied scratch buffer, reused across calls the
// way the original firmware reuses its single 32-byte-aligned
// tempBuffer (SPEC_FULL.md §D) instead of allocating one per call.
func Program(flash system.FlashDriver, regionBase uint32, src system.File, size uint32, block *[system.BlockSize]byte, tracker *progress.Tracker, phase int) error {
	if regionBase%system.BlockSize != 0 {
		return ErrMisaligned
	}

	readBuf := make([]byte, DefaultChunkSize)
	addr := regionBase
	var written uint32

	for written < size {
		chunk := uint32(len(readBuf))
		if remaining := size - written; remaining < chunk {
			chunk = remaining
		}
		n, err := readFull(src, readBuf[:chunk])
		if err != nil {
			return errors.Wrap(err, "flashops: reading package body")
		}
		data := readBuf[:n]

		for off := 0; off < len(data); off += system.BlockSize {
			end := off + system.BlockSize
			if end > len(data) {
				for i := range block {
					block[i] = 0xFF
				}
				copy(block[:], data[off:])
			} else {
				copy(block[:], data[off:end])
			}

			if addr%system.BlockSize != 0 {
				return ErrMisaligned
			}
			if err := flash.WriteBlock(addr, *block); err != nil {
				log.WithError(err).WithField("addr", addr).Error("flashops: block write failed")
				return errors.Wrapf(ErrWriteFailed, "address 0x%08x", addr)
			}
			addr += system.BlockSize
		}

		written += uint32(n)
		if tracker != nil {
			tracker.Update(phase, int(written), int(size))
		}
	}
	return nil
}

func readFull(f system.File, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := f.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, errors.New("flashops: short read")
		}
	}
	return total, nil
}
