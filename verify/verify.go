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

// Package verify streams a package file through the CRC accelerator
// and compares it against the trailing checksum (spec.md §4.4, C4).
package verify

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/Ondulab/CISYNTH-CIS-Bootloader/pkgformat"
	"github.com/Ondulab/CISYNTH-CIS-Bootloader/progress"
	"github.com/Ondulab/CISYNTH-CIS-Bootloader/system"
)

// ErrCRCMismatch is returned when the computed checksum does not match
// the package's trailer.
var ErrCRCMismatch = errors.New("verify: CRC mismatch")

// DefaultChunkSize is the buffer size streamed through the accumulator
// per read; spec.md §4.4 calls this "typically 512 or 2048".
const DefaultChunkSize = 2048

// Verify opens path, reads its trailing 4-byte little-endian CRC,
// resets crc, and streams every byte before the trailer through it in
// chunkSize chunks (the final chunk may be shorter). The accumulator's
// final value is XORed with 0xFFFFFFFF and compared against the
// trailer. Progress is reported on phase 1 of an 8-phase pipeline via
// tracker, matching spec.md §4.8.
func Verify(fs system.Filesystem, path string, crc system.CRC32Accumulator, chunkSize int, tracker *progress.Tracker) error {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	f, err := fs.Open(path, false, false)
	if err != nil {
		return errors.Wrap(err, "verify: opening package")
	}
	defer f.Close()

	size, err := f.Size()
	if err != nil {
		return errors.Wrap(err, "verify: stat package")
	}
	if size < pkgformat.TrailerSize {
		return errors.New("verify: package shorter than trailer")
	}

	crcPos := size - pkgformat.TrailerSize
	if _, err := f.Seek(crcPos, system.SeekStart); err != nil {
		return errors.Wrap(err, "verify: seeking to trailer")
	}
	trailer := make([]byte, pkgformat.TrailerSize)
	if _, err := readFull(f, trailer); err != nil {
		return errors.Wrap(err, "verify: reading trailer")
	}
	expected := binary.LittleEndian.Uint32(trailer)

	crc.Reset()

	if _, err := f.Seek(0, system.SeekStart); err != nil {
		return errors.Wrap(err, "verify: seeking to start")
	}

	streamLen := crcPos
	var read int64
	buf := make([]byte, chunkSize)
	var computed uint32
	for read < streamLen {
		want := int64(chunkSize)
		if remaining := streamLen - read; remaining < want {
			want = remaining
		}
		n, err := readFull(f, buf[:want])
		if err != nil {
			return errors.Wrap(err, "verify: reading package body")
		}
		computed = crc.Accumulate(buf[:n])
		read += int64(n)
		if tracker != nil {
			tracker.Update(1, int(read), int(streamLen))
		}
	}

	computed ^= 0xFFFFFFFF

	if computed != expected {
		return ErrCRCMismatch
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
			return total, errors.New("verify: short read")
		}
	}
	return total, nil
}
