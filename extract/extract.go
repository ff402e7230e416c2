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

// Package extract copies the package's trailing auxiliary-data region
// out to a named file on the mass-storage volume (spec.md §4.6, C6).
package extract

import (
	"github.com/pkg/errors"

	"github.com/Ondulab/CISYNTH-CIS-Bootloader/progress"
	"github.com/Ondulab/CISYNTH-CIS-Bootloader/system"
)

// DefaultChunkSize matches flashops' and verify's buffer size.
const DefaultChunkSize = 2048

// ExternalData streams size bytes from the current position of src to
// dstPath, truncating dstPath first. An empty region (size == 0) still
// creates (or truncates) dstPath to zero length and returns nil, per
// spec.md §8's boundary behavior.
func ExternalData(fs system.Filesystem, src system.File, size uint32, dstPath string, tracker *progress.Tracker, phase int) error {
	dst, err := fs.Open(dstPath, true, true)
	if err != nil {
		return errors.Wrap(err, "extract: opening destination file")
	}
	defer dst.Close()

	if size == 0 {
		return nil
	}

	buf := make([]byte, DefaultChunkSize)
	var written uint32
	for written < size {
		chunk := uint32(len(buf))
		if remaining := size - written; remaining < chunk {
			chunk = remaining
		}
		n, err := readFull(src, buf[:chunk])
		if err != nil {
			return errors.Wrap(err, "extract: reading auxiliary data")
		}
		if _, err := dst.Write(buf[:n]); err != nil {
			return errors.Wrap(err, "extract: writing destination file")
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
			return total, errors.New("extract: short read")
		}
	}
	return total, nil
}
