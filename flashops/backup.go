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

// Package flashops implements the three flash-region pipelines spec.md
// §4.5 describes: backing a region up to a file, erasing it, and
// programming it from a file (C5).
package flashops

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/Ondulab/CISYNTH-CIS-Bootloader/progress"
	"github.com/Ondulab/CISYNTH-CIS-Bootloader/system"
)

// DefaultChunkSize is the read/write chunk used when streaming flash to
// or from a file. Larger is strictly a throughput win, never a
// correctness one (spec.md §9).
const DefaultChunkSize = 2048

// Backup copies size bytes of region's flash contents to dstPath
// (spec.md §4.5.1). If dstPath already exists, Backup returns nil
// without reading flash again — once a backup is committed it is never
// overwritten. Streaming goes to a temporary name first, with an
// atomic rename on completion, so a backup file is either absent or
// complete; a crash mid-backup can never promote a partial file.
func Backup(flash system.FlashDriver, fs system.Filesystem, region system.Region, size uint32, dstPath string, tracker *progress.Tracker, phase int) error {
	if _, err := fs.Stat(dstPath); err == nil {
		log.WithField("path", dstPath).Debug("flashops: backup already present, skipping")
		return nil
	}

	tmpPath := dstPath + ".tmp"
	out, err := fs.Open(tmpPath, true, true)
	if err != nil {
		return errors.Wrap(err, "flashops: opening backup tmp file")
	}

	buf := make([]byte, DefaultChunkSize)
	var written uint32
	addr := region.StartAddr
	for written < size {
		chunk := uint32(len(buf))
		if remaining := size - written; remaining < chunk {
			chunk = remaining
		}
		n, err := flash.ReadAt(buf[:chunk], addr)
		if err != nil || uint32(n) != chunk {
			out.Close()
			if err == nil {
				err = errors.Errorf("short read: %d of %d bytes at 0x%08x", n, chunk, addr)
			}
			return errors.Wrap(err, "flashops: reading flash for backup")
		}
		if _, err := out.Write(buf[:chunk]); err != nil {
			out.Close()
			return errors.Wrap(err, "flashops: writing backup tmp file")
		}
		addr += chunk
		written += chunk
		if tracker != nil {
			tracker.Update(phase, int(written), int(size))
		}
	}

	if err := out.Close(); err != nil {
		return errors.Wrap(err, "flashops: closing backup tmp file")
	}
	if err := fs.Rename(tmpPath, dstPath); err != nil {
		return errors.Wrap(err, "flashops: committing backup file")
	}
	log.WithField("path", dstPath).Info("flashops: backup complete")
	return nil
}
