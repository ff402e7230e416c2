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

package installer

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/Ondulab/CISYNTH-CIS-Bootloader/extract"
	"github.com/Ondulab/CISYNTH-CIS-Bootloader/flashops"
	"github.com/Ondulab/CISYNTH-CIS-Bootloader/pkgformat"
	"github.com/Ondulab/CISYNTH-CIS-Bootloader/progress"
	"github.com/Ondulab/CISYNTH-CIS-Bootloader/system"
	"github.com/Ondulab/CISYNTH-CIS-Bootloader/verify"
)

// UpdatePhaseCount is the number of phases RunUpdate drives, matching
// spec.md §4.8's eight-phase pipeline. Callers construct their
// progress.Tracker with this many phases.
const UpdatePhaseCount = 8

const (
	phaseVerify = iota + 1
	phaseBackupA
	phaseBackupB
	phaseEraseA
	phaseEraseB
	phaseProgramA
	phaseProgramB
	phaseExtractExternal
)

// RunUpdate drives the eight-phase update pipeline against packagePath:
// verify, back up A, back up B, erase A, erase B, program A, program B,
// extract auxiliary data (spec.md §4.8). It returns the parsed header
// (so the caller can show the version screen) and the first non-nil
// error from any phase. On any failure the package file is closed and
// the pipeline stops; RunUpdate never mutates persistent state itself —
// that is the boot-mode selector's job, around this call (spec.md
// §4.8's ordering rationale).
func RunUpdate(
	flash system.FlashDriver,
	fs system.Filesystem,
	crc system.CRC32Accumulator,
	regions Regions,
	packagePath string,
	chunkSize int,
	tracker *progress.Tracker,
) (pkgformat.Header, error) {
	f, err := fs.Open(packagePath, false, false)
	if err != nil {
		return pkgformat.Header{}, errors.Wrap(ErrIO, err.Error())
	}
	defer f.Close()

	if _, err := f.Seek(0, system.SeekStart); err != nil {
		return pkgformat.Header{}, errors.Wrap(ErrIO, err.Error())
	}
	var rawHeader [pkgformat.HeaderSize]byte
	if _, err := readFull(f, rawHeader[:]); err != nil {
		return pkgformat.Header{}, errors.Wrap(ErrIO, err.Error())
	}
	header, err := pkgformat.ParseHeader(rawHeader)
	if err != nil {
		// Magic mismatch: verify is never invoked, no flash is touched.
		return header, errors.Wrap(ErrInvalidPackage, err.Error())
	}
	if header.SizeA > regions.A.Capacity || header.SizeB > regions.B.Capacity {
		return header, errors.Wrap(ErrInvalidPackage, "image exceeds reserved region capacity")
	}

	log.WithFields(log.Fields{
		"size_a":   header.SizeA,
		"size_b":   header.SizeB,
		"size_ext": header.SizeExt,
		"version":  header.Version(),
	}).Info("installer: processing update package")

	if err := verify.Verify(fs, packagePath, crc, chunkSize, tracker); err != nil {
		return header, err
	}

	if err := flashops.Backup(flash, fs, regions.A, header.SizeA, regions.BackupAPath, tracker, phaseBackupA); err != nil {
		return header, err
	}
	if err := flashops.Backup(flash, fs, regions.B, header.SizeB, regions.BackupBPath, tracker, phaseBackupB); err != nil {
		return header, err
	}

	if err := flashops.Erase(flash, regions.A, header.SizeA, tracker, phaseEraseA); err != nil {
		return header, err
	}
	if err := flashops.Erase(flash, regions.B, header.SizeB, tracker, phaseEraseB); err != nil {
		return header, err
	}

	var block [system.BlockSize]byte

	if _, err := f.Seek(int64(pkgformat.HeaderSize), system.SeekStart); err != nil {
		return header, errors.Wrap(ErrIO, err.Error())
	}
	if err := flashops.Program(flash, regions.A.StartAddr, f, header.SizeA, &block, tracker, phaseProgramA); err != nil {
		return header, err
	}

	if _, err := f.Seek(int64(pkgformat.HeaderSize)+int64(header.SizeA), system.SeekStart); err != nil {
		return header, errors.Wrap(ErrIO, err.Error())
	}
	if err := flashops.Program(flash, regions.B.StartAddr, f, header.SizeB, &block, tracker, phaseProgramB); err != nil {
		return header, err
	}

	extOffset := int64(pkgformat.HeaderSize) + int64(header.SizeA) + int64(header.SizeB)
	if _, err := f.Seek(extOffset, system.SeekStart); err != nil {
		return header, errors.Wrap(ErrIO, err.Error())
	}
	if err := extract.ExternalData(fs, f, header.SizeExt, regions.ExternalDataPath, tracker, phaseExtractExternal); err != nil {
		return header, err
	}

	return header, nil
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
			return total, errors.New("installer: short read")
		}
	}
	return total, nil
}
