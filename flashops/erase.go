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

// ErrEraseFailed is returned when a sector fails to erase. The region
// is irrecoverable at that point; recovery depends on the backup
// already having been taken and on the rollback orchestrator.
var ErrEraseFailed = errors.New("flashops: sector erase failed")

// Erase erases every sector covering size bytes of region, starting at
// region's start address, reporting progress by sector count (spec.md
// §4.5.2).
func Erase(flash system.FlashDriver, region system.Region, size uint32, tracker *progress.Tracker, phase int) error {
	sectorSize := flash.SectorSize()
	nSectors := (size + sectorSize - 1) / sectorSize
	bank := flash.BankOf(region.StartAddr)
	startSector := flash.SectorOf(region.StartAddr)

	for i := uint32(0); i < nSectors; i++ {
		sector := startSector + i
		if err := flash.EraseSector(bank, sector); err != nil {
			log.WithError(err).WithFields(log.Fields{"bank": bank, "sector": sector}).
				Error("flashops: sector erase failed")
			return errors.Wrapf(ErrEraseFailed, "sector %d in bank %d", sector, bank)
		}
		if tracker != nil {
			tracker.Update(phase, int(i+1), int(nSectors))
		}
	}
	return nil
}
