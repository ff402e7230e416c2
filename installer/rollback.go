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
	log "github.com/sirupsen/logrus"

	"github.com/Ondulab/CISYNTH-CIS-Bootloader/flashops"
	"github.com/Ondulab/CISYNTH-CIS-Bootloader/progress"
	"github.com/Ondulab/CISYNTH-CIS-Bootloader/system"
)

// RollbackPhaseCount is the number of phases RunRollback drives,
// matching spec.md §4.9's four-phase pipeline.
const RollbackPhaseCount = 4

const (
	phaseRollbackEraseA = iota + 1
	phaseRollbackEraseB
	phaseRollbackProgramA
	phaseRollbackProgramB
)

// RunRollback restores region A and region B from the backups taken
// before the update that is being abandoned: erase A, erase B, program
// A from backup_A.bin, program B from backup_B.bin (spec.md §4.9). Each
// region is erased and reprogrammed to exactly the length of its own
// backup file, not to the region's full capacity, so a short A image
// can't force an unnecessary full-capacity erase of B or vice versa.
//
// If either backup is missing, RunRollback returns ErrNoBackup without
// touching flash: a half-restored device with no backup left to finish
// the job is worse than refusing outright (spec.md §5, S5).
func RunRollback(flash system.FlashDriver, fs system.Filesystem, regions Regions, tracker *progress.Tracker) error {
	backupA, err := fs.Stat(regions.BackupAPath)
	if err != nil {
		return ErrNoBackup
	}
	backupB, err := fs.Stat(regions.BackupBPath)
	if err != nil {
		return ErrNoBackup
	}

	log.WithFields(log.Fields{
		"backup_a_size": backupA.Size,
		"backup_b_size": backupB.Size,
	}).Warn("installer: rolling back to pre-update images")

	sizeA := uint32(backupA.Size)
	sizeB := uint32(backupB.Size)

	if err := flashops.Erase(flash, regions.A, sizeA, tracker, phaseRollbackEraseA); err != nil {
		return err
	}
	if err := flashops.Erase(flash, regions.B, sizeB, tracker, phaseRollbackEraseB); err != nil {
		return err
	}

	fA, err := fs.Open(regions.BackupAPath, false, false)
	if err != nil {
		return ErrNoBackup
	}
	defer fA.Close()

	var block [system.BlockSize]byte
	if err := flashops.Program(flash, regions.A.StartAddr, fA, sizeA, &block, tracker, phaseRollbackProgramA); err != nil {
		return err
	}

	fB, err := fs.Open(regions.BackupBPath, false, false)
	if err != nil {
		return ErrNoBackup
	}
	defer fB.Close()

	if err := flashops.Program(flash, regions.B.StartAddr, fB, sizeB, &block, tracker, phaseRollbackProgramB); err != nil {
		return err
	}

	return nil
}
