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

// Package app implements the Boot-Mode Selector (C10), the single state
// machine that dispatches on the persisted UpdateState at every boot
// (spec.md §4.10).
package app

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/Ondulab/CISYNTH-CIS-Bootloader/conf"
	"github.com/Ondulab/CISYNTH-CIS-Bootloader/datastore"
	"github.com/Ondulab/CISYNTH-CIS-Bootloader/installer"
	"github.com/Ondulab/CISYNTH-CIS-Bootloader/locate"
	"github.com/Ondulab/CISYNTH-CIS-Bootloader/progress"
	"github.com/Ondulab/CISYNTH-CIS-Bootloader/store"
	"github.com/Ondulab/CISYNTH-CIS-Bootloader/system"
	"github.com/Ondulab/CISYNTH-CIS-Bootloader/verify"
)

// RunBootCycle executes exactly one entry of the C10 state machine
// (spec.md §4.10's table): it reads the persisted UpdateState, performs
// the one action that state calls for, and either jumps into region A
// or resets — it never does both, and it never loops internally. The
// caller (cmd/cisynth-bootloader, or the real reset vector on target)
// is expected to re-invoke RunBootCycle after every reset, which is how
// the multi-step transitions (RECEIVED→TO_TEST→TESTING→...) play out
// across reboots.
func RunBootCycle(
	s store.Store,
	flash system.FlashDriver,
	fs system.Filesystem,
	crc system.CRC32Accumulator,
	display system.Display,
	jumper system.Jumper,
	resetter system.Resetter,
	regions installer.Regions,
	cfg conf.Config,
) error {
	state, err := datastore.ReadState(s)
	if err != nil {
		return errors.Wrap(err, "app: reading persisted update state")
	}
	log.WithField("state", state).Info("app: boot-mode selector entry")

	switch state {
	case datastore.NONE:
		return jumper.JumpTo(regions.A.StartAddr)

	case datastore.RECEIVED:
		return runInstall(s, flash, fs, crc, display, resetter, regions, cfg)

	case datastore.TO_TEST:
		if err := datastore.WriteState(s, datastore.TESTING); err != nil {
			return err
		}
		display.ShowTesting()
		return jumper.JumpTo(regions.A.StartAddr)

	case datastore.TESTING:
		return runRollback(s, flash, fs, display, resetter, regions)

	case datastore.DONE:
		if err := datastore.WriteState(s, datastore.NONE); err != nil {
			return err
		}
		display.ShowSuccess()
		return resetter.Reset()

	default:
		return errors.Errorf("app: unrecognized persisted update state %v", state)
	}
}

// runInstall drives the RECEIVED row of spec.md §4.10: locate the
// package, run the update pipeline, and persist the outcome. A missing
// package file is treated the same as any failure other than a CRC
// mismatch or an invalid package: the state is left unchanged
// (RECEIVED) so the next boot retries once a package reappears.
func runInstall(
	s store.Store,
	flash system.FlashDriver,
	fs system.Filesystem,
	crc system.CRC32Accumulator,
	display system.Display,
	resetter system.Resetter,
	regions installer.Regions,
	cfg conf.Config,
) error {
	pkgPath, err := locate.FindPackage(fs, cfg.SearchDir, cfg.PackagePrefix, cfg.PackageExt)
	if err != nil {
		log.WithError(err).Warn("app: RECEIVED with no package file present")
		display.ShowFailed()
		return resetter.Reset()
	}

	tracker := progress.NewTracker(installer.UpdatePhaseCount, display)
	header, err := installer.RunUpdate(flash, fs, crc, regions, pkgPath, cfg.CRCChunkSize, tracker)
	if err != nil {
		if errors.Is(err, verify.ErrCRCMismatch) || errors.Is(err, installer.ErrInvalidPackage) {
			// A corrupt or malformed package is rejected permanently,
			// never retried (spec.md §7's CRCMismatch rationale, and
			// §8 scenario S2's bad-magic case: persist NONE rather than
			// leaving RECEIVED to retry a package that can never parse).
			if werr := datastore.WriteState(s, datastore.NONE); werr != nil {
				return werr
			}
		}
		log.WithError(err).Error("app: update pipeline failed")
		display.ShowFailed()
		return resetter.Reset()
	}

	display.ShowVersion(header.Version())
	display.ShowTesting()
	if err := datastore.WriteState(s, datastore.TO_TEST); err != nil {
		return err
	}
	return resetter.Reset()
}

// runRollback drives the TESTING row: a boot that observes TESTING
// means the previous probe crashed before writing DONE. Restoring from
// backup moves the state to TO_TEST rather than NONE, because the
// just-restored image is itself subject to a fresh probation (spec.md
// §4.10's rationale for the TO_TEST→TESTING→TO_TEST cycle). If the
// rollback itself cannot proceed (S5: a backup is missing), the state
// is left at TESTING untouched — there's nothing left to try next boot
// either, but re-attempting costs nothing and changing to a state that
// implies a still-valid image would be a lie.
func runRollback(
	s store.Store,
	flash system.FlashDriver,
	fs system.Filesystem,
	display system.Display,
	resetter system.Resetter,
	regions installer.Regions,
) error {
	display.ShowRestoring()
	tracker := progress.NewTracker(installer.RollbackPhaseCount, display)
	if err := installer.RunRollback(flash, fs, regions, tracker); err != nil {
		log.WithError(err).Error("app: rollback failed")
		display.ShowFailed()
		return resetter.Reset()
	}

	if err := datastore.WriteState(s, datastore.TO_TEST); err != nil {
		return err
	}
	display.ShowSuccess()
	return resetter.Reset()
}
