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

// cisynth-bootloader is a host-simulation harness for the C1-C10
// bootloader core: it wires host/software stand-ins for every hardware
// collaborator spec.md puts out of scope (flash, mass storage, CRC
// accelerator, display, jump-to-app, reset) and drives one boot-mode
// decision per invocation, the way a real reset vector would drive one
// per power cycle. Re-running the binary after each invocation plays
// out the multi-reboot state machine on a developer's workstation.
package main

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/Ondulab/CISYNTH-CIS-Bootloader/app"
	"github.com/Ondulab/CISYNTH-CIS-Bootloader/conf"
	"github.com/Ondulab/CISYNTH-CIS-Bootloader/installer"
	"github.com/Ondulab/CISYNTH-CIS-Bootloader/progress"
	"github.com/Ondulab/CISYNTH-CIS-Bootloader/store"
	"github.com/Ondulab/CISYNTH-CIS-Bootloader/system"
)

const (
	simFlashSize   = 2 * 1024 * 1024
	simSectorSize  = 16 * 1024
	simBank0Limit  = 1024 * 1024
	simStateSector = simFlashSize - simSectorSize
)

func runBootCycle(ctx *cli.Context) error {
	if level, err := log.ParseLevel(ctx.String("log-level")); err != nil {
		return errors.Wrap(err, "invalid --log-level")
	} else {
		log.SetLevel(level)
	}

	dataDir := ctx.String("data-dir")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return errors.Wrap(err, "creating --data-dir")
	}

	flash := system.NewHostFlash(0, simFlashSize, simSectorSize, simBank0Limit)
	fs := system.NewHostFilesystem(dataDir)
	crc := &system.SoftwareCRC32{}

	var display system.Display
	if ctx.Bool("progress-bar") {
		display = progressDisplay{sink: progress.NewCLISink(), base: system.NewLogDisplay()}
	} else {
		display = system.NewLogDisplay()
	}

	var st store.Store
	switch ctx.String("store") {
	case "flash":
		st = store.NewFlashStore(flash, simStateSector, simSectorSize)
	case "db":
		db := store.NewDBStore(dataDir)
		if db == nil {
			return errors.New("failed to initialize LMDB store")
		}
		defer db.Close()
		st = db
	default:
		return errors.Errorf("unknown --store kind %q", ctx.String("store"))
	}

	cfg := conf.Default()
	regions := installer.Regions{
		A:                system.Region{StartAddr: 0, Capacity: simBank0Limit},
		B:                system.Region{StartAddr: simBank0Limit, Capacity: simStateSector - simBank0Limit},
		BackupAPath:      cfg.BackupAPath,
		BackupBPath:      cfg.BackupBPath,
		ExternalDataPath: cfg.ExternalDataPath,
	}

	err := app.RunBootCycle(st, flash, fs, crc, display, system.HostJumper{}, system.HostResetter{}, regions, cfg)
	if errors.Is(err, system.ErrJumped) {
		log.Info("boot cycle ended in a simulated jump to application code")
		return nil
	}
	return err
}

// progressDisplay layers a terminal progress bar over LogDisplay's
// textual screens, the way the real display driver would show a bar
// alongside the "do not power off" banner.
type progressDisplay struct {
	sink *progress.CLISink
	base *system.LogDisplay
}

func (d progressDisplay) ShowVersion(version string) { d.base.ShowVersion(version) }
func (d progressDisplay) ShowProgress(percent int)    { d.sink.ShowProgress(percent) }
func (d progressDisplay) ShowRestoring()              { d.base.ShowRestoring() }
func (d progressDisplay) ShowFailed()                 { d.base.ShowFailed() }
func (d progressDisplay) ShowTesting()                { d.base.ShowTesting() }
func (d progressDisplay) ShowSuccess()                { d.base.ShowSuccess() }

func main() {
	cliApp := &cli.App{
		Name:  "cisynth-bootloader",
		Usage: "host simulation of the dual-core firmware update bootloader",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "data-dir",
				Value: "./runner-setup/bootloader-sim",
				Usage: "directory standing in for the mass-storage volume",
			},
			&cli.StringFlag{
				Name:  "store",
				Value: "db",
				Usage: "persistent UpdateState backend: 'flash' (simulated flash sector) or 'db' (LMDB)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "panic, fatal, error, warn, info, debug or trace",
			},
			&cli.BoolFlag{
				Name:  "progress-bar",
				Usage: "render progress as a terminal bar instead of log lines",
			},
		},
		Action: runBootCycle,
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}
