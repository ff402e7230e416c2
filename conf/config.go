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

// Package conf holds the paths and naming conventions spec.md §6 and §9
// call out as hard-coded in the original firmware. They are fields on a
// struct, not package-level constants, so host simulation and tests can
// override them the way the teacher's conf.MenderConfig is overridden
// from a config file — except there is no config file on this target;
// Default() is the production path.
package conf

// Config holds every path and naming convention the bootloader core
// needs that isn't supplied by a hardware driver.
type Config struct {
	// SearchDir is the directory scanned for a package file (C7).
	SearchDir string
	// PackagePrefix and PackageExt select which file in SearchDir is
	// the package (C7).
	PackagePrefix string
	PackageExt    string

	// BackupAPath and BackupBPath are where region A/B backups are
	// kept (C5.1).
	BackupAPath string
	BackupBPath string

	// ExternalDataPath is the destination of the extracted auxiliary
	// data (C6). spec.md §9 calls this out explicitly as something
	// that should be configurable rather than hard-coded.
	ExternalDataPath string

	// CRCChunkSize is the buffer size used when streaming the package
	// through the CRC accumulator. FlashChunkSize is not read by any
	// package: flashops and extract stream in their own DefaultChunkSize
	// (2048-byte) chunks.
	CRCChunkSize   int
	FlashChunkSize int
}

// Default returns the production configuration, matching the paths the
// original firmware used (spec.md §6).
func Default() Config {
	return Config{
		SearchDir:        "/firmware",
		PackagePrefix:    "cis_package_",
		PackageExt:       ".bin",
		BackupAPath:      "/firmware/backup_A.bin",
		BackupBPath:      "/firmware/backup_B.bin",
		ExternalDataPath: "/External_MAX8.tar.gz",
		CRCChunkSize:     2048,
		FlashChunkSize:   2048,
	}
}
