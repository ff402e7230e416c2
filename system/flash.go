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

// Package system collects the contracts for the hardware and firmware
// collaborators the bootloader core depends on but does not implement:
// on-chip flash, the mass-storage filesystem, the CRC accelerator, the
// display, and the jump-to-application trampoline. Production firmware
// wires concrete MCU drivers against these interfaces; host builds wire
// the simulation backends in hostsim.go.
package system

// BlockSize is the flash write granularity this MCU family enforces:
// every program operation is exactly 32 bytes, 32-byte aligned.
const BlockSize = 32

// Region describes one on-chip flash image slot.
type Region struct {
	// StartAddr is the region's base address. Always a multiple of
	// BlockSize.
	StartAddr uint32
	// Capacity is the reserved size in bytes.
	Capacity uint32
}

// FlashDriver is the on-chip flash contract: sector erase, 32-byte
// programming with an internal verify+retry, and the address lookups
// a region's start address must be translated through before erasing.
// This interface is the "reliable write" primitive referenced throughout
// spec.md.
type FlashDriver interface {
	// SectorSize returns the erase granularity in bytes.
	SectorSize() uint32

	// SectorOf returns the sector index containing addr.
	SectorOf(addr uint32) uint32

	// BankOf returns the flash bank index containing addr. Callers
	// never compute a bank from an address threshold themselves; this
	// is the sole abstraction for that lookup (see spec.md §9).
	BankOf(addr uint32) int

	// EraseSector erases one sector in the given bank. Returns an error
	// if the sector could not be verified erased.
	EraseSector(bank int, sector uint32) error

	// WriteBlock reliably writes exactly BlockSize bytes at addr,
	// verifying the write and retrying internally up to a small bounded
	// number of attempts before giving up. addr must be BlockSize
	// aligned.
	WriteBlock(addr uint32, block [BlockSize]byte) error

	// ReadAt copies n bytes starting at addr out of the memory-mapped
	// flash region into dst. Used to stream a region into a backup
	// file.
	ReadAt(dst []byte, addr uint32) (int, error)
}
