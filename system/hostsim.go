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

package system

import (
	"errors"
	"hash/crc32"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// ErrJumped is returned by HostJumper.JumpTo to signal, for host builds
// and tests, that a jump was requested. Production firmware never
// returns from a real jump.
var ErrJumped = errors.New("system: jump_to requested (host simulation)")

// HostFlash simulates on-chip flash with a plain byte slice, addressed
// from BaseAddr. It is a test/development double for FlashDriver, not a
// production driver.
type HostFlash struct {
	BaseAddr   uint32
	Sector     uint32
	Bank0Limit uint32 // addresses below this threshold belong to bank 0
	mem        []byte
}

// NewHostFlash allocates a simulated flash region of the given total
// size, erased (all 0xFF) at construction.
func NewHostFlash(baseAddr uint32, size uint32, sectorSize uint32, bank0Limit uint32) *HostFlash {
	mem := make([]byte, size)
	for i := range mem {
		mem[i] = 0xFF
	}
	return &HostFlash{BaseAddr: baseAddr, Sector: sectorSize, Bank0Limit: bank0Limit, mem: mem}
}

func (f *HostFlash) SectorSize() uint32 { return f.Sector }

func (f *HostFlash) SectorOf(addr uint32) uint32 {
	return (addr - f.BaseAddr) / f.Sector
}

func (f *HostFlash) BankOf(addr uint32) int {
	if addr < f.Bank0Limit {
		return 0
	}
	return 1
}

func (f *HostFlash) EraseSector(bank int, sector uint32) error {
	start := sector * f.Sector
	end := start + f.Sector
	if end > uint32(len(f.mem)) {
		return errors.New("system: erase sector out of range")
	}
	for i := start; i < end; i++ {
		f.mem[i] = 0xFF
	}
	log.WithFields(log.Fields{"bank": bank, "sector": sector}).Debug("host flash: sector erased")
	return nil
}

func (f *HostFlash) WriteBlock(addr uint32, block [BlockSize]byte) error {
	if addr%BlockSize != 0 {
		return errors.New("system: misaligned flash write address")
	}
	off := addr - f.BaseAddr
	if off+BlockSize > uint32(len(f.mem)) {
		return errors.New("system: write block out of range")
	}
	copy(f.mem[off:off+BlockSize], block[:])
	return nil
}

func (f *HostFlash) ReadAt(dst []byte, addr uint32) (int, error) {
	off := addr - f.BaseAddr
	if off > uint32(len(f.mem)) {
		return 0, errors.New("system: read out of range")
	}
	n := copy(dst, f.mem[off:])
	return n, nil
}

// HostFilesystem implements Filesystem on top of the host OS filesystem
// rooted at Root, the way a removable mass-storage volume would be
// mounted at a fixed path. Grounded on the teacher's store.DirStore
// rename-on-commit discipline (store/dirstore.go) generalized to a full
// read/write/seek/stat surface.
type HostFilesystem struct {
	Root string
}

func NewHostFilesystem(root string) *HostFilesystem {
	return &HostFilesystem{Root: root}
}

func (h *HostFilesystem) resolve(path string) string {
	return filepath.Join(h.Root, path)
}

type hostFile struct {
	f *os.File
}

func (hf *hostFile) Read(p []byte) (int, error)  { return hf.f.Read(p) }
func (hf *hostFile) Write(p []byte) (int, error) { return hf.f.Write(p) }
func (hf *hostFile) Close() error                { return hf.f.Close() }
func (hf *hostFile) Seek(offset int64, whence int) (int64, error) {
	return hf.f.Seek(offset, whence)
}
func (hf *hostFile) Size() (int64, error) {
	st, err := hf.f.Stat()
	if err != nil {
		return 0, err
	}
	return st.Size(), nil
}

func (h *HostFilesystem) Open(path string, write bool, truncate bool) (File, error) {
	flags := os.O_RDONLY
	if write {
		flags = os.O_RDWR | os.O_CREATE
		if truncate {
			flags |= os.O_TRUNC
		}
	}
	full := h.resolve(path)
	if write {
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(full, flags, 0o600)
	if err != nil {
		return nil, err
	}
	return &hostFile{f: f}, nil
}

func (h *HostFilesystem) Stat(path string) (DirEntry, error) {
	var st unix.Stat_t
	if err := unix.Stat(h.resolve(path), &st); err != nil {
		return DirEntry{}, err
	}
	return DirEntry{
		Name:  filepath.Base(path),
		IsDir: st.Mode&unix.S_IFMT == unix.S_IFDIR,
		Size:  st.Size,
	}, nil
}

func (h *HostFilesystem) Rename(oldPath, newPath string) error {
	return os.Rename(h.resolve(oldPath), h.resolve(newPath))
}

func (h *HostFilesystem) Remove(path string) error {
	return os.Remove(h.resolve(path))
}

func (h *HostFilesystem) ReadDir(dir string) ([]DirEntry, error) {
	entries, err := os.ReadDir(h.resolve(dir))
	if err != nil {
		return nil, err
	}
	out := make([]DirEntry, 0, len(entries))
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		out = append(out, DirEntry{Name: e.Name(), IsDir: e.IsDir(), Size: info.Size()})
	}
	return out, nil
}

// SoftwareCRC32 is a software stand-in for the hardware CRC accelerator,
// used by host builds and tests. It reproduces the accelerator's raw
// register behavior over the IEEE CRC-32 polynomial: Reset loads the
// register with the all-ones seed a real CRC peripheral resets to, and
// Accumulate runs the table update with no implicit final complement —
// unlike crc32.Update, which folds the terminal XOR into every call.
// The one terminal XOR belongs to the caller (verify.Verify), exactly
// as system.CRC32Accumulator's doc comment requires.
type SoftwareCRC32 struct {
	acc uint32
}

func (c *SoftwareCRC32) Reset() { c.acc = 0xFFFFFFFF }

func (c *SoftwareCRC32) Accumulate(data []byte) uint32 {
	crc := c.acc
	for _, b := range data {
		crc = crc32.IEEETable[byte(crc)^b] ^ (crc >> 8)
	}
	c.acc = crc
	return crc
}

// LogDisplay renders the five screens as structured log lines, a
// development stand-in for the real display driver.
type LogDisplay struct {
	log *log.Entry
}

func NewLogDisplay() *LogDisplay {
	return &LogDisplay{log: log.WithField("component", "display")}
}

func (d *LogDisplay) ShowVersion(version string) {
	d.log.WithField("version", version).Info("do not power off")
}
func (d *LogDisplay) ShowProgress(percent int) {
	d.log.WithField("percent", percent).Info("progress")
}
func (d *LogDisplay) ShowRestoring() { d.log.Info("restoring previous version") }
func (d *LogDisplay) ShowFailed()    { d.log.Warn("update failed") }
func (d *LogDisplay) ShowTesting()   { d.log.Info("testing new image, reboot pending") }
func (d *LogDisplay) ShowSuccess()   { d.log.Info("success, reboot pending") }

// HostJumper logs the jump request instead of transferring control, and
// HostResetter logs the reset instead of restarting the process. Both
// are development/test doubles.
type HostJumper struct{}

func (HostJumper) JumpTo(regionBase uint32) error {
	log.WithField("region_base", regionBase).Info("jump_to requested")
	return ErrJumped
}

type HostResetter struct{}

func (HostResetter) Reset() error {
	log.Info("reset requested")
	return nil
}
