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

package store

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/Ondulab/CISYNTH-CIS-Bootloader/system"
)

// FlashStore is the production Store (spec.md §4.1, C1): a single
// reserved flash sector holding one named entry. All names map to the
// same sector; FlashStore is sized for the bootloader's one-word
// persistent state, not general-purpose storage.
//
// Its own erase/write is not required to be atomic: a torn write simply
// returns whatever partial bytes are still in the sector, and it is the
// caller's job (datastore.DecodeState) to collapse anything that is not
// a recognized encoding to a safe default. This mirrors spec.md §4.1's
// "implementation freedom" note.
type FlashStore struct {
	Flash      system.FlashDriver
	SectorAddr uint32
	Size       uint32
}

func NewFlashStore(flash system.FlashDriver, sectorAddr uint32, size uint32) *FlashStore {
	return &FlashStore{Flash: flash, SectorAddr: sectorAddr, Size: size}
}

func (s *FlashStore) OpenRead(name string) (io.ReadCloser, error) {
	buf := make([]byte, s.Size)
	if _, err := s.Flash.ReadAt(buf, s.SectorAddr); err != nil {
		return nil, errors.Wrap(err, "flashstore: read sector")
	}
	return io.NopCloser(bytes.NewReader(buf)), nil
}

func (s *FlashStore) OpenWrite(name string) (WriteCloserCommitter, error) {
	return &flashStoreWriter{store: s}, nil
}

func (s *FlashStore) ReadAll(name string) ([]byte, error) {
	r, err := s.OpenRead(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (s *FlashStore) WriteAll(name string, data []byte) error {
	w, err := s.OpenWrite(name)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	return w.Commit()
}

func (s *FlashStore) Remove(name string) error {
	return s.eraseAndWrite(nil)
}

func (s *FlashStore) Close() error { return nil }

func (s *FlashStore) WriteTransaction(txnFunc func(txn Transaction) error) error {
	return txnFunc(s)
}

func (s *FlashStore) ReadTransaction(txnFunc func(txn Transaction) error) error {
	return txnFunc(s)
}

func (s *FlashStore) eraseAndWrite(data []byte) error {
	bank := s.Flash.BankOf(s.SectorAddr)
	sector := s.Flash.SectorOf(s.SectorAddr)
	if err := s.Flash.EraseSector(bank, sector); err != nil {
		return errors.Wrap(err, "flashstore: erase state sector")
	}

	padded := make([]byte, s.Size)
	for i := range padded {
		padded[i] = 0xFF
	}
	copy(padded, data)

	for off := uint32(0); off < s.Size; off += system.BlockSize {
		var block [system.BlockSize]byte
		copy(block[:], padded[off:off+system.BlockSize])
		if err := s.Flash.WriteBlock(s.SectorAddr+off, block); err != nil {
			return errors.Wrap(err, "flashstore: write state sector")
		}
	}
	log.Debug("flashstore: state sector rewritten")
	return nil
}

type flashStoreWriter struct {
	store *FlashStore
	buf   bytes.Buffer
}

func (w *flashStoreWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }
func (w *flashStoreWriter) Close() error                { return nil }
func (w *flashStoreWriter) Commit() error {
	return w.store.eraseAndWrite(w.buf.Bytes())
}

var _ Store = (*FlashStore)(nil)
