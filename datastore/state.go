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

// Package datastore holds the single persisted UpdateState (spec.md
// §3, §4.1, C1) and the helpers to read and write it through a
// store.Store.
package datastore

import (
	"os"

	"github.com/pkg/errors"

	"github.com/Ondulab/CISYNTH-CIS-Bootloader/store"
)

// UpdateState is the one-word enumeration recording the update phase
// across reboots.
type UpdateState uint8

const (
	// NONE: no update in flight; boot the app.
	NONE UpdateState = iota
	// RECEIVED: a package is present and awaits installation.
	RECEIVED
	// TO_TEST: newly programmed image not yet probed.
	TO_TEST
	// TESTING: the current boot is a probe boot.
	TESTING
	// DONE: the probed image confirmed itself.
	DONE
)

func (s UpdateState) String() string {
	switch s {
	case NONE:
		return "NONE"
	case RECEIVED:
		return "RECEIVED"
	case TO_TEST:
		return "TO_TEST"
	case TESTING:
		return "TESTING"
	case DONE:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// stateKey is the single entry name every UpdateState is stored under.
// FlashStore ignores names entirely (it only ever has one sector), but
// the other Store implementations are general-purpose key/value stores,
// so a stable name keeps them all interchangeable.
const stateKey = "update_state"

// encode maps a valid UpdateState to its one-byte on-media form. The
// encoding deliberately avoids 0xFF (erased flash) and 0x00 (often the
// result of a fully-zeroed torn write), so that both common torn-write
// patterns decode to NONE rather than to an arbitrary in-domain value.
var encode = map[UpdateState]byte{
	NONE:     0x01,
	RECEIVED: 0x02,
	TO_TEST:  0x03,
	TESTING:  0x04,
	DONE:     0x05,
}

var decode = map[byte]UpdateState{
	0x01: NONE,
	0x02: RECEIVED,
	0x03: TO_TEST,
	0x04: TESTING,
	0x05: DONE,
}

// DecodeState maps raw on-media bytes to an UpdateState. Any value that
// isn't a recognized encoding — including an erased sector (all 0xFF), a
// zeroed sector, or a torn write that landed between two valid values —
// collapses to NONE per spec.md §4.1's "recognizable blank pattern"
// requirement. This is what makes it safe for FlashStore's own
// erase+write sequence to be non-atomic.
func DecodeState(raw []byte) UpdateState {
	if len(raw) == 0 {
		return NONE
	}
	if s, ok := decode[raw[0]]; ok {
		return s
	}
	return NONE
}

// ReadState reads the persisted UpdateState. A missing entry (first
// boot, never yet written) is treated as NONE rather than an error.
func ReadState(s store.Store) (UpdateState, error) {
	raw, err := s.ReadAll(stateKey)
	if err != nil {
		if os.IsNotExist(err) {
			return NONE, nil
		}
		return NONE, errors.Wrap(err, "datastore: reading update state")
	}
	return DecodeState(raw), nil
}

// WriteState persists state durably. A successful return guarantees a
// subsequent ReadState (after this power cycle completes) returns the
// same value.
func WriteState(s store.Store, state UpdateState) error {
	b, ok := encode[state]
	if !ok {
		return errors.Errorf("datastore: refusing to persist out-of-domain state %v", state)
	}
	if err := s.WriteAll(stateKey, []byte{b}); err != nil {
		return errors.Wrap(err, "datastore: writing update state")
	}
	return nil
}
