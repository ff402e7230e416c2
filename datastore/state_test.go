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

package datastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ondulab/CISYNTH-CIS-Bootloader/store"
)

func TestReadStateDefaultsToNoneWhenUnset(t *testing.T) {
	s := store.NewMemStore()
	st, err := ReadState(s)
	require.NoError(t, err)
	assert.Equal(t, NONE, st)
}

func TestWriteThenReadRoundTrips(t *testing.T) {
	s := store.NewMemStore()
	for _, want := range []UpdateState{NONE, RECEIVED, TO_TEST, TESTING, DONE} {
		require.NoError(t, WriteState(s, want))
		got, err := ReadState(s)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestDecodeStateCollapsesTornValuesToNone(t *testing.T) {
	assert.Equal(t, NONE, DecodeState(nil))
	assert.Equal(t, NONE, DecodeState([]byte{0xFF})) // erased sector
	assert.Equal(t, NONE, DecodeState([]byte{0x00})) // zeroed sector
	assert.Equal(t, NONE, DecodeState([]byte{0x7F})) // arbitrary torn value
}

func TestWriteStateRejectsOutOfDomainValue(t *testing.T) {
	s := store.NewMemStore()
	err := WriteState(s, UpdateState(99))
	assert.Error(t, err)
}
