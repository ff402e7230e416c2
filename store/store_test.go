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
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ondulab/CISYNTH-CIS-Bootloader/system"
)

func TestMemStore(t *testing.T) {
	testKey := "foo"
	testValue := []byte("bar")

	ms := NewMemStore()
	err := ms.WriteAll(testKey, testValue)
	assert.NoError(t, err)

	read, err := ms.ReadAll(testKey)
	assert.NoError(t, err)
	assert.Equal(t, testValue, read)

	err = ms.Remove(testKey)
	assert.NoError(t, err)

	read, err = ms.ReadAll(testKey)
	assert.Empty(t, read)
	assert.True(t, os.IsNotExist(err))

	err = ms.Close()
	assert.NoError(t, err)
}

func TestMemStoreOpenWriteIsInvisibleUntilCommit(t *testing.T) {
	ms := NewMemStore()
	w, err := ms.OpenWrite("foo")
	require.NoError(t, err)
	_, err = w.Write([]byte("bar"))
	require.NoError(t, err)

	_, err = ms.ReadAll("foo")
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, w.Commit())
	read, err := ms.ReadAll("foo")
	require.NoError(t, err)
	assert.Equal(t, []byte("bar"), read)
}

func TestFlashStore(t *testing.T) {
	const (
		sectorSize = 4096
		stateAddr  = uint32(sectorSize)
	)
	flash := system.NewHostFlash(0, 2*sectorSize, sectorSize, 2*sectorSize)
	fs := NewFlashStore(flash, stateAddr, sectorSize)

	// A never-written sector reads back fully erased.
	raw, err := fs.ReadAll("state")
	require.NoError(t, err)
	require.Len(t, raw, sectorSize)
	assert.Equal(t, byte(0xFF), raw[0])

	// Erase-then-write on change: the payload lands at the front of the
	// sector, the rest stays erased.
	require.NoError(t, fs.WriteAll("state", []byte{0x02}))
	raw, err = fs.ReadAll("state")
	require.NoError(t, err)
	assert.Equal(t, byte(0x02), raw[0])
	assert.Equal(t, byte(0xFF), raw[1])

	// Rewriting replaces the previous value entirely.
	require.NoError(t, fs.WriteAll("state", []byte{0x05}))
	raw, err = fs.ReadAll("state")
	require.NoError(t, err)
	assert.Equal(t, byte(0x05), raw[0])

	// Remove erases the sector back to blank.
	require.NoError(t, fs.Remove("state"))
	raw, err = fs.ReadAll("state")
	require.NoError(t, err)
	assert.Equal(t, byte(0xFF), raw[0])

	assert.NoError(t, fs.Close())
}

func TestFlashStoreOpenWriteCommitsOnCommitOnly(t *testing.T) {
	const sectorSize = 4096
	flash := system.NewHostFlash(0, sectorSize, sectorSize, sectorSize)
	fs := NewFlashStore(flash, 0, sectorSize)

	w, err := fs.OpenWrite("state")
	require.NoError(t, err)
	_, err = w.Write([]byte{0x03})
	require.NoError(t, err)

	raw, err := fs.ReadAll("state")
	require.NoError(t, err)
	assert.Equal(t, byte(0xFF), raw[0], "sector untouched before Commit")

	require.NoError(t, w.Commit())
	raw, err = fs.ReadAll("state")
	require.NoError(t, err)
	assert.Equal(t, byte(0x03), raw[0])
}

func TestDBStore(t *testing.T) {
	d := &DBStore{}
	_, err := d.ReadAll("foo")
	assert.EqualError(t, err, ErrDBStoreNotInitialized.Error())

	err = d.WriteAll("foo", []byte("bar"))
	assert.EqualError(t, err, ErrDBStoreNotInitialized.Error())

	d = NewDBStore("/nonexistent-dbstore-path/db")
	assert.Nil(t, d)

	d = NewDBStore(t.TempDir())
	require.NotNil(t, d)
	defer d.Close()

	_, err = d.ReadAll("foo")
	assert.Error(t, err)
	assert.True(t, os.IsNotExist(err))

	// write/read cycle with changing data
	for i := 0; i < 2; i++ {
		data := fmt.Sprintf("foobar-%v", i)
		err := d.WriteAll("foo", []byte(data))
		assert.NoError(t, err)

		read, err := d.ReadAll("foo")
		assert.NoError(t, err)
		assert.Equal(t, []byte(data), read)
	}

	assert.NoError(t, d.Remove("foo"))
	_, err = d.ReadAll("foo")
	assert.True(t, os.IsNotExist(err))

	// removing a missing entry is not an error
	assert.NoError(t, d.Remove("never-written"))
}
