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
	"os"
	"path"

	"github.com/bmatsuo/lmdb-go/lmdb"
	"github.com/pkg/errors"
)

// DBStoreName is the file LMDB opens inside a host simulation's state
// directory.
const DBStoreName = "cisynth-bootloader-store"

var ErrDBStoreNotInitialized = errors.New("store: LMDB store not initialized")

// DBStore is a Store backed by LMDB. There is no LMDB on the embedded
// target (there is no filesystem library call that could host it
// either); this exists purely so the host-simulation harness
// (cmd/cisynth-bootloader) can persist UpdateState across process runs
// the same way the production FlashStore persists it across power
// cycles, without needing a raw flash array to back it.
type DBStore struct {
	env *lmdb.Env
}

type dbStoreWrite struct {
	dbs  *DBStore
	name string
	data bytes.Buffer
}

// NewDBStore opens (creating if necessary) an LMDB environment rooted
// at dirpath. Returns nil if initialization failed.
func NewDBStore(dirpath string) *DBStore {
	env, err := lmdb.NewEnv()
	if err != nil {
		return nil
	}
	if err := env.Open(path.Join(dirpath, DBStoreName), lmdb.NoSubdir, 0o600); err != nil {
		return nil
	}
	return &DBStore{env: env}
}

func (db *DBStore) Close() error {
	if db.env != nil {
		if err := db.env.Close(); err != nil {
			return errors.Wrap(err, "store: closing LMDB environment")
		}
		db.env = nil
	}
	return nil
}

func (db *DBStore) readBytes(name string) (*bytes.Buffer, error) {
	if db.env == nil {
		return nil, ErrDBStoreNotInitialized
	}
	var b *bytes.Buffer
	err := db.env.View(func(txn *lmdb.Txn) error {
		dbi, err := txn.OpenRoot(0)
		if err != nil {
			return err
		}
		data, err := txn.Get(dbi, []byte(name))
		if err != nil {
			return err
		}
		b = bytes.NewBuffer(data)
		return nil
	})
	if err != nil {
		if lmdb.IsNotFound(err) {
			return nil, os.ErrNotExist
		}
		return nil, errors.Wrapf(err, "store: reading entry %q", name)
	}
	return b, nil
}

func (db *DBStore) writeBytes(name string, data *bytes.Buffer) error {
	if db.env == nil {
		return ErrDBStoreNotInitialized
	}
	err := db.env.Update(func(txn *lmdb.Txn) error {
		dbi, err := txn.OpenRoot(0)
		if err != nil {
			return err
		}
		return txn.Put(dbi, []byte(name), data.Bytes(), 0)
	})
	if err != nil {
		return errors.Wrapf(err, "store: writing entry %q", name)
	}
	return nil
}

func (db *DBStore) OpenRead(name string) (io.ReadCloser, error) {
	b, err := db.readBytes(name)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(b), nil
}

func (db *DBStore) OpenWrite(name string) (WriteCloserCommitter, error) {
	return &dbStoreWrite{dbs: db, name: name}, nil
}

func (db *DBStore) ReadAll(name string) ([]byte, error) {
	b, err := db.readBytes(name)
	if err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (db *DBStore) WriteAll(name string, data []byte) error {
	return db.writeBytes(name, bytes.NewBuffer(data))
}

func (db *DBStore) Remove(name string) error {
	if db.env == nil {
		return ErrDBStoreNotInitialized
	}
	err := db.env.Update(func(txn *lmdb.Txn) error {
		dbi, err := txn.OpenRoot(0)
		if err != nil {
			return err
		}
		if err := txn.Del(dbi, []byte(name), nil); err != nil {
			if opErr, ok := err.(*lmdb.OpError); ok && opErr.Errno == lmdb.NotFound {
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "store: deleting entry %q", name)
	}
	return nil
}

func (db *DBStore) WriteTransaction(txnFunc func(txn Transaction) error) error {
	return NoTransactionSupport
}

func (db *DBStore) ReadTransaction(txnFunc func(txn Transaction) error) error {
	return NoTransactionSupport
}

func (w *dbStoreWrite) Write(data []byte) (int, error) { return w.data.Write(data) }
func (w *dbStoreWrite) Close() error                   { return nil }
func (w *dbStoreWrite) Commit() error {
	return w.dbs.writeBytes(w.name, &w.data)
}

// NoTransactionSupport is returned by stores (like DBStore) that don't
// implement multi-operation transactions.
var NoTransactionSupport = errors.New("store: no transaction support in this store")

var _ Store = (*DBStore)(nil)
