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
	"bytes"
	"io"
	"os"
	"path"
	"strings"
)

// MemFilesystem is an in-memory Filesystem, the test double every
// package in this module uses in place of a real mass-storage volume —
// the role the teacher's store.MemStore plays for store.Store.
type MemFilesystem struct {
	files map[string][]byte
}

func NewMemFilesystem() *MemFilesystem {
	return &MemFilesystem{files: make(map[string][]byte)}
}

// PutFile seeds an entry directly, bypassing Open, for test setup.
func (m *MemFilesystem) PutFile(p string, data []byte) {
	cp := make([]byte, len(data))
	copy(cp, data)
	m.files[p] = cp
}

// GetFile returns the current contents of an entry, for test assertions.
func (m *MemFilesystem) GetFile(p string) ([]byte, bool) {
	v, ok := m.files[p]
	return v, ok
}

type memFile struct {
	fs       *MemFilesystem
	path     string
	buf      *bytes.Buffer
	writable bool
	pos      int64
	data     []byte
}

func (m *MemFilesystem) Open(p string, write bool, truncate bool) (File, error) {
	if write {
		existing := m.files[p]
		if truncate || existing == nil {
			existing = nil
		}
		buf := bytes.NewBuffer(append([]byte{}, existing...))
		return &memFile{fs: m, path: p, buf: buf, writable: true}, nil
	}
	data, ok := m.files[p]
	if !ok {
		return nil, os.ErrNotExist
	}
	return &memFile{fs: m, path: p, data: data}, nil
}

func (f *memFile) Read(p []byte) (int, error) {
	src := f.data
	if f.writable {
		src = f.buf.Bytes()
	}
	if f.pos >= int64(len(src)) {
		return 0, io.EOF
	}
	n := copy(p, src[f.pos:])
	f.pos += int64(n)
	return n, nil
}

func (f *memFile) Write(p []byte) (int, error) {
	if !f.writable {
		return 0, os.ErrPermission
	}
	cur := f.buf.Bytes()
	if f.pos < int64(len(cur)) {
		n := copy(cur[f.pos:], p)
		if n < len(p) {
			f.buf.Write(p[n:])
		}
	} else {
		if gap := f.pos - int64(len(cur)); gap > 0 {
			f.buf.Write(make([]byte, gap))
		}
		f.buf.Write(p)
	}
	f.pos += int64(len(p))
	return len(p), nil
}

func (f *memFile) Close() error {
	if f.writable {
		f.fs.files[f.path] = append([]byte{}, f.buf.Bytes()...)
	}
	return nil
}

func (f *memFile) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case SeekStart:
		base = 0
	case SeekCurrent:
		base = f.pos
	case SeekEnd:
		sz, err := f.Size()
		if err != nil {
			return 0, err
		}
		base = sz
	}
	f.pos = base + offset
	return f.pos, nil
}

func (f *memFile) Size() (int64, error) {
	if f.writable {
		return int64(f.buf.Len()), nil
	}
	return int64(len(f.data)), nil
}

func (m *MemFilesystem) Stat(p string) (DirEntry, error) {
	v, ok := m.files[p]
	if !ok {
		return DirEntry{}, os.ErrNotExist
	}
	return DirEntry{Name: path.Base(p), Size: int64(len(v))}, nil
}

func (m *MemFilesystem) Rename(oldPath, newPath string) error {
	v, ok := m.files[oldPath]
	if !ok {
		return os.ErrNotExist
	}
	m.files[newPath] = v
	delete(m.files, oldPath)
	return nil
}

func (m *MemFilesystem) Remove(p string) error {
	if _, ok := m.files[p]; !ok {
		return os.ErrNotExist
	}
	delete(m.files, p)
	return nil
}

func (m *MemFilesystem) ReadDir(dir string) ([]DirEntry, error) {
	dir = strings.TrimSuffix(dir, "/")
	var out []DirEntry
	seen := make(map[string]bool)
	for p, v := range m.files {
		d, name := path.Split(p)
		d = strings.TrimSuffix(d, "/")
		if d != dir {
			continue
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, DirEntry{Name: name, Size: int64(len(v))})
	}
	return out, nil
}
