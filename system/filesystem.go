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

import "io"

// Whence values for File.Seek, mirroring io.Seeker so callers can pass
// io.SeekStart/io.SeekCurrent/io.SeekEnd directly.
const (
	SeekStart   = io.SeekStart
	SeekCurrent = io.SeekCurrent
	SeekEnd     = io.SeekEnd
)

// DirEntry is one entry returned by Filesystem.ReadDir.
type DirEntry struct {
	Name  string
	IsDir bool
	Size  int64
}

// File is the minimal handle the package parser, verifier, flash
// programmer and extractor all need: read, write, seek and a size
// query. The mass-storage filesystem driver is explicitly out of scope
// (spec.md §1); this is the contract it must satisfy.
type File interface {
	io.Reader
	io.Writer
	io.Closer
	Seek(offset int64, whence int) (int64, error)
	Size() (int64, error)
}

// Filesystem is the FAT-like mass-storage contract: open, stat, rename,
// remove and directory listing over a removable volume.
type Filesystem interface {
	Open(path string, write bool, truncate bool) (File, error)
	Stat(path string) (DirEntry, error)
	Rename(oldPath, newPath string) error
	Remove(path string) error
	ReadDir(dir string) ([]DirEntry, error)
}
