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

// Package locate finds the update package file in a known directory
// (spec.md §4.7, C7).
package locate

import (
	"path"
	"strings"

	"github.com/pkg/errors"

	"github.com/Ondulab/CISYNTH-CIS-Bootloader/system"
)

// ErrNotFound is returned when no matching package file exists. This is
// treated by the caller as the absence of an update, not a failure.
var ErrNotFound = errors.New("locate: no package file found")

// FindPackage scans the non-directory entries of searchDir and returns
// the path of the first whose basename starts with prefix and contains
// ext. Directory entries are skipped (spec.md §4.7).
func FindPackage(fs system.Filesystem, searchDir, prefix, ext string) (string, error) {
	entries, err := fs.ReadDir(searchDir)
	if err != nil {
		// A missing or unreadable search directory is absence of an
		// update, not a distinct failure mode (spec.md §4.7).
		return "", ErrNotFound
	}

	for _, e := range entries {
		if e.IsDir {
			continue
		}
		if strings.HasPrefix(e.Name, prefix) && strings.Contains(e.Name, ext) {
			return path.Join(searchDir, e.Name), nil
		}
	}
	return "", ErrNotFound
}
