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

// Package installer ties the package format, verifier, flash
// operations and external-data extractor into the eight-phase update
// pipeline (C8) and the four-phase rollback pipeline (C9) spec.md §4.8
// and §4.9 describe.
package installer

import "github.com/pkg/errors"

// The tagged error kinds of spec.md §7. Orchestrators return the first
// non-nil error from any phase; callers distinguish kinds with
// errors.Is, never string matching.
var (
	ErrInvalidPackage = errors.New("installer: invalid package")
	ErrIO             = errors.New("installer: I/O failure")
	ErrNoBackup       = errors.New("installer: backup file missing")
)
