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

// Display is the set of screens the core drives (spec.md §6). Each call
// takes effect immediately and returns no value; the display driver and
// the higher-level screen routines it wraps are out of scope.
type Display interface {
	ShowVersion(version string)
	ShowProgress(percent int)
	ShowRestoring()
	ShowFailed()
	ShowTesting()
	ShowSuccess()
}
