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

// Jumper transfers execution to an application image's vector table at
// regionBase. spec.md §9 models this as an opaque operation returning
// `!` (never returns); Go has no bottom type, so on real hardware this
// call does not return at all and any error return is theoretical. Host
// simulation implementations return a sentinel error so the harness can
// observe that a jump was requested and to which region, without
// actually transferring control.
type Jumper interface {
	JumpTo(regionBase uint32) error
}

// Resetter performs the unconditional device reset that follows every
// boot-mode decision (spec.md §7, §4.10). Like Jumper, on real hardware
// this never returns.
type Resetter interface {
	Reset() error
}
