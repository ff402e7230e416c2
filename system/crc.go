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

// CRC32Accumulator is the hardware CRC accelerator contract: a
// resettable 32-bit accumulator fed 32-bit words, matching this MCU
// family's convention. The terminal XOR with 0xFFFFFFFF is applied by
// the caller (verify.Verify), not by the accumulator itself, since it
// is a property of the package tool's checksum convention rather than
// of the accelerator.
type CRC32Accumulator interface {
	// Reset clears the accumulator to its initial state.
	Reset()

	// Accumulate feeds data (treated as a stream of little-endian
	// 32-bit words) into the accumulator and returns the running value.
	// data need not be a multiple of 4 bytes; the accelerator accepts
	// the actual byte count of a short final chunk.
	Accumulate(data []byte) uint32
}
