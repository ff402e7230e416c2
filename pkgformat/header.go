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

// Package pkgformat parses the fixed 24-byte package header described
// in spec.md §3 and §6 (C3).
package pkgformat

import (
	"encoding/binary"
	"strings"

	"github.com/pkg/errors"
)

// HeaderSize is the fixed on-disk header length in bytes.
const HeaderSize = 24

// TrailerSize is the fixed trailing CRC length in bytes.
const TrailerSize = 4

// Magic is the required first four bytes of every package.
var Magic = [4]byte{'B', 'O', 'O', 'T'}

// ErrInvalidHeader is returned when the magic does not match. This
// aborts the update before any flash is touched (spec.md §4.3).
var ErrInvalidHeader = errors.New("pkgformat: invalid header magic")

// Header is the parsed form of the package's fixed 24-byte preamble.
type Header struct {
	SizeA      uint32
	SizeB      uint32
	SizeExt    uint32
	versionRaw [8]byte
}

// Version returns the header's version string with trailing NUL and
// space padding trimmed, per the original firmware's convention of
// always handing callers a clean, terminated string (see
// SPEC_FULL.md §D).
func (h Header) Version() string {
	return strings.TrimRight(string(h.versionRaw[:]), "\x00 ")
}

// TotalBodySize is the sum of the three body regions.
func (h Header) TotalBodySize() uint32 {
	return h.SizeA + h.SizeB + h.SizeExt
}

// ParseHeader decodes the fixed 24-byte header. All 32-bit fields are
// little-endian. A magic mismatch yields ErrInvalidHeader.
func ParseHeader(raw [HeaderSize]byte) (Header, error) {
	if raw[0] != Magic[0] || raw[1] != Magic[1] || raw[2] != Magic[2] || raw[3] != Magic[3] {
		return Header{}, ErrInvalidHeader
	}

	var h Header
	h.SizeA = binary.LittleEndian.Uint32(raw[4:8])
	h.SizeB = binary.LittleEndian.Uint32(raw[8:12])
	h.SizeExt = binary.LittleEndian.Uint32(raw[12:16])
	copy(h.versionRaw[:], raw[16:24])
	return h, nil
}

// Bytes serializes Header back into its 24-byte on-disk form. Bytes and
// ParseHeader round-trip {SizeA, SizeB, SizeExt, Version} (the 8 stored
// version bytes are written back unchanged; NewHeader pads them with
// NULs), per spec.md §8's parse∘serialize identity property.
func (h Header) Bytes() [HeaderSize]byte {
	var raw [HeaderSize]byte
	copy(raw[0:4], Magic[:])
	binary.LittleEndian.PutUint32(raw[4:8], h.SizeA)
	binary.LittleEndian.PutUint32(raw[8:12], h.SizeB)
	binary.LittleEndian.PutUint32(raw[12:16], h.SizeExt)
	copy(raw[16:24], h.versionRaw[:])
	return raw
}

// NewHeader builds a Header from sizes and a version string, NUL
// padding (or truncating) the version to 8 bytes.
func NewHeader(sizeA, sizeB, sizeExt uint32, version string) Header {
	h := Header{SizeA: sizeA, SizeB: sizeB, SizeExt: sizeExt}
	copy(h.versionRaw[:], version)
	return h
}
