//
//   Copyright 2012 Dmitry Kolesnikov, All Rights Reserved
//
//   Licensed under the Apache License, Version 2.0 (the "License");
//   you may not use this file except in compliance with the License.
//   You may obtain a copy of the License at
//
//       http://www.apache.org/licenses/LICENSE-2.0
//
//   Unless required by applicable law or agreed to in writing, software
//   distributed under the License is distributed on an "AS IS" BASIS,
//   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//   See the License for the specific language governing permissions and
//   limitations under the License.
//

package idable

import (
	"encoding/binary"
	"strconv"

	"github.com/pkg/errors"
)

// ErrMalformed is returned by decoders on invalid input
var ErrMalformed = errors.New("malformed identifier")

// the alphabet is sorted by ASCII, encoded strings preserve order of identifiers
const alphabet = ".0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz"

// 64 bits as 6-bit cells, the leading cell carries 4 bits
const encodedLen = 11

/*

String encodes identifier to lexicographically sortable string of 11 chars.
*/
func String(id uint64) string {
	b := make([]byte, encodedLen)
	for i := encodedLen - 1; i >= 0; i-- {
		b[i] = alphabet[id&0x3f]
		id >>= 6
	}
	return string(b)
}

/*

FromString decodes identifier from lexicographically sortable string.
*/
func FromString(val string) (uint64, error) {
	if len(val) != encodedLen {
		return 0, errors.Wrapf(ErrMalformed, "length %d of %q", len(val), val)
	}

	id := uint64(0)
	for i := 0; i < encodedLen; i++ {
		x, ok := decode64(val[i])
		if !ok {
			return 0, errors.Wrapf(ErrMalformed, "invalid char %q in %q", val[i], val)
		}
		if i == 0 && x > 0xf {
			return 0, errors.Wrapf(ErrMalformed, "%q overflows 64 bits", val)
		}
		id = id<<6 | x
	}

	return id, nil
}

func decode64(x byte) (uint64, bool) {
	switch {
	case x == '.':
		return 0, true
	case x >= '0' && x <= '9':
		return uint64(x-'0') + 1, true
	case x >= 'A' && x <= 'Z':
		return uint64(x-'A') + 11, true
	case x == '_':
		return 37, true
	case x >= 'a' && x <= 'z':
		return uint64(x-'a') + 38, true
	default:
		return 0, false
	}
}

// Bytes encodes identifier as 8 bytes big-endian, byte order preserves
// order of identifiers.
func Bytes(id uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, id)
	return b
}

// FromBytes decodes identifier from 8 bytes big-endian
func FromBytes(val []byte) (uint64, error) {
	if len(val) != 8 {
		return 0, errors.Wrapf(ErrMalformed, "%d bytes %v", len(val), val)
	}
	return binary.BigEndian.Uint64(val), nil
}

/*

Parse decodes identifier either from decimal or from encoded string. Input
of digits only is decimal. It makes Parse ambiguous for the rare encoded
strings made of digits only, e.g. String(1171221845949812801) is
"00000000000". Use FromString when the input is known to be encoded.
*/
func Parse(val string) (uint64, error) {
	if isDecimal(val) {
		id, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			return 0, errors.Wrapf(ErrMalformed, "%s", err)
		}
		return id, nil
	}

	return FromString(val)
}

func isDecimal(val string) bool {
	if len(val) == 0 {
		return false
	}
	for i := 0; i < len(val); i++ {
		if val[i] < '0' || val[i] > '9' {
			return false
		}
	}
	return true
}
