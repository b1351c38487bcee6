/*

  Copyright 2012 Dmitry Kolesnikov, All Rights Reserved

  Licensed under the Apache License, Version 2.0 (the "License");
  you may not use this file except in compliance with the License.
  You may obtain a copy of the License at

      http://www.apache.org/licenses/LICENSE-2.0

  Unless required by applicable law or agreed to in writing, software
  distributed under the License is distributed on an "AS IS" BASIS,
  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
  See the License for the specific language governing permissions and
  limitations under the License.

*/

package idable

import (
	"time"

	"github.com/pkg/errors"
)

/*

Layout is the packing of 64-bit identifier

	      64 - 𝒃 bit            𝒃 bit
	|---------------------|----------|
	        ⟨𝒕⟩                ⟨𝒔⟩

⟨𝒕⟩ is milliseconds since ⟨𝒆⟩ epoch, ⟨𝒔⟩ is sequence within the millisecond.
Consumers rely on the layout, it is fixed for the lifetime of generator.
*/
type Layout struct {
	// Epoch ⟨𝒆⟩ in milliseconds since Unix epoch
	Epoch uint64
	// SequenceBits is the width ⟨𝒃⟩ of ⟨𝒔⟩
	SequenceBits uint8
}

// ErrTimeRange is returned when ⟨𝒕⟩ of identifier is beyond year 9999
var ErrTimeRange = errors.New("time out of range")

// 9999-12-31T23:59:59.999Z
const maxUnixMilli = 253402300799999

// DefaultLayout is 12-bit ⟨𝒔⟩ relative to Epoch
var DefaultLayout = Layout{Epoch: Epoch, SequenceBits: SequenceBits}

func (l Layout) validate() error {
	if l.SequenceBits == 0 || l.SequenceBits > maxSequenceBits {
		return errors.Wrapf(ErrLayout, "sequence bits %d not in 1..%d", l.SequenceBits, maxSequenceBits)
	}
	return nil
}

// Mask of ⟨𝒔⟩ bits
func (l Layout) Mask() uint64 {
	return 1<<l.SequenceBits - 1
}

// MaxT is the largest ⟨𝒕⟩ that fits the layout
func (l Layout) MaxT() uint64 {
	return 1<<(64-l.SequenceBits) - 1
}

// Join packs ⟨𝒕⟩ and ⟨𝒔⟩ into identifier. Excess bits of ⟨𝒔⟩ are dropped.
func (l Layout) Join(t, seq uint64) uint64 {
	return t<<l.SequenceBits | seq&l.Mask()
}

/*

Split decomposes identifier to ⟨𝒕⟩ and ⟨𝒔⟩. It is exact inverse of Join.
*/
func (l Layout) Split(id uint64) (uint64, uint64) {
	return id >> l.SequenceBits, id & l.Mask()
}

// T returns ⟨𝒕⟩ fraction, milliseconds since ⟨𝒆⟩
func (l Layout) T(id uint64) uint64 {
	return id >> l.SequenceBits
}

// Seq returns ⟨𝒔⟩ fraction
func (l Layout) Seq(id uint64) uint64 {
	return id & l.Mask()
}

/*

Time converts ⟨𝒕⟩ fraction of identifier to wall clock time
*/
func (l Layout) Time(id uint64) time.Time {
	return time.UnixMilli(int64(l.T(id) + l.Epoch))
}

/*

Timestamp is Time of identifier that has RFC 3339 representation. Generators
never mint identifiers beyond year 9999 but any 64-bit value decodes to ⟨𝒕⟩.
*/
func (l Layout) Timestamp(id uint64) (time.Time, error) {
	t := l.T(id)
	if t > maxUnixMilli || l.Epoch > maxUnixMilli-t {
		return time.Time{}, errors.Wrapf(ErrTimeRange, "%d ms since %d ms", t, l.Epoch)
	}
	return time.UnixMilli(int64(t + l.Epoch)), nil
}

/*

FromTime returns the smallest identifier minted at time t. Times before ⟨𝒆⟩
map to zero. Use it as lower bound of range scans over keys.
*/
func (l Layout) FromTime(t time.Time) uint64 {
	ms := t.UnixMilli()
	if ms < 0 || uint64(ms) < l.Epoch {
		return 0
	}
	return l.Join(uint64(ms)-l.Epoch, 0)
}

// Split decomposes identifier of DefaultLayout to ⟨𝒕⟩ and ⟨𝒔⟩
func Split(id uint64) (uint64, uint64) {
	return DefaultLayout.Split(id)
}
