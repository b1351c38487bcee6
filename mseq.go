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

import "go.uber.org/atomic"

/*

MonotonicSeq is strictly increasing variant of timestamped sequence. It uses
same layout as TimestampSeq but keeps the last identifier ⟨𝒕, 𝒔⟩ as single
word updated by compare-and-swap. The new millisecond starts ⟨𝒔⟩ from 0,
exhausted ⟨𝒔⟩ waits for the next millisecond. The clock that goes backward
is pinned to the last ⟨𝒕⟩.

Identifiers are unique and strictly increasing within the process.
*/
type MonotonicSeq struct {
	state atomic.Uint64
	config
}

// NewMonotonicSeq creates strictly increasing timestamped sequence generator
func NewMonotonicSeq(opts ...Config) *MonotonicSeq {
	return &MonotonicSeq{config: newConfig(opts)}
}

// Layout returns packing of identifiers
func (seq *MonotonicSeq) Layout() Layout {
	return seq.layout
}

// NextID generates identifier ⟨𝒕, 𝒔⟩
func (seq *MonotonicSeq) NextID() uint64 {
	mask := seq.layout.Mask()

	for {
		last := seq.state.Load()
		t := seq.since(seq.now())
		lt := seq.layout.T(last)

		var next uint64
		switch {
		case t > lt:
			next = seq.layout.Join(t, 0)
		case last&mask < mask:
			next = last + 1
		default:
			seq.spin(lt + seq.layout.Epoch)
			continue
		}

		if seq.state.CompareAndSwap(last, next) {
			return next
		}
	}
}
