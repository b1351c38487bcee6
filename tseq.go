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

TimestampSeq is timestamped sequence generator. It allocates identifiers
⟨𝒕, 𝒔⟩ using free-running sequence ⟨𝒔⟩ shared by all callers. When ⟨𝒔⟩
completes the cycle, the caller that observes ⟨𝒔⟩ = 0 waits until the wall
clock leaves the millisecond at which the previous cycle has started.

Identifiers are not guaranteed to be increasing. The order of ⟨𝒔⟩ reflects
arrival at the counter, not the wall clock.

Known race: ⟨𝒕⟩ is read after ⟨𝒔⟩ is taken and only the cycle boundary is
guarded. A cycle that spans a millisecond boundary followed by a cycle
completed within the same millisecond, or a caller preempted between taking
⟨𝒔⟩ and reading the clock, might produce equal identifiers. Use MonotonicSeq
if uniqueness is required under sustained load above 2ᵇ identifiers per
millisecond.
*/
type TimestampSeq struct {
	sequence atomic.Uint64
	// the wall clock millisecond when ⟨𝒔⟩ has wrapped to 0
	lastCycle atomic.Uint64
	config
}

// NewTimestampSeq creates timestamped sequence generator
func NewTimestampSeq(opts ...Config) *TimestampSeq {
	return &TimestampSeq{config: newConfig(opts)}
}

// Layout returns packing of identifiers
func (seq *TimestampSeq) Layout() Layout {
	return seq.layout
}

// NextID generates identifier ⟨𝒕, 𝒔⟩
func (seq *TimestampSeq) NextID() uint64 {
	s := (seq.sequence.Add(1) - 1) & seq.layout.Mask()
	now := seq.now()

	if s == 0 {
		if last := seq.lastCycle.Load(); last == now {
			now = seq.spin(last)
		}
		seq.ratchet(now)
	}

	return seq.layout.Join(seq.since(now), s)
}

// ratchet moves lastCycle forward to ms, it never goes backward
func (seq *TimestampSeq) ratchet(ms uint64) {
	for {
		last := seq.lastCycle.Load()
		if ms <= last || seq.lastCycle.CompareAndSwap(last, ms) {
			return
		}
	}
}
