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

Seq is plain sequential number generator. It has no timestamp fraction, the
value wraps at 2⁶⁴.
*/
type Seq struct {
	value atomic.Uint64
}

// NewSeq creates sequence starting at 0
func NewSeq() *Seq {
	return &Seq{}
}

// SeqFrom creates sequence starting at initial value, e.g. persisted watermark
func SeqFrom(initial uint64) *Seq {
	seq := &Seq{}
	seq.value.Store(initial)
	return seq
}

// NextID returns current value and increments the sequence
func (seq *Seq) NextID() uint64 {
	return seq.value.Add(1) - 1
}

/*

Reset sets sequence to 0. The reset is not transactional, concurrent NextID
observes either value before or after reset.
*/
func (seq *Seq) Reset() {
	seq.value.Store(0)
}
