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

package idable_test

import (
	"math"
	"sync"
	"testing"

	"github.com/fogfish/idable"
	"github.com/fogfish/it/v2"
)

func TestSeq(t *testing.T) {
	seq := idable.NewSeq()

	it.Then(t).Should(
		it.Equal(seq.NextID(), 0),
		it.Equal(seq.NextID(), 1),
		it.Equal(seq.NextID(), 2),
	)
}

func TestSeqFrom(t *testing.T) {
	seq := idable.SeqFrom(1000)

	it.Then(t).Should(
		it.Equal(seq.NextID(), 1000),
		it.Equal(seq.NextID(), 1001),
	)
}

func TestSeqWrap(t *testing.T) {
	seq := idable.SeqFrom(math.MaxUint64)

	it.Then(t).Should(
		it.Equal(seq.NextID(), math.MaxUint64),
		it.Equal(seq.NextID(), 0),
	)
}

func TestSeqReset(t *testing.T) {
	seq := idable.SeqFrom(42)
	seq.NextID()
	seq.NextID()
	seq.Reset()

	it.Then(t).Should(
		it.Equal(seq.NextID(), 0),
		it.Equal(seq.NextID(), 1),
	)
}

func TestSeqConcurrent(t *testing.T) {
	const n, k = 8, 1000

	seq := idable.NewSeq()
	ids := make(chan uint64, n*k)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < k; j++ {
				ids <- seq.NextID()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[uint64]struct{}{}
	for id := range ids {
		seen[id] = struct{}{}
	}

	it.Then(t).Should(
		it.Equal(len(seen), n*k),
		it.Equal(seq.NextID(), n*k),
	)
}
