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
	"testing"
	"time"

	"github.com/fogfish/idable"
	"github.com/fogfish/it/v2"
	"github.com/pkg/errors"
)

func TestLayoutSplitJoin(t *testing.T) {
	cases := map[uint8][]uint64{
		1:  {0, 1, 2, 3, 1 << 40},
		12: {0, 1, 0xfff, 0x1000, 0xfedcba9876},
		22: {0, 1, 0x3fffff, 0x400000, 1 << 41},
	}

	for bits, ids := range cases {
		layout := idable.Layout{Epoch: idable.Epoch, SequenceBits: bits}

		for _, id := range ids {
			ts, s := layout.Split(id)
			it.Then(t).Should(
				it.Equal(layout.Join(ts, s), id),
				it.Equal(layout.T(id), ts),
				it.Equal(layout.Seq(id), s),
				it.True(s <= layout.Mask()),
			)
		}
	}
}

func TestLayoutJoin(t *testing.T) {
	layout := idable.DefaultLayout

	it.Then(t).Should(
		it.Equal(layout.Mask(), 0xfff),
		it.Equal(layout.MaxT(), 1<<52-1),
		it.Equal(layout.Join(1, 1), 0x1001),
		it.Equal(layout.Join(1, 0x1001), 0x1001),
	)
}

func TestSplit(t *testing.T) {
	ts, s := idable.Split(0xabcdef123)

	it.Then(t).Should(
		it.Equal(ts, 0xabcdef),
		it.Equal(s, 0x123),
	)
}

func TestLayoutTime(t *testing.T) {
	layout := idable.DefaultLayout
	at := time.UnixMilli(int64(idable.Epoch) + 123456)
	id := layout.FromTime(at)

	it.Then(t).Should(
		it.Equal(layout.T(id), 123456),
		it.Equal(layout.Seq(id), 0),
		it.True(layout.Time(id).Equal(at)),
		it.Equal(layout.FromTime(time.Unix(0, 0)), 0),
	)
}

func TestLayoutTimestamp(t *testing.T) {
	layout := idable.DefaultLayout
	last := time.Date(9999, 12, 31, 23, 59, 59, 999000000, time.UTC)
	t9999 := uint64(last.UnixMilli()) - idable.Epoch

	a, errA := layout.Timestamp(layout.Join(123456, 1))
	b, errB := layout.Timestamp(layout.Join(t9999, layout.Mask()))
	_, errC := layout.Timestamp(layout.Join(t9999+1, 0))
	_, errD := layout.Timestamp(1<<64 - 1)
	_, errE := idable.Layout{Epoch: 1<<64 - 1, SequenceBits: 1}.Timestamp(2)

	it.Then(t).Should(
		it.Nil(errA),
		it.True(a.Equal(layout.Time(layout.Join(123456, 1)))),
		it.Nil(errB),
		it.True(b.Equal(last)),
		it.True(errors.Is(errC, idable.ErrTimeRange)),
		it.True(errors.Is(errD, idable.ErrTimeRange)),
		it.True(errors.Is(errE, idable.ErrTimeRange)),
	)
}

func TestLayoutTimeOfGenerated(t *testing.T) {
	seq := idable.NewTimestampSeq()

	before := time.Now().Truncate(time.Millisecond)
	id := seq.NextID()
	after := time.Now()

	at := seq.Layout().Time(id)

	it.Then(t).ShouldNot(
		it.True(at.Before(before)),
		it.True(at.After(after)),
	)
}
