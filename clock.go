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
	"runtime"
	"time"

	"github.com/pkg/errors"
)

// Epoch is the default reference point ⟨𝒆⟩ of identifiers, in milliseconds
// since Unix epoch. It is subtracted from the clock before packing.
const Epoch uint64 = 1637806706000

// SequenceBits is the default width of ⟨𝒔⟩, 4096 identifiers per millisecond.
const SequenceBits uint8 = 12

// upper bound of ⟨𝒔⟩ width, leaves 41 bits (~69 years) for ⟨𝒕⟩
const maxSequenceBits = 22

var (
	// ErrClockBeforeEpoch is the panic value when the clock reads before ⟨𝒆⟩
	ErrClockBeforeEpoch = errors.New("clock is before epoch")

	// ErrClockFailure is the panic value when the clock reports no time at all
	ErrClockFailure = errors.New("clock failure")

	// ErrLayout is the panic value of invalid layout configuration
	ErrLayout = errors.New("invalid layout")
)

// Config option of generators. Options are applied once at construction,
// the packing layout is immutable afterwards.
type Config func(*config)

// config is the clock and layout shared by generators
type config struct {
	layout Layout
	// wall clock in milliseconds since Unix epoch
	ticker func() uint64
	// yield processor while spinning for the next millisecond
	yield bool
}

func newConfig(opts []Config) config {
	c := config{
		layout: DefaultLayout,
		ticker: unixmilli,
	}

	for _, opt := range opts {
		opt(&c)
	}

	if err := c.layout.validate(); err != nil {
		panic(err)
	}

	return c
}

// WithEpoch configures the reference point ⟨𝒆⟩ in milliseconds since Unix epoch
func WithEpoch(ms uint64) Config {
	return func(c *config) {
		c.layout.Epoch = ms
	}
}

// WithSequenceBits configures the width of ⟨𝒔⟩. The value is in range 1..22.
// Narrow widths make the rollover of sequence frequent.
func WithSequenceBits(n uint8) Config {
	return func(c *config) {
		c.layout.SequenceBits = n
	}
}

// WithClock configures a custom wall clock, milliseconds since Unix epoch
func WithClock(ticker func() uint64) Config {
	return func(c *config) {
		c.ticker = ticker
	}
}

// WithClockUnix configures time.Now().UnixMilli() as wall clock
func WithClockUnix() Config {
	return func(c *config) {
		c.ticker = unixmilli
	}
}

// WithYield configures generator to yield the processor on each iteration of
// busy-wait for the next millisecond.
func WithYield() Config {
	return func(c *config) {
		c.yield = true
	}
}

func unixmilli() uint64 {
	return uint64(time.Now().UnixMilli())
}

// now reads the wall clock, the failing clock is fatal
func (c *config) now() uint64 {
	ms := c.ticker()
	if ms == 0 {
		panic(ErrClockFailure)
	}
	return ms
}

// since converts wall clock to ⟨𝒕⟩, panics if clock is before ⟨𝒆⟩ or
// exceeds the layout
func (c *config) since(ms uint64) uint64 {
	if ms < c.layout.Epoch {
		panic(errors.Wrapf(ErrClockBeforeEpoch, "%d ms < %d ms", ms, c.layout.Epoch))
	}

	t := ms - c.layout.Epoch
	if t > c.layout.MaxT() {
		panic(errors.Wrapf(ErrLayout, "timestamp %d overflows %d bits", t, 64-c.layout.SequenceBits))
	}

	return t
}

// spin waits until wall clock passes ms, returns the new clock value
func (c *config) spin(ms uint64) uint64 {
	now := c.now()
	for now <= ms {
		if c.yield {
			runtime.Gosched()
		}
		now = c.now()
	}
	return now
}
