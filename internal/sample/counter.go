/*
 * Copyright 2025 Ted Dunning
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package sample holds the monotonic counter used as the time axis of the
// long-term amplitude history: every averaged burst advances it by one.
package sample

import (
	"errors"
	"math"
)

// ErrCounterOverflow is returned by Increment when the counter is already at
// its maximum value. A wrapping counter would invalidate the
// MIN_ALERT_SAMPLES arithmetic at the wrap point, so an overflow is a hard
// error rather than silent wraparound.
var ErrCounterOverflow = errors.New("sample counter overflow")

// Counter is a monotonic count of amplitudes inserted since boot. The
// source firmware uses a native `usize`; this port fixes the width at
// uint32, matching the 32-bit register width the rest of the acquisition
// path already works in (DMA TRANS_COUNT, TIMERAWL, ...). At 2 ms per
// amplitude a uint32 counter wraps after roughly 99 days of continuous
// operation, well past the point an Error transition should have surfaced
// the condition to an operator.
type Counter struct {
	value uint32
}

// Value returns the current counter value.
func (c Counter) Value() uint32 { return c.value }

// Increment advances the counter by one. It returns ErrCounterOverflow
// instead of wrapping if the counter is already at math.MaxUint32.
func (c *Counter) Increment() error {
	if c.value == math.MaxUint32 {
		return ErrCounterOverflow
	}
	c.value++
	return nil
}

// WrappingAdd returns (Value()+rhs) mod limit. limit must be > 0 and rhs
// must be < limit; the computation is total for any such rhs and any
// current value.
func (c Counter) WrappingAdd(rhs, limit uint32) uint32 {
	sum := uint64(c.value) + uint64(rhs)
	return uint32(sum % uint64(limit))
}

// WrappingSub returns (Value()-rhs) mod limit. limit must be > 0 and rhs
// must be < limit; the computation is total for any such rhs and any
// current value.
func (c Counter) WrappingSub(rhs, limit uint32) uint32 {
	v := uint64(c.value) % uint64(limit)
	l := uint64(limit)
	r := uint64(rhs)
	return uint32((v + l - r) % l)
}
