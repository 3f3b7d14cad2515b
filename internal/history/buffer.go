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

// Package history holds the rolling amplitude record and the two-stage
// hysteretic contact / end-of-contact detector built over it.
package history

import (
	"errors"

	"sawsense/internal/sample"
	"sawsense/internal/trace"
)

// LongtermSize is the capacity of the ring buffer: 90 s of history at
// 2 ms per averaged amplitude. Must stay a multiple of 250 so the
// optional trace window always lands on a burst boundary.
const LongtermSize = 45000

// TriggerDelta is the minimum absolute amplitude step that arms the
// contact sub-machine.
const TriggerDelta = 2

// RestoreDelta is the minimum amplitude recovery that arms the
// end-of-contact sub-machine.
const RestoreDelta = 2

// MinAlertSamples is the Alert dwell (≈300 ms at 2 ms/sample) after
// which end-of-contact forces a clear regardless of signal, so Alert
// never latches indefinitely. A genuine release confirmed by the
// two-stage check clears earlier than this.
const MinAlertSamples = 150

// maxEvents bounds the most-recent-first detection event history.
const maxEvents = 10

func init() {
	if LongtermSize%250 != 0 {
		panic("history: LongtermSize must be a multiple of 250")
	}
}

// ErrModeMisuse is returned by EndContactCheck when it is called with no
// recorded detection events. It is a logged warning, not a fatal error:
// callers must not lift it to the supervisor's error state.
var ErrModeMisuse = errors.New("end-of-contact requested with no detection events recorded")

// Event pairs the counter value at a confirmed contact with the
// amplitude observed at that instant.
type Event struct {
	Counter   uint32
	Amplitude uint8
}

// Buffer is the fixed-capacity ring of amplitude estimates plus the
// short list of recent detection events and the hysteresis latch shared
// by both detection sub-machines. It is mutated only by the acquisition
// ISR; see the package-level ownership notes in internal/cell.
type Buffer struct {
	longterm     [LongtermSize]uint8
	head         sample.Counter
	recentEvents [maxEvents]Event
	recentCount  int
	awaitConfirm bool
}

// CurrentWrapped returns the ring index of the most recently inserted
// amplitude.
func (b *Buffer) CurrentWrapped() uint32 {
	return b.head.WrappingAdd(0, LongtermSize)
}

// DetectionIdx returns the global counter value of the most recent
// insertion. Precondition: at least one insertion has occurred.
func (b *Buffer) DetectionIdx() uint32 {
	return b.head.Value() - 1
}

// Insert records a new amplitude at the head of the ring and advances
// the counter. It returns sample.ErrCounterOverflow if the counter is
// already saturated; callers must lift that to the supervisor's Error
// state rather than continuing to insert.
func (b *Buffer) Insert(amplitude uint8) error {
	newIdx := b.head.WrappingAdd(1, LongtermSize)
	b.longterm[newIdx] = amplitude
	if err := b.head.Increment(); err != nil {
		return err
	}
	if b.head.Value()%250 == 0 {
		first := b.head.WrappingSub(249, LongtermSize)
		trace.Debug("last 250 samples window starting at ring index %d", first)
	}
	return nil
}

// RecentEvents returns the prefix-packed slice of recorded detection
// events, most-recent-first, length at most 10.
func (b *Buffer) RecentEvents() []Event {
	return b.recentEvents[:b.recentCount]
}

func (b *Buffer) pushEvent(ev Event) {
	copy(b.recentEvents[1:], b.recentEvents[:maxEvents-1])
	b.recentEvents[0] = ev
	if b.recentCount < maxEvents {
		b.recentCount++
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// ContactCheck runs the contact sub-machine (Mode = Normal). It reports
// true exactly when this call confirms a new contact, in which case the
// event has already been pushed onto RecentEvents.
func (b *Buffer) ContactCheck() bool {
	// Until two amplitudes have been inserted, s1 is a ring slot that has
	// never been written; comparing against it would arm on boot.
	if b.head.Value() < 2 {
		return false
	}

	s0 := b.longterm[b.CurrentWrapped()]
	s1 := b.longterm[b.head.WrappingSub(1, LongtermSize)]
	s2 := b.longterm[b.head.WrappingSub(2, LongtermSize)]

	if !b.awaitConfirm {
		// ARMED
		if absDiff(s1, s0) >= TriggerDelta {
			b.awaitConfirm = true
		}
		return false
	}

	// PENDING: the latch always clears on the validation sample.
	b.awaitConfirm = false
	if absDiff(s2, s0) >= 1 {
		b.pushEvent(Event{Counter: b.head.Value(), Amplitude: s0})
		return true
	}
	return false
}

// EndContactCheck runs the end-of-contact sub-machine (Mode = Alert). It
// reports true exactly when this call confirms a release. ErrModeMisuse
// indicates the machine was entered with no recorded detection event;
// callers log it as a warning and treat it as no-clear, never as fatal.
func (b *Buffer) EndContactCheck() (cleared bool, err error) {
	if b.recentCount == 0 {
		return false, ErrModeMisuse
	}
	last := b.recentEvents[0]
	// last.Counter was recorded strictly before head, so this is a plain
	// unsigned difference in elapsed samples, not a ring-index wrap.
	elapsed := b.head.Value() - last.Counter
	s0 := b.longterm[b.CurrentWrapped()]

	if elapsed >= MinAlertSamples {
		b.awaitConfirm = false
		return true, nil
	}

	if !b.awaitConfirm {
		if absDiff(s0, last.Amplitude) >= RestoreDelta {
			b.awaitConfirm = true
		}
		return false, nil
	}

	// Validation clear check: the latch always clears here too.
	b.awaitConfirm = false
	if absDiff(s0, last.Amplitude) >= 1 {
		return true, nil
	}
	return false, nil
}
