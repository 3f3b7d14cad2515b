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

package isr

import (
	"testing"

	"sawsense/internal/acquisition"
	"sawsense/internal/avg"
	"sawsense/internal/history"
	"sawsense/internal/led"
	"sawsense/internal/supervisor"
)

type fakeSource struct{}

func (fakeSource) Addr() uintptr { return 0 }

type fakeChannel struct {
	armed      int
	acked      int
	irqEnabled int
}

func (c *fakeChannel) Arm(src acquisition.Source, buf *avg.Burst) { c.armed++ }
func (c *fakeChannel) Ack()                                       { c.acked++ }
func (c *fakeChannel) EnableCompletionInterrupt()                 { c.irqEnabled++ }

type fakeExcitation struct {
	enabled  int
	disabled int
}

func (e *fakeExcitation) Enable()  { e.enabled++ }
func (e *fakeExcitation) Disable() { e.disabled++ }

type recordingStrategy struct {
	applied []led.Mode
}

func (r *recordingStrategy) Apply(old, next led.Mode) led.Mode {
	r.applied = append(r.applied, next)
	return next
}

type fakeSwitch struct {
	engaged bool
}

func (s *fakeSwitch) Get() bool { return s.engaged }

// fillBurst writes a burst whose aligned average reduces to exactly
// amplitude: two interleaved streams high, two at zero.
func fillBurst(buf *avg.Burst, amplitude uint8) {
	for i := range buf {
		if i%4 < 2 {
			buf[i] = amplitude
		} else {
			buf[i] = 0
		}
	}
}

func mustMode(t *testing.T, want led.Mode) {
	t.Helper()
	mode, ok := supervisor.CurrentMode()
	if !ok {
		t.Fatalf("supervisor not initialized")
	}
	if mode != want {
		t.Fatalf("mode = %v, want %v", mode, want)
	}
}

// Test_detectionFlow drives the full pipeline through the literal
// bring-up and contact scenarios, one ISR invocation per burst, against
// fake peripherals. The subtests share state and run in order, the same
// way the firmware only ever initializes once.
func Test_detectionFlow(t *testing.T) {
	strat := &recordingStrategy{}
	pwm := &fakeExcitation{}
	ch := &fakeChannel{}
	sw := &fakeSwitch{}

	supervisor.InitLeds(strat)
	supervisor.InitSignal(pwm)
	acquisition.InitBuffers()
	burst, ok := acquisition.CreateBurstBuffer()
	if !ok {
		t.Fatalf("burst buffer unavailable")
	}
	cfg := acquisition.Config{Channel: ch, Source: fakeSource{}, Buffer: burst}
	acquisition.ReadingsFIFO.Put(cfg.Start())
	DisableSwitch.Put(sw)

	inserts := uint32(0)
	fire := func(t *testing.T, amplitude uint8) {
		t.Helper()
		fillBurst(burst, amplitude)
		HandleBurstCompletion()
		inserts++
		if !acquisition.ReadingsFIFO.Peek() {
			t.Fatalf("ISR must rearm the transfer after amplitude %d", amplitude)
		}
	}

	recentEvents := func(t *testing.T) []history.Event {
		t.Helper()
		b, ok := acquisition.Buffers.Take()
		if !ok {
			t.Fatalf("history buffer cell empty")
		}
		events := append([]history.Event(nil), b.RecentEvents()...)
		acquisition.Buffers.Put(b)
		return events
	}

	t.Run("bring-up ends in Normal", func(t *testing.T) {
		supervisor.SetNormal("System initialization complete")
		mustMode(t, led.Normal)
	})

	t.Run("S1 flatline", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			fire(t, 128)
		}
		mustMode(t, led.Normal)
		if evs := recentEvents(t); len(evs) != 0 {
			t.Fatalf("flatline must record no events, got %d", len(evs))
		}
	})

	t.Run("S2 single spike", func(t *testing.T) {
		fire(t, 100)
		mustMode(t, led.Normal)
		fire(t, 128)
		mustMode(t, led.Normal)
		if evs := recentEvents(t); len(evs) != 0 {
			t.Fatalf("a single-sample excursion must not confirm contact")
		}
	})

	t.Run("S3 sustained contact", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			fire(t, 128)
		}
		fire(t, 100)
		mustMode(t, led.Normal)
		fire(t, 99)
		mustMode(t, led.Alert)
		evs := recentEvents(t)
		if len(evs) != 1 {
			t.Fatalf("want exactly one detection event, got %d", len(evs))
		}
		if evs[0].Amplitude != 99 {
			t.Fatalf("event amplitude = %d, want 99", evs[0].Amplitude)
		}
		if evs[0].Counter != inserts {
			t.Fatalf("event counter = %d, want head value %d", evs[0].Counter, inserts)
		}
	})

	t.Run("S4 forced Alert clear", func(t *testing.T) {
		for i := 0; i < 149; i++ {
			fire(t, 99)
			mustMode(t, led.Alert)
		}
		fire(t, 99)
		mustMode(t, led.Normal)
	})

	t.Run("S5 genuine release", func(t *testing.T) {
		// Back into contact first.
		for i := 0; i < 10; i++ {
			fire(t, 99)
		}
		fire(t, 70)
		fire(t, 69)
		mustMode(t, led.Alert)

		fire(t, 71)
		mustMode(t, led.Alert)
		fire(t, 80)
		mustMode(t, led.Normal)
	})

	t.Run("disable switch suspends and resumes", func(t *testing.T) {
		sw.engaged = true
		HandleSwitchTick()
		mustMode(t, led.Disabled)
		if acquisition.ReadingsFIFO.Peek() {
			t.Fatalf("DMA cell must be empty while disabled")
		}
		if !acquisition.SavedConfig.Peek() {
			t.Fatalf("saved-config cell must hold the paused pipeline")
		}
		if pwm.disabled != 1 {
			t.Fatalf("excitation must be disabled once, got %d", pwm.disabled)
		}

		// A second tick with the switch still held changes nothing.
		HandleSwitchTick()
		mustMode(t, led.Disabled)

		sw.engaged = false
		HandleSwitchTick()
		mustMode(t, led.Normal)
		if !acquisition.ReadingsFIFO.Peek() {
			t.Fatalf("DMA cell must hold the restarted transfer")
		}
		if pwm.enabled != 1 {
			t.Fatalf("excitation must be re-enabled once, got %d", pwm.enabled)
		}
		if ch.irqEnabled != 1 {
			t.Fatalf("completion interrupt must be re-enabled once, got %d", ch.irqEnabled)
		}
	})

	t.Run("S6 missing DMA transfer", func(t *testing.T) {
		sw.engaged = true
		HandleSwitchTick()
		mustMode(t, led.Disabled)
		pausedDisables := pwm.disabled

		// A straggler completion arrives with the pipeline parked.
		HandleBurstCompletion()
		mustMode(t, led.Error)
		if acquisition.ReadingsFIFO.Peek() {
			t.Fatalf("DMA cell must stay empty")
		}
		if !acquisition.SavedConfig.Peek() {
			t.Fatalf("saved-config cell must stay populated")
		}
		if pwm.disabled != pausedDisables {
			t.Fatalf("excitation already off; Error from Disabled must not touch it")
		}
	})

	t.Run("Error is terminal for the switch sampler", func(t *testing.T) {
		sw.engaged = false
		HandleSwitchTick()
		mustMode(t, led.Error)
	})

	t.Run("missing switch reports Error", func(t *testing.T) {
		DisableSwitch.Take()
		HandleSwitchTick()
		mustMode(t, led.Error)
	})
}
