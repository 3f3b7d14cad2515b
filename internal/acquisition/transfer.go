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

// Package acquisition owns the lifecycle of the burst-capture pipeline:
// one DMA channel continuously filling the single 4000-byte burst buffer
// from the ADC FIFO. The pipeline is always in exactly one of two
// states, an active Transfer held in ReadingsFIFO or an inactive Config
// held in SavedConfig. The rp2040 channel implementation lives in
// src/detect; everything here compiles on the host for tests.
package acquisition

import "sawsense/internal/avg"

// Source is the peripheral read target a transfer drains, in production
// the ADC sample FIFO.
type Source interface {
	// Addr is the bus address the DMA channel reads from.
	Addr() uintptr
}

// Channel abstracts the single DMA channel used for burst capture.
type Channel interface {
	// Arm programs the channel for one full burst from src into buf and
	// triggers it.
	Arm(src Source, buf *avg.Burst)
	// Ack acknowledges the channel's completion interrupt.
	Ack()
	// EnableCompletionInterrupt routes the channel's completion to the
	// acquisition interrupt line.
	EnableCompletionInterrupt()
}

// Config is the inactive pipeline: everything needed to rebuild a
// transfer after a pause. It lives in SavedConfig while detection is
// suspended.
type Config struct {
	Channel Channel
	Source  Source
	Buffer  *avg.Burst
}

// Start triggers the transfer described by the config.
func (c Config) Start() Transfer {
	c.Channel.Arm(c.Source, c.Buffer)
	return Transfer{cfg: c}
}

// Transfer is an in-flight (or, at ISR entry, just-completed) burst
// capture. The DMA engine owns the burst buffer until Wait is called.
type Transfer struct {
	cfg Config
}

// Wait acknowledges the completion and destructures the transfer into
// its constituents, returning buffer ownership to the caller. The
// hardware transfer is already complete when the completion interrupt
// fires; there is nothing to block on.
func (t Transfer) Wait() (Channel, Source, *avg.Burst) {
	t.cfg.Channel.Ack()
	return t.cfg.Channel, t.cfg.Source, t.cfg.Buffer
}
