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

package acquisition

import (
	"sawsense/internal/avg"
	"sawsense/internal/cell"
	"sawsense/internal/history"
	"sawsense/internal/trace"
)

// ReadingsFIFO holds the active burst transfer between ISR invocations.
// Empty exactly while the pipeline is paused (SavedConfig populated) or
// while the ISR is working on the completed transfer.
var ReadingsFIFO cell.Cell[Transfer]

// SavedConfig holds the pipeline constituents while detection is
// suspended in Error or Disabled.
var SavedConfig cell.Cell[Config]

// Buffers holds the long-term history singleton. Taken and returned by
// the acquisition ISR on every burst.
var Buffers cell.Cell[*history.Buffer]

// The statically-reserved singletons. LongtermSize amplitudes plus one
// burst; there is deliberately no way to get a second of either.
var (
	longtermStore   history.Buffer
	burstStore      avg.Burst
	buffersInitDone bool
	burstTaken      bool
)

// InitBuffers places the history singleton into its cell. A second call
// is a configured warning, not a panic, matching the one-shot init
// protocol used for the LED strategy.
func InitBuffers() {
	var again bool
	cell.WithCriticalSection(func() {
		again = buffersInitDone
		buffersInitDone = true
	})
	if again {
		trace.Warn("Buffers have already been initiated")
		return
	}
	Buffers.Put(&longtermStore)
}

// CreateBurstBuffer hands out the process-wide burst buffer. ok is
// false on any call after the first.
func CreateBurstBuffer() (buf *avg.Burst, ok bool) {
	var again bool
	cell.WithCriticalSection(func() {
		again = burstTaken
		burstTaken = true
	})
	if again {
		trace.Warn("Burst buffer has already been created")
		return nil, false
	}
	return &burstStore, true
}
