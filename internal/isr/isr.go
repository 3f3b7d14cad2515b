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

// Package isr holds the bodies of the two interrupt handlers. The
// hardware vectors that invoke them live in src/detect; keeping the
// bodies here lets the whole detection path run under the host test
// toolchain against fake peripherals.
package isr

import (
	"sawsense/internal/acquisition"
	"sawsense/internal/avg"
	"sawsense/internal/history"
	"sawsense/internal/led"
	"sawsense/internal/supervisor"
	"sawsense/internal/trace"
)

// HandleBurstCompletion is the acquisition ISR body, entered once per
// DMA completion, roughly every 2 ms. Straight-line and bounded by the
// fixed burst size.
func HandleBurstCompletion() {
	transfer, ok := acquisition.ReadingsFIFO.Take()
	if !ok {
		supervisor.SetError("No ADC transfer in progress! Unable to collect latest readings")
		return
	}
	ch, src, buf := transfer.Wait()

	result := avg.Compute(buf)

	var (
		contact   bool
		cleared   bool
		insertErr error
		msg       history.DetectionMsg
	)
	buffers, ok := acquisition.Buffers.Take()
	if !ok {
		panic(history.NoBufferPanicMsg)
	}
	insertErr = buffers.Insert(result.Delta)
	if insertErr == nil {
		if mode, ok := supervisor.CurrentMode(); ok {
			switch mode {
			case led.Normal:
				contact = buffers.ContactCheck()
			case led.Alert:
				var err error
				cleared, err = buffers.EndContactCheck()
				if err != nil {
					trace.Warn("End contact detection was called before any detection events have occurred.")
				}
			case led.Error, led.Disabled:
				// detection gated off
			}
		}
		if contact {
			msg = history.CreateDetectionMsg(buffers)
		}
	}
	acquisition.Buffers.Put(buffers)

	if insertErr != nil {
		// Park the pipeline constituents in SavedConfig, where
		// resumeDetection looks for them; pauseDetection finds the DMA
		// cell empty and leaves them there. Then latch Error.
		acquisition.SavedConfig.Put(acquisition.Config{Channel: ch, Source: src, Buffer: buf})
		supervisor.SetError("Sample counter overflow! History timeline exhausted")
		return
	}

	if contact {
		supervisor.SetAlert(&msg)
	} else if cleared {
		supervisor.SetNormal("")
	}

	next := acquisition.Config{Channel: ch, Source: src, Buffer: buf}
	acquisition.ReadingsFIFO.Put(next.Start())
}
