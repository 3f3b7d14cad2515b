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

// Package supervisor holds the system mode (Normal / Alert / Error /
// Disabled), applies the transition table, and drives the status-light
// strategy. Transitions into Error or Disabled from an operating mode
// suspend the acquisition pipeline; transitions back out resume it.
package supervisor

import (
	"sawsense/internal/acquisition"
	"sawsense/internal/cell"
	"sawsense/internal/history"
	"sawsense/internal/led"
	"sawsense/internal/trace"
)

// NoLedPanicMsg is raised if a transition is requested before the LED
// strategy has been initialized, or while another context holds it.
const NoLedPanicMsg = "Unable to display state due to non-configured LEDs, or not available in mutex"

// ResetMsg is appended to every Error transition log line.
const ResetMsg = "\nSystem must be power cycled to restore normal operation."

// DisableMsg is appended to every Disabled transition log line.
const DisableMsg = "\nToggle the disable switch to resume normal operation."

// Excitation is the PWM channel producing the 100 kHz electrode drive.
// The rp2040 implementation lives in src/detect.
type Excitation interface {
	Enable()
	Disable()
}

// status pairs the current mode with the strategy that renders it. The
// pair lives in one cell so a mode can never be observed without the
// outputs that display it.
type status struct {
	mode led.Mode
	ctrl led.Strategy
}

var (
	statusLeds cell.Cell[*status]
	signalGen  cell.Cell[Excitation]

	ledStore    status
	ledInitDone bool
)

// InitLeds wires the chosen strategy into the supervisor. The initial
// mode is Alert, matching the initial drive the strategy constructors
// apply; SetNormal moves the system to Normal once bring-up completes.
// A second call is a warning, not a panic.
func InitLeds(ctrl led.Strategy) {
	var again bool
	cell.WithCriticalSection(func() {
		again = ledInitDone
		ledInitDone = true
	})
	if again {
		trace.Warn("Status LEDs have already been initiated")
		return
	}
	ledStore = status{mode: led.Alert, ctrl: ctrl}
	statusLeds.Put(&ledStore)
}

// InitSignal hands the excitation channel to the supervisor, which owns
// it from then on.
func InitSignal(e Excitation) {
	signalGen.Put(e)
}

// CurrentMode reports the mode without transitioning. ok is false
// before InitLeds.
func CurrentMode() (mode led.Mode, ok bool) {
	s, ok := statusLeds.Take()
	if !ok {
		return led.Error, false
	}
	mode = s.mode
	statusLeds.Put(s)
	return mode, true
}

// SetNormal transitions to Normal, resuming detection if the system was
// in Error or Disabled. An empty message logs as a bare state change.
func SetNormal(message string) {
	s, ok := statusLeds.Take()
	if !ok {
		panic(NoLedPanicMsg)
	}
	if message != "" {
		trace.Info("Resuming normal detection: %s", message)
	} else {
		trace.Warn("State changed to normal")
	}

	switch s.mode {
	case led.Error, led.Disabled:
		resumeDetection()
	}
	s.mode = s.ctrl.Apply(s.mode, led.Normal)
	statusLeds.Put(s)
}

// SetAlert transitions to Alert. msg is nil only for alerts raised
// outside the detection machine.
func SetAlert(msg *history.DetectionMsg) {
	s, ok := statusLeds.Take()
	if !ok {
		panic(NoLedPanicMsg)
	}
	if msg != nil {
		trace.Info("%s", msg.String())
	} else {
		trace.Warn("Unknown alert raised!")
	}

	switch s.mode {
	case led.Error, led.Disabled:
		resumeDetection()
	}
	s.mode = s.ctrl.Apply(s.mode, led.Alert)
	statusLeds.Put(s)
}

// SetError transitions to Error, pausing detection if the system was
// operating. Error is operationally terminal: nothing in the firmware
// calls SetNormal afterwards, so recovery requires a power cycle.
func SetError(message string) {
	s, ok := statusLeds.Take()
	if !ok {
		panic(NoLedPanicMsg)
	}
	if message != "" {
		trace.Error("Error encountered during operation:\n%s%s", message, ResetMsg)
	} else {
		trace.Error("Unknown error encountered during operation.%s", ResetMsg)
	}

	switch s.mode {
	case led.Normal, led.Alert:
		pauseDetection()
	}
	s.mode = s.ctrl.Apply(s.mode, led.Error)
	statusLeds.Put(s)
}

// SetDisabled transitions to Disabled, pausing detection if the system
// was operating.
func SetDisabled(message string) {
	s, ok := statusLeds.Take()
	if !ok {
		panic(NoLedPanicMsg)
	}
	if message != "" {
		trace.Info("System has been disabled:\n%s%s", message, DisableMsg)
	} else {
		trace.Info("System has been disabled.%s", DisableMsg)
	}

	switch s.mode {
	case led.Normal, led.Alert:
		pauseDetection()
	}
	s.mode = s.ctrl.Apply(s.mode, led.Disabled)
	statusLeds.Put(s)
}

// pauseDetection disables the excitation drive and parks the pipeline:
// the active transfer is destructured into SavedConfig and the DMA cell
// is left empty. If the ISR already emptied the DMA cell (it holds the
// constituents itself, or a completion was missed) the saved config is
// whatever was parked last.
func pauseDetection() {
	trace.Debug("Disabling signal generation")
	pwm, ok := signalGen.Take()
	if !ok {
		panic("Unable to access PWM controls")
	}
	pwm.Disable()
	signalGen.Put(pwm)

	trace.Debug("Disabling FIFO readings/interrupts")
	transfer, ok := acquisition.ReadingsFIFO.Take()
	if !ok {
		trace.Warn("No active transfer to pause")
		return
	}
	ch, src, buf := transfer.Wait()
	acquisition.SavedConfig.Put(acquisition.Config{Channel: ch, Source: src, Buffer: buf})
}

// resumeDetection re-enables the excitation drive, rebuilds the
// transfer from the saved config, enables its completion interrupt and
// starts it.
func resumeDetection() {
	trace.Debug("Restoring signal generation")
	pwm, ok := signalGen.Take()
	if !ok {
		panic("Unable to access PWM controls")
	}
	pwm.Enable()
	signalGen.Put(pwm)

	trace.Debug("Restoring ADC readings and interrupts")
	cfg, ok := acquisition.SavedConfig.Take()
	if !ok {
		trace.Warn("Failed to restore FIFO config")
		return
	}
	cfg.Channel.EnableCompletionInterrupt()
	acquisition.ReadingsFIFO.Put(cfg.Start())
}
