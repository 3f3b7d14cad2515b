//go:build rp2040

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

package detect

import (
	"device/rp"
	"machine"

	"sawsense/src/machine_x"
)

// ExcitationFreqHz is the electrode drive frequency.
const ExcitationFreqHz = 100_000

// excitationPin carries the square wave to the electrode driver,
// GPIO22 = PWM slice 3 channel A.
const excitationPin = machine.Pin(22)

// Excitation owns PWM slice 3, producing the 100 kHz 50%-duty drive.
// It satisfies the supervisor's excitation interface; only the
// supervisor touches it after Setup.
type Excitation struct {
	pwm *machine_x.PwmGroup
}

// SetupExcitation configures the slice for 100 kHz at 50% duty from the
// system clock and starts it.
func SetupExcitation() *Excitation {
	excitationPin.Configure(machine.PinConfig{Mode: machine.PinPWM})

	pwm := machine_x.PWM3
	pwm.SetDivMode(rp.PWM_CH0_CSR_DIVMODE_DIV)
	pwm.SetClockDiv(1, 0)
	top := machine.CPUFrequency()/ExcitationFreqHz - 1
	pwm.SetTop(top)
	pwm.Set(0, (top+1)/2)
	pwm.SetCounter(0)
	pwm.Enable(true)
	return &Excitation{pwm: pwm}
}

// Enable restores the drive.
func (e *Excitation) Enable() {
	e.pwm.Enable(true)
}

// Disable stops the drive, leaving the electrode unenergized.
func (e *Excitation) Disable() {
	e.pwm.Enable(false)
}

// Running reports whether the slice is actually counting, read back
// from the hardware. The calibration tool checks this before gating a
// measurement on the output.
func (e *Excitation) Running() bool {
	return e.pwm.IsEnabled()
}
