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

// Package pico brings the detection firmware up on the board: status
// lights first so every later failure can be shown, then the excitation
// generator, the ADC/DMA pipeline, the disable switch, and finally the
// interrupt vectors. After Setup returns, everything happens in the
// handlers.
package pico

import (
	"errors"
	"machine"

	"sawsense/internal/acquisition"
	"sawsense/internal/isr"
	"sawsense/internal/supervisor"
	"sawsense/src/detect"
)

// Status light outputs. With the rgb topology the same three pins are
// the red, green and blue controls of one common-anode package.
const (
	ledPin0 = machine.Pin(6)
	ledPin1 = machine.Pin(7)
	ledPin2 = machine.Pin(8)
)

// disableSwitchPin is the operator's disable switch, read every tick of
// the switch sampler. The rp2040 pads come out of reset with the
// schmitt trigger enabled, which is the debouncing the switch needs.
const disableSwitchPin = machine.Pin(9)

// Setup initializes the whole detection stack and moves the system to
// Normal. The status lights show Alert from the moment the LED strategy
// comes up until initialization completes.
func Setup() error {
	supervisor.InitLeds(newStatusStrategy())

	supervisor.InitSignal(detect.SetupExcitation())

	detect.SetupADC()
	acquisition.InitBuffers()
	burst, ok := acquisition.CreateBurstBuffer()
	if !ok {
		return errors.New("burst buffer has already been handed out")
	}
	ch, ok := detect.ClaimBurstChannel()
	if !ok {
		return errors.New("no free DMA channel for burst capture")
	}

	disableSwitchPin.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
	isr.DisableSwitch.Put(disableSwitchPin)

	detect.SetupInterrupts()
	ch.EnableCompletionInterrupt()

	// Arm the first transfer against a stopped ADC, then open the FIFO
	// so the first sample lands in a waiting transfer.
	cfg := acquisition.Config{Channel: ch, Source: detect.ADCFifo{}, Buffer: burst}
	acquisition.ReadingsFIFO.Put(cfg.Start())
	detect.StartSampling()

	supervisor.SetNormal("System initialization complete")
	return nil
}
