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
	"unsafe"
)

// electrodePin is the ADC0 input the electrode feeds, GPIO26.
const electrodePin = machine.Pin(26)

// adcClockHz is the fixed ADC conversion clock.
const adcClockHz = 48_000_000

// SampleRateHz is twice the excitation frequency so each excitation
// half-cycle lands in a known interleaved stream position modulo 4.
const SampleRateHz = 2 * ExcitationFreqHz

// ADCFifo is the acquisition source: the DMA channel drains the ADC
// sample FIFO at its bus address.
type ADCFifo struct{}

func (ADCFifo) Addr() uintptr {
	return uintptr(unsafe.Pointer(&rp.ADC.FIFO))
}

// SetupADC configures the ADC for continuous 8-bit sampling of the
// electrode at SampleRateHz, with the FIFO feeding DREQ_ADC. Sampling
// does not start until StartSampling, so the first DMA transfer can be
// armed against an empty FIFO.
func SetupADC() {
	machine.InitADC()
	electrodePin.Configure(machine.PinConfig{Mode: machine.PinAnalog})

	// AINSEL 0 = GPIO26, the only channel in the round-robin.
	rp.ADC.CS.ReplaceBits(0<<rp.ADC_CS_AINSEL_Pos, rp.ADC_CS_AINSEL_Msk, 0)

	// 8-bit shifted samples, DREQ on every sample.
	rp.ADC.FCS.Set(rp.ADC_FCS_EN | rp.ADC_FCS_DREQ_EN | rp.ADC_FCS_SHIFT |
		1<<rp.ADC_FCS_THRESH_Pos)

	// One conversion every adcClockHz/SampleRateHz cycles. The divider
	// adds one to INT, hence the -1.
	div := uint32(adcClockHz/SampleRateHz) - 1
	rp.ADC.DIV.Set(div << rp.ADC_DIV_INT_Pos)
}

// StartSampling begins free-running conversion.
func StartSampling() {
	rp.ADC.CS.SetBits(rp.ADC_CS_START_MANY)
}
