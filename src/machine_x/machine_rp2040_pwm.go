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

// Package machine_x supplements the machine package with direct access
// to the RP2040 PWM slices: free-running output for the excitation
// drive and edge-counting input for the calibration tool, neither of
// which the stock PWM API exposes.
package machine_x

import (
	"device/rp"
	"runtime/volatile"
	"unsafe"
)

// PwmGroup is one PWM slice: a counter and two output channels (A and
// B). The B pin doubles as the counter clock in the edge-counting
// divider modes.
//
// csr: Clock mode. PWM_CH0_CSR_DIVMODE_xxx registers have 4 possible modes.
// csr contains the PWM enable bit at PWM_CH0_CSR_EN. If not enabled PWM will not be active.
//
// ctr: PWM counter value, 16 bits.
type PwmGroup struct {
	CSR volatile.Register32
	DIV volatile.Register32
	CTR volatile.Register32
	CC  volatile.Register32
	TOP volatile.Register32
}

// Equivalent of
//
//	var pwmSlice []PwmGroup = (*[8]PwmGroup)(unsafe.Pointer(rp.PWM))[:]
//	return &pwmSlice[index]
//
// 0x14 is the size of a PwmGroup.
func getPWMGroup(index uintptr) *PwmGroup {
	return (*PwmGroup)(unsafe.Add(unsafe.Pointer(rp.PWM), 0x14*index))
}

// The eight PWM slices of the RP2040.
var (
	PWM0 = getPWMGroup(0)
	PWM1 = getPWMGroup(1)
	PWM2 = getPWMGroup(2)
	PWM3 = getPWMGroup(3)
	PWM4 = getPWMGroup(4)
	PWM5 = getPWMGroup(5)
	PWM6 = getPWMGroup(6)
	PWM7 = getPWMGroup(7)
)

const (
	// these can be OR-ed together when calling SetEN_CH
	PWM_CH0 = 1 << iota
	PWM_CH1
	PWM_CH2
	PWM_CH3
	PWM_CH4
	PWM_CH5
	PWM_CH6
	PWM_CH7
)

// SetEN_CH sets or clears the enable bits for several slices in one
// register write, so their counters start in lockstep.
func SetEN_CH(channels, value uint32) {
	mask := ^(channels & 0xff)
	if value != 0 {
		value = channels
	} else {
		value = 0
	}
	old := rp.PWM.EN.Get()
	rp.PWM.EN.Set(old&mask | value)
}

// SetDivMode sets the mode for the PWM divider. The options are:
// rp.PWM_CH0_CSR_DIVMODE_DIV Free running
// rp.PWM_CH0_CSR_DIVMODE_FALL Increment on falling edge of B input
// rp.PWM_CH0_CSR_DIVMODE_LEVEL Increment when B is high
// rp.PWM_CH0_CSR_DIVMODE_RISE Increment on rising edge of B input
func (p *PwmGroup) SetDivMode(mode uint32) {
	p.CSR.ReplaceBits(mode<<rp.PWM_CH0_CSR_DIVMODE_Pos, rp.PWM_CH0_CSR_DIVMODE_Msk, 0)
}

// SetClockDiv sets the rational division factor for the pwm clock using 8+4
// fixed point. The integer part is clamped to at least 1.
func (p *PwmGroup) SetClockDiv(integerPart, frac uint32) {
	p.DIV.ReplaceBits((frac<<rp.PWM_CH0_DIV_FRAC_Pos)|
		u32max(integerPart, 1)<<rp.PWM_CH0_DIV_INT_Pos, rp.PWM_CH0_DIV_FRAC_Msk|rp.PWM_CH0_DIV_INT_Msk, 0)
}

// SetTop sets TOP control register. Max value is 16bit (0xffff).
//
// The counter wrap value is double-buffered in hardware: when the PWM
// is running, a write does not take effect until after the next time
// the slice wraps. If the PWM is not running, the write is latched in
// immediately.
func (p *PwmGroup) SetTop(top uint32) {
	p.TOP.ReplaceBits(top<<rp.PWM_CH0_TOP_CH0_TOP_Pos, rp.PWM_CH0_TOP_CH0_TOP_Msk, 0)
}

// Set updates the channel compare value, which controls the duty cycle:
// the output is high while the counter is below the value. Channel is 0
// for A, 1 for B. Double-buffered like TOP.
func (p *PwmGroup) Set(channel uint8, value uint32) {
	var pos uint8
	var mask uint32
	switch channel & 1 {
	case 0:
		pos = rp.PWM_CH0_CC_A_Pos
		mask = rp.PWM_CH0_CC_A_Msk
	case 1:
		pos = rp.PWM_CH0_CC_B_Pos
		mask = rp.PWM_CH0_CC_B_Msk
	}
	p.CC.ReplaceBits(uint32(uint16(value))<<pos, mask, 0)
}

// SetCounter sets the counter register. Useful for zeroing a slice
// before a gated measurement.
func (p *PwmGroup) SetCounter(ctr uint32) {
	p.CTR.Set(ctr)
}

// Counter returns the current counter value of this slice.
func (p *PwmGroup) Counter() uint32 {
	return (p.CTR.Get() & rp.PWM_CH0_CTR_CH0_CTR_Msk) >> rp.PWM_CH0_CTR_CH0_CTR_Pos
}

// Enable enables or disables this slice.
func (p *PwmGroup) Enable(enable bool) {
	p.CSR.ReplaceBits(boolToBit(enable)<<rp.PWM_CH0_CSR_EN_Pos, rp.PWM_CH0_CSR_EN_Msk, 0)
}

// IsEnabled returns true if the slice is running.
func (p *PwmGroup) IsEnabled() (enabled bool) {
	return (p.CSR.Get()&rp.PWM_CH0_CSR_EN_Msk)>>rp.PWM_CH0_CSR_EN_Pos != 0
}
