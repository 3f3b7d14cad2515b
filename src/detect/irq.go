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
	"device/arm"
	"device/rp"
	"machine"
	"runtime/interrupt"

	"sawsense/internal/isr"
)

// switchPollHz is the disable-switch sampling rate, one poll per 20 ms.
const switchPollHz = 50

// SetupInterrupts wires the DMA completion line to the acquisition
// handler and starts the SysTick-driven switch sampler. The completion
// interrupt for the burst channel itself is enabled separately, before
// the first transfer is armed.
func SetupInterrupts() {
	irq := interrupt.New(rp.IRQ_DMA_IRQ_0, func(i interrupt.Interrupt) {
		isr.HandleBurstCompletion()
	})
	irq.Enable()

	// The rp2040 runtime schedules off the 64-bit TIMER peripheral, so
	// SysTick is free for the switch sampler. Core clock source, 24-bit
	// reload.
	reload := machine.CPUFrequency()/switchPollHz - 1
	arm.SYST.SYST_RVR.Set(reload)
	arm.SYST.SYST_CVR.Set(0)
	arm.SYST.SYST_CSR.Set(arm.SYST_CSR_CLKSOURCE | arm.SYST_CSR_TICKINT | arm.SYST_CSR_ENABLE)
}

//export SysTick_Handler
func sysTickHandler() {
	isr.HandleSwitchTick()
}
