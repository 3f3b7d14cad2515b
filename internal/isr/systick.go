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
	"sawsense/internal/cell"
	"sawsense/internal/led"
	"sawsense/internal/supervisor"
)

// Switch is the debounced disable-switch input. machine.Pin satisfies
// this structurally.
type Switch interface {
	Get() bool
}

// DisableSwitch holds the switch handle between SysTick invocations.
var DisableSwitch cell.Cell[Switch]

// HandleSwitchTick is the SysTick ISR body, entered every ~20 ms. A
// high level while operating disables the system; releasing the switch
// from Disabled resumes it. Error is never left this way.
func HandleSwitchTick() {
	sw, ok := DisableSwitch.Take()
	if !ok {
		supervisor.SetError("Disable switch is not configured, or not available in mutex")
		return
	}
	engaged := sw.Get()
	DisableSwitch.Put(sw)

	mode, ok := supervisor.CurrentMode()
	if !ok {
		return
	}
	switch {
	case engaged && (mode == led.Normal || mode == led.Alert):
		supervisor.SetDisabled("Disable switch engaged")
	case !engaged && mode == led.Disabled:
		supervisor.SetNormal("Disable switch released")
	}
}
