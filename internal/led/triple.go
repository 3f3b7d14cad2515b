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

package led

// Triple drives three discrete LEDs, exactly one high per mode:
// Normal=pin0, Alert=pin1, Error=pin2, Disabled=all low.
type Triple struct {
	normal, alert, error_ pin
}

// NewTriple wires three GPIO handles into a Triple strategy and drives
// the initial Alert pattern, matching the Alert transient every Mode
// starts in before Supervisor moves to Normal post-init.
func NewTriple(normal, alert, errorPin pin) *Triple {
	t := &Triple{normal: normal, alert: alert, error_: errorPin}
	t.drive(Alert)
	return t
}

func (t *Triple) Apply(old, next Mode) Mode {
	t.drive(next)
	return next
}

func (t *Triple) drive(m Mode) {
	t.normal.Set(m == Normal)
	t.alert.Set(m == Alert)
	t.error_.Set(m == Error)
}
