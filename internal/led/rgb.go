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

// Rgb drives a common-anode RGB LED through two active-low control pins
// (red, green): Normal = green low, Alert = red and green low (yellow),
// Error = red low only, Disabled = both high (off). A third pin (blue,
// on the same package) is initialized high and left idle since this
// strategy only needs two colors.
type Rgb struct {
	red, green pin
}

// NewRgb wires the red/green control pins plus the idle third pin into
// an Rgb strategy and drives the initial Alert pattern.
func NewRgb(red, green, idle pin) *Rgb {
	idle.Set(true)
	r := &Rgb{red: red, green: green}
	r.drive(Alert)
	return r
}

func (r *Rgb) Apply(old, next Mode) Mode {
	r.drive(next)
	return next
}

func (r *Rgb) drive(m Mode) {
	switch m {
	case Normal:
		r.red.Set(true)
		r.green.Set(false)
	case Alert:
		r.red.Set(false)
		r.green.Set(false)
	case Error:
		r.red.Set(false)
		r.green.Set(true)
	case Disabled:
		r.red.Set(true)
		r.green.Set(true)
	}
}
