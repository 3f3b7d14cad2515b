//go:build rp2040 && rgb

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

package pico

import (
	"machine"

	"sawsense/internal/led"
)

// newStatusStrategy drives one common-anode RGB package through the
// red and green controls; the blue control idles high.
func newStatusStrategy() led.Strategy {
	for _, p := range []machine.Pin{ledPin0, ledPin1, ledPin2} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	}
	return led.NewRgb(ledPin0, ledPin1, ledPin2)
}
