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

// The detection firmware image. All functionality after bring-up lives
// in the interrupt handlers; the main context just sleeps between them.
package main

import (
	"device/arm"
	"time"

	"sawsense/src/pico"
)

func main() {
	// Give the console a moment to attach before the bring-up chatter.
	time.Sleep(1000 * time.Millisecond)

	if err := pico.Setup(); err != nil {
		panic("failed setup: " + err.Error())
	}

	for {
		arm.Asm("wfi")
	}
}
