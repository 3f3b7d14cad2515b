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

// Calibrate is a standalone firmware image, flashed instead of the
// detection firmware, that verifies the excitation generator against an
// external Si5351 reference before a board goes into service. Wiring:
// jumper GPIO22 (excitation out) to GPIO3, and the Si5351 CLK0 output
// to GPIO5. The operator types a line like
//
//	--tolerance 50ppm
//
// on the serial console to start a run. The excitation is counted on a
// PWM slice clocked by its B input, the reference through a PIO divider,
// both gated by the microsecond timer.
package main

import (
	"errors"
	"fmt"
	"machine"
	"strconv"
	"strings"
	"time"

	"device/rp"
	"github.com/chiefMarlin/tinygo-drivers/si5351"
	"github.com/google/shlex"
	pio "github.com/tinygo-org/pio/rp2-pio"

	"sawsense/src/calib"
	"sawsense/src/detect"
	"sawsense/src/machine_x"
)

// refFreqHz is the reference the Si5351 is asked to produce. One RX
// word from the PIO divider is 32 of these edges.
const refFreqHz = 1_000_000

// edgesPerWord matches the set x, 31 loop in the refdiv program.
const edgesPerWord = 32

// gate is how long counts are accumulated per measurement.
const gate = 500 * time.Millisecond

func main() {
	time.Sleep(1000 * time.Millisecond)
	fmt.Printf("excitation calibration, reference %d Hz\n", refFreqHz)

	tolerancePPM := readTolerance()
	fmt.Printf("tolerance: %.0f ppm\n", tolerancePPM)

	setupReference()
	excite := detect.SetupExcitation()
	if !excite.Running() {
		fmt.Printf("excitation slice failed to start; nothing to measure\n")
		machine.EnterBootloader()
	}

	counter := setupEdgeCounter()
	sm := setupRefDivider()

	measured, refWords := measure(counter, sm)
	expected := float64(detect.ExcitationFreqHz)
	ppm := (measured - expected) / expected * 1e6

	fmt.Printf("measured %.2f Hz over %d reference words\n", measured, refWords)
	fmt.Printf("deviation %.1f ppm, tolerance %.0f ppm\n", ppm, tolerancePPM)
	if ppm < 0 {
		ppm = -ppm
	}
	if ppm <= tolerancePPM {
		fmt.Printf("PASS\n")
	} else {
		fmt.Printf("FAIL\n")
	}
	machine.EnterBootloader()
}

// readTolerance blocks until the operator supplies a tolerance line.
// Unparseable lines are reported and skipped.
func readTolerance() float64 {
	for {
		line := readLine()
		ppm, err := parseTolerance(line)
		if err != nil {
			fmt.Printf("bad input %q: %s\n", line, err)
			continue
		}
		return ppm
	}
}

func readLine() string {
	var buf [80]byte
	n := 0
	for {
		b, err := machine.Serial.ReadByte()
		if err != nil {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		if b == '\r' || b == '\n' {
			if n > 0 {
				return string(buf[:n])
			}
			continue
		}
		if n < len(buf) {
			buf[n] = b
			n++
		}
	}
}

// parseTolerance pulls the --tolerance flag out of a shell-style line.
// The value takes an optional ppm suffix: "--tolerance 50ppm".
func parseTolerance(line string) (float64, error) {
	tokens, err := shlex.Split(line)
	if err != nil {
		return 0, err
	}
	for i := 0; i < len(tokens); i++ {
		if tokens[i] != "--tolerance" {
			continue
		}
		if i+1 >= len(tokens) {
			return 0, errors.New("--tolerance needs a value")
		}
		v := strings.TrimSuffix(tokens[i+1], "ppm")
		ppm, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, err
		}
		if ppm <= 0 {
			return 0, errors.New("tolerance must be positive")
		}
		return ppm, nil
	}
	return 0, errors.New("missing --tolerance")
}

// setupReference plans and programs the Si5351 for refFreqHz on CLK0.
func setupReference() {
	plan, err := calib.PlanReference(25e6, 0, refFreqHz)
	if err != nil {
		panic("unable to plan reference clock: " + err.Error())
	}

	err = machine.I2C0.Configure(machine.I2CConfig{})
	if err != nil {
		panic("Failed to configure I2C0")
	}

	clockgen := si5351.New(machine.I2C0)
	connected, err := clockgen.Connected()
	if err != nil {
		panic("Unable to read device status")
	}
	if !connected {
		panic("Unable to connect to SI5351 device")
	}
	if err := clockgen.Configure(); err != nil {
		panic("Unable to configure device")
	}

	mul, num, denom := plan.PLLDividers()
	if err := clockgen.ConfigurePLL(si5351.PLL_A, mul, num, denom); err != nil {
		panic("Unable to configure PLL")
	}
	div, dnum, ddenom := plan.MultisynthDividers()
	if err := clockgen.ConfigureMultisynth(0, si5351.PLL_A, div, dnum, ddenom); err != nil {
		panic(fmt.Errorf("unable to configure output %v", err))
	}
	fmt.Printf("Clock 0: %.3f kHz\n", plan.Frequency()/1e3)

	if err := clockgen.EnableOutputs(); err != nil {
		panic("Unable to enable outputs")
	}
}

// setupEdgeCounter puts PWM slice 1 into rising-edge counting mode on
// its B input, GPIO3, where the excitation output is jumpered.
func setupEdgeCounter() *machine_x.PwmGroup {
	machine.Pin(3).Configure(machine.PinConfig{Mode: machine.PinPWM})
	pwm := machine_x.PWM1
	machine_x.SetEN_CH(machine_x.PWM_CH1, 0)
	pwm.SetDivMode(rp.PWM_CH0_CSR_DIVMODE_RISE)
	pwm.SetClockDiv(1, 0)
	pwm.SetTop(0xffff)
	pwm.SetCounter(0)
	machine_x.SetEN_CH(machine_x.PWM_CH1, 1)
	return pwm
}

// setupRefDivider loads the refdiv program against the reference input
// on GPIO5 and starts it.
func setupRefDivider() pio.StateMachine {
	machine.Pin(5).Configure(machine.PinConfig{Mode: machine.PinInput})
	sm, err := pio.PIO0.ClaimStateMachine()
	if err != nil {
		panic("Failed to get PIO state machine")
	}
	if _, _, err := RefdivInit(sm); err != nil {
		fmt.Printf("Error adding PIO program: %s\n", err)
		machine.EnterBootloader()
	}
	sm.ClearFIFOs()
	sm.SetEnabled(true)
	return sm
}

// measure accumulates excitation edges and reference words over the
// gate and reduces them to a frequency. The 16-bit PWM counter can wrap
// within a gate, so it is sampled often and the deltas summed.
func measure(counter *machine_x.PwmGroup, sm pio.StateMachine) (hz float64, refWords uint32) {
	var edges uint64
	prev := counter.Counter()

	start := detect.MicroTime()
	for detect.MicroTime()-start < uint64(gate.Microseconds()) {
		cur := counter.Counter()
		edges += uint64((cur - prev) & 0xffff)
		prev = cur
		for sm.RxFIFOLevel() > 0 {
			sm.RxReg().Get()
			refWords++
		}
		time.Sleep(5 * time.Millisecond)
	}
	// Gate duration from the reference itself, not the on-chip timer.
	refSeconds := float64(refWords) * edgesPerWord / refFreqHz
	if refSeconds == 0 {
		fmt.Printf("no reference edges seen; check the GPIO5 jumper\n")
		return 0, 0
	}
	return float64(edges) / refSeconds, refWords
}
