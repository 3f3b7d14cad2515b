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

package calib

import (
	"errors"
	"fmt"
	"math"
)

// RefPlan is a divider plan for the Si5351 reference generator: PLL
// feedback ratio a0+b0/c0 from the crystal, multisynth divider
// a1+b1/c1 and final /r stage down to the calibration reference.
type RefPlan struct {
	f0, pll, f                float64 // crystal, pll and output frequencies
	a0, b0, c0, a1, b1, c1, r uint32  // chip parameters
	eps                       float64 // error in output frequency (Hz)
}

/*
PlanReference computes configuration parameters for the PLL and multi-synth
fractional dividers in a Si5351 clock generator.

The parameter `f0` is the crystal frequency (in Hz) for the generator (typically
25 or 27MHz), `pll` is the PLL frequency (in Hz) in the range of 600..900MHz, `f` is the
desired reference output frequency (in Hz). If `pll` is zero, then a suitable value
will be chosen.

The output will be values such that f0 * (a0 + b0/c0) / (a1 + b1/c1) / r is f to
within as small a tolerance as possible.

An error is returned if the routine cannot find good parameters for the dividers
or if the input is invalid.
*/
func PlanReference(f0, pll, f float64) (RefPlan, error) {
	if f0 < 10e6 || f0 > 27e6 {
		return RefPlan{}, errors.New("RefPlan: invalid crystal frequency")
	}

	if f > 200e6 {
		return RefPlan{}, errors.New("RefPlan: output frequency > 200MHz")
	}

	if f > 150e6 {
		pll = 4 * f
	} else if f >= 100e6 {
		pll = 6 * f
	} else if pll == 0 {
		if f < 5e6 {
			pll = 600e6
		} else {
			pll = 800e6
		}
	} else if pll < 600e6 || pll > 900e6 {
		return RefPlan{}, errors.New("RefPlan: pll is out of range")
	}
	z := pll / f0
	if z < 15 {
		return RefPlan{}, errors.New("RefPlan: can't happen, feedback ratio too small")
	}
	if z > 90 {
		return RefPlan{}, errors.New("RefPlan: can't happen, feedback ratio too big")
	}
	b, c, _ := NearestFraction(uint64(z*1e12), 1_000_000_000_000, 1<<20)
	r := RefPlan{
		f0:  f0,
		pll: pll,
		f:   f,
		a0:  uint32(b / c),
		b0:  uint32(b % c),
		c0:  uint32(c),
	}

	z = f0 * (float64(r.a0) + float64(r.b0)/float64(r.c0)) / f
	if !near(z, 4, 1e-9) && !near(z, 6, 1e-9) && z < 8 {
		return RefPlan{}, fmt.Errorf("RefPlan: output multi-synth ratio too small: %.5g %v", z-6, r)
	}
	r.r = 1
	for z/float64(r.r) > 2048 && r.r <= 128 {
		r.r = r.r * 2
	}
	if r.r > 128 {
		return RefPlan{}, errors.New("RefPlan: output divider ratio too big, f_out too low")
	}
	b, c, _ = NearestFraction(uint64(z*1e12/float64(r.r)), 1_000_000_000_000, 1<<20)
	r.a1 = uint32(b / c)
	r.b1 = uint32(b % c)
	r.c1 = uint32(c)

	r.f = f0 * (float64(r.a0) + float64(r.b0)/float64(r.c0)) /
		(float64(r.a1) + float64(r.b1)/float64(r.c1)) / float64(r.r)
	r.eps = f - r.f
	return r, nil
}

// PLLDividers returns the feedback ratio in the form the si5351 driver
// programs: integer multiplier plus num/denom fraction.
func (r RefPlan) PLLDividers() (mul uint8, num, denom uint32) {
	return uint8(r.a0), r.b0, r.c0
}

// MultisynthDividers returns the output divider the same way.
func (r RefPlan) MultisynthDividers() (div, num, denom uint32) {
	return r.a1, r.b1, r.c1
}

// RDiv returns the final power-of-two output stage, 1 when unused.
func (r RefPlan) RDiv() uint32 { return r.r }

// Frequency returns the frequency the plan actually produces.
func (r RefPlan) Frequency() float64 { return r.f }

// Error returns the difference between requested and produced
// frequency in Hz.
func (r RefPlan) Error() float64 { return r.eps }

func near(a float64, b float64, eps float64) bool {
	return math.Abs(a-b) <= eps
}
