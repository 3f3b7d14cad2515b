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

package avg

import "testing"

func constantBurst(c uint8) *Burst {
	var b Burst
	for i := range b {
		b[i] = c
	}
	return &b
}

// buildBurst fills interleaved stream s with value for every s in high,
// and the rest with low.
func buildBurst(high []int, hival, loval uint8) *Burst {
	var b Burst
	isHigh := map[int]bool{}
	for _, s := range high {
		isHigh[s] = true
	}
	for i := range b {
		if isHigh[i%streams] {
			b[i] = hival
		} else {
			b[i] = loval
		}
	}
	return &b
}

func Test_Compute_constantBurst(t *testing.T) {
	for _, c := range []uint8{0, 1, 128, 255} {
		r := Compute(constantBurst(c))
		if r.Delta != 0 {
			t.Errorf("constant burst %d: want delta 0, got %d", c, r.Delta)
		}
	}
}

func Test_Compute_highLowPairs(t *testing.T) {
	pairs := [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	for _, pair := range pairs {
		r := Compute(buildBurst(pair[:], 200, 50))
		if r.Delta != 150 {
			t.Errorf("pair %v: want delta 150, got %d", pair, r.Delta)
		}
	}
}

func Test_Compute_tieBreak(t *testing.T) {
	r := Compute(constantBurst(77))
	if r.High1 != 0 || r.High2 != 1 {
		t.Errorf("tie-break: want {0,1}, got {%d,%d}", r.High1, r.High2)
	}
	if r.Delta != 0 {
		t.Errorf("tie-break: want delta 0, got %d", r.Delta)
	}
}

func Test_Compute_saturates(t *testing.T) {
	r := Compute(buildBurst([]int{2, 3}, 255, 0))
	if r.Delta != 255 {
		t.Errorf("want saturated 255, got %d", r.Delta)
	}
}

func Test_Compute_outputRange(t *testing.T) {
	cases := []*Burst{
		constantBurst(0),
		constantBurst(255),
		buildBurst([]int{0, 3}, 255, 0),
		buildBurst([]int{1, 2}, 10, 250),
	}
	for i, b := range cases {
		r := Compute(b)
		if int(r.Delta) < 0 || int(r.Delta) > 255 {
			t.Errorf("case %d: delta %d out of range", i, r.Delta)
		}
	}
}

func Test_argmax_tieBreakLowerIndex(t *testing.T) {
	partial := [streams]uint32{5, 5, 5, 5}
	if h1 := argmax(partial, -1); h1 != 0 {
		t.Fatalf("want h1=0, got %d", h1)
	}
	if h2 := argmax(partial, 0); h2 != 1 {
		t.Fatalf("want h2=1, got %d", h2)
	}
}
