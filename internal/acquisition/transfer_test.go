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

package acquisition

import (
	"testing"

	"sawsense/internal/avg"
)

type fakeSource struct{}

func (fakeSource) Addr() uintptr { return 0 }

type fakeChannel struct {
	armed      int
	acked      int
	irqEnabled int
	lastBuf    *avg.Burst
}

func (c *fakeChannel) Arm(src Source, buf *avg.Burst) {
	c.armed++
	c.lastBuf = buf
}
func (c *fakeChannel) Ack()                       { c.acked++ }
func (c *fakeChannel) EnableCompletionInterrupt() { c.irqEnabled++ }

func Test_Transfer_roundTrip(t *testing.T) {
	ch := &fakeChannel{}
	var buf avg.Burst
	cfg := Config{Channel: ch, Source: fakeSource{}, Buffer: &buf}

	transfer := cfg.Start()
	if ch.armed != 1 {
		t.Fatalf("Start must arm the channel once, armed=%d", ch.armed)
	}

	gotCh, _, gotBuf := transfer.Wait()
	if ch.acked != 1 {
		t.Fatalf("Wait must acknowledge the completion once, acked=%d", ch.acked)
	}
	if gotCh != Channel(ch) || gotBuf != &buf {
		t.Fatalf("Wait must return the constituents the config was built from")
	}
}

func Test_ReadingsFIFO_singleSlot(t *testing.T) {
	ch := &fakeChannel{}
	var buf avg.Burst
	cfg := Config{Channel: ch, Source: fakeSource{}, Buffer: &buf}

	ReadingsFIFO.Put(cfg.Start())
	if _, ok := ReadingsFIFO.Take(); !ok {
		t.Fatalf("cell should hold the transfer that was put")
	}
	if _, ok := ReadingsFIFO.Take(); ok {
		t.Fatalf("second take should find the cell empty")
	}
}

func Test_InitBuffers_oneShot(t *testing.T) {
	InitBuffers()
	b, ok := Buffers.Take()
	if !ok || b == nil {
		t.Fatalf("first init must populate the buffer cell")
	}
	Buffers.Put(b)

	// A repeated init warns and must not displace the singleton.
	InitBuffers()
	b2, ok := Buffers.Take()
	if !ok || b2 != b {
		t.Fatalf("repeated init must leave the original singleton in place")
	}
	Buffers.Put(b2)
}

func Test_CreateBurstBuffer_oneShot(t *testing.T) {
	buf, ok := CreateBurstBuffer()
	if !ok || buf == nil {
		t.Fatalf("first call must hand out the burst buffer")
	}
	if len(buf) != avg.BurstSize {
		t.Fatalf("burst buffer length = %d, want %d", len(buf), avg.BurstSize)
	}
	if _, ok := CreateBurstBuffer(); ok {
		t.Fatalf("second call must refuse: the burst buffer is process-wide unique")
	}
}
