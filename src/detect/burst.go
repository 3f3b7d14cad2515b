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
	"device/rp"
	"unsafe"

	"sawsense/internal/acquisition"
	"sawsense/internal/avg"
)

// BurstChannel adapts a claimed DMA channel to the acquisition pipeline:
// one shot per burst, 8-bit reads from the ADC FIFO paced by DREQ_ADC,
// incrementing writes into the burst buffer.
type BurstChannel struct {
	ch DmaChannel
}

// ClaimBurstChannel claims a free DMA channel for burst capture.
func ClaimBurstChannel() (*BurstChannel, bool) {
	ch, ok := ClaimChannel()
	if !ok {
		return nil, false
	}
	return &BurstChannel{ch: ch}, true
}

// Arm programs the channel for one full burst and triggers it. The
// CTRL_TRIG write starts the transfer; from here until Ack the DMA
// engine owns buf.
func (b *BurstChannel) Arm(src acquisition.Source, buf *avg.Burst) {
	hw := b.ch.HW()
	hw.CTRL_TRIG.ClearBits(rp.DMA_CH0_CTRL_TRIG_EN_Msk)
	hw.READ_ADDR.Set(uint32(src.Addr()))
	hw.WRITE_ADDR.Set(uint32(uintptr(unsafe.Pointer(&buf[0]))))
	hw.TRANS_COUNT.Set(avg.BurstSize)

	cc := DefaultDMAConfig(b.ch.ChannelIndex())
	cc.SetTREQ_SEL(_DREQ_ADC)
	cc.SetTransferDataSize(DmaTxSize8)
	cc.SetReadIncrement(false)
	cc.SetWriteIncrement(true)
	cc.SetEnable(true)
	hw.CTRL_TRIG.Set(cc.CTRL)
}

// Ack clears the pending completion so the interrupt does not refire.
func (b *BurstChannel) Ack() {
	b.ch.AckCompletion()
}

// EnableCompletionInterrupt routes this channel's completion onto the
// acquisition interrupt line.
func (b *BurstChannel) EnableCompletionInterrupt() {
	b.ch.CompletionInterruptEnable(true)
}
