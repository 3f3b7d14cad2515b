//go:build tinygo

package cell

import "runtime/interrupt"

// WithCriticalSection runs fn with interrupts masked on the executing core,
// the same critical-section protocol the acquisition ISR, the SysTick ISR,
// and MAIN use to take and put cell contents. No cell is ever accessed with
// interrupts enabled.
func WithCriticalSection(fn func()) {
	mask := interrupt.Disable()
	fn()
	interrupt.Restore(mask)
}
