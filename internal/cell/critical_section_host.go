//go:build !tinygo

package cell

import "sync"

// mu stands in for masked interrupts when this package is compiled with the
// host Go toolchain (unit tests). There is only ever one core's worth of
// interrupts to mask on the real target, so a single mutex is an exact
// stand-in for the critical section's mutual exclusion, just not its
// non-blocking, non-preemptible nature.
var mu sync.Mutex

// WithCriticalSection runs fn while holding the package mutex. On-target
// builds (tag tinygo) use actual interrupt masking instead; see
// critical_section_tinygo.go.
func WithCriticalSection(fn func()) {
	mu.Lock()
	defer mu.Unlock()
	fn()
}
