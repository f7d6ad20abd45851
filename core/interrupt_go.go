//go:build !tinygo

package core

import "sync"

// State is a placeholder for interrupt state on regular Go
type State uintptr

// ringMu stands in for interrupt masking: on regular Go the "interrupt"
// is another goroutine (edge watcher, simulator input).
var ringMu sync.Mutex

// disableInterrupts takes the ring lock on regular Go
func disableInterrupts() State {
	ringMu.Lock()
	return 0
}

// restoreInterrupts releases the ring lock on regular Go
func restoreInterrupts(state State) {
	ringMu.Unlock()
}
