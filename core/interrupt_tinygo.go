//go:build tinygo

package core

import "runtime/interrupt"

// disableInterrupts masks interrupts so the timing ring can be written
// from the edge handler and read from the main loop
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}
