// disk2-host is the developer tool for the disk server: a terminal
// simulator of the board, OSD listings, track dumps and the firmware's
// debug UART.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
