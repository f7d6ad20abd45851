//go:build rp2040 || rp2350

package main

import (
	"machine"

	"disk2/core"
)

var debugUART *machine.UART

// InitDebugUART sets up UART0 on GPIO0 (TX) / GPIO1 (RX) at 115200 baud
// and routes the core debug sink to it
func InitDebugUART() {
	debugUART = machine.UART0
	err := debugUART.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GPIO0,
		RX:       machine.GPIO1,
	})
	if err != nil {
		debugUART = nil
		return
	}

	core.SetDebugWriter(debugPrintln)
	debugPrintln("=== disk2 debug UART ===")
}

func debugPrintln(s string) {
	if debugUART == nil {
		return
	}
	debugUART.Write([]byte(s))
	debugUART.Write([]byte("\r\n"))
}
