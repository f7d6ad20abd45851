//go:build rp2040 || rp2350

package main

import (
	"context"
	"machine"
	"time"

	"disk2/board"
	"disk2/config"
	"disk2/core"
	"disk2/protocol"
	"disk2/storage"
)

func main() {
	// Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	InitDebugUART()

	cfg := config.Default()
	core.SetDebugEnabled(cfg.Debug)
	core.DebugPrintln("disk2 " + protocol.Version)
	if err := cfg.Validate(); err != nil {
		fatal("config: " + err.Error())
	}

	spiDriver := NewRP2040SPIDriver()
	bus, err := spiDriver.ConfigureBus(cfg.BusConfig())
	if err != nil {
		fatal("spi: " + err.Error())
	}
	core.DebugPrintln("fpga link on " + spiDriver.GetBusInfo()[cfg.SPI.Bus])
	gpio := NewRPGPIODriver()

	// The bitstream is loaded and the card mounted at ImageRoot before
	// the board is wired
	b, err := board.New(cfg, bus, gpio, storage.NewOS(cfg.ImageRoot))
	if err != nil {
		fatal("board: " + err.Error())
	}
	if err := b.Start(); err != nil {
		fatal("start: " + err.Error())
	}

	d := b.Dispatcher
	if !cfg.Deferred {
		// Dispatch straight from the edge interrupt
		err = gpio.OnFallingEdge(cfg.IRQPin, func() {
			if err := d.Handle(); err != nil {
				fatal("dispatch: " + err.Error())
			}
		})
		if err != nil {
			fatal("irq: " + err.Error())
		}
		for {
			time.Sleep(time.Second)
		}
	}

	if err := gpio.OnFallingEdge(cfg.IRQPin, d.Trigger); err != nil {
		fatal("irq: " + err.Error())
	}
	// Catch an edge that fired between Start and arming the interrupt
	d.Trigger()
	err = d.Run(context.Background())
	fatal("dispatch: " + err.Error())
}

// fatal dumps the timing ring and resets through the watchdog
func fatal(msg string) {
	core.SetDebugEnabled(true)
	core.DebugPrintln("[FATAL] " + msg)
	core.DumpTimingRing()

	// Watchdog reset is more reliable on RP2040 than ARM SYSRESETREQ
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 1})
	if err != nil {
		return
	}
	err = machine.Watchdog.Start()
	if err != nil {
		return
	}
	for {
		time.Sleep(1 * time.Millisecond)
	}
}
