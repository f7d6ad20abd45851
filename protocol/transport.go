package protocol

import (
	"errors"
	"fmt"

	"disk2/core"

	"tinygo.org/x/drivers"
)

// ErrTransport marks a failed SPI transaction. It is fatal to the
// current dispatch.
var ErrTransport = errors.New("spi transport fault")

// fillChunk bounds the scratch buffer used by WriteFill
const fillChunk = 64

// Transport exchanges raw messages with the FPGA over an SPI bus.
// Framing belongs to the callers; Transport only moves bytes.
type Transport struct {
	bus drivers.SPI

	// Activity line, high for the duration of a transaction.
	// On the ULX3S this is also the select line the FPGA frames messages with.
	gpio      core.GPIODriver
	activity  core.GPIOPin
	hasSignal bool

	scratch [fillChunk]byte

	transactions uint32
	bytesOut     uint32
	bytesIn      uint32
}

// NewTransport creates a Transport over a configured SPI bus
// (machine.SPI on hardware, sim.FPGA in tests)
func NewTransport(bus drivers.SPI) *Transport {
	return &Transport{bus: bus}
}

// SetActivityPin registers the pin toggled around each transaction
func (t *Transport) SetActivityPin(gpio core.GPIODriver, pin core.GPIOPin) error {
	if err := gpio.ConfigureOutput(pin); err != nil {
		return err
	}
	t.gpio = gpio
	t.activity = pin
	t.hasSignal = true
	return gpio.SetPin(pin, false)
}

// Exchange performs one full-duplex transaction. tx and rx must be the same length.
func (t *Transport) Exchange(tx, rx []byte) error {
	if len(tx) != len(rx) {
		return fmt.Errorf("%w: tx and rx buffer lengths must match (%d != %d)", ErrTransport, len(tx), len(rx))
	}

	t.begin()
	err := t.bus.Tx(tx, rx)
	t.end()

	if err != nil {
		return fmt.Errorf("%w: exchange: %w", ErrTransport, err)
	}
	t.bytesOut += uint32(len(tx))
	t.bytesIn += uint32(len(rx))
	return nil
}

// Write sends one or more buffers as a single transaction, discarding
// the received bytes
func (t *Transport) Write(parts ...[]byte) error {
	t.begin()
	defer t.end()

	for _, p := range parts {
		if len(p) == 0 {
			continue
		}
		if err := t.bus.Tx(p, nil); err != nil {
			return fmt.Errorf("%w: write: %w", ErrTransport, err)
		}
		t.bytesOut += uint32(len(p))
	}
	return nil
}

// WriteFill sends header followed by n copies of fill in one transaction.
// The payload is streamed through a fixed scratch buffer.
func (t *Transport) WriteFill(header []byte, n int, fill byte) error {
	t.begin()
	defer t.end()

	if err := t.bus.Tx(header, nil); err != nil {
		return fmt.Errorf("%w: write: %w", ErrTransport, err)
	}
	t.bytesOut += uint32(len(header))

	for i := range t.scratch {
		t.scratch[i] = fill
	}
	for n > 0 {
		chunk := n
		if chunk > fillChunk {
			chunk = fillChunk
		}
		if err := t.bus.Tx(t.scratch[:chunk], nil); err != nil {
			return fmt.Errorf("%w: fill: %w", ErrTransport, err)
		}
		t.bytesOut += uint32(chunk)
		n -= chunk
	}
	return nil
}

// TransportStats holds transaction counters
type TransportStats struct {
	Transactions uint32
	BytesOut     uint32
	BytesIn      uint32
}

// Stats returns the transaction counters
func (t *Transport) Stats() TransportStats {
	return TransportStats{
		Transactions: t.transactions,
		BytesOut:     t.bytesOut,
		BytesIn:      t.bytesIn,
	}
}

// begin raises the activity line. Pin errors are ignored; the line is
// for observability and framing only.
func (t *Transport) begin() {
	t.transactions++
	if t.hasSignal {
		_ = t.gpio.SetPin(t.activity, true)
	}
}

func (t *Transport) end() {
	if t.hasSignal {
		_ = t.gpio.SetPin(t.activity, false)
	}
}
