// Package sim models the FPGA side of the link: status and button
// registers, the track BRAM and the OSD character memory. It implements
// drivers.SPI for the bus and core.GPIODriver for the select line.
package sim

import (
	"errors"
	"sync"

	"disk2/core"
	"disk2/protocol"
)

// osdMemSize covers every address the 5 bit row field can reach
const osdMemSize = (protocol.OSDRowMask + 1) * protocol.OSDCols

var errNotSelected = errors.New("sim: transfer without select")

// Glyph the OSD font draws for the cursor highlight
const cursorGlyph = 0x10

// FPGA is a software model of the disk controller's SPI slave
type FPGA struct {
	mu sync.Mutex

	selectPin core.GPIOPin
	selected  bool
	frame     []byte

	// Registers
	trackChange bool
	track       uint8
	buttonEvent bool
	buttons     uint8

	// Memories
	trackBuf    [protocol.TrackLen]byte
	trackLen    int
	osdMem      [osdMemSize]byte
	osdEnabled  bool
	tracksTaken uint32

	fault error
	irq   func()
}

// NewFPGA creates an FPGA model whose select line is pin
func NewFPGA(selectPin core.GPIOPin) *FPGA {
	f := &FPGA{
		selectPin: selectPin,
		frame:     make([]byte, 0, protocol.TrackLen+8),
	}
	for i := range f.osdMem {
		f.osdMem[i] = ' '
	}
	return f
}

// OnIRQ registers the function called whenever the model raises its
// interrupt line (the GPIO edge on real hardware)
func (f *FPGA) OnIRQ(fn func()) {
	f.mu.Lock()
	f.irq = fn
	f.mu.Unlock()
}

// RequestTrack makes the drive ask for track
func (f *FPGA) RequestTrack(track uint8) {
	f.mu.Lock()
	f.trackChange = true
	f.track = track & protocol.StatusTrackMask
	irq := f.irq
	f.mu.Unlock()
	if irq != nil {
		irq()
	}
}

// SetButtons sets the live button state; a change raises a button event
func (f *FPGA) SetButtons(state uint8) {
	f.mu.Lock()
	changed := state != f.buttons
	f.buttons = state
	if changed {
		f.buttonEvent = true
	}
	irq := f.irq
	f.mu.Unlock()
	if changed && irq != nil {
		irq()
	}
}

// InjectFault makes the next bus transfer fail with err
func (f *FPGA) InjectFault(err error) {
	f.mu.Lock()
	f.fault = err
	f.mu.Unlock()
}

// Pending reports whether an event is waiting to be read
func (f *FPGA) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.trackChange || f.buttonEvent
}

// Tx implements drivers.SPI
func (f *FPGA) Tx(w, r []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fault != nil {
		err := f.fault
		f.fault = nil
		return err
	}
	if !f.selected {
		return errNotSelected
	}

	n := len(w)
	if n == 0 {
		n = len(r)
	}
	for i := 0; i < n; i++ {
		var b byte
		if i < len(w) {
			b = w[i]
		}
		pos := len(f.frame)
		f.frame = append(f.frame, b)
		if r != nil && i < len(r) {
			r[i] = f.readByte(pos)
		}
	}
	return nil
}

// Transfer implements drivers.SPI
func (f *FPGA) Transfer(b byte) (byte, error) {
	var r [1]byte
	err := f.Tx([]byte{b}, r[:])
	return r[0], err
}

// readByte returns the MISO byte clocked out at frame position pos.
// Only read commands drive MISO; registers are cleared once read.
func (f *FPGA) readByte(pos int) byte {
	if pos != protocol.StatusByte || f.frame[0] != protocol.CmdRead {
		return 0
	}
	switch f.frame[1] {
	case 0x00:
		var st byte
		if f.trackChange {
			st |= protocol.StatusTrackChange | f.track
			f.trackChange = false
		}
		if f.buttonEvent {
			st |= protocol.StatusButton
		}
		return st
	case 0xFE:
		f.buttonEvent = false
		return f.buttons
	}
	return 0
}

// decode applies a completed write transaction
func (f *FPGA) decode() {
	fr := f.frame
	if len(fr) < 3 || fr[0] != protocol.CmdWrite {
		return
	}
	switch {
	case fr[1] == 0xFE:
		if len(fr) >= 4 {
			f.osdEnabled = fr[3]&1 != 0
		}
	case fr[1] == 0x00 && fr[2] == 0x00:
		f.trackLen = copy(f.trackBuf[:], fr[3:])
		f.tracksTaken++
	case fr[1] >= protocol.OSDBase>>8:
		addr := (int(fr[1])<<8 | int(fr[2])) - protocol.OSDBase
		for i, b := range fr[3:] {
			f.osdMem[(addr+i)%osdMemSize] = b
		}
	}
}

// ConfigureOutput implements core.GPIODriver
func (f *FPGA) ConfigureOutput(pin core.GPIOPin) error {
	return nil
}

// ConfigureInputPullUp implements core.GPIODriver
func (f *FPGA) ConfigureInputPullUp(pin core.GPIOPin) error {
	return nil
}

// SetPin implements core.GPIODriver. Raising the select line starts a
// transaction, dropping it completes one.
func (f *FPGA) SetPin(pin core.GPIOPin, value bool) error {
	if pin != f.selectPin {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case value && !f.selected:
		f.frame = f.frame[:0]
	case !value && f.selected:
		f.decode()
	}
	f.selected = value
	return nil
}

// GetPin implements core.GPIODriver
func (f *FPGA) GetPin(pin core.GPIOPin) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if pin == f.selectPin {
		return f.selected, nil
	}
	return false, nil
}
