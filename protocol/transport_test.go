package protocol

import (
	"errors"
	"testing"

	"disk2/core"
)

// recordingBus is a drivers.SPI that records every Tx call
type recordingBus struct {
	txs      [][]byte
	response []byte
	err      error
}

func (b *recordingBus) Tx(w, r []byte) error {
	if b.err != nil {
		return b.err
	}
	b.txs = append(b.txs, append([]byte(nil), w...))
	if r != nil {
		copy(r, b.response)
	}
	return nil
}

func (b *recordingBus) Transfer(w byte) (byte, error) {
	var r [1]byte
	err := b.Tx([]byte{w}, r[:])
	return r[0], err
}

func TestExchange(t *testing.T) {
	bus := &recordingBus{response: []byte{0, 0, 0, 0, 0xC5}}
	tr := NewTransport(bus)

	rx := make([]byte, FrameLen)
	if err := tr.Exchange(ReadTrackIRQQuery[:], rx); err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}
	if rx[StatusByte] != 0xC5 {
		t.Errorf("Expected status 0xC5, got 0x%02X", rx[StatusByte])
	}
	if len(bus.txs) != 1 || bus.txs[0][0] != CmdRead {
		t.Errorf("Unexpected bus traffic: %v", bus.txs)
	}

	stats := tr.Stats()
	if stats.Transactions != 1 || stats.BytesOut != 5 || stats.BytesIn != 5 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestExchangeLengthMismatch(t *testing.T) {
	tr := NewTransport(&recordingBus{})
	err := tr.Exchange(make([]byte, 5), make([]byte, 4))
	if !errors.Is(err, ErrTransport) {
		t.Errorf("Expected ErrTransport, got %v", err)
	}
}

func TestTransportFault(t *testing.T) {
	busErr := errors.New("bus stuck")
	tr := NewTransport(&recordingBus{err: busErr})

	err := tr.Write(WriteTrackHeader[:], make([]byte, TrackLen))
	if !errors.Is(err, ErrTransport) {
		t.Errorf("Expected ErrTransport, got %v", err)
	}
	if !errors.Is(err, busErr) {
		t.Errorf("Expected underlying bus error to be wrapped, got %v", err)
	}
}

func TestWriteSingleActivitySpan(t *testing.T) {
	bus := &recordingBus{}
	gpio := core.NewMemoryGPIO()
	tr := NewTransport(bus)
	if err := tr.SetActivityPin(gpio, 5); err != nil {
		t.Fatalf("SetActivityPin failed: %v", err)
	}

	if err := tr.Write(WriteTrackHeader[:], make([]byte, TrackLen)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if n := gpio.Toggles(5); n != 2 {
		t.Errorf("Expected one high/low span (2 toggles), got %d", n)
	}
	if level, _ := gpio.GetPin(5); level {
		t.Error("Activity pin left high after write")
	}
	if len(bus.txs) != 2 || len(bus.txs[1]) != TrackLen {
		t.Errorf("Expected header and payload Tx calls, got %d calls", len(bus.txs))
	}
}

func TestActivityPinLoweredOnFault(t *testing.T) {
	gpio := core.NewMemoryGPIO()
	tr := NewTransport(&recordingBus{err: errors.New("boom")})
	_ = tr.SetActivityPin(gpio, 5)

	_ = tr.Exchange(make([]byte, 5), make([]byte, 5))
	if level, _ := gpio.GetPin(5); level {
		t.Error("Activity pin left high after fault")
	}
}

func TestWriteFill(t *testing.T) {
	bus := &recordingBus{}
	tr := NewTransport(bus)

	hdr := OSDWriteHeader(OSDBase)
	if err := tr.WriteFill(hdr[:], OSDSize, ' '); err != nil {
		t.Fatalf("WriteFill failed: %v", err)
	}

	total := 0
	for _, tx := range bus.txs[1:] {
		for _, b := range tx {
			if b != ' ' {
				t.Fatalf("Expected fill byte 0x20, got 0x%02X", b)
			}
		}
		total += len(tx)
	}
	if total != OSDSize {
		t.Errorf("Expected %d fill bytes, got %d", OSDSize, total)
	}
	if tr.Stats().Transactions != 1 {
		t.Errorf("Expected one transaction, got %d", tr.Stats().Transactions)
	}
}
