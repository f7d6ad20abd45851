// Package dispatch is the edge-triggered entry point: it reads the FPGA's
// status frame and routes track requests and button events.
package dispatch

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"disk2/core"
	"disk2/disk"
	"disk2/protocol"
)

// ErrBusy is returned by Handle when another dispatch is in flight.
// The trigger is dropped; the FPGA re-signals an unmet request.
var ErrBusy = errors.New("dispatch already in progress")

// Defaults for Config
const (
	// One 6656 byte track at 2 MHz takes ~27 ms on the wire
	DefaultLatencyBudget = 50 * time.Millisecond
	DefaultPollInterval  = 200 * time.Microsecond
)

// Bus is the SPI transport
type Bus interface {
	Exchange(tx, rx []byte) error
	Write(parts ...[]byte) error
}

// Tracks serves track data
type Tracks interface {
	LoadTrack(track uint8) ([]byte, error)
}

// Menu is the OSD file browser
type Menu interface {
	Refresh()
	Redraw() error
	MoveCursor(delta int) error
	Up() error
	Enter() error
}

// Overlay controls OSD visibility
type Overlay interface {
	SetEnabled(enable bool) error
	Clear() error
}

// Config tunes the dispatcher
type Config struct {
	// Dispatches slower than this are counted and recorded as overruns.
	// Zero disables the check.
	LatencyBudget time.Duration

	// How often Run checks for a pending trigger
	PollInterval time.Duration
}

// Stats holds dispatch counters
type Stats struct {
	Dispatches  uint32
	Tracks      uint32 // Tracks written to the FPGA
	NoImage     uint32 // Track requests with no image mounted
	ReadErrors  uint32 // Track reads that failed
	Buttons     uint32
	Overruns    uint32
	Faults      uint32
	Coalesced   uint32 // Edges folded into an already pending trigger
	Lost        uint32 // Handle calls rejected with ErrBusy
	LastLatency time.Duration
	MaxLatency  time.Duration
}

// Dispatcher owns every component touched from the edge handler.
// Build it once at startup and hand Handle (or Trigger) to the platform.
type Dispatcher struct {
	// 64 bit atomics first for alignment on 32 bit targets
	lastLatency int64
	maxLatency  int64

	bus     Bus
	tracks  Tracks
	menu    Menu
	overlay Overlay
	cfg     Config

	status  [protocol.FrameLen]byte
	buttons [protocol.FrameLen]byte
	actions []buttonAction

	busy      uint32
	pending   uint32
	coalesced uint32
	lost      uint32

	// Counters; Stats may read them from any goroutine
	dispatches   uint32
	served       uint32
	noImage      uint32
	readErrors   uint32
	buttonEvents uint32
	overruns     uint32
	faults       uint32
}

// New wires a dispatcher. Zero Config fields take the defaults.
func New(cfg Config, bus Bus, tracks Tracks, menu Menu, overlay Overlay) *Dispatcher {
	if cfg.LatencyBudget == 0 {
		cfg.LatencyBudget = DefaultLatencyBudget
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	d := &Dispatcher{
		bus:     bus,
		tracks:  tracks,
		menu:    menu,
		overlay: overlay,
		cfg:     cfg,
	}
	d.actions = d.buttonTable()
	return d
}

// Start clears the overlay, draws the browser and serves any request that
// was raised before the edge interrupt was armed.
func (d *Dispatcher) Start() error {
	if err := d.overlay.Clear(); err != nil {
		return err
	}
	d.menu.Refresh()
	if err := d.menu.Redraw(); err != nil {
		return err
	}
	return d.Handle()
}

// Handle runs one complete dispatch. A transport fault aborts it and is
// returned wrapped in protocol.ErrTransport.
func (d *Dispatcher) Handle() error {
	if !atomic.CompareAndSwapUint32(&d.busy, 0, 1) {
		atomic.AddUint32(&d.lost, 1)
		core.RecordTiming(core.EvtCoalesced, 0, 0, 1, 0)
		return ErrBusy
	}
	defer atomic.StoreUint32(&d.busy, 0)

	start := time.Now()
	err := d.dispatch(start)
	elapsed := time.Since(start)

	atomic.AddUint32(&d.dispatches, 1)
	atomic.StoreInt64(&d.lastLatency, int64(elapsed))
	if int64(elapsed) > atomic.LoadInt64(&d.maxLatency) {
		atomic.StoreInt64(&d.maxLatency, int64(elapsed))
	}
	if d.cfg.LatencyBudget > 0 && elapsed > d.cfg.LatencyBudget {
		atomic.AddUint32(&d.overruns, 1)
		core.RecordTiming(core.EvtOverrun, 0, micros(elapsed), micros(elapsed), micros(d.cfg.LatencyBudget))
	}
	if err != nil {
		// Only the ring is touched here: Handle may be running in the
		// edge interrupt, where the debug writer must not be called
		atomic.AddUint32(&d.faults, 1)
		core.RecordTiming(core.EvtFault, 0, micros(elapsed), 0, 0)
	}
	return err
}

// Trigger marks a dispatch as pending. It is safe to call from the edge
// interrupt; repeated edges before Run picks it up are coalesced.
func (d *Dispatcher) Trigger() {
	if !atomic.CompareAndSwapUint32(&d.pending, 0, 1) {
		atomic.AddUint32(&d.coalesced, 1)
	}
}

// Run services Trigger calls until ctx is done or a dispatch faults.
// It is the only caller of Handle in deferred mode, so at most one
// dispatch is ever in flight.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if atomic.SwapUint32(&d.pending, 0) == 1 {
			if err := d.Handle(); err != nil && !errors.Is(err, ErrBusy) {
				return err
			}
			continue
		}
		time.Sleep(d.cfg.PollInterval)
	}
}

// Stats returns a snapshot of the dispatch counters. It is safe to call
// from any goroutine while Run is serving.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Dispatches:  atomic.LoadUint32(&d.dispatches),
		Tracks:      atomic.LoadUint32(&d.served),
		NoImage:     atomic.LoadUint32(&d.noImage),
		ReadErrors:  atomic.LoadUint32(&d.readErrors),
		Buttons:     atomic.LoadUint32(&d.buttonEvents),
		Overruns:    atomic.LoadUint32(&d.overruns),
		Faults:      atomic.LoadUint32(&d.faults),
		Coalesced:   atomic.LoadUint32(&d.coalesced),
		Lost:        atomic.LoadUint32(&d.lost),
		LastLatency: time.Duration(atomic.LoadInt64(&d.lastLatency)),
		MaxLatency:  time.Duration(atomic.LoadInt64(&d.maxLatency)),
	}
}

func (d *Dispatcher) dispatch(start time.Time) error {
	if err := d.bus.Exchange(protocol.ReadTrackIRQQuery[:], d.status[:]); err != nil {
		return err
	}
	st := protocol.ParseStatus(d.status[:])
	core.RecordTiming(core.EvtStatus, st.Track(), micros(time.Since(start)), uint32(st), 0)

	if st.TrackChange() {
		if err := d.serveTrack(st.Track(), start); err != nil {
			return err
		}
	}
	if st.ButtonPending() {
		if err := d.serveButtons(start); err != nil {
			return err
		}
	}
	return nil
}

// serveTrack sends the requested track. With no image mounted, or when the
// read fails, nothing is written.
func (d *Dispatcher) serveTrack(track uint8, start time.Time) error {
	buf, err := d.tracks.LoadTrack(track)
	if errors.Is(err, disk.ErrNoImage) {
		atomic.AddUint32(&d.noImage, 1)
		return nil
	}
	if err != nil {
		atomic.AddUint32(&d.readErrors, 1)
		core.RecordTiming(core.EvtReadFail, track, micros(time.Since(start)), 0, 0)
		return nil
	}
	core.RecordTiming(core.EvtTrackLoad, track, micros(time.Since(start)), uint32(len(buf)), 0)

	if err := d.bus.Write(protocol.WriteTrackHeader[:], buf); err != nil {
		return err
	}
	atomic.AddUint32(&d.served, 1)
	core.RecordTiming(core.EvtTrackSend, track, micros(time.Since(start)), 0, 0)
	return nil
}

func (d *Dispatcher) serveButtons(start time.Time) error {
	if err := d.bus.Exchange(protocol.ReadButtonQuery[:], d.buttons[:]); err != nil {
		return err
	}
	btn := d.buttons[protocol.StatusByte]
	atomic.AddUint32(&d.buttonEvents, 1)
	core.RecordTiming(core.EvtButton, 0, micros(time.Since(start)), uint32(btn), 0)

	for _, a := range d.actions {
		set := btn&a.mask != 0
		if !set && !a.level {
			continue
		}
		if err := a.run(set); err != nil {
			return err
		}
	}
	return nil
}

func micros(d time.Duration) uint32 {
	return uint32(d / time.Microsecond)
}
