// Package board assembles the disk server from a configuration: the SPI
// transport, track store, OSD renderer, browser and dispatcher. The
// firmware and the host simulator build it the same way.
package board

import (
	"fmt"

	"disk2/browser"
	"disk2/config"
	"disk2/core"
	"disk2/disk"
	"disk2/dispatch"
	"disk2/osd"
	"disk2/protocol"
	"disk2/storage"

	"tinygo.org/x/drivers"
)

// Board is one fully wired disk server
type Board struct {
	Config     *config.Config
	FS         *storage.FS
	Transport  *protocol.Transport
	Tracks     *disk.TrackStore
	OSD        *osd.Renderer
	Browser    *browser.Browser
	Dispatcher *dispatch.Dispatcher
}

// New wires every component. bus must already be configured; gpio drives
// the activity/select line. The initial image is mounted if it opens;
// a missing image leaves the drive empty.
func New(cfg *config.Config, bus drivers.SPI, gpio core.GPIODriver, fs *storage.FS) (*Board, error) {
	b := &Board{
		Config:    cfg,
		FS:        fs,
		Transport: protocol.NewTransport(bus),
		Tracks:    disk.NewTrackStore(fs),
	}
	if err := b.Transport.SetActivityPin(gpio, cfg.LEDPin); err != nil {
		return nil, fmt.Errorf("activity pin: %w", err)
	}

	filter, err := browser.NewFilter(cfg.Filter...)
	if err != nil {
		return nil, err
	}

	b.OSD = osd.New(b.Transport)
	b.Browser = browser.New(fs, b.Tracks, b.OSD)
	b.Browser.SetFilter(filter)
	b.Browser.Chdir(cfg.StartDir)

	if cfg.InitialImage != "" {
		if err := b.Tracks.SelectImage(cfg.InitialImage); err != nil {
			core.DebugPrintln("[BOARD] " + err.Error())
		}
	}

	b.Dispatcher = dispatch.New(cfg.Dispatch(), b.Transport, b.Tracks, b.Browser, b.OSD)
	return b, nil
}

// Start draws the menu and serves anything the FPGA raised before the
// interrupt was armed
func (b *Board) Start() error {
	return b.Dispatcher.Start()
}

// Close releases the mounted image
func (b *Board) Close() error {
	return b.Tracks.Close()
}
