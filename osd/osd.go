// Package osd draws the file browser on the FPGA's character overlay
package osd

import (
	"disk2/protocol"
	"disk2/storage"
)

// Writer is the part of protocol.Transport the renderer needs
type Writer interface {
	Write(parts ...[]byte) error
	WriteFill(header []byte, n int, fill byte) error
}

// Renderer formats rows and ships them to the overlay. It keeps no
// browser state of its own.
type Renderer struct {
	w       Writer
	line    [LineLen]byte
	enabled bool
}

// New creates a renderer writing through w
func New(w Writer) *Renderer {
	return &Renderer{w: w}
}

// PrintText writes text starting at row/col. Coordinates wrap.
func (r *Renderer) PrintText(row, col int, text []byte) error {
	hdr := protocol.OSDWriteHeader(protocol.OSDAddress(row, col))
	return r.w.Write(hdr[:], text)
}

// Clear blanks the whole overlay
func (r *Renderer) Clear() error {
	hdr := protocol.OSDWriteHeader(protocol.OSDBase)
	return r.w.WriteFill(hdr[:], protocol.OSDSize, ' ')
}

// SetEnabled shows or hides the overlay
func (r *Renderer) SetEnabled(enable bool) error {
	msg := protocol.OSDEnableMsg(enable)
	if err := r.w.Write(msg[:]); err != nil {
		return err
	}
	r.enabled = enable
	return nil
}

// Enabled reports the last visibility sent to the FPGA
func (r *Renderer) Enabled() bool {
	return r.enabled
}

// RenderLine draws one screen row
func (r *Renderer) RenderLine(row int, entry *storage.DirEntry, hl Highlight) error {
	r.line = FormatLine(entry, hl)
	return r.PrintText(row, 0, r.line[:])
}
