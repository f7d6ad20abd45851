package sim

import (
	"strings"

	"disk2/protocol"
)

// Snapshot is the externally visible FPGA state
type Snapshot struct {
	OSDEnabled  bool
	Track       uint8 // Last requested track
	TracksTaken uint32
	TrackLen    int
	Buttons     uint8
}

// Snapshot returns the current state
func (f *FPGA) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{
		OSDEnabled:  f.osdEnabled,
		Track:       f.track,
		TracksTaken: f.tracksTaken,
		TrackLen:    f.trackLen,
		Buttons:     f.buttons,
	}
}

// TrackData returns a copy of the last track received
func (f *FPGA) TrackData() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]byte(nil), f.trackBuf[:f.trackLen]...)
}

// Row returns the raw characters of one visible OSD row
func (f *FPGA) Row(y int) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	start := (y % protocol.OSDRows) * protocol.OSDCols
	return append([]byte(nil), f.osdMem[start:start+protocol.OSDCols]...)
}

// Lines renders the visible OSD rows as text, the cursor glyph shown as '>'
func (f *FPGA) Lines() []string {
	lines := make([]string, protocol.OSDRows)
	for y := range lines {
		row := f.Row(y)
		var sb strings.Builder
		for _, b := range row {
			switch {
			case b == cursorGlyph:
				sb.WriteByte('>')
			case b < 0x20 || b > 0x7E:
				sb.WriteByte('?')
			default:
				sb.WriteByte(b)
			}
		}
		lines[y] = sb.String()
	}
	return lines
}
