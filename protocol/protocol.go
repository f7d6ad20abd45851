// Package protocol implements the SPI wire format spoken with the FPGA
// disk controller and OSD.
package protocol

// Version represents the disk2 firmware version
const Version = "0.1.0"

// Frame layout constants
const (
	FrameLen   = 5 // Query and response length
	StatusByte = 4 // Position of the event/button byte in a response

	TrackLen = 6656 // Bytes per track (Apple II NIB)

	// Status byte bits (READ_TRACK_IRQ_QUERY response)
	StatusButton      = 0x80 // Button event pending
	StatusTrackChange = 0x40 // FPGA wants a new track
	StatusTrackMask   = 0x3F // Track number bits

	// OSD geometry and addressing
	OSDBase     = 0xF000
	OSDCols     = 64
	OSDRows     = 20
	OSDRowShift = 6
	OSDColMask  = 63
	OSDRowMask  = 31
	OSDSize     = OSDCols * OSDRows
)

// Button bits (READ_BUTTON_QUERY response byte)
const (
	BtnOSD     = 0x02 // Held: OSD visible
	BtnRefresh = 0x04 // Re-read directory
	BtnUp      = 0x08 // Cursor up
	BtnDown    = 0x10 // Cursor down
	BtnLeft    = 0x20 // Parent directory
	BtnRight   = 0x40 // Enter directory / select image
)

// Fixed messages
var (
	ReadTrackIRQQuery = [FrameLen]byte{0x01, 0x00, 0x00, 0x00, 0x00}
	ReadButtonQuery   = [FrameLen]byte{0x01, 0xFE, 0x00, 0x00, 0x00}
	WriteTrackHeader  = [3]byte{0x00, 0x00, 0x00}
)

// Command byte values (first byte of every message)
const (
	CmdWrite = 0x00
	CmdRead  = 0x01
)

// OSDEnableMsg builds the OSD_ENABLE message
func OSDEnableMsg(enable bool) [4]byte {
	msg := [4]byte{CmdWrite, 0xFE, 0x00, 0x00}
	if enable {
		msg[3] = 1
	}
	return msg
}

// OSDAddress maps a character cell to its FPGA address.
// Rows and columns wrap instead of being rejected.
func OSDAddress(row, col int) uint16 {
	return uint16(OSDBase + (col & OSDColMask) + ((row & OSDRowMask) << OSDRowShift))
}

// OSDWriteHeader builds the header that precedes an OSD text payload
func OSDWriteHeader(addr uint16) [3]byte {
	return [3]byte{CmdWrite, byte(addr >> 8), byte(addr)}
}

// Status is the event byte of a READ_TRACK_IRQ_QUERY response
type Status uint8

// ParseStatus extracts the event byte from a response frame
func ParseStatus(frame []byte) Status {
	if len(frame) <= StatusByte {
		return 0
	}
	return Status(frame[StatusByte])
}

// TrackChange reports whether the FPGA requested a track
func (s Status) TrackChange() bool {
	return s&StatusTrackChange != 0
}

// Track returns the requested track number (0-63)
func (s Status) Track() uint8 {
	return uint8(s & StatusTrackMask)
}

// ButtonPending reports whether a button event is waiting
func (s Status) ButtonPending() bool {
	return s&StatusButton != 0
}
