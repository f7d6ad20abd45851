package osd

import "disk2/storage"

// Highlight selects the glyph in the first column of a row
type Highlight uint8

const (
	HighlightNone     Highlight = iota // blank
	HighlightCursor                    // right triangle
	HighlightSelected                  // asterisk, the mounted image
)

// Glyphs indexed by Highlight. 0x10 is the right triangle in the FPGA font.
var Glyphs = [3]byte{' ', 0x10, '*'}

// Line layout: glyph, name, then a 6 column size/type field
const (
	LineLen   = 64
	NameCol   = 1
	NameWidth = 57
	InfoCol   = NameCol + NameWidth // 58
)

// Unit suffixes for FormatSize, one per factor of 1024
const units = " KMGTE"

// FormatSize scales size down by 1024 until it is below 1024 and returns
// the mantissa with its unit suffix (' ' for bytes).
func FormatSize(size uint64) (mantissa uint64, unit byte) {
	exp := 0
	for size >= 1024 && exp < len(units)-1 {
		size >>= 10
		exp++
	}
	return size, units[exp]
}

// FormatLine renders one browser row. A nil entry is a blank row.
func FormatLine(entry *storage.DirEntry, hl Highlight) [LineLen]byte {
	var line [LineLen]byte
	for i := range line {
		line[i] = ' '
	}
	if entry == nil {
		return line
	}

	if int(hl) < len(Glyphs) {
		line[0] = Glyphs[hl]
	}
	copy(line[NameCol:InfoCol], entry.Name)

	if entry.IsDir {
		line[LineLen-1] = 'D'
		return line
	}

	mantissa, unit := FormatSize(entry.Size)
	// " %4d%c"
	for i := LineLen - 2; i > InfoCol; i-- {
		line[i] = byte('0' + mantissa%10)
		mantissa /= 10
		if mantissa == 0 {
			break
		}
	}
	line[LineLen-1] = unit
	return line
}
