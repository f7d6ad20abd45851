package osd

import (
	"strings"
	"testing"

	"disk2/protocol"
	"disk2/storage"
)

type writeCall struct {
	parts [][]byte
	fillN int
	fill  byte
}

// recordingWriter captures renderer output
type recordingWriter struct {
	calls []writeCall
}

func (w *recordingWriter) Write(parts ...[]byte) error {
	c := writeCall{}
	for _, p := range parts {
		c.parts = append(c.parts, append([]byte(nil), p...))
	}
	w.calls = append(w.calls, c)
	return nil
}

func (w *recordingWriter) WriteFill(header []byte, n int, fill byte) error {
	w.calls = append(w.calls, writeCall{parts: [][]byte{append([]byte(nil), header...)}, fillN: n, fill: fill})
	return nil
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		size     uint64
		mantissa uint64
		unit     byte
	}{
		{0, 0, ' '},
		{1023, 1023, ' '},
		{1024, 1, 'K'},
		{2048, 2, 'K'},
		{143360, 140, 'K'},
		{232960, 227, 'K'},
		{1048575, 1023, 'K'},
		{1 << 20, 1, 'M'},
		{1073741824, 1, 'G'},
		{3 << 40, 3, 'T'},
		{1 << 60, 1, 'E'},
		{^uint64(0), 15, 'E'},
	}

	for _, tt := range tests {
		m, u := FormatSize(tt.size)
		if m != tt.mantissa || u != tt.unit {
			t.Errorf("FormatSize(%d) = %d%c, want %d%c", tt.size, m, u, tt.mantissa, tt.unit)
		}
	}
}

func TestFormatLineFile(t *testing.T) {
	e := &storage.DirEntry{Name: "snack_attack.nib", Size: 232960}
	line := FormatLine(e, HighlightCursor)

	want := string([]byte{0x10}) + "snack_attack.nib" + strings.Repeat(" ", NameWidth-len("snack_attack.nib")) + "  227K"
	if string(line[:]) != want {
		t.Errorf("Unexpected line:\n got %q\nwant %q", line, want)
	}
}

func TestFormatLineDirectory(t *testing.T) {
	e := &storage.DirEntry{Name: "GAMES", IsDir: true}
	line := FormatLine(e, HighlightNone)

	want := " GAMES" + strings.Repeat(" ", NameWidth-len("GAMES")) + "     D"
	if string(line[:]) != want {
		t.Errorf("Unexpected line:\n got %q\nwant %q", line, want)
	}
}

func TestFormatLineSelected(t *testing.T) {
	line := FormatLine(&storage.DirEntry{Name: "a.nib", Size: 2048}, HighlightSelected)
	if line[0] != '*' {
		t.Errorf("Expected '*' glyph, got %q", line[0])
	}
	if got := string(line[InfoCol:]); got != "    2K" {
		t.Errorf("Expected size field \"    2K\", got %q", got)
	}
}

func TestFormatLineAbsent(t *testing.T) {
	line := FormatLine(nil, HighlightCursor)
	if string(line[:]) != strings.Repeat(" ", LineLen) {
		t.Errorf("Expected a blank line, got %q", line)
	}
}

func TestFormatLineLongNameTruncated(t *testing.T) {
	name := strings.Repeat("x", 80)
	line := FormatLine(&storage.DirEntry{Name: name, IsDir: true}, HighlightNone)
	if len(line) != LineLen {
		t.Fatalf("Line length changed: %d", len(line))
	}
	if string(line[NameCol:InfoCol]) != name[:NameWidth] {
		t.Errorf("Name not truncated to %d columns", NameWidth)
	}
	if line[LineLen-1] != 'D' {
		t.Errorf("Directory marker overwritten: %q", line[LineLen-1])
	}
}

func TestRenderLineAddressing(t *testing.T) {
	w := &recordingWriter{}
	r := New(w)

	if err := r.RenderLine(3, &storage.DirEntry{Name: "GAMES", IsDir: true}, HighlightCursor); err != nil {
		t.Fatalf("RenderLine failed: %v", err)
	}

	if len(w.calls) != 1 || len(w.calls[0].parts) != 2 {
		t.Fatalf("Expected one header+payload write, got %+v", w.calls)
	}
	hdr := w.calls[0].parts[0]
	want := protocol.OSDWriteHeader(protocol.OSDAddress(3, 0))
	if string(hdr) != string(want[:]) {
		t.Errorf("Expected header % X, got % X", want, hdr)
	}
	if len(w.calls[0].parts[1]) != LineLen {
		t.Errorf("Expected %d byte payload, got %d", LineLen, len(w.calls[0].parts[1]))
	}
}

func TestClear(t *testing.T) {
	w := &recordingWriter{}
	if err := New(w).Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	c := w.calls[0]
	if c.fillN != protocol.OSDSize || c.fill != ' ' {
		t.Errorf("Expected %d spaces, got %d x 0x%02X", protocol.OSDSize, c.fillN, c.fill)
	}
	if string(c.parts[0]) != string([]byte{0x00, 0xF0, 0x00}) {
		t.Errorf("Unexpected clear header % X", c.parts[0])
	}
}

func TestSetEnabled(t *testing.T) {
	w := &recordingWriter{}
	r := New(w)

	_ = r.SetEnabled(true)
	if !r.Enabled() {
		t.Error("Expected renderer to report enabled")
	}
	_ = r.SetEnabled(false)
	if r.Enabled() {
		t.Error("Expected renderer to report disabled")
	}
	if got := w.calls[0].parts[0]; string(got) != string([]byte{0x00, 0xFE, 0x00, 0x01}) {
		t.Errorf("Unexpected enable message % X", got)
	}
}
