// Package browser implements the OSD file browser: the directory listing,
// cursor, scroll window and mounted-image marker.
package browser

import (
	"path"
	"sort"

	"disk2/core"
	"disk2/osd"
	"disk2/protocol"
	"disk2/storage"
)

// ScreenRows is the number of visible rows
const ScreenRows = protocol.OSDRows

// NoSelection marks that no listed entry is the mounted image
const NoSelection = -1

// Lister lists directory entries
type Lister interface {
	ListEntries(dir string) ([]storage.DirEntry, error)
}

// ImageSelector mounts an image file
type ImageSelector interface {
	SelectImage(path string) error
}

// Display draws one browser row
type Display interface {
	RenderLine(row int, entry *storage.DirEntry, hl osd.Highlight) error
}

// State is the browser's navigation state
type State struct {
	Dir      string
	Entries  []storage.DirEntry
	Top      int // First visible entry
	Cursor   int // Highlighted entry
	Selected int // Entry whose image is open, or NoSelection
}

// Browser drives the directory listing shown on the OSD.
// Methods return errors only for display (transport) faults.
type Browser struct {
	fs     Lister
	images ImageSelector
	screen Display
	filter *Filter

	state State
}

// New creates a browser positioned at "/". Call Refresh before drawing.
func New(fs Lister, images ImageSelector, screen Display) *Browser {
	b := &Browser{
		fs:     fs,
		images: images,
		screen: screen,
	}
	b.state.Dir = "/"
	b.reset()
	return b
}

// SetFilter hides files that match none of the filter's patterns.
// Directories are always listed. A nil filter shows everything.
func (b *Browser) SetFilter(f *Filter) {
	b.filter = f
}

// State returns a copy of the navigation state
func (b *Browser) State() State {
	s := b.state
	s.Entries = append([]storage.DirEntry(nil), b.state.Entries...)
	return s
}

// Chdir resets the browser to dir and lists it, without drawing
func (b *Browser) Chdir(dir string) {
	b.state.Dir = path.Clean("/" + dir)
	b.reset()
	b.Refresh()
}

// Refresh re-reads the current directory. Top, Cursor and Selected are kept;
// Cursor and Top are only pulled back if the list got shorter.
// A listing error leaves an empty directory.
func (b *Browser) Refresh() {
	list, err := b.fs.ListEntries(b.state.Dir)
	if err != nil {
		core.RecordTiming(core.EvtListFail, 0, 0, 0, 0)
		list = nil
	}

	entries := b.state.Entries[:0]
	for _, e := range list {
		if !e.IsDir && !b.filter.Match(e.Name) {
			continue
		}
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	b.state.Entries = entries

	if b.state.Cursor >= len(entries) {
		b.state.Cursor = max(len(entries)-1, 0)
	}
	if b.state.Top > b.state.Cursor {
		b.state.Top = b.state.Cursor
	}
}

// Redraw draws every visible row
func (b *Browser) Redraw() error {
	for y := 0; y < ScreenRows; y++ {
		if err := b.drawRow(y); err != nil {
			return err
		}
	}
	return nil
}

// MoveCursor moves the cursor one entry up (delta < 0) or down (delta > 0).
// There is no wraparound. Inside the window only the two affected rows are
// redrawn; leaving the window scrolls by one row and redraws everything.
func (b *Browser) MoveCursor(delta int) error {
	s := &b.state
	old := s.Cursor

	switch {
	case delta > 0 && s.Cursor < len(s.Entries)-1:
		s.Cursor++
	case delta < 0 && s.Cursor > 0:
		s.Cursor--
	}
	if s.Cursor == old {
		return nil
	}

	line := s.Cursor - s.Top
	if line >= 0 && line < ScreenRows {
		if err := b.drawRow(old - s.Top); err != nil {
			return err
		}
		return b.drawRow(line)
	}

	if line < 0 {
		if s.Top > 0 {
			s.Top--
			return b.Redraw()
		}
		return nil
	}
	if s.Top+ScreenRows < len(s.Entries) {
		s.Top++
		return b.Redraw()
	}
	return nil
}

// Enter opens the highlighted directory, or mounts the highlighted file.
// A file that fails to open clears the selection.
func (b *Browser) Enter() error {
	s := &b.state
	if len(s.Entries) == 0 {
		return nil
	}

	e := s.Entries[s.Cursor]
	if e.IsDir {
		b.Chdir(path.Join(s.Dir, e.Name))
		return b.Redraw()
	}

	oldRow := s.Selected - s.Top
	s.Selected = s.Cursor
	if err := b.images.SelectImage(b.Path(s.Cursor)); err != nil {
		core.RecordTiming(core.EvtOpenFail, 0, 0, uint32(s.Cursor), 0)
		s.Selected = NoSelection
	}

	if err := b.drawRow(oldRow); err != nil {
		return err
	}
	return b.drawRow(s.Cursor - s.Top)
}

// Up moves to the parent directory. The root is its own parent.
func (b *Browser) Up() error {
	b.Chdir(path.Dir(b.state.Dir))
	return b.Redraw()
}

// Path returns the full path of entry i
func (b *Browser) Path(i int) string {
	return path.Join(b.state.Dir, b.state.Entries[i].Name)
}

func (b *Browser) reset() {
	b.state.Top = 0
	b.state.Cursor = 0
	b.state.Selected = NoSelection
}

// drawRow draws screen row y; rows outside the screen are ignored
func (b *Browser) drawRow(y int) error {
	if y < 0 || y >= ScreenRows {
		return nil
	}
	s := &b.state

	i := s.Top + y
	if i >= len(s.Entries) {
		return b.screen.RenderLine(y, nil, osd.HighlightNone)
	}

	hl := osd.HighlightNone
	if i == s.Cursor {
		hl = osd.HighlightCursor
	}
	if i == s.Selected {
		hl = osd.HighlightSelected
	}
	return b.screen.RenderLine(y, &s.Entries[i], hl)
}
