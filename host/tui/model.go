// Package tui is a terminal front panel for the simulated board: the OSD
// character grid, the drive's track requests and the five buttons.
package tui

import (
	"disk2/board"
	"disk2/protocol"
	"disk2/sim"

	tea "github.com/charmbracelet/bubbletea"
)

// ChangedMsg reports that the image directory changed on disk
type ChangedMsg struct{}

// Model drives a board wired to a sim.FPGA
type Model struct {
	fpga  *sim.FPGA
	board *board.Board

	osdHeld bool
	track   uint8
	lastKey string
	lastErr error

	changes <-chan struct{}
}

// New creates the model and routes the FPGA interrupt to the dispatcher.
// changes, if non-nil, delivers directory change notifications.
func New(fpga *sim.FPGA, b *board.Board, changes <-chan struct{}) *Model {
	m := &Model{
		fpga:    fpga,
		board:   b,
		changes: changes,
	}
	fpga.OnIRQ(m.irq)
	return m
}

func (m *Model) irq() {
	if err := m.board.Dispatcher.Handle(); err != nil {
		m.lastErr = err
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.waitForChange()
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case ChangedMsg:
		m.press(protocol.BtnRefresh)
		return m, m.waitForChange()
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.lastKey = msg.String()

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab", "o":
		m.osdHeld = !m.osdHeld
		m.fpga.SetButtons(m.held())
	case "k", "up":
		m.press(protocol.BtnUp)
	case "j", "down":
		m.press(protocol.BtnDown)
	case "h", "left", "backspace":
		m.press(protocol.BtnLeft)
	case "l", "right", "enter":
		m.press(protocol.BtnRight)
	case "r":
		m.press(protocol.BtnRefresh)
	case "]":
		m.step(1)
	case "[":
		m.step(-1)
	case "t":
		m.fpga.RequestTrack(m.track)
	}
	return m, nil
}

func (m *Model) held() uint8 {
	if m.osdHeld {
		return protocol.BtnOSD
	}
	return 0
}

// press is a button push and release. Each edge is its own event.
func (m *Model) press(btn uint8) {
	m.fpga.SetButtons(m.held() | btn)
	m.fpga.SetButtons(m.held())
}

// step moves the simulated head and requests the new track
func (m *Model) step(delta int) {
	t := int(m.track) + delta
	if t < 0 || t > protocol.StatusTrackMask {
		return
	}
	m.track = uint8(t)
	m.fpga.RequestTrack(m.track)
}

func (m *Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-m.changes; !ok {
			return nil
		}
		return ChangedMsg{}
	}
}

// Err returns the last dispatch error
func (m *Model) Err() error {
	return m.lastErr
}
