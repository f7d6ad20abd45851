package tui

import (
	"fmt"
	"strings"

	"disk2/protocol"

	"github.com/charmbracelet/lipgloss"
)

var (
	screenStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7B61FF"))

	hiddenStyle = screenStyle.
			BorderForeground(lipgloss.Color("#666666")).
			Foreground(lipgloss.Color("#666666"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7B61FF"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5A9"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87")).
			Bold(true)
)

const helpText = "tab: osd  ↑/↓: cursor  ←: parent  →/enter: select  r: refresh  [/]: track  t: resend  q: quit"

// View implements tea.Model
func (m *Model) View() string {
	snap := m.fpga.Snapshot()

	screen := hiddenStyle
	title := "OSD (hidden)"
	if snap.OSDEnabled {
		screen = screenStyle
		title = "OSD"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(screen.Render(strings.Join(m.fpga.Lines(), "\n")))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.statusLine()))
	b.WriteString("\n")
	if m.lastErr != nil {
		b.WriteString(errorStyle.Render(m.lastErr.Error()))
		b.WriteString("\n")
	}
	b.WriteString(statusStyle.Render(helpText))
	return b.String()
}

func (m *Model) statusLine() string {
	image := "no image"
	if path, size, ok := m.board.Tracks.Current(); ok {
		image = fmt.Sprintf("%s (%d tracks)", path, (size+protocol.TrackLen-1)/protocol.TrackLen)
	}
	st := m.board.Dispatcher.Stats()
	return fmt.Sprintf("%s | head %d | served %d | dispatches %d | max %s | overruns %d | key %q",
		image, m.track, st.Tracks, st.Dispatches, st.MaxLatency, st.Overruns, m.lastKey)
}
