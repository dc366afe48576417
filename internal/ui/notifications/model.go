package notifications

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mzurek/taskflow/internal/keys"
	"github.com/mzurek/taskflow/internal/notify"
	"github.com/mzurek/taskflow/internal/theme"
)

// CloseMsg is dispatched when the user closes the panel.
type CloseMsg struct{}

// Model is the notification center panel. Entries come newest first
// from the center; the cursor survives mark-read but clamps after
// dismissals.
type Model struct {
	center *notify.Center
	keys   *keys.KeyMap
	cursor int
	width  int
	height int
}

// New creates a new notification panel model.
func New(center *notify.Center, k *keys.KeyMap, width, height int) Model {
	return Model{
		center: center,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init resets the cursor to the newest entry.
func (m *Model) Init() tea.Cmd {
	m.cursor = 0
	return nil
}

// Update handles messages for the notification panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	entries := m.center.List()
	switch {
	case key.Matches(kmsg, m.keys.Down):
		if m.cursor < len(entries)-1 {
			m.cursor++
		}

	case key.Matches(kmsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(kmsg, m.keys.Select):
		if m.cursor < len(entries) {
			m.center.MarkRead(entries[m.cursor].ID)
		}

	case key.Matches(kmsg, m.keys.Delete):
		if m.cursor < len(entries) {
			m.center.Dismiss(entries[m.cursor].ID)
			if m.cursor > 0 && m.cursor >= len(entries)-1 {
				m.cursor--
			}
		}

	case key.Matches(kmsg, m.keys.Back), key.Matches(kmsg, m.keys.Notifications):
		return m, func() tea.Msg { return CloseMsg{} }
	}

	return m, nil
}

// View renders the notification panel.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	entries := m.center.List()
	title := titleStyle.Render(
		fmt.Sprintf("Notifications (%d unread)", m.center.UnreadCount()))

	if len(entries) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render("No notifications.")
		return theme.DetailPanelStyle.
			Width(m.width - 4).
			Render(lipgloss.JoinVertical(lipgloss.Left, title, empty))
	}

	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, title)
	for i, n := range entries {
		badge := theme.KindStyle(n.Kind).Render(n.Kind)
		message := n.Message
		if !n.Read {
			message = lipgloss.NewStyle().Bold(true).Render(message)
		}
		when := theme.HelpStyle.Render(n.Timestamp.Format("15:04"))
		line := fmt.Sprintf("%s %s %s", badge, message, when)
		if i == m.cursor {
			line = theme.SelectedItemStyle.Render(line)
		} else {
			line = theme.ListItemStyle.Render(line)
		}
		lines = append(lines, line)
	}

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
