package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mzurek/taskflow/internal/theme"
)

// frameRows is the vertical space taken by the header and status bar.
const frameRows = 2

// Layout slices the terminal into a header row, the content area, and
// a status bar.
type Layout struct {
	Width  int
	Height int
}

// NewLayout creates a Layout for the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{Width: width, Height: height}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the rows left for the content area once the
// frame is placed.
func (l Layout) ContentHeight() int {
	return l.Height - frameRows
}

// RenderHeader draws the top bar: the application title on the left
// and a session summary (signed-in user, unread badge) on the right.
func (l Layout) RenderHeader(title, status string) string {
	left := theme.HeaderStyle.Render(title)
	right := theme.HeaderStyle.Align(lipgloss.Right).Render(status)
	return l.spread(left, right, theme.HeaderStyle)
}

// RenderStatusBar draws the bottom bar with the key hints for the
// active view.
func (l Layout) RenderStatusBar(hints string) string {
	return l.spread(theme.StatusBarStyle.Render(hints), "", theme.StatusBarStyle)
}

// RenderWithFrame stacks header, content, and status bar into the
// full terminal view.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

// spread joins left and right with a styled filler so the bar spans
// the whole terminal width.
func (l Layout) spread(left, right string, bar lipgloss.Style) string {
	gap := l.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	filler := bar.Render(lipgloss.NewStyle().
		Width(gap).
		Background(bar.GetBackground()).
		Render(""))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, filler, right)
}
