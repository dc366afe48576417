package tasklist

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mzurek/taskflow/internal/keys"
	"github.com/mzurek/taskflow/internal/model"
	"github.com/mzurek/taskflow/internal/tasks"
	"github.com/mzurek/taskflow/internal/theme"
	"github.com/mzurek/taskflow/internal/view"
)

// TasksRefreshedMsg is sent when the task collection has been reloaded
// from the service.
type TasksRefreshedMsg struct{}

// TaskMutatedMsg is sent after a local mutation (delete, status toggle)
// has resolved so views can re-derive.
type TaskMutatedMsg struct{}

// NewTaskMsg asks the root model to open the create form.
type NewTaskMsg struct{}

// EditTaskMsg asks the root model to open the edit form for a task.
type EditTaskMsg struct {
	TaskID string
}

// statusCycle is the order the s key walks the fine status filter.
var statusCycle = []string{
	view.FilterAll,
	model.StatusTodo,
	model.StatusInProgress,
	model.StatusCompleted,
}

// priorityCycle is the order the p key walks the fine priority filter.
var priorityCycle = []string{
	view.FilterAll,
	model.PriorityLow,
	model.PriorityMedium,
	model.PriorityHigh,
}

// sortCycle is the order Tab walks the sort key.
var sortCycle = []string{
	view.SortByDueDate,
	view.SortByPriority,
	view.SortByStatus,
}

// Model is the main task list view component.
type Model struct {
	list        list.Model
	provider    *tasks.Provider
	keys        *keys.KeyMap
	query       view.Query
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new task list model.
func New(p *tasks.Provider, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Tasks"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search tasks..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		provider:    p,
		keys:        k,
		query:       view.DefaultQuery(),
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Init returns a command that loads the initial set of tasks.
func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// Reload returns a tea.Cmd that refetches the task collection.
func (m Model) Reload() tea.Cmd {
	p := m.provider
	return func() tea.Msg {
		_ = p.Load(context.Background())
		return TasksRefreshedMsg{}
	}
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TasksRefreshedMsg, TaskMutatedMsg:
		return m, m.applyQuery()

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.query.Search = m.searchInput.Value()
		return m, m.applyQuery()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.query.Search = ""
		return m, m.applyQuery()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.Reload()

	case key.Matches(msg, m.keys.TileAll):
		m.query = m.query.SelectTile(view.FilterAll)
		return m, m.applyQuery()

	case key.Matches(msg, m.keys.TileOverdue):
		m.query = m.query.SelectTile(view.TileOverdue)
		return m, m.applyQuery()

	case key.Matches(msg, m.keys.TileHigh):
		m.query = m.query.SelectTile(view.TileHigh)
		return m, m.applyQuery()

	case key.Matches(msg, m.keys.TileTodo):
		m.query = m.query.SelectTile(model.StatusTodo)
		return m, m.applyQuery()

	case key.Matches(msg, m.keys.TileInProgress):
		m.query = m.query.SelectTile(model.StatusInProgress)
		return m, m.applyQuery()

	case key.Matches(msg, m.keys.TileCompleted):
		m.query = m.query.SelectTile(model.StatusCompleted)
		return m, m.applyQuery()

	case key.Matches(msg, m.keys.CycleStatus):
		m.query.Tile = view.FilterAll
		m.query.Status = cycleNext(statusCycle, m.query.Status)
		return m, m.applyQuery()

	case key.Matches(msg, m.keys.CyclePriority):
		m.query.Tile = view.FilterAll
		m.query.Priority = cycleNext(priorityCycle, m.query.Priority)
		return m, m.applyQuery()

	case key.Matches(msg, m.keys.CycleSort):
		m.query.SortKey = cycleNext(sortCycle, m.query.SortKey)
		return m, m.applyQuery()

	case key.Matches(msg, m.keys.ReverseSort):
		if m.query.SortDir == view.Asc {
			m.query.SortDir = view.Desc
		} else {
			m.query.SortDir = view.Asc
		}
		return m, m.applyQuery()

	case key.Matches(msg, m.keys.New):
		return m, func() tea.Msg { return NewTaskMsg{} }

	case key.Matches(msg, m.keys.Edit), key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(TaskItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return EditTaskMsg{TaskID: item.Task.ID}
		}

	case key.Matches(msg, m.keys.Delete):
		item, ok := m.list.SelectedItem().(TaskItem)
		if !ok {
			return m, nil
		}
		return m, m.deleteTask(item.Task.ID)

	case key.Matches(msg, m.keys.ToggleDone):
		item, ok := m.list.SelectedItem().(TaskItem)
		if !ok {
			return m, nil
		}
		return m, m.toggleDone(item.Task)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// deleteTask returns a command that removes a task through the provider.
func (m Model) deleteTask(id string) tea.Cmd {
	p := m.provider
	return func() tea.Msg {
		_ = p.Delete(context.Background(), id)
		return TaskMutatedMsg{}
	}
}

// toggleDone returns a command flipping a task between completed and todo.
func (m Model) toggleDone(task model.Task) tea.Cmd {
	p := m.provider
	next := model.StatusCompleted
	if task.Status == model.StatusCompleted {
		next = model.StatusTodo
	}
	return func() tea.Msg {
		if _, err := p.BeginEdit(task.ID); err != nil {
			return TaskMutatedMsg{}
		}
		_ = p.CommitEdit(context.Background(), model.TaskPatch{Status: &next})
		return TaskMutatedMsg{}
	}
}

// applyQuery re-derives the displayed rows from the provider snapshot
// and the active query.
func (m *Model) applyQuery() tea.Cmd {
	derived := view.Derive(m.provider.Snapshot(), m.query)
	items := make([]list.Item, len(derived))
	for i, task := range derived {
		items[i] = TaskItem{Task: task}
	}
	return m.list.SetItems(items)
}

// cycleNext returns the element after current, wrapping around.
func cycleNext(cycle []string, current string) string {
	for i, v := range cycle {
		if v == current {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

// FilterSummary describes the active filters for the status bar.
// Empty when nothing is filtered.
func (m Model) FilterSummary() string {
	var parts []string
	if m.query.Tile != view.FilterAll {
		parts = append(parts, "tile:"+m.query.Tile)
	}
	if m.query.Status != view.FilterAll {
		parts = append(parts, "status:"+m.query.Status)
	}
	if m.query.Priority != view.FilterAll {
		parts = append(parts, "priority:"+m.query.Priority)
	}
	if m.query.Search != "" {
		parts = append(parts, "search:"+m.query.Search)
	}
	if len(parts) == 0 {
		return ""
	}
	summary := parts[0]
	for _, p := range parts[1:] {
		summary += " " + p
	}
	return summary + " | sort:" + m.query.SortKey + " " + m.query.SortDir
}

// View renders the task list view.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, m.renderTiles(), searchBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, m.renderTiles(), m.renderEmptyState())
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderTiles(), m.list.View())
}

// renderTiles draws the summary tiles above the list, one per tile
// the stats row exposes.
func (m Model) renderTiles() string {
	snapshot := m.provider.Snapshot()
	counts := map[string]int{view.FilterAll: len(snapshot)}
	for _, t := range snapshot {
		if t.Overdue(m.queryNow()) {
			counts[view.TileOverdue]++
		}
		if t.Priority == model.PriorityHigh {
			counts[view.TileHigh]++
		}
		counts[t.Status]++
	}

	tiles := []struct {
		tile  string
		label string
	}{
		{view.FilterAll, "task"},
		{view.TileOverdue, "overdue"},
		{view.TileHigh, "high priority"},
		{model.StatusTodo, "todo"},
		{model.StatusInProgress, "in progress"},
		{model.StatusCompleted, "completed"},
	}

	rendered := make([]string, len(tiles))
	for i, t := range tiles {
		rendered[i] = theme.TileStyle(m.query.Tile == t.tile).
			Render(plural(counts[t.tile], t.label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// renderEmptyState shows guidance text when no tasks are visible.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height - 4).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.FilterSummary() != "" {
		return style.Render("No matching tasks.\nTry adjusting your filters.")
	}
	return style.Render("No tasks yet.\n\nPress n to create one.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-5)
	m.searchInput.Width = width - 4
}

func (m Model) queryNow() time.Time {
	if m.query.Now.IsZero() {
		return time.Now()
	}
	return m.query.Now
}

func plural(n int, noun string) string {
	return fmt.Sprintf("%d %s", n, noun)
}
