package tasklist

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mzurek/taskflow/internal/keys"
	"github.com/mzurek/taskflow/internal/model"
	"github.com/mzurek/taskflow/internal/notify"
	"github.com/mzurek/taskflow/internal/tasks"
	"github.com/mzurek/taskflow/internal/view"
)

type fakeTaskAPI struct {
	tasks []model.Task
}

func (f *fakeTaskAPI) ListTasks(ctx context.Context) ([]model.Task, error) {
	return f.tasks, nil
}

func (f *fakeTaskAPI) CreateTask(ctx context.Context, input model.TaskInput) (*model.Task, error) {
	t := model.Task{ID: "new", Title: input.Title, Status: input.Status, Priority: input.Priority}
	return &t, nil
}

func (f *fakeTaskAPI) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	return &model.Task{ID: id}, nil
}

func (f *fakeTaskAPI) DeleteTask(ctx context.Context, id string) error {
	return nil
}

func newTestModel(t *testing.T, taskList []model.Task) Model {
	t.Helper()

	provider := tasks.NewProvider(&fakeTaskAPI{tasks: taskList}, notify.NewCenter(), nil)
	if err := provider.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return New(provider, keys.DefaultKeyMap(), 80, 24)
}

func pressKey(t *testing.T, m Model, r rune) Model {
	t.Helper()
	out, _ := m.Update(tea.KeyMsg(tea.Key{Type: tea.KeyRunes, Runes: []rune{r}}))
	return out
}

func TestTileKeysSelectTiles(t *testing.T) {
	yesterday := time.Now().AddDate(0, 0, -1)
	m := newTestModel(t, []model.Task{
		{ID: "a", Title: "A", Status: model.StatusTodo, Priority: model.PriorityHigh},
		{ID: "b", Title: "B", Status: model.StatusInProgress, Priority: model.PriorityLow, DueDate: &yesterday},
		{ID: "c", Title: "C", Status: model.StatusCompleted, Priority: model.PriorityMedium},
	})

	tests := []struct {
		key  rune
		tile string
	}{
		{'2', view.TileOverdue},
		{'3', view.TileHigh},
		{'4', model.StatusTodo},
		{'5', model.StatusInProgress},
		{'6', model.StatusCompleted},
		{'1', view.FilterAll},
	}

	for _, tc := range tests {
		m = pressKey(t, m, tc.key)
		if m.query.Tile != tc.tile {
			t.Errorf("key %q selected tile %q, want %q", tc.key, m.query.Tile, tc.tile)
		}
		if m.query.Status != view.FilterAll || m.query.Priority != view.FilterAll {
			t.Errorf("key %q left fine filters set: status=%q priority=%q",
				tc.key, m.query.Status, m.query.Priority)
		}
	}
}

func TestTilesRenderWithCounts(t *testing.T) {
	m := newTestModel(t, []model.Task{
		{ID: "a", Title: "A", Status: model.StatusTodo, Priority: model.PriorityHigh},
		{ID: "b", Title: "B", Status: model.StatusTodo, Priority: model.PriorityLow},
		{ID: "c", Title: "C", Status: model.StatusCompleted, Priority: model.PriorityMedium},
	})

	tiles := m.renderTiles()
	for _, want := range []string{"3 task", "2 todo", "0 in progress", "1 completed", "1 high priority"} {
		if !strings.Contains(tiles, want) {
			t.Errorf("tiles missing %q:\n%s", want, tiles)
		}
	}
}
