package notify

import (
	"testing"
	"time"

	"github.com/mzurek/taskflow/internal/model"
)

var scanNow = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func fixedTasks(tasks []model.Task) func() []model.Task {
	return func() []model.Task { return tasks }
}

func TestScanDueConditions(t *testing.T) {
	today := scanNow.Add(6 * time.Hour) // same calendar day, later time
	yesterday := scanNow.AddDate(0, 0, -1)
	tomorrow := scanNow.AddDate(0, 0, 1)
	nextWeek := scanNow.AddDate(0, 0, 7)

	tasks := []model.Task{
		{ID: "a", Title: "A", Status: model.StatusTodo, DueDate: &today},
		{ID: "b", Title: "B", Status: model.StatusTodo, DueDate: &yesterday},
		{ID: "c", Title: "C", Status: model.StatusTodo, DueDate: nil},
		{ID: "d", Title: "D", Status: model.StatusTodo, DueDate: &tomorrow},
		{ID: "e", Title: "E", Status: model.StatusTodo, DueDate: &nextWeek},
		{ID: "f", Title: "F", Status: model.StatusCompleted, DueDate: &yesterday},
	}

	center := NewCenter()
	n := NewDueNotifier(center, fixedTasks(tasks))

	n.Scan(scanNow)

	list := center.List()
	if len(list) != 3 {
		t.Fatalf("expected 3 notifications, got %d: %v", len(list), list)
	}

	// List is newest first; scan order was a, b, d.
	byMessage := make(map[string]string, len(list))
	for _, nt := range list {
		byMessage[nt.Message] = nt.Kind
	}

	want := map[string]string{
		`Task "A" is due today!`:   model.KindWarning,
		`Task "B" is overdue!`:     model.KindError,
		`Task "D" is due tomorrow`: model.KindInfo,
	}
	for msg, kind := range want {
		if got, ok := byMessage[msg]; !ok {
			t.Errorf("missing notification %q", msg)
		} else if got != kind {
			t.Errorf("notification %q kind = %q, want %q", msg, got, kind)
		}
	}
}

func TestScanSkipsUndatedSilently(t *testing.T) {
	tasks := []model.Task{
		{ID: "c", Title: "C", Status: model.StatusTodo, DueDate: nil},
	}

	center := NewCenter()
	n := NewDueNotifier(center, fixedTasks(tasks))
	n.Scan(scanNow)

	if got := len(center.List()); got != 0 {
		t.Errorf("expected no notifications, got %d", got)
	}
}

func TestScanRepeatsWithoutDedupe(t *testing.T) {
	yesterday := scanNow.AddDate(0, 0, -1)
	tasks := []model.Task{
		{ID: "b", Title: "B", Status: model.StatusTodo, DueDate: &yesterday},
	}

	center := NewCenter()
	n := NewDueNotifier(center, fixedTasks(tasks))

	n.Scan(scanNow)
	n.Scan(scanNow)

	if got := len(center.List()); got != 2 {
		t.Errorf("expected repeated notifications, got %d", got)
	}
}

func TestScanDedupePerDay(t *testing.T) {
	yesterday := scanNow.AddDate(0, 0, -1)
	tasks := []model.Task{
		{ID: "b", Title: "B", Status: model.StatusTodo, DueDate: &yesterday},
	}

	center := NewCenter()
	n := NewDueNotifier(center, fixedTasks(tasks), WithDedupe(true))

	n.Scan(scanNow)
	n.Scan(scanNow.Add(2 * time.Hour))

	if got := len(center.List()); got != 1 {
		t.Errorf("expected a single notification for the day, got %d", got)
	}

	// A new day emits again.
	n.Scan(scanNow.AddDate(0, 0, 1))
	if got := len(center.List()); got != 2 {
		t.Errorf("expected a fresh notification the next day, got %d", got)
	}
}

func TestStartStop(t *testing.T) {
	yesterday := scanNow.AddDate(0, 0, -1)
	tasks := []model.Task{
		{ID: "b", Title: "B", Status: model.StatusTodo, DueDate: &yesterday},
	}

	center := NewCenter()
	n := NewDueNotifier(center, fixedTasks(tasks), WithInterval(10*time.Millisecond))

	n.Start()
	time.Sleep(35 * time.Millisecond)
	n.Stop()

	// Initial scan plus at least one tick.
	if got := len(center.List()); got < 2 {
		t.Errorf("expected periodic scans, got %d notifications", got)
	}

	count := len(center.List())
	time.Sleep(30 * time.Millisecond)
	if got := len(center.List()); got != count {
		t.Errorf("notifier kept scanning after Stop: %d -> %d", count, got)
	}

	// Stop twice must not panic.
	n.Stop()
}

func TestRestartAfterStop(t *testing.T) {
	yesterday := scanNow.AddDate(0, 0, -1)
	tasks := []model.Task{
		{ID: "b", Title: "B", Status: model.StatusTodo, DueDate: &yesterday},
	}

	center := NewCenter()
	n := NewDueNotifier(center, fixedTasks(tasks), WithInterval(10*time.Millisecond))

	n.Start()
	n.Stop()

	// Sign-out and back in restarts the loop; ticks must resume, not
	// just the initial scan.
	n.Start()
	defer n.Stop()

	time.Sleep(55 * time.Millisecond)
	if got := len(center.List()); got < 3 {
		t.Errorf("expected periodic scans after restart, got %d notifications", got)
	}
}

func TestDaysUntil(t *testing.T) {
	tests := []struct {
		name string
		due  time.Time
		want int
	}{
		{"later today", scanNow.Add(10 * time.Hour), 0},
		{"earlier today", scanNow.Add(-8 * time.Hour), 0},
		{"tomorrow early", time.Date(2025, 6, 16, 0, 30, 0, 0, time.UTC), 1},
		{"yesterday late", time.Date(2025, 6, 14, 23, 30, 0, 0, time.UTC), -1},
		{"next week", scanNow.AddDate(0, 0, 7), 7},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := daysUntil(tc.due, scanNow); got != tc.want {
				t.Errorf("daysUntil = %d, want %d", got, tc.want)
			}
		})
	}
}
