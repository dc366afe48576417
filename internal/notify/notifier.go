package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/mzurek/taskflow/internal/model"
)

// defaultScanInterval is the wall-clock period between due-date scans.
const defaultScanInterval = 24 * time.Hour

// DueNotifier periodically scans the task collection and emits a
// notification for every open task that is due today, due tomorrow,
// or overdue. It runs one scan immediately on Start and then once per
// interval until Stop is called.
type DueNotifier struct {
	center   *Center
	snapshot func() []model.Task
	interval time.Duration
	dedupe   bool

	mu      sync.Mutex
	seen    map[string]struct{}
	stopCh  chan struct{}
	running bool
}

// Option configures a DueNotifier.
type Option func(*DueNotifier)

// WithInterval overrides the scan period. Mainly for tests.
func WithInterval(d time.Duration) Option {
	return func(n *DueNotifier) { n.interval = d }
}

// WithDedupe enables per-task, per-condition, per-day suppression of
// repeat notifications. Off by default: each scan re-announces every
// qualifying task, acting as a reminder.
func WithDedupe(enabled bool) Option {
	return func(n *DueNotifier) { n.dedupe = enabled }
}

// NewDueNotifier creates a notifier that reads the task collection
// through snapshot and appends alerts to center.
func NewDueNotifier(center *Center, snapshot func() []model.Task, opts ...Option) *DueNotifier {
	n := &DueNotifier{
		center:   center,
		snapshot: snapshot,
		interval: defaultScanInterval,
		seen:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Start launches the background scan loop. Calling Start on a running
// notifier is a no-op; after Stop it starts a fresh loop, so the
// notifier survives sign-out/sign-in cycles.
func (n *DueNotifier) Start() {
	n.mu.Lock()
	if n.running {
		n.mu.Unlock()
		return
	}
	n.running = true
	n.stopCh = make(chan struct{})
	stop := n.stopCh
	n.mu.Unlock()

	go n.loop(stop)
}

// Stop halts the scan loop.
func (n *DueNotifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.running {
		return
	}
	close(n.stopCh)
	n.running = false
}

func (n *DueNotifier) loop(stop <-chan struct{}) {
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	n.Scan(time.Now())

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			n.Scan(time.Now())
		}
	}
}

// Scan runs a single pass over the task collection, emitting at most
// one notification per qualifying task. Tasks without a due date and
// completed tasks are skipped.
func (n *DueNotifier) Scan(now time.Time) {
	for _, t := range n.snapshot() {
		if t.DueDate == nil || t.Status == model.StatusCompleted {
			continue
		}

		message, kind, ok := dueMessage(t, now)
		if !ok {
			continue
		}

		if n.dedupe && n.alreadySent(t.ID, kind, now) {
			continue
		}

		n.center.Add(message, kind)
	}
}

// alreadySent records and checks the (task, condition, day) triple.
func (n *DueNotifier) alreadySent(taskID, kind string, now time.Time) bool {
	key := fmt.Sprintf("%s|%s|%s", taskID, kind, now.Format("2006-01-02"))

	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.seen[key]; ok {
		return true
	}
	n.seen[key] = struct{}{}
	return false
}

// dueMessage maps a task's calendar-day distance from now to the
// notification it should produce, if any.
func dueMessage(t model.Task, now time.Time) (message, kind string, ok bool) {
	days := daysUntil(*t.DueDate, now)
	switch {
	case days == 0:
		return fmt.Sprintf("Task \"%s\" is due today!", t.Title), model.KindWarning, true
	case days == 1:
		return fmt.Sprintf("Task \"%s\" is due tomorrow", t.Title), model.KindInfo, true
	case days < 0:
		return fmt.Sprintf("Task \"%s\" is overdue!", t.Title), model.KindError, true
	default:
		return "", "", false
	}
}

// daysUntil returns the whole-day distance between due and now,
// comparing calendar days so that any time on today's date counts
// as zero.
func daysUntil(due, now time.Time) int {
	dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(dueDay.Sub(nowDay) / (24 * time.Hour))
}
