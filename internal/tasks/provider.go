// Package tasks owns the authoritative task collection for the
// signed-in user. All mutations go through command functions that
// complete their boundary round-trip before local state changes; the
// view engine and the due-date scanner only ever read snapshots.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mzurek/taskflow/internal/api"
	"github.com/mzurek/taskflow/internal/model"
	"github.com/mzurek/taskflow/internal/notify"
)

// ErrTitleRequired is returned when a task is created with an empty
// title. Caught before any boundary call.
var ErrTitleRequired = errors.New("task title is required")

// ErrEditPending is returned when a second edit is opened while one
// draft is still outstanding.
var ErrEditPending = errors.New("another edit is already in progress")

// TaskAPI is the narrow boundary contract the provider consumes.
// *api.Client satisfies it.
type TaskAPI interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	CreateTask(ctx context.Context, input model.TaskInput) (*model.Task, error)
	UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// AuthSink receives boundary authorization failures. The session
// store satisfies it.
type AuthSink interface {
	HandleAuthFailure(err error) bool
}

// Provider holds the task collection and applies mutations to it.
type Provider struct {
	api    TaskAPI
	center *notify.Center
	auth   AuthSink

	mu      sync.Mutex
	tasks   []model.Task
	editing string // id of the task with an open draft, or ""
}

// NewProvider creates an empty provider. Load fills it.
func NewProvider(taskAPI TaskAPI, center *notify.Center, auth AuthSink) *Provider {
	return &Provider{
		api:    taskAPI,
		center: center,
		auth:   auth,
	}
}

// Snapshot returns a copy of the current collection. Callers may
// filter and sort it freely without affecting the source.
func (p *Provider) Snapshot() []model.Task {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]model.Task, len(p.tasks))
	copy(out, p.tasks)
	return out
}

// Load replaces the collection with the server's task list. The
// replacement is atomic: concurrent readers see either the old or the
// new collection, never a mix.
func (p *Provider) Load(ctx context.Context) error {
	fetched, err := p.api.ListTasks(ctx)
	if err != nil {
		p.fail(err, "Failed to load tasks")
		return err
	}

	p.mu.Lock()
	p.tasks = fetched
	p.mu.Unlock()
	return nil
}

// Create validates the input, creates the task server-side, and
// appends the server's record once the call resolves. The collection
// is untouched on any failure.
func (p *Provider) Create(ctx context.Context, input model.TaskInput) (*model.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		p.center.Add("Task title is required", model.KindError)
		return nil, ErrTitleRequired
	}
	if input.Status == "" {
		input.Status = model.StatusTodo
	}
	if input.Priority == "" {
		input.Priority = model.PriorityMedium
	}

	created, err := p.api.CreateTask(ctx, input)
	if err != nil {
		p.fail(err, "Failed to create task")
		return nil, err
	}

	p.mu.Lock()
	p.tasks = append(p.tasks, *created)
	p.mu.Unlock()

	p.center.Add("Task created successfully", model.KindSuccess)
	return created, nil
}

// BeginEdit opens an exclusive draft for the task. At most one draft
// may be open at a time; a second BeginEdit fails with ErrEditPending
// until CommitEdit or CancelEdit runs.
func (p *Provider) BeginEdit(id string) (model.Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.editing != "" {
		return model.Task{}, ErrEditPending
	}
	for _, t := range p.tasks {
		if t.ID == id {
			p.editing = id
			return t, nil
		}
	}
	return model.Task{}, fmt.Errorf("task %s: %w", id, api.ErrNotFound)
}

// CancelEdit discards the open draft.
func (p *Provider) CancelEdit() {
	p.mu.Lock()
	p.editing = ""
	p.mu.Unlock()
}

// CommitEdit sends the draft's patch to the server and, once the call
// resolves, applies the returned record. If the task has since been
// removed locally the result is discarded.
func (p *Provider) CommitEdit(ctx context.Context, patch model.TaskPatch) error {
	p.mu.Lock()
	id := p.editing
	p.mu.Unlock()

	if id == "" {
		return fmt.Errorf("no edit in progress")
	}
	defer p.CancelEdit()

	updated, err := p.api.UpdateTask(ctx, id, patch)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			p.center.Add("Failed to update task: it no longer exists", model.KindError)
			p.reconcile(ctx, id)
			return err
		}
		p.fail(err, "Failed to update task")
		return err
	}

	p.mu.Lock()
	for i := range p.tasks {
		if p.tasks[i].ID == id {
			p.tasks[i] = *updated
			break
		}
	}
	p.mu.Unlock()

	p.center.Add("Task updated successfully", model.KindSuccess)
	return nil
}

// Delete removes the task server-side and then locally. The local
// list only changes after the call resolves.
func (p *Provider) Delete(ctx context.Context, id string) error {
	title := ""
	p.mu.Lock()
	for _, t := range p.tasks {
		if t.ID == id {
			title = t.Title
			break
		}
	}
	p.mu.Unlock()

	if err := p.api.DeleteTask(ctx, id); err != nil {
		if errors.Is(err, api.ErrNotFound) {
			p.center.Add("Failed to delete task: it no longer exists", model.KindError)
			p.reconcile(ctx, id)
			return err
		}
		p.fail(err, "Failed to delete task")
		return err
	}

	p.removeLocal(id)
	p.center.Add(fmt.Sprintf("Task \"%s\" deleted", title), model.KindInfo)
	return nil
}

// reconcile refetches the collection after a not-found response and
// drops the task locally if the server confirms it is gone.
func (p *Provider) reconcile(ctx context.Context, id string) {
	fetched, err := p.api.ListTasks(ctx)
	if err != nil {
		// Leave local state alone; the next successful Load fixes it.
		return
	}
	for _, t := range fetched {
		if t.ID == id {
			return
		}
	}
	p.removeLocal(id)
}

func (p *Provider) removeLocal(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.tasks {
		if p.tasks[i].ID == id {
			p.tasks = append(p.tasks[:i], p.tasks[i+1:]...)
			return
		}
	}
}

// fail routes a boundary failure: authorization failures expire the
// session, everything else becomes a generic failure notification.
// Local state is never changed here.
func (p *Provider) fail(err error, message string) {
	if p.auth != nil && p.auth.HandleAuthFailure(err) {
		return
	}
	p.center.Add(message, model.KindError)
}
