package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mzurek/taskflow/internal/model"
)

// taskEnvelope is the single-task response shape.
type taskEnvelope struct {
	Success bool       `json:"success"`
	Task    model.Task `json:"task"`
	Message string     `json:"message,omitempty"`
}

// tasksEnvelope is the task-list response shape.
type tasksEnvelope struct {
	Success bool         `json:"success"`
	Tasks   []model.Task `json:"tasks"`
	Message string       `json:"message,omitempty"`
}

// ListTasks retrieves all tasks owned by the signed-in user.
func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	var env tasksEnvelope
	if err := c.get(ctx, "/api/tasks", &env); err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return env.Tasks, nil
}

// FilteredTasks retrieves tasks matching the server-side filter.
// Empty parameters are omitted.
func (c *Client) FilteredTasks(
	ctx context.Context,
	status, priority, search string,
) ([]model.Task, error) {
	params := url.Values{}
	if status != "" {
		params.Set("status", status)
	}
	if priority != "" {
		params.Set("priority", priority)
	}
	if search != "" {
		params.Set("search", search)
	}

	path := "/api/tasks/filter"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var env tasksEnvelope
	if err := c.get(ctx, path, &env); err != nil {
		return nil, fmt.Errorf("filtering tasks: %w", err)
	}
	return env.Tasks, nil
}

// CreateTask creates a new task and returns the server's record of it.
func (c *Client) CreateTask(
	ctx context.Context,
	input model.TaskInput,
) (*model.Task, error) {
	var env taskEnvelope
	if err := c.post(ctx, "/api/tasks", input, &env); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}
	return &env.Task, nil
}

// UpdateTask applies a patch to the task and returns the updated record.
func (c *Client) UpdateTask(
	ctx context.Context,
	id string,
	patch model.TaskPatch,
) (*model.Task, error) {
	var env taskEnvelope
	if err := c.put(ctx, "/api/tasks/"+url.PathEscape(id), patch, &env); err != nil {
		return nil, fmt.Errorf("updating task %s: %w", id, err)
	}
	return &env.Task, nil
}

// DeleteTask removes the task server-side.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if err := c.delete(ctx, "/api/tasks/"+url.PathEscape(id), nil); err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	return nil
}
