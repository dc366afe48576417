package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mzurek/taskflow/internal/model"
	"github.com/mzurek/taskflow/internal/store"
)

// handleListTasks returns all of the owner's tasks, newest first.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.GetTasks(r.Context(), store.TaskFilter{OwnerID: ownerID(r)})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching tasks")
		return
	}

	writeTasks(w, tasks)
}

// handleFilterTasks returns the owner's tasks matching the optional
// status/priority/search query parameters.
func (s *Server) handleFilterTasks(w http.ResponseWriter, r *http.Request) {
	filter := store.TaskFilter{OwnerID: ownerID(r)}

	q := r.URL.Query()
	if status := q.Get("status"); status != "" {
		if !model.ValidStatus(status) {
			writeError(w, http.StatusBadRequest, "Unknown status filter")
			return
		}
		filter.Status = &status
	}
	if priority := q.Get("priority"); priority != "" {
		if !model.ValidPriority(priority) {
			writeError(w, http.StatusBadRequest, "Unknown priority filter")
			return
		}
		filter.Priority = &priority
	}
	if search := q.Get("search"); search != "" {
		filter.Search = &search
	}

	tasks, err := s.store.GetTasks(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching tasks")
		return
	}

	writeTasks(w, tasks)
}

// handleGetTask returns a single task by id.
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.store.GetTaskByID(r.Context(), ownerID(r), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error fetching task")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"task":    task,
	})
}

// handleCreateTask creates a task for the owner.
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var input model.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(input.Title) == "" {
		writeError(w, http.StatusBadRequest, "Task title is required")
		return
	}
	if input.Status != "" && !model.ValidStatus(input.Status) {
		writeError(w, http.StatusBadRequest, "Unknown task status")
		return
	}
	if input.Priority != "" && !model.ValidPriority(input.Priority) {
		writeError(w, http.StatusBadRequest, "Unknown task priority")
		return
	}

	task := model.Task{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		OwnerID:     ownerID(r),
	}

	if err := s.store.CreateTask(r.Context(), task); err != nil {
		writeError(w, http.StatusInternalServerError, "Error creating task")
		return
	}

	created, err := s.store.GetTaskByID(r.Context(), task.OwnerID, task.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error creating task")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"task":    created,
	})
}

// handleUpdateTask applies a patch to an existing task. Writes are
// unconditional last-write-wins; there is no version check.
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	id := r.PathValue("id")

	current, err := s.store.GetTaskByID(r.Context(), owner, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error updating task")
		return
	}

	var patch model.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated := patch.Apply(*current)
	if strings.TrimSpace(updated.Title) == "" {
		writeError(w, http.StatusBadRequest, "Task title is required")
		return
	}
	if !model.ValidStatus(updated.Status) {
		writeError(w, http.StatusBadRequest, "Unknown task status")
		return
	}
	if !model.ValidPriority(updated.Priority) {
		writeError(w, http.StatusBadRequest, "Unknown task priority")
		return
	}

	if err := s.store.UpdateTask(r.Context(), updated); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error updating task")
		return
	}

	fresh, err := s.store.GetTaskByID(r.Context(), owner, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error updating task")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"task":    fresh,
	})
}

// handleDeleteTask removes a task.
func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	err := s.store.DeleteTask(r.Context(), ownerID(r), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error deleting task")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Task deleted",
	})
}

// writeTasks writes the task-list envelope, keeping an empty list
// rather than null when there are no tasks.
func writeTasks(w http.ResponseWriter, tasks []model.Task) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"tasks":   tasks,
	})
}
