// Package view derives the displayed task list from the authoritative
// task collection and the active filter/sort parameters. Derivation is
// a pure function: it never mutates its inputs and always produces the
// same order for the same (tasks, query) pair.
package view

import (
	"sort"
	"strings"
	"time"

	"github.com/mzurek/taskflow/internal/model"
)

// FilterAll is the sentinel meaning "no constraint" for the
// fine-grained status/priority filters and the tile filter.
const FilterAll = "ALL"

// Tile filter values beyond the plain status/priority labels.
const (
	TileOverdue = "OVERDUE"
	TileHigh    = model.PriorityHigh
)

// Sort keys.
const (
	SortByDueDate  = "dueDate"
	SortByPriority = "priority"
	SortByStatus   = "status"
)

// Sort directions.
const (
	Asc  = "asc"
	Desc = "desc"
)

// Query holds the active filter and sort parameters for the task list.
//
// The tile filter is coarse and mutually exclusive with the fine-grained
// status/priority filters: when Tile is anything other than FilterAll it
// fully determines selection and the fine filters are ignored. Use
// SelectTile to keep the two in sync the way the task view does.
type Query struct {
	// Search is matched case-insensitively against title and
	// description. Empty matches everything.
	Search string

	// Status is an exact status label or FilterAll.
	Status string

	// Priority is an exact priority label or FilterAll.
	Priority string

	// Tile is FilterAll, a status label, "high", or TileOverdue.
	Tile string

	// SortKey is one of the SortBy* constants.
	SortKey string

	// SortDir is Asc or Desc.
	SortDir string

	// Now anchors the OVERDUE predicate. Zero means time.Now().
	Now time.Time
}

// DefaultQuery returns the task view's initial parameters: everything
// visible, sorted by ascending due date.
func DefaultQuery() Query {
	return Query{
		Status:   FilterAll,
		Priority: FilterAll,
		Tile:     FilterAll,
		SortKey:  SortByDueDate,
		SortDir:  Asc,
	}
}

// SelectTile activates a tile filter and resets the fine-grained
// filters so that exactly one of the two mechanisms is in effect.
func (q Query) SelectTile(tile string) Query {
	q.Tile = tile
	q.Status = FilterAll
	q.Priority = FilterAll
	return q
}

// Derive returns the tasks selected by q, ordered by q's sort key and
// direction. The sort is stable: tasks with equal keys keep their
// relative order from the input. The input slice is left untouched.
func Derive(tasks []model.Task, q Query) []model.Task {
	now := q.Now
	if now.IsZero() {
		now = time.Now()
	}

	search := strings.ToLower(q.Search)

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !matchesSearch(t, search) {
			continue
		}
		if q.Tile != FilterAll && q.Tile != "" {
			if !matchesTile(t, q.Tile, now) {
				continue
			}
		} else if !matchesFine(t, q) {
			continue
		}
		out = append(out, t)
	}

	sortTasks(out, q)
	return out
}

// matchesSearch reports whether the task's title or description
// contains the lowercased search term.
func matchesSearch(t model.Task, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), search) ||
		strings.Contains(strings.ToLower(t.Description), search)
}

// matchesTile evaluates the coarse tile predicate.
func matchesTile(t model.Task, tile string, now time.Time) bool {
	switch tile {
	case TileOverdue:
		return t.Overdue(now)
	case TileHigh:
		return t.Priority == model.PriorityHigh
	default:
		// Remaining tiles are status labels.
		return t.Status == tile
	}
}

// matchesFine evaluates the independent status/priority dropdowns.
func matchesFine(t model.Task, q Query) bool {
	if q.Status != FilterAll && q.Status != "" && t.Status != q.Status {
		return false
	}
	if q.Priority != FilterAll && q.Priority != "" && t.Priority != q.Priority {
		return false
	}
	return true
}

func sortTasks(tasks []model.Task, q Query) {
	desc := q.SortDir == Desc

	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]

		switch q.SortKey {
		case SortByPriority:
			ra, rb := model.PriorityRank[a.Priority], model.PriorityRank[b.Priority]
			if ra == rb {
				return false
			}
			if desc {
				return ra > rb
			}
			return ra < rb

		case SortByStatus:
			if a.Status == b.Status {
				return false
			}
			if desc {
				return a.Status > b.Status
			}
			return a.Status < b.Status

		default: // SortByDueDate
			// Undated tasks sort after all dated tasks regardless
			// of direction.
			switch {
			case a.DueDate == nil && b.DueDate == nil:
				return false
			case a.DueDate == nil:
				return false
			case b.DueDate == nil:
				return true
			}
			if a.DueDate.Equal(*b.DueDate) {
				return false
			}
			if desc {
				return a.DueDate.After(*b.DueDate)
			}
			return a.DueDate.Before(*b.DueDate)
		}
	})
}
