// Package task defines the tally data model: tasks, their logged event
// timestamps, and the application state that is the unit of persistence,
// snapshotting, and undo.
package task

import (
	"sort"

	"github.com/google/uuid"
)

// DefaultName is substituted when a persisted task record carries no name.
const DefaultName = "Task"

// Task is a single loggable activity. Events holds epoch-millisecond
// timestamps in append order, most recent last.
type Task struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	SortOrder int     `json:"sortOrder"`
	Events    []int64 `json:"events"`
}

// New creates a task with a freshly generated unique id and no events.
func New(name string, sortOrder int) Task {
	return Task{
		ID:        uuid.NewString(),
		Name:      name,
		SortOrder: sortOrder,
		Events:    []int64{},
	}
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	cp := t
	cp.Events = append([]int64{}, t.Events...)
	return cp
}

// EventsDescending returns the task's events most recent first, leaving the
// stored append order untouched.
func (t Task) EventsDescending() []int64 {
	out := append([]int64{}, t.Events...)
	sort.Slice(out, func(i, j int) bool { return out[i] > out[j] })
	return out
}

// State is the whole application state. It is replaced wholesale on every
// mutation, never edited in place.
type State struct {
	LastResetAt int64  `json:"lastResetAt"`
	Tasks       []Task `json:"tasks"`
}

// NewState returns a fresh empty state stamped with the given reset time in
// epoch milliseconds.
func NewState(lastResetAt int64) State {
	return State{LastResetAt: lastResetAt, Tasks: []Task{}}
}

// Clone returns a deep copy of the state. Mutating the copy never affects
// the original.
func (s State) Clone() State {
	cp := s
	cp.Tasks = make([]Task, len(s.Tasks))
	for i, t := range s.Tasks {
		cp.Tasks[i] = t.Clone()
	}
	return cp
}

// Find returns the index of the task with the given id, or -1.
func (s State) Find(id string) int {
	for i, t := range s.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// MaxSortOrder reports the highest sort order in use, or -1 when empty.
func (s State) MaxSortOrder() int {
	max := -1
	for _, t := range s.Tasks {
		if t.SortOrder > max {
			max = t.SortOrder
		}
	}
	return max
}

// Normalize sorts tasks by their current sort order (stable, so ties keep
// their relative position) and rewrites SortOrder as a dense 0..n-1
// sequence. It is idempotent and returns its argument for chaining.
func Normalize(s State) State {
	sort.SliceStable(s.Tasks, func(i, j int) bool {
		return s.Tasks[i].SortOrder < s.Tasks[j].SortOrder
	})
	for i := range s.Tasks {
		s.Tasks[i].SortOrder = i
	}
	return s
}

// Equal reports whether two states are identical, including event order.
func Equal(a, b State) bool {
	if a.LastResetAt != b.LastResetAt || len(a.Tasks) != len(b.Tasks) {
		return false
	}
	for i := range a.Tasks {
		if !taskEqual(a.Tasks[i], b.Tasks[i]) {
			return false
		}
	}
	return true
}

func taskEqual(a, b Task) bool {
	if a.ID != b.ID || a.Name != b.Name || a.SortOrder != b.SortOrder || len(a.Events) != len(b.Events) {
		return false
	}
	for i := range a.Events {
		if a.Events[i] != b.Events[i] {
			return false
		}
	}
	return true
}
