// Package store owns the canonical application state: a mutex-guarded,
// persisted state container with atomic transform semantics. Both the local
// CLI and the sync handler mutate state through one Store instance; a Store
// is constructed explicitly once per process and injected where needed.
package store

import (
	"fmt"
	"os"
	"sync"
	"time"

	"tableflip.dev/tally/pkg/settings"
	"tableflip.dev/tally/pkg/task"
)

// DefaultKey is the settings key the persisted state blob lives under.
const DefaultKey = "state"

// Store serializes all mutations through a single gate: read, transform a
// copy, normalize, compare, persist, publish. The published state is only
// ever replaced wholesale, so observers never see a torn value.
type Store struct {
	settings settings.Store
	key      string
	now      func() time.Time

	mu      sync.Mutex // mutation gate
	stateMu sync.RWMutex
	current task.State

	subMu   sync.Mutex
	subs    map[int]chan task.State
	nextSub int
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the settings key the state is persisted under.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New loads the persisted state from the settings store, falling back to a
// fresh empty state when the blob is absent or unreadable, and returns a
// ready Store. Construction never fails on corrupt state.
func New(st settings.Store, opts ...Option) *Store {
	s := &Store{
		settings: st,
		key:      DefaultKey,
		now:      time.Now,
		subs:     make(map[int]chan task.State),
	}
	for _, opt := range opts {
		opt(s)
	}

	blob, ok, err := st.Get(s.key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "store: read %s: %v\n", s.key, err)
		ok = false
	}
	if !ok {
		blob = ""
	}
	s.current = task.Unmarshal([]byte(blob), s.now())
	return s
}

// Snapshot returns a deep, independent copy of the current state.
func (s *Store) Snapshot() task.State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.current.Clone()
}

// apply runs one transform under the mutation gate. The transform receives
// its own deep copy of the current state and returns the desired next state.
// The result is normalized, compared against the prior state, and only
// persisted and published when it differs.
func (s *Store) apply(transform func(task.State) task.State) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior := s.Snapshot()
	next := task.Normalize(transform(prior.Clone()))
	if task.Equal(prior, next) {
		return false, nil
	}

	blob, err := task.Marshal(next)
	if err != nil {
		return false, fmt.Errorf("store: encode state: %w", err)
	}
	if err := s.settings.Set(s.key, string(blob)); err != nil {
		return false, fmt.Errorf("store: persist state: %w", err)
	}

	s.stateMu.Lock()
	s.current = next
	s.stateMu.Unlock()

	s.publish(next)
	return true, nil
}

// AddTask appends a new task after all existing ones and returns it.
func (s *Store) AddTask(name string) (task.Task, error) {
	var created task.Task
	_, err := s.apply(func(st task.State) task.State {
		created = task.New(name, st.MaxSortOrder()+1)
		st.Tasks = append(st.Tasks, created)
		return st
	})
	return created, err
}

// RenameTask replaces the name of the task with the given id. A missing id
// is a no-op.
func (s *Store) RenameTask(id, name string) (bool, error) {
	return s.apply(func(st task.State) task.State {
		if i := st.Find(id); i >= 0 {
			st.Tasks[i].Name = name
		}
		return st
	})
}

// DeleteTask removes the task with the given id. A missing id is a no-op.
func (s *Store) DeleteTask(id string) (bool, error) {
	return s.apply(func(st task.State) task.State {
		if i := st.Find(id); i >= 0 {
			st.Tasks = append(st.Tasks[:i], st.Tasks[i+1:]...)
		}
		return st
	})
}

// LogTask appends the epoch-millisecond timestamp to the task's events. A
// missing id is a no-op.
func (s *Store) LogTask(id string, timestamp int64) (bool, error) {
	return s.apply(func(st task.State) task.State {
		if i := st.Find(id); i >= 0 {
			st.Tasks[i].Events = append(st.Tasks[i].Events, timestamp)
		}
		return st
	})
}

// UndoTaskLog removes the last occurrence of the timestamp from the task's
// events, so duplicate timestamps lose the most recently appended one. A
// missing id or absent timestamp is a no-op.
func (s *Store) UndoTaskLog(id string, timestamp int64) (bool, error) {
	return s.apply(func(st task.State) task.State {
		i := st.Find(id)
		if i < 0 {
			return st
		}
		events := st.Tasks[i].Events
		for j := len(events) - 1; j >= 0; j-- {
			if events[j] == timestamp {
				st.Tasks[i].Events = append(events[:j], events[j+1:]...)
				break
			}
		}
		return st
	})
}

// ResetEvents clears every task's events and stamps the reset time, keeping
// tasks and their order intact.
func (s *Store) ResetEvents(now int64) (bool, error) {
	return s.apply(func(st task.State) task.State {
		st.LastResetAt = now
		for i := range st.Tasks {
			st.Tasks[i].Events = []int64{}
		}
		return st
	})
}

// SetTaskOrder re-sequences tasks so those listed in orderedIDs come first,
// in the listed order; tasks not listed keep their relative order and follow
// after. Unknown ids are ignored.
func (s *Store) SetTaskOrder(orderedIDs []string) (bool, error) {
	return s.apply(func(st task.State) task.State {
		rank := make(map[string]int, len(orderedIDs))
		next := 0
		for _, id := range orderedIDs {
			if _, seen := rank[id]; seen {
				continue
			}
			rank[id] = next
			if i := st.Find(id); i >= 0 {
				st.Tasks[i].SortOrder = next
			}
			next++
		}
		for i := range st.Tasks {
			if _, listed := rank[st.Tasks[i].ID]; !listed {
				st.Tasks[i].SortOrder = len(orderedIDs) + i
			}
		}
		return st
	})
}

// Restore replaces the live state wholesale with the given snapshot. Used by
// the undo controller.
func (s *Store) Restore(snapshot task.State) error {
	_, err := s.apply(func(task.State) task.State {
		return snapshot.Clone()
	})
	return err
}

// Reload re-reads the persisted blob and publishes it if it differs from the
// live state, so a long-running process notices out-of-band edits.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, ok, err := s.settings.Get(s.key)
	if err != nil {
		return fmt.Errorf("store: read %s: %w", s.key, err)
	}
	if !ok {
		return nil
	}
	next := task.Unmarshal([]byte(blob), s.now())

	prior := s.Snapshot()
	if task.Equal(prior, next) {
		return nil
	}

	s.stateMu.Lock()
	s.current = next
	s.stateMu.Unlock()

	s.publish(next)
	return nil
}
