// Package undo provides the single-slot undo controller used by the local
// CLI: it snapshots state before a mutation and can restore it exactly once.
package undo

import (
	"fmt"
	"os"
	"sync"
	"time"

	"tableflip.dev/tally/pkg/settings"
	"tableflip.dev/tally/pkg/store"
	"tableflip.dev/tally/pkg/task"
)

// DefaultKey is the settings key the pending snapshot is mirrored under
// when persistence is configured.
const DefaultKey = "undo"

// Controller holds at most one pending undo snapshot. Every mutation routed
// through Around overwrites the slot, whether or not the previous snapshot
// was consumed; only the most recent mutation is undoable.
//
// With WithPersistence the slot is mirrored into the settings store so the
// one-step undo survives across short-lived CLI invocations.
type Controller struct {
	store *store.Store

	mu       sync.Mutex
	pending  *task.State
	settings settings.Store
	key      string
}

// Option configures a Controller.
type Option func(*Controller)

// WithPersistence mirrors the pending slot into the settings store under
// the given key (DefaultKey when empty).
func WithPersistence(st settings.Store, key string) Option {
	return func(c *Controller) {
		c.settings = st
		if key == "" {
			key = DefaultKey
		}
		c.key = key
	}
}

// New returns a controller bound to the given store, loading any mirrored
// pending snapshot when persistence is configured.
func New(s *store.Store, opts ...Option) *Controller {
	c := &Controller{store: s}
	for _, opt := range opts {
		opt(c)
	}
	if c.settings != nil {
		if blob, ok, err := c.settings.Get(c.key); err == nil && ok && blob != "" {
			st := task.Unmarshal([]byte(blob), time.Now())
			c.pending = &st
		}
	}
	return c
}

// Around captures a snapshot, runs the mutation, and retains the snapshot
// only when the mutation reports a change. It returns the mutation's result
// unchanged.
func (c *Controller) Around(mutate func() (bool, error)) (bool, error) {
	snapshot := c.store.Snapshot()

	changed, err := mutate()

	c.mu.Lock()
	if changed && err == nil {
		c.pending = &snapshot
	} else {
		c.pending = nil
	}
	c.syncSlotLocked()
	c.mu.Unlock()

	return changed, err
}

// Undoable reports whether a pending snapshot exists.
func (c *Controller) Undoable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

// Undo restores the pending snapshot. It returns false when there is
// nothing to undo; the snapshot is consumed only on a successful restore.
func (c *Controller) Undo() (bool, error) {
	c.mu.Lock()
	snapshot := c.pending
	c.mu.Unlock()

	if snapshot == nil {
		return false, nil
	}
	if err := c.store.Restore(*snapshot); err != nil {
		return false, err
	}

	c.mu.Lock()
	c.pending = nil
	c.syncSlotLocked()
	c.mu.Unlock()
	return true, nil
}

func (c *Controller) syncSlotLocked() {
	if c.settings == nil {
		return
	}
	if c.pending == nil {
		if err := c.settings.Delete(c.key); err != nil {
			fmt.Fprintf(os.Stderr, "undo: clear slot: %v\n", err)
		}
		return
	}
	blob, err := task.Marshal(*c.pending)
	if err != nil {
		fmt.Fprintf(os.Stderr, "undo: encode slot: %v\n", err)
		return
	}
	if err := c.settings.Set(c.key, string(blob)); err != nil {
		fmt.Fprintf(os.Stderr, "undo: persist slot: %v\n", err)
	}
}
