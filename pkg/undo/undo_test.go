package undo

import (
	"testing"

	"tableflip.dev/tally/pkg/settings"
	"tableflip.dev/tally/pkg/store"
	"tableflip.dev/tally/pkg/task"
)

func TestUndoRestoresPreMutationState(t *testing.T) {
	s := store.New(settings.NewMemory())
	c := New(s)

	a, err := s.AddTask("A")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	before := s.Snapshot()

	changed, err := c.Around(func() (bool, error) { return s.LogTask(a.ID, 100) })
	if err != nil || !changed {
		t.Fatalf("around: changed=%v err=%v", changed, err)
	}
	if !c.Undoable() {
		t.Fatal("expected pending undo after a changing mutation")
	}

	restored, err := c.Undo()
	if err != nil || !restored {
		t.Fatalf("undo: restored=%v err=%v", restored, err)
	}
	if !task.Equal(before, s.Snapshot()) {
		t.Fatalf("undo did not restore state:\n got %+v\nwant %+v", s.Snapshot(), before)
	}
}

func TestSecondUndoIsNothingToUndo(t *testing.T) {
	s := store.New(settings.NewMemory())
	c := New(s)
	a, _ := s.AddTask("A")

	if _, err := c.Around(func() (bool, error) { return s.LogTask(a.ID, 1) }); err != nil {
		t.Fatalf("around: %v", err)
	}
	if restored, err := c.Undo(); err != nil || !restored {
		t.Fatalf("first undo: restored=%v err=%v", restored, err)
	}
	if restored, err := c.Undo(); err != nil || restored {
		t.Fatalf("second undo should be a no-op: restored=%v err=%v", restored, err)
	}
}

func TestNoOpMutationDiscardsSnapshot(t *testing.T) {
	s := store.New(settings.NewMemory())
	c := New(s)
	a, _ := s.AddTask("A")

	if _, err := c.Around(func() (bool, error) { return s.LogTask(a.ID, 1) }); err != nil {
		t.Fatalf("around: %v", err)
	}
	// A no-op mutation overwrites the slot with nothing.
	if _, err := c.Around(func() (bool, error) { return s.LogTask("missing", 1) }); err != nil {
		t.Fatalf("around: %v", err)
	}
	if c.Undoable() {
		t.Fatal("no-op mutation left a pending undo")
	}
}

func TestNewMutationOverwritesUnconsumedSnapshot(t *testing.T) {
	s := store.New(settings.NewMemory())
	c := New(s)
	a, _ := s.AddTask("A")

	if _, err := c.Around(func() (bool, error) { return s.LogTask(a.ID, 1) }); err != nil {
		t.Fatalf("around: %v", err)
	}
	afterFirst := s.Snapshot()
	if _, err := c.Around(func() (bool, error) { return s.LogTask(a.ID, 2) }); err != nil {
		t.Fatalf("around: %v", err)
	}

	if restored, err := c.Undo(); err != nil || !restored {
		t.Fatalf("undo: restored=%v err=%v", restored, err)
	}
	// Only the second mutation is undone.
	if !task.Equal(afterFirst, s.Snapshot()) {
		t.Fatalf("undo restored the wrong snapshot:\n got %+v\nwant %+v", s.Snapshot(), afterFirst)
	}
}

func TestPendingSlotSurvivesRestartWithPersistence(t *testing.T) {
	mem := settings.NewMemory()
	s := store.New(mem)
	c := New(s, WithPersistence(mem, DefaultKey))
	a, _ := s.AddTask("A")
	before := s.Snapshot()

	if _, err := c.Around(func() (bool, error) { return s.LogTask(a.ID, 5) }); err != nil {
		t.Fatalf("around: %v", err)
	}

	// A fresh controller over the same settings sees the pending slot.
	s2 := store.New(mem)
	c2 := New(s2, WithPersistence(mem, DefaultKey))
	if !c2.Undoable() {
		t.Fatal("pending slot lost across restart")
	}
	if restored, err := c2.Undo(); err != nil || !restored {
		t.Fatalf("undo: restored=%v err=%v", restored, err)
	}
	if !task.Equal(before, s2.Snapshot()) {
		t.Fatalf("restored state differs:\n got %+v\nwant %+v", s2.Snapshot(), before)
	}
}
