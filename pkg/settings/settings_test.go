package settings

import (
	"context"
	"testing"
	"time"
)

type testConfig struct {
	path string
}

func (t testConfig) BasePath() string {
	return t.path
}

func TestDiskvRoundTrip(t *testing.T) {
	base := t.TempDir()
	s, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}

	if err := s.Set("state", `{"tasks":[]}`); err != nil {
		t.Fatalf("set: %v", err)
	}

	val, ok, err := s.Get("state")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || val != `{"tasks":[]}` {
		t.Fatalf("expected stored value, got ok=%v val=%q", ok, val)
	}

	// A fresh store over the same path sees the same value.
	s2, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("reload settings: %v", err)
	}
	val, ok, err = s2.Get("state")
	if err != nil || !ok || val != `{"tasks":[]}` {
		t.Fatalf("expected value to survive reload, got ok=%v val=%q err=%v", ok, val, err)
	}
}

func TestDiskvMissingKey(t *testing.T) {
	s, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}

	val, ok, err := s.Get("absent")
	if err != nil {
		t.Fatalf("get missing key errored: %v", err)
	}
	if ok || val != "" {
		t.Fatalf("expected miss, got ok=%v val=%q", ok, val)
	}
}

func TestDiskvDeleteTolerant(t *testing.T) {
	s, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}

	if err := s.Delete("absent"); err != nil {
		t.Fatalf("delete of missing key errored: %v", err)
	}

	if err := s.Set("state", "x"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Delete("state"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get("state"); ok {
		t.Fatal("key survived delete")
	}
}

func TestDiskvWatchEmitsKeyChanges(t *testing.T) {
	base := t.TempDir()
	s, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe before writing.
	time.Sleep(50 * time.Millisecond)

	if err := s.Set("state", "changed"); err != nil {
		t.Fatalf("set: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt, ok := <-ch:
			if !ok {
				t.Fatal("watch channel closed before event arrived")
			}
			if evt.Key == "state" || evt.Key == "" {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for change event")
		}
	}
}

func TestMemoryWatchClosesOnCancel(t *testing.T) {
	m := NewMemory()

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := m.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	if err := m.Set("state", "x"); err != nil {
		t.Fatalf("set: %v", err)
	}
	select {
	case evt := <-ch:
		if evt.Key != "state" {
			t.Fatalf("expected event for 'state', got %q", evt.Key)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for memory event")
	}

	cancel()
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("watch channel not closed after cancel")
		}
	}
}
