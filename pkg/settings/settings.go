// Package settings provides the string-keyed settings store that backs
// tally's persisted state, with a diskv-backed implementation for real use
// and an in-memory implementation for tests.
package settings

import "context"

// Event is emitted by Store.Watch when a key changes on the underlying
// storage outside the current process.
type Event struct {
	Key string
}

// Store is a basic string-keyed read/write settings store.
type Store interface {
	// Get returns the value for key. The second result is false when the
	// key is absent.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error

	// Watch streams change events until ctx is cancelled. Callers should
	// drain the returned channel to avoid losing events; slow consumers
	// have events dropped rather than blocking the watcher.
	Watch(ctx context.Context) (<-chan Event, error)
}
