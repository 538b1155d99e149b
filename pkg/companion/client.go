// Package companion implements the wrist-side sync client: it mirrors the
// phone's state via snapshot replies, issues remote log and undo mutations,
// and tracks one optimistic "last logged" marker until the phone confirms
// its fate.
package companion

import (
	"sync"
	"time"

	"tableflip.dev/tally/pkg/channel"
	"tableflip.dev/tally/pkg/wire"
)

// DefaultTimeout bounds how long a request stays pending before the client
// reports "no response."
const DefaultTimeout = 6 * time.Second

// DisplayEventCap limits how many recent events the companion view shows
// per task.
const DisplayEventCap = 10

// Status describes the client's sync cycle for the UI.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSynced
	StatusNotConnected
	StatusNoResponse
	StatusSyncFailed
)

// Label returns the short user-visible status string.
func (s Status) Label() string {
	switch s {
	case StatusLoading:
		return "syncing..."
	case StatusSynced:
		return "synced"
	case StatusNotConnected:
		return "not connected"
	case StatusNoResponse:
		return "no response"
	case StatusSyncFailed:
		return "sync failed"
	default:
		return ""
	}
}

// MarkerPhase is the lifecycle of the provisional last-log marker.
type MarkerPhase int

const (
	// MarkerNone means no companion-initiated log is being tracked.
	MarkerNone MarkerPhase = iota
	// MarkerPending means a log was sent and the phone has not yet shown
	// it absent; the one-step undo affordance is available.
	MarkerPending
	// MarkerConfirmedGone means a snapshot confirmed the event is absent,
	// either because the undo landed or the log never applied.
	MarkerConfirmedGone
)

// Marker is the optimistic record of the last companion-initiated log.
type Marker struct {
	Phase     MarkerPhase
	TaskID    string
	Timestamp int64
}

// View is a read-only copy of the client state for presentation.
type View struct {
	Status      Status
	Loading     bool
	LastSynced  time.Time
	LastResetAt int64
	Tasks       []wire.SnapshotTask
	Marker      Marker
}

// Client drives the request cycle. Each outstanding request is tracked by a
// monotonically increasing generation counter; stale timers and failed sends
// compare against it and skip when superseded.
type Client struct {
	ch      channel.Channel
	now     func() time.Time
	timeout time.Duration
	after   func(d time.Duration, f func())

	mu          sync.Mutex
	requestID   uint64
	status      Status
	loading     bool
	tasks       []wire.SnapshotTask
	lastResetAt int64
	lastSynced  time.Time
	marker      Marker

	subMu   sync.Mutex
	subs    map[int]chan View
	nextSub int
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the pending-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithScheduler overrides timer scheduling, for tests.
func WithScheduler(after func(d time.Duration, f func())) Option {
	return func(c *Client) { c.after = after }
}

// New returns a client bound to the given channel.
func New(ch channel.Channel, opts ...Option) *Client {
	c := &Client{
		ch:      ch,
		now:     time.Now,
		timeout: DefaultTimeout,
		after:   func(d time.Duration, f func()) { time.AfterFunc(d, f) },
		subs:    make(map[int]chan View),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register wires the snapshot reply topic on the channel.
func (c *Client) Register() {
	c.ch.Handle(wire.TopicSnapshot, c.onSnapshot)
}

// Refresh requests a fresh snapshot from the phone.
func (c *Client) Refresh() {
	c.begin(wire.TopicRequestSnapshot, nil, nil)
}

// LogTask sends a remote log for the task stamped with the current time and
// records the provisional marker once the request is on the wire.
func (c *Client) LogTask(taskID string) {
	ts := c.now().UnixMilli()
	payload, err := wire.MarshalMutation(wire.MutationRequest{TaskID: taskID, Timestamp: ts})
	if err != nil {
		return
	}
	c.begin(wire.TopicLogTask, payload, func() {
		c.marker = Marker{Phase: MarkerPending, TaskID: taskID, Timestamp: ts}
	})
}

// CanUndo reports whether the one-step undo affordance applies to the task
// currently being viewed.
func (c *Client) CanUndo(viewedTaskID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.marker.Phase == MarkerPending && c.marker.TaskID == viewedTaskID
}

// UndoLast asks the phone to remove the provisionally logged event. The
// marker stays pending until a snapshot confirms the event is gone.
func (c *Client) UndoLast() {
	c.mu.Lock()
	marker := c.marker
	c.mu.Unlock()
	if marker.Phase != MarkerPending {
		return
	}
	payload, err := wire.MarshalMutation(wire.MutationRequest{TaskID: marker.TaskID, Timestamp: marker.Timestamp})
	if err != nil {
		return
	}
	c.begin(wire.TopicUndoWatchLog, payload, nil)
}

// begin runs one request cycle: bump the generation, require a connected
// peer, send, and arm the timeout keyed to the captured generation.
// onSent runs under the lock after a successful send.
func (c *Client) begin(topic string, payload []byte, onSent func()) {
	peers := c.ch.ConnectedPeers()

	c.mu.Lock()
	c.requestID++
	id := c.requestID
	if len(peers) == 0 {
		c.loading = false
		c.status = StatusNotConnected
		c.mu.Unlock()
		c.notify()
		return
	}
	peer := peers[0]
	c.loading = true
	c.status = StatusLoading
	c.mu.Unlock()
	c.notify()

	if err := c.ch.SendToPeer(peer, topic, payload); err != nil {
		c.mu.Lock()
		if c.requestID == id {
			c.loading = false
			c.status = StatusNotConnected
		}
		c.mu.Unlock()
		c.notify()
		return
	}

	c.mu.Lock()
	if onSent != nil {
		onSent()
	}
	c.mu.Unlock()

	c.after(c.timeout, func() { c.onTimeout(id) })
}

// onTimeout fires for the captured generation; it only transitions to "no
// response" when that generation is still the current one and still loading,
// so a stale timer never clobbers a newer request's outcome.
func (c *Client) onTimeout(id uint64) {
	c.mu.Lock()
	if c.requestID != id || !c.loading {
		c.mu.Unlock()
		return
	}
	c.loading = false
	c.status = StatusNoResponse
	c.mu.Unlock()
	c.notify()
}

// onSnapshot processes every reply it receives, regardless of generation:
// the client re-derives full state from the latest reply, never from deltas.
func (c *Client) onSnapshot(_ string, payload []byte) {
	snap, err := wire.DecodeSnapshot(payload)

	c.mu.Lock()
	c.loading = false
	if err != nil {
		// Last-known-good task list is retained.
		c.status = StatusSyncFailed
		c.mu.Unlock()
		c.notify()
		return
	}

	c.tasks = snap.Tasks
	c.lastResetAt = snap.LastResetAt
	c.lastSynced = c.now()
	c.status = StatusSynced

	if c.marker.Phase == MarkerPending && !snap.Contains(c.marker.TaskID, c.marker.Timestamp) {
		c.marker.Phase = MarkerConfirmedGone
	}
	c.mu.Unlock()
	c.notify()
}

// View returns a deep copy of the current client state.
func (c *Client) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Client) viewLocked() View {
	v := View{
		Status:      c.status,
		Loading:     c.loading,
		LastSynced:  c.lastSynced,
		LastResetAt: c.lastResetAt,
		Marker:      c.marker,
		Tasks:       make([]wire.SnapshotTask, len(c.tasks)),
	}
	for i, t := range c.tasks {
		cp := t
		cp.Events = append([]int64{}, t.Events...)
		v.Tasks[i] = cp
	}
	return v
}

// RecentEvents returns up to max of the task's events, most recent first.
func RecentEvents(t wire.SnapshotTask, max int) []int64 {
	events := append([]int64{}, t.Events...)
	if len(events) > max {
		events = events[:max]
	}
	return events
}
