// Package syncd is the phone-side sync protocol handler: it answers
// companion requests by applying mutations to the store and always replying
// with a serialized snapshot so the remote side re-syncs to ground truth.
package syncd

import (
	"fmt"
	"os"
	"time"

	"tableflip.dev/tally/pkg/channel"
	"tableflip.dev/tally/pkg/store"
	"tableflip.dev/tally/pkg/wire"
)

// Handler serves the three inbound request kinds. It is stateless across
// requests; each request is correlated by topic only.
type Handler struct {
	store *store.Store
	ch    channel.Channel
	now   func() time.Time
}

// Option configures a Handler.
type Option func(*Handler)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// New returns a handler applying companion requests to the given store and
// replying over the given channel.
func New(s *store.Store, ch channel.Channel, opts ...Option) *Handler {
	h := &Handler{store: s, ch: ch, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register wires the handler's topics on the channel.
func (h *Handler) Register() {
	h.ch.Handle(wire.TopicRequestSnapshot, h.onRequestSnapshot)
	h.ch.Handle(wire.TopicLogTask, h.onLogTask)
	h.ch.Handle(wire.TopicUndoWatchLog, h.onUndoWatchLog)
}

func (h *Handler) onRequestSnapshot(peerID string, _ []byte) {
	h.reply(peerID)
}

func (h *Handler) onLogTask(peerID string, payload []byte) {
	req := wire.DecodeMutation(payload)
	ts := req.Timestamp
	if ts <= 0 {
		ts = h.now().UnixMilli()
	}
	if req.TaskID != "" {
		if _, err := h.store.LogTask(req.TaskID, ts); err != nil {
			fmt.Fprintf(os.Stderr, "syncd: log task %s: %v\n", req.TaskID, err)
		}
	}
	h.reply(peerID)
}

func (h *Handler) onUndoWatchLog(peerID string, payload []byte) {
	req := wire.DecodeMutation(payload)
	if req.TaskID != "" && req.Timestamp > 0 {
		if _, err := h.store.UndoTaskLog(req.TaskID, req.Timestamp); err != nil {
			fmt.Fprintf(os.Stderr, "syncd: undo log %s: %v\n", req.TaskID, err)
		}
	}
	h.reply(peerID)
}

// reply sends the current snapshot back to the peer. Delivery failures are
// swallowed; the next poll from the companion recovers.
func (h *Handler) reply(peerID string) {
	payload, err := wire.MarshalSnapshot(wire.FromState(h.store.Snapshot()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "syncd: encode snapshot: %v\n", err)
		return
	}
	if err := h.ch.SendToPeer(peerID, wire.TopicSnapshot, payload); err != nil {
		fmt.Fprintf(os.Stderr, "syncd: reply to %s: %v\n", peerID, err)
	}
}
