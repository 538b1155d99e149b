// Package wire defines the message topics and payloads exchanged between
// the phone-side sync handler and the companion client.
package wire

import (
	"encoding/json"

	"tableflip.dev/tally/pkg/task"
)

// Topics correlate requests and replies; the handler is stateless across
// requests and no explicit request id crosses the wire.
const (
	TopicRequestSnapshot = "request-snapshot"
	TopicLogTask         = "log-task"
	TopicUndoWatchLog    = "undo-watch-log"
	TopicSnapshot        = "snapshot"
)

// MutationRequest is the payload for log-task and undo-watch-log.
type MutationRequest struct {
	TaskID    string `json:"taskId"`
	Timestamp int64  `json:"timestamp"`
}

// SnapshotTask is the transport projection of a task: events are carried
// most recent first and Count includes the event total for the remote
// reader's convenience.
type SnapshotTask struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Count  int     `json:"count"`
	Events []int64 `json:"events"`
}

// Snapshot is the reply payload mirroring the authoritative state.
type Snapshot struct {
	LastResetAt int64          `json:"lastResetAt"`
	Tasks       []SnapshotTask `json:"tasks"`
}

// FromState projects the state into its snapshot payload, tasks in display
// order and events descending.
func FromState(s task.State) Snapshot {
	out := Snapshot{LastResetAt: s.LastResetAt, Tasks: make([]SnapshotTask, 0, len(s.Tasks))}
	for _, t := range s.Tasks {
		out.Tasks = append(out.Tasks, SnapshotTask{
			ID:     t.ID,
			Name:   t.Name,
			Count:  len(t.Events),
			Events: t.EventsDescending(),
		})
	}
	return out
}

// MarshalMutation encodes a mutation request.
func MarshalMutation(req MutationRequest) ([]byte, error) {
	return json.Marshal(req)
}

// DecodeMutation decodes a mutation request tolerantly: a malformed payload
// yields the zero value, which downstream validation treats as "no taskId or
// timestamp present."
func DecodeMutation(payload []byte) MutationRequest {
	var req MutationRequest
	if len(payload) == 0 {
		return req
	}
	if err := json.Unmarshal(payload, &req); err != nil {
		return MutationRequest{}
	}
	return req
}

// MarshalSnapshot encodes a snapshot reply.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	return json.Marshal(s)
}

// DecodeSnapshot decodes a snapshot reply. Unlike the handler's request
// path, parse failures here are surfaced so the client can report "sync
// failed" and keep its last-known-good state.
func DecodeSnapshot(payload []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(payload, &s); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// Contains reports whether the snapshot confirms the given event pair.
func (s Snapshot) Contains(taskID string, timestamp int64) bool {
	for _, t := range s.Tasks {
		if t.ID != taskID {
			continue
		}
		for _, ev := range t.Events {
			if ev == timestamp {
				return true
			}
		}
	}
	return false
}
