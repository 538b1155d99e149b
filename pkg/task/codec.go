package task

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Marshal serializes the state to the single persisted JSON blob.
func Marshal(s State) ([]byte, error) {
	return json.Marshal(s)
}

// blob mirrors the persisted record with optional fields so partially
// written or hand-edited blobs can still be recovered field by field.
type blob struct {
	LastResetAt *int64     `json:"lastResetAt"`
	Tasks       []taskBlob `json:"tasks"`
}

type taskBlob struct {
	ID        *string `json:"id"`
	Name      *string `json:"name"`
	SortOrder *int    `json:"sortOrder"`
	Events    []int64 `json:"events"`
}

// Unmarshal decodes a persisted blob back into a normalized state. It never
// fails: an empty or unparseable blob yields a fresh empty state with
// lastResetAt set to now, and malformed task records fall back to generated
// defaults so the store always starts usable.
func Unmarshal(data []byte, now time.Time) State {
	fresh := NewState(now.UnixMilli())
	if len(data) == 0 {
		return fresh
	}

	var b blob
	if err := json.Unmarshal(data, &b); err != nil {
		return fresh
	}

	s := State{Tasks: make([]Task, 0, len(b.Tasks))}
	if b.LastResetAt != nil {
		s.LastResetAt = *b.LastResetAt
	} else {
		s.LastResetAt = now.UnixMilli()
	}

	for i, tb := range b.Tasks {
		t := Task{Events: []int64{}}
		if tb.ID != nil && *tb.ID != "" {
			t.ID = *tb.ID
		} else {
			t.ID = uuid.NewString()
		}
		if tb.Name != nil && *tb.Name != "" {
			t.Name = *tb.Name
		} else {
			t.Name = DefaultName
		}
		if tb.SortOrder != nil {
			t.SortOrder = *tb.SortOrder
		} else {
			t.SortOrder = i
		}
		if tb.Events != nil {
			t.Events = append(t.Events, tb.Events...)
		}
		s.Tasks = append(s.Tasks, t)
	}

	return Normalize(s)
}
