// Package log records an event occurrence against a task.
package log

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tableflip.dev/tally/pkg/printers"
	"tableflip.dev/tally/pkg/store"
	"tableflip.dev/tally/pkg/task"
	"tableflip.dev/tally/pkg/undo"
)

// Log appends a timestamp to the referenced task's events. A zero At logs
// the current time.
type Log struct {
	Task  string
	At    int64
	Store *store.Store
	Undo  *undo.Controller
}

// Do performs the log and reprints the task's tally.
func (l *Log) Do(ctx context.Context) error {
	pp := printers.PrettyPrint{}

	if l.Store == nil {
		return errors.New("can not log, no store")
	}

	t, ok := task.Resolve(l.Store.Snapshot(), l.Task)
	if !ok {
		return fmt.Errorf("no task named %q", l.Task)
	}

	at := l.At
	if at <= 0 {
		at = time.Now().UnixMilli()
	}

	changed, err := l.Undo.Around(func() (bool, error) {
		return l.Store.LogTask(t.ID, at)
	})
	if err != nil {
		return err
	}
	if !changed {
		pp.Status("nothing logged")
		return nil
	}

	state := l.Store.Snapshot()
	if i := state.Find(t.ID); i >= 0 {
		t = state.Tasks[i]
	}
	pp.Title(fmt.Sprintf("%s - %d logged", t.Name, len(t.Events)))
	pp.Events(t)
	pp.Status("undo with: tally undo")
	return nil
}
