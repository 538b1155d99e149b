// Package get prints the task list or one task's event history.
package get

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/tally/pkg/printers"
	"tableflip.dev/tally/pkg/store"
	"tableflip.dev/tally/pkg/task"
)

// Get prints the current state. With a Task reference set, it prints that
// task's events most recent first.
type Get struct {
	Task   string
	ShowID bool
	Store  *store.Store
}

func (g *Get) Do(ctx context.Context) error {
	pp := printers.PrettyPrint{ShowID: g.ShowID}

	if g.Store == nil {
		return errors.New("can not get, no store")
	}

	state := g.Store.Snapshot()

	if g.Task == "" {
		pp.Title("tasks")
		pp.Tasks(state)
		return nil
	}

	t, ok := task.Resolve(state, g.Task)
	if !ok {
		return fmt.Errorf("no task named %q", g.Task)
	}
	pp.Title(fmt.Sprintf("%s - %d logged", t.Name, len(t.Events)))
	pp.Events(t)
	return nil
}
