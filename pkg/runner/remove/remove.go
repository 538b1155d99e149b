// Package remove deletes a task and all of its events.
package remove

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/tally/pkg/printers"
	"tableflip.dev/tally/pkg/store"
	"tableflip.dev/tally/pkg/task"
	"tableflip.dev/tally/pkg/undo"
)

type Remove struct {
	Task  string
	Store *store.Store
	Undo  *undo.Controller
}

func (r *Remove) Do(ctx context.Context) error {
	pp := printers.PrettyPrint{}

	if r.Store == nil {
		return errors.New("can not remove, no store")
	}

	t, ok := task.Resolve(r.Store.Snapshot(), r.Task)
	if !ok {
		return fmt.Errorf("no task named %q", r.Task)
	}

	changed, err := r.Undo.Around(func() (bool, error) {
		return r.Store.DeleteTask(t.ID)
	})
	if err != nil {
		return err
	}
	if !changed {
		pp.Status("nothing removed")
		return nil
	}

	pp.Title("removed " + t.Name)
	pp.Tasks(r.Store.Snapshot())
	pp.Status("undo with: tally undo")
	return nil
}
