// Package rename changes a task's name.
package rename

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/tally/pkg/printers"
	"tableflip.dev/tally/pkg/store"
	"tableflip.dev/tally/pkg/task"
	"tableflip.dev/tally/pkg/undo"
)

type Rename struct {
	Task  string
	To    string
	Store *store.Store
	Undo  *undo.Controller
}

func (r *Rename) Do(ctx context.Context) error {
	pp := printers.PrettyPrint{}

	if r.Store == nil {
		return errors.New("can not rename, no store")
	}

	t, ok := task.Resolve(r.Store.Snapshot(), r.Task)
	if !ok {
		return fmt.Errorf("no task named %q", r.Task)
	}

	changed, err := r.Undo.Around(func() (bool, error) {
		return r.Store.RenameTask(t.ID, r.To)
	})
	if err != nil {
		return err
	}
	if !changed {
		pp.Status("nothing renamed")
		return nil
	}

	pp.Title(fmt.Sprintf("renamed %s to %s", t.Name, r.To))
	pp.Tasks(r.Store.Snapshot())
	return nil
}
