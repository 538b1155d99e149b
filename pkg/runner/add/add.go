// Package add creates a new task.
package add

import (
	"context"
	"errors"

	"tableflip.dev/tally/pkg/printers"
	"tableflip.dev/tally/pkg/store"
	"tableflip.dev/tally/pkg/task"
	"tableflip.dev/tally/pkg/undo"
)

// Add appends a task with the given name after all existing tasks.
type Add struct {
	Name  string
	Store *store.Store
	Undo  *undo.Controller
}

// Do performs the add and reprints the task list.
func (a *Add) Do(ctx context.Context) error {
	pp := printers.PrettyPrint{}

	if a.Store == nil {
		return errors.New("can not add, no store")
	}

	var created task.Task
	_, err := a.Undo.Around(func() (bool, error) {
		var err error
		created, err = a.Store.AddTask(a.Name)
		return err == nil, err
	})
	if err != nil {
		return err
	}

	pp.Title("added " + created.Name)
	pp.Tasks(a.Store.Snapshot())
	return nil
}
