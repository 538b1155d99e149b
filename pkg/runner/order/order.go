// Package order re-sequences the task list.
package order

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/tally/pkg/printers"
	"tableflip.dev/tally/pkg/store"
	"tableflip.dev/tally/pkg/task"
	"tableflip.dev/tally/pkg/undo"
)

// Order moves the referenced tasks to the front in the given order; any
// tasks not listed keep their relative order after them.
type Order struct {
	Tasks []string
	Store *store.Store
	Undo  *undo.Controller
}

func (o *Order) Do(ctx context.Context) error {
	pp := printers.PrettyPrint{}

	if o.Store == nil {
		return errors.New("can not order, no store")
	}

	state := o.Store.Snapshot()
	ids := make([]string, 0, len(o.Tasks))
	for _, ref := range o.Tasks {
		t, ok := task.Resolve(state, ref)
		if !ok {
			return fmt.Errorf("no task named %q", ref)
		}
		ids = append(ids, t.ID)
	}

	changed, err := o.Undo.Around(func() (bool, error) {
		return o.Store.SetTaskOrder(ids)
	})
	if err != nil {
		return err
	}
	if !changed {
		pp.Status("order unchanged")
		return nil
	}

	pp.Title("reordered")
	pp.Tasks(o.Store.Snapshot())
	return nil
}
