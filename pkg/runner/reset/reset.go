// Package reset clears every task's events for a new day.
package reset

import (
	"context"
	"errors"
	"time"

	"tableflip.dev/tally/pkg/printers"
	"tableflip.dev/tally/pkg/store"
	"tableflip.dev/tally/pkg/task"
	"tableflip.dev/tally/pkg/undo"
)

// Reset stamps a new reset time and clears all events, preserving tasks and
// their order. A second reset on the same local day is refused unless Force
// is set.
type Reset struct {
	Force bool
	Store *store.Store
	Undo  *undo.Controller
}

func (r *Reset) Do(ctx context.Context) error {
	pp := printers.PrettyPrint{}

	if r.Store == nil {
		return errors.New("can not reset, no store")
	}

	now := time.Now()
	state := r.Store.Snapshot()
	if !r.Force && task.SameLocalDay(state.LastResetAt, now.UnixMilli(), time.Local) {
		pp.Status("already reset today, use --force to reset again")
		return nil
	}

	changed, err := r.Undo.Around(func() (bool, error) {
		return r.Store.ResetEvents(now.UnixMilli())
	})
	if err != nil {
		return err
	}
	if !changed {
		pp.Status("nothing to reset")
		return nil
	}

	pp.Title("reset")
	pp.Tasks(r.Store.Snapshot())
	pp.Status("undo with: tally undo")
	return nil
}
