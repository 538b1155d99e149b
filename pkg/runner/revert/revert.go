// Package revert restores the state captured before the last mutation.
package revert

import (
	"context"
	"errors"

	"tableflip.dev/tally/pkg/printers"
	"tableflip.dev/tally/pkg/store"
	"tableflip.dev/tally/pkg/undo"
)

// Revert consumes the single undo slot.
type Revert struct {
	Store *store.Store
	Undo  *undo.Controller
}

func (r *Revert) Do(ctx context.Context) error {
	pp := printers.PrettyPrint{}

	if r.Store == nil {
		return errors.New("can not undo, no store")
	}

	restored, err := r.Undo.Undo()
	if err != nil {
		return err
	}
	if !restored {
		pp.Status("nothing to undo")
		return nil
	}

	pp.Title("undone")
	pp.Tasks(r.Store.Snapshot())
	return nil
}
