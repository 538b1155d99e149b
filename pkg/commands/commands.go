package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/tally/pkg/settings"
	"tableflip.dev/tally/pkg/store"
	"tableflip.dev/tally/pkg/undo"
)

var (
	oo = &base.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "tally",
		Short: base.Wrap80("Personal task-event logging with a companion mirror."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addAdd(topLevel)
	addGet(topLevel)
	addLog(topLevel)
	addUndo(topLevel)
	addRename(topLevel)
	addRemove(topLevel)
	addReset(topLevel)
	addOrder(topLevel)
	addServe(topLevel)
	addCompanion(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

// loadStore builds the settings store, state store, and undo controller the
// phone-side commands share.
func loadStore() (settings.Store, *store.Store, *undo.Controller, error) {
	st, err := settings.Load(nil)
	if err != nil {
		return nil, nil, nil, err
	}
	s := store.New(st)
	u := undo.New(s, undo.WithPersistence(st, undo.DefaultKey))
	return st, s, u, nil
}
