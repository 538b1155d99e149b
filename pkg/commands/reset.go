package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/tally/pkg/commands/options"
	"tableflip.dev/tally/pkg/runner/reset"
)

func addReset(topLevel *cobra.Command) {
	ro := &options.ResetOptions{}

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "clear all logged events for a new day",
		Example: `
tally reset
tally reset --force
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, u, err := loadStore()
			if err != nil {
				return err
			}
			r := reset.Reset{
				Force: ro.Force,
				Store: s,
				Undo:  u,
			}
			err = r.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	options.AddResetArgs(cmd, ro)

	topLevel.AddCommand(cmd)
}
