package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/tally/pkg/runner/order"
)

func addOrder(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "order <task> [task...]",
		Short: "move tasks to the front of the list",
		Example: `
tally order Pushups Situps
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires at least one task")
			}
			return nil
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return taskCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, u, err := loadStore()
			if err != nil {
				return err
			}
			r := order.Order{
				Tasks: args,
				Store: s,
				Undo:  u,
			}
			err = r.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
