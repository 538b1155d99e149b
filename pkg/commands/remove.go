package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/tally/pkg/runner/remove"
)

func addRemove(topLevel *cobra.Command) {
	var ref string

	cmd := &cobra.Command{
		Use:     "remove <task>",
		Aliases: []string{"rm"},
		Short:   "remove a task and its events",
		Example: `
tally remove Pushups
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a task")
			}
			ref = strings.Join(args, " ")
			return nil
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) != 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return taskCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, u, err := loadStore()
			if err != nil {
				return err
			}
			r := remove.Remove{
				Task:  ref,
				Store: s,
				Undo:  u,
			}
			err = r.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
