package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/tally/pkg/runner/rename"
)

func addRename(topLevel *cobra.Command) {
	var from, to string

	cmd := &cobra.Command{
		Use:   "rename <task> <new name>",
		Short: "rename a task",
		Example: `
tally rename Pushups "Push ups"
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("requires a task and a new name")
			}
			from = args[0]
			to = args[1]
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
			r := rename.Rename{
				Task:  from,
				To:    to,
				Store: s,
				Undo:  u,
			}
			err = r.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
