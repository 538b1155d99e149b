package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/tally/pkg/commands/options"
	"tableflip.dev/tally/pkg/runner/log"
)

func addLog(topLevel *cobra.Command) {
	ao := &options.AtOptions{}
	var ref string

	cmd := &cobra.Command{
		Use:   "log <task>",
		Short: "log an event for a task",
		Example: `
tally log Pushups
tally log Pushups --at 1718000000000
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
			r := log.Log{
				Task:  ref,
				At:    ao.At,
				Store: s,
				Undo:  u,
			}
			err = r.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	options.AddAtArgs(cmd, ao)

	topLevel.AddCommand(cmd)
}
