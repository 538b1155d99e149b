package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/tally/pkg/commands/options"
	"tableflip.dev/tally/pkg/runner/get"
)

func addGet(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	var ref string

	cmd := &cobra.Command{
		Use:   "get [task]",
		Short: "get tasks or one task's events",
		Example: `
tally get
tally get Pushups
tally get --show-id
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				ref = strings.Join(args, " ")
			}
			return nil
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) != 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return taskCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, _, err := loadStore()
			if err != nil {
				return err
			}
			r := get.Get{
				Task:   ref,
				ShowID: io.ShowID,
				Store:  s,
			}
			err = r.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	options.AddShowIDArgs(cmd, io)

	topLevel.AddCommand(cmd)
}
