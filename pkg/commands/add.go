package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/tally/pkg/runner/add"
)

func addAdd(topLevel *cobra.Command) {
	var name string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "add a task",
		Example: `
tally add Pushups
tally add "Morning run"
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a task name")
			}
			name = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, u, err := loadStore()
			if err != nil {
				return err
			}
			r := add.Add{
				Name:  name,
				Store: s,
				Undo:  u,
			}
			err = r.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
