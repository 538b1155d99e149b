package commands

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/tally/pkg/settings"
	"tableflip.dev/tally/pkg/store"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(tally completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(tally completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

func taskCompletions(toComplete string) []string {
	st, err := settings.Load(nil)
	if err != nil {
		return nil
	}
	state := store.New(st).Snapshot()
	names := make([]string, 0, len(state.Tasks))
	for _, t := range state.Tasks {
		if toComplete == "" || strings.HasPrefix(strings.ToLower(t.Name), strings.ToLower(toComplete)) {
			names = append(names, strconv.Quote(t.Name))
		}
	}
	return names
}
