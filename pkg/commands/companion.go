package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tableflip.dev/tally/pkg/commands/options"
	"tableflip.dev/tally/pkg/runner/companion"
)

func addCompanion(topLevel *cobra.Command) {
	co := &options.CompanionOptions{}

	cmd := &cobra.Command{
		Use:   "companion",
		Short: "mirror and remote-control a serving tally process",
		Example: `
tally companion
tally companion --phone http://localhost:7780 --listen :7781
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			r := companion.Companion{
				Listen: co.Listen,
				Phone:  co.Phone,
			}
			err := r.Do(ctx)
			return oo.HandleError(err)
		},
	}

	options.AddCompanionArgs(cmd, co)

	topLevel.AddCommand(cmd)
}
