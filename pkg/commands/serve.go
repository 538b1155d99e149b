package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tableflip.dev/tally/pkg/commands/options"
	"tableflip.dev/tally/pkg/runner/serve"
)

func addServe(topLevel *cobra.Command) {
	so := &options.ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "answer companion sync requests",
		Example: `
tally serve
tally serve --listen :7780 --companion http://localhost:7781
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, s, _, err := loadStore()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			peers := map[string]string{}
			if so.Companion != "" {
				peers["companion"] = so.Companion
			}

			r := serve.Serve{
				Listen:   so.Listen,
				Peers:    peers,
				Store:    s,
				Settings: st,
			}
			err = r.Do(ctx)
			return oo.HandleError(err)
		},
	}

	options.AddServeArgs(cmd, so)

	topLevel.AddCommand(cmd)
}
