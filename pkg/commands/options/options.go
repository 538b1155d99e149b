// Package options defines shared flag helpers for CLI commands.
package options

import "github.com/spf13/cobra"

// IDOptions captures id display flags for commands.
type IDOptions struct {
	ShowID bool
}

// AddShowIDArgs wires the show-id flag on the provided command.
func AddShowIDArgs(cmd *cobra.Command, o *IDOptions) {
	cmd.Flags().BoolVar(&o.ShowID, "show-id", false,
		"Show task ids.")
}

// AtOptions captures an explicit event timestamp.
type AtOptions struct {
	At int64
}

// AddAtArgs wires the timestamp flag on the provided command.
func AddAtArgs(cmd *cobra.Command, o *AtOptions) {
	cmd.Flags().Int64Var(&o.At, "at", 0,
		"Event time as epoch milliseconds; 0 logs now.")
}

// ResetOptions captures reset confirmation flags.
type ResetOptions struct {
	Force bool
}

// AddResetArgs wires the force flag on the provided command.
func AddResetArgs(cmd *cobra.Command, o *ResetOptions) {
	cmd.Flags().BoolVar(&o.Force, "force", false,
		"Reset even when a reset already happened today.")
}

// ServeOptions captures the phone-side listener flags.
type ServeOptions struct {
	Listen    string
	Companion string
}

// AddServeArgs wires the listener flags on the provided command.
func AddServeArgs(cmd *cobra.Command, o *ServeOptions) {
	cmd.Flags().StringVar(&o.Listen, "listen", ":7780",
		"Address to listen on for companion requests.")
	cmd.Flags().StringVar(&o.Companion, "companion", "http://localhost:7781",
		"Base URL of the companion process for replies.")
}

// CompanionOptions captures the companion-side flags.
type CompanionOptions struct {
	Listen string
	Phone  string
}

// AddCompanionArgs wires the companion flags on the provided command.
func AddCompanionArgs(cmd *cobra.Command, o *CompanionOptions) {
	cmd.Flags().StringVar(&o.Listen, "listen", ":7781",
		"Address to listen on for snapshot replies.")
	cmd.Flags().StringVar(&o.Phone, "phone", "http://localhost:7780",
		"Base URL of the phone process.")
}
