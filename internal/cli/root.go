package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all simctl commands.
type RootOptions struct {
	Profile string
	Verbose bool
}

// NewRootCommand creates the root command for the simulation CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "simctl",
		Short: "Operate the manufacturing fulfillment simulation",
		Long: `simctl drives the manufacturing company simulation against the four
stores: seed the world, generate orders, and run the daily operations
(intake, production advancement, restocking, payroll).

Operations disabled in the simulation state file are skipped, leaving
them for external agents to perform.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Profile, "profile", "", "path to a YAML seed profile")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewOrderCommand(opts))
	cmd.AddCommand(NewProcessCommand(opts))
	cmd.AddCommand(NewAdvanceCommand(opts))
	cmd.AddCommand(NewRestockCommand(opts))
	cmd.AddCommand(NewPayrollCommand(opts))
	cmd.AddCommand(NewReconcileCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewCycleCommand(opts))

	return cmd
}

// parseWhen accepts RFC 3339, "YYYY-MM-DD HH:MM:SS", or a bare date. Empty
// means the wall clock.
func parseWhen(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if at, err := time.Parse(layout, raw); err == nil {
			return at, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q: use RFC 3339, YYYY-MM-DD HH:MM:SS, or YYYY-MM-DD", raw)
}
