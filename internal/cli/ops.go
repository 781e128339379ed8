package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/widgetco/fulfillment/internal/simstate"
)

// OpsOptions holds flags shared by the operational commands.
type OpsOptions struct {
	*RootOptions
	At    string
	Force bool
}

func addOpsFlags(cmd *cobra.Command, opts *OpsOptions) {
	cmd.Flags().StringVar(&opts.At, "at", "", "simulated time (RFC 3339 or YYYY-MM-DD)")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "run even when the operation is disabled in the state file")
}

// skipIfDisabled reports whether the operation is handed off to an external
// agent via the simulation state file.
func skipIfDisabled(out io.Writer, rt *runtime, opts *OpsOptions, operation string) (bool, error) {
	if opts.Force {
		return false, nil
	}
	enabled, err := rt.operationEnabled(operation)
	if err != nil {
		return false, err
	}
	if !enabled {
		fmt.Fprintf(out, "operation %q is disabled in %s; skipping (use --force to override)\n", operation, rt.cfg.SimStatePath)
		return true, nil
	}
	return false, nil
}

// NewProcessCommand creates the command that runs order intake.
func NewProcessCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OpsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Intake all received orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseWhen(opts.At)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			rt, cleanup, err := newRuntime(ctx, opts.RootOptions)
			if err != nil {
				return err
			}
			defer cleanup()
			out := cmd.OutOrStdout()
			if skipped, err := skipIfDisabled(out, rt, opts, simstate.OperationProcess); err != nil || skipped {
				return err
			}
			report, err := rt.fulfillment.ProcessIntake(ctx, at)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "intake %s: %d processed, %d skipped, %d failed\n",
				report.RunID, report.Processed, report.Skipped, report.Failed)
			return nil
		},
	}
	addOpsFlags(cmd, opts)
	return cmd
}

// NewAdvanceCommand creates the command that advances production stages.
func NewAdvanceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OpsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "advance",
		Short: "Advance production for every processing order",
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseWhen(opts.At)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			rt, cleanup, err := newRuntime(ctx, opts.RootOptions)
			if err != nil {
				return err
			}
			defer cleanup()
			out := cmd.OutOrStdout()
			if skipped, err := skipIfDisabled(out, rt, opts, simstate.OperationOps); err != nil || skipped {
				return err
			}
			report, err := rt.fulfillment.AdvanceStages(ctx, at)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "advance %s: %d advanced, %d shipped, %d failed\n",
				report.RunID, report.Advanced, report.Shipped, report.Failed)
			return nil
		},
	}
	addOpsFlags(cmd, opts)
	return cmd
}

// NewRestockCommand creates the command that replenishes low inventory.
func NewRestockCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OpsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "restock",
		Short: "Replenish every part below the restock threshold",
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseWhen(opts.At)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			rt, cleanup, err := newRuntime(ctx, opts.RootOptions)
			if err != nil {
				return err
			}
			defer cleanup()
			out := cmd.OutOrStdout()
			if skipped, err := skipIfDisabled(out, rt, opts, simstate.OperationRestock); err != nil || skipped {
				return err
			}
			report, err := rt.fulfillment.RunRestock(ctx, at)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "restock %s: %d parts ordered for $%.2f\n",
				report.RunID, len(report.Actions), report.TotalCost)
			return nil
		},
	}
	addOpsFlags(cmd, opts)
	return cmd
}

// NewPayrollCommand creates the command that pays the weekly payroll.
func NewPayrollCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OpsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "payroll",
		Short: "Pay weekly salaries (runs on Fridays only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseWhen(opts.At)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			rt, cleanup, err := newRuntime(ctx, opts.RootOptions)
			if err != nil {
				return err
			}
			defer cleanup()
			out := cmd.OutOrStdout()
			if skipped, err := skipIfDisabled(out, rt, opts, simstate.OperationPayroll); err != nil || skipped {
				return err
			}
			report, err := rt.fulfillment.RunPayroll(ctx, at)
			if err != nil {
				return err
			}
			if !report.Ran {
				fmt.Fprintf(out, "payroll %s: not a payday (%s)\n", report.RunID, at.Weekday())
				return nil
			}
			fmt.Fprintf(out, "payroll %s: paid %d employees $%.2f, %d failed\n",
				report.RunID, report.Paid, report.TotalPaid, report.Failed)
			return nil
		},
	}
	addOpsFlags(cmd, opts)
	return cmd
}

// NewReconcileCommand creates the command that heals cross-store gaps.
// Reconciliation is never delegated, so the state file is not consulted.
func NewReconcileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OpsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Repair cross-store inconsistencies left by interrupted runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseWhen(opts.At)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			rt, cleanup, err := newRuntime(ctx, opts.RootOptions)
			if err != nil {
				return err
			}
			defer cleanup()
			report, err := rt.fulfillment.Reconcile(ctx, at)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "reconcile %s: %d actions\n", report.RunID, len(report.Actions))
			for _, action := range report.Actions {
				fmt.Fprintf(out, "  order #%d: %s\n", action.OrderID, action.Action)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.At, "at", "", "simulated time (RFC 3339 or YYYY-MM-DD)")
	return cmd
}
