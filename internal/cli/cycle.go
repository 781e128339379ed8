package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	ordersapp "github.com/widgetco/fulfillment/internal/domains/orders/application"
	ordersdomain "github.com/widgetco/fulfillment/internal/domains/orders/domain"
	"github.com/widgetco/fulfillment/internal/seed"
	"github.com/widgetco/fulfillment/internal/simstate"
)

// restockInterval runs replenishment every third simulated day.
const restockInterval = 3

// CycleOptions holds flags for the cycle command.
type CycleOptions struct {
	*RootOptions
	Days    int
	Start   string
	Seed    int64
	Disable []string
}

// NewCycleCommand creates the command that runs the full daily loop.
func NewCycleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CycleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cycle",
		Short: "Run the daily business loop for a number of simulated days",
		Long: `cycle runs the whole business day by day: orders arrive in the morning,
intake and production advancement run an hour later, restocking every
third day, payroll on Fridays. Progress is checkpointed to the
simulation state file after every day so external observers can follow
along. Operations named with --disable are left for external agents.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCycle(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Days, "days", 30, "number of simulated days")
	cmd.Flags().StringVar(&opts.Start, "start", "", "first simulated day (YYYY-MM-DD, default today)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "seed for order draws (0 uses the wall clock)")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "operations to hand off externally (process, ops, restock, payroll)")

	return cmd
}

func runCycle(cmd *cobra.Command, opts *CycleOptions) error {
	if opts.Days < 1 {
		return fmt.Errorf("days must be at least 1")
	}
	disabled := map[string]bool{}
	for _, operation := range opts.Disable {
		switch operation {
		case simstate.OperationProcess, simstate.OperationOps, simstate.OperationRestock, simstate.OperationPayroll:
			disabled[operation] = true
		default:
			return fmt.Errorf("unknown operation %q", operation)
		}
	}
	start, err := parseWhen(opts.Start)
	if err != nil {
		return err
	}
	start = start.Truncate(24 * time.Hour)

	ctx := cmd.Context()
	rt, cleanup, err := newRuntime(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	customers := seed.NewGenerator(rt.profile.Seed).CustomerNames(rt.profile.Customers)
	drawSeed := opts.Seed
	if drawSeed == 0 {
		drawSeed = time.Now().UnixNano()
	}
	gen := seed.NewGenerator(drawSeed)

	out := cmd.OutOrStdout()
	if err := rt.state.Write(start, 0, opts.Days, simstate.StatusInitializing, opts.Disable, nil); err != nil {
		return err
	}

	for day := 1; day <= opts.Days; day++ {
		date := start.AddDate(0, 0, day-1)
		morning := date.Add(9 * time.Hour)
		workday := date.Add(10 * time.Hour)
		if err := rt.state.Write(morning, day, opts.Days, simstate.StatusRunning, opts.Disable, nil); err != nil {
			return err
		}

		arrived, err := generateDailyOrders(ctx, rt, gen, customers, morning)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "day %d (%s): %d orders arrived", day, date.Format("2006-01-02"), arrived)

		var pending []string
		if disabled[simstate.OperationProcess] {
			pending = append(pending, simstate.OperationProcess)
		} else {
			report, err := rt.fulfillment.ProcessIntake(ctx, workday)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, ", %d processed", report.Processed)
		}
		if disabled[simstate.OperationOps] {
			pending = append(pending, simstate.OperationOps)
		} else {
			report, err := rt.fulfillment.AdvanceStages(ctx, workday)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, ", %d shipped", report.Shipped)
		}
		if day%restockInterval == 0 {
			if disabled[simstate.OperationRestock] {
				pending = append(pending, simstate.OperationRestock)
			} else {
				report, err := rt.fulfillment.RunRestock(ctx, workday)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, ", restocked %d parts", len(report.Actions))
			}
		}
		if date.Weekday() == time.Friday {
			if disabled[simstate.OperationPayroll] {
				pending = append(pending, simstate.OperationPayroll)
			} else {
				report, err := rt.fulfillment.RunPayroll(ctx, workday)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, ", paid %d employees", report.Paid)
			}
		}
		fmt.Fprintln(out)

		if err := rt.state.Write(workday, day, opts.Days, simstate.StatusDayComplete, opts.Disable, pending); err != nil {
			return err
		}
	}

	end := start.AddDate(0, 0, opts.Days-1).Add(17 * time.Hour)
	if err := rt.state.Write(end, opts.Days, opts.Days, simstate.StatusFinished, opts.Disable, nil); err != nil {
		return err
	}
	return printCycleSummary(ctx, out, rt)
}

func generateDailyOrders(ctx context.Context, rt *runtime, gen *seed.Generator, customers []string, at time.Time) (int, error) {
	costOf := func(product ordersdomain.Product) (float64, error) {
		return rt.inventory.UnitCost(ctx, string(product))
	}
	count := gen.OrdersPerDay()
	for i := 0; i < count; i++ {
		spec, err := gen.Order(at, customers, costOf)
		if err != nil {
			return i, err
		}
		if _, err := rt.orders.Create(ctx, ordersapp.CreateOrderInput{
			Customer:          spec.Customer,
			Product:           spec.Product,
			Quantity:          spec.Quantity,
			UnitPrice:         spec.UnitPrice,
			OrderedAt:         spec.OrderedAt,
			PredictedShipDate: spec.PredictedShipDate,
		}); err != nil {
			return i, err
		}
	}
	return count, nil
}

func printCycleSummary(ctx context.Context, out io.Writer, rt *runtime) error {
	fmt.Fprintln(out, "simulation finished")
	var total int
	for _, status := range []ordersdomain.Status{ordersdomain.StatusReceived, ordersdomain.StatusProcessing, ordersdomain.StatusShipped} {
		orders, err := rt.orders.ListByStatus(ctx, status)
		if err != nil {
			return err
		}
		total += len(orders)
		fmt.Fprintf(out, "  %-12s %d\n", status, len(orders))
	}
	fmt.Fprintf(out, "  %-12s %d\n", "total orders", total)
	return printFinanceSummary(ctx, out, rt)
}
