package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	financedomain "github.com/widgetco/fulfillment/internal/domains/finance/domain"
	ordersdomain "github.com/widgetco/fulfillment/internal/domains/orders/domain"
)

// NewShowCommand creates the command that summarizes the four stores.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Summarize orders, inventory, and finances",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, cleanup, err := newRuntime(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "Orders:")
			var totalOrders int
			for _, status := range []ordersdomain.Status{ordersdomain.StatusReceived, ordersdomain.StatusProcessing, ordersdomain.StatusShipped} {
				orders, err := rt.orders.ListByStatus(ctx, status)
				if err != nil {
					return err
				}
				totalOrders += len(orders)
				fmt.Fprintf(out, "  %-12s %d\n", status, len(orders))
			}
			fmt.Fprintf(out, "  %-12s %d\n", "total", totalOrders)

			levels, err := rt.inventory.ListLevels(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "Inventory:")
			var totalUnits, low int
			for _, level := range levels {
				totalUnits += level.Quantity
				if level.Quantity == 0 {
					low++
				}
			}
			fmt.Fprintf(out, "  %-12s %d\n", "parts", len(levels))
			fmt.Fprintf(out, "  %-12s %d\n", "units", totalUnits)
			fmt.Fprintf(out, "  %-12s %d\n", "exhausted", low)

			if err := printFinanceSummary(ctx, out, rt); err != nil {
				return err
			}
			return nil
		},
	}
}

func printFinanceSummary(ctx context.Context, out io.Writer, rt *runtime) error {
	summary, err := rt.finance.Summarize(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Finances:")
	for _, transactionType := range []financedomain.TransactionType{
		financedomain.TypeCustomerPayment,
		financedomain.TypeInventoryPurchase,
		financedomain.TypeEmployeePayment,
	} {
		fmt.Fprintf(out, "  %-20s $%.2f (%d entries)\n",
			transactionType, summary.Totals[transactionType], summary.Counts[transactionType])
	}
	fmt.Fprintf(out, "  %-20s $%.2f\n", "balance", summary.Balance)
	return nil
}
