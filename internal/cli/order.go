package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	ordersapp "github.com/widgetco/fulfillment/internal/domains/orders/application"
	ordersdomain "github.com/widgetco/fulfillment/internal/domains/orders/domain"
	"github.com/widgetco/fulfillment/internal/seed"
)

// OrderOptions holds flags for the order command.
type OrderOptions struct {
	*RootOptions
	Count int
	At    string
	Seed  int64
}

// NewOrderCommand creates the command that generates customer orders.
func NewOrderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OrderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "order",
		Short: "Generate random customer orders into the order store",
		Long: `order draws random customer orders and registers them in the received
state. The customer pool is derived from the profile seed so names stay
stable across runs; order draws use the wall clock unless --seed is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrder(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Count, "count", "n", 1, "number of orders to generate")
	cmd.Flags().StringVar(&opts.At, "at", "", "order timestamp (RFC 3339 or YYYY-MM-DD)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "seed for order draws (0 uses the wall clock)")

	return cmd
}

func runOrder(cmd *cobra.Command, opts *OrderOptions) error {
	if opts.Count < 1 {
		return fmt.Errorf("count must be at least 1")
	}
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

	customers := seed.NewGenerator(rt.profile.Seed).CustomerNames(rt.profile.Customers)
	drawSeed := opts.Seed
	if drawSeed == 0 {
		drawSeed = time.Now().UnixNano()
	}
	gen := seed.NewGenerator(drawSeed)

	costOf := func(product ordersdomain.Product) (float64, error) {
		return rt.inventory.UnitCost(ctx, string(product))
	}

	out := cmd.OutOrStdout()
	for i := 0; i < opts.Count; i++ {
		spec, err := gen.Order(at, customers, costOf)
		if err != nil {
			return fmt.Errorf("generate order: %w", err)
		}
		order, err := rt.orders.Create(ctx, ordersapp.CreateOrderInput{
			Customer:          spec.Customer,
			Product:           spec.Product,
			Quantity:          spec.Quantity,
			UnitPrice:         spec.UnitPrice,
			OrderedAt:         spec.OrderedAt,
			PredictedShipDate: spec.PredictedShipDate,
		})
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		fmt.Fprintf(out, "order #%d: %s, %d x %s at $%.2f\n",
			order.ID, order.Customer, order.Quantity, order.Product, order.UnitPrice)
	}
	return nil
}
