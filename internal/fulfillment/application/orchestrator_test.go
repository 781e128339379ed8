package application

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	financememory "github.com/widgetco/fulfillment/internal/domains/finance/adapters/memory"
	financeapp "github.com/widgetco/fulfillment/internal/domains/finance/application"
	financedomain "github.com/widgetco/fulfillment/internal/domains/finance/domain"
	inventorymemory "github.com/widgetco/fulfillment/internal/domains/inventory/adapters/memory"
	inventoryapp "github.com/widgetco/fulfillment/internal/domains/inventory/application"
	inventorydomain "github.com/widgetco/fulfillment/internal/domains/inventory/domain"
	ordersmemory "github.com/widgetco/fulfillment/internal/domains/orders/adapters/memory"
	ordersapp "github.com/widgetco/fulfillment/internal/domains/orders/application"
	ordersdomain "github.com/widgetco/fulfillment/internal/domains/orders/domain"
	productionmemory "github.com/widgetco/fulfillment/internal/domains/production/adapters/memory"
	productionapp "github.com/widgetco/fulfillment/internal/domains/production/application"
	"github.com/widgetco/fulfillment/internal/fulfillment/ports"
)

var intakeAt = time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC) // a Monday

type fixture struct {
	orders     *ordersapp.Service
	inventory  *inventoryapp.Service
	production *productionapp.Tracker
	finance    *financeapp.Ledger
	orch       *Orchestrator
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	rng := rand.New(rand.NewSource(7))
	f := &fixture{
		orders:     ordersapp.NewService(ordersmemory.NewRepository()),
		inventory:  inventoryapp.NewService(inventorymemory.NewRepository(), rng),
		production: productionapp.NewTracker(productionmemory.NewRepository(), rng),
		finance:    financeapp.NewLedger(financememory.NewRepository()),
	}
	f.orch = NewOrchestrator(f.orders, f.inventory, f.production, f.finance, opts...)
	return f
}

func (f *fixture) seedBOM(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	for _, entry := range []inventorydomain.BOMEntry{
		{Product: string(ordersdomain.ProductWidget), Part: "part_a", QuantityNeeded: 2, UnitCost: 5},
		{Product: string(ordersdomain.ProductWidget), Part: "part_b", QuantityNeeded: 1, UnitCost: 10},
	} {
		_, err := f.inventory.AddBOMEntry(ctx, entry)
		require.NoError(t, err)
	}
	require.NoError(t, f.inventory.SetLevel(ctx, inventorydomain.Level{Part: "part_a", Quantity: 100}))
	require.NoError(t, f.inventory.SetLevel(ctx, inventorydomain.Level{Part: "part_b", Quantity: 100}))
}

func (f *fixture) seedOrder(t *testing.T, quantity int) *ordersdomain.Order {
	t.Helper()
	order, err := f.orders.Create(context.Background(), ordersapp.CreateOrderInput{
		Customer:          "Acme Corp",
		Product:           ordersdomain.ProductWidget,
		Quantity:          quantity,
		UnitPrice:         100,
		OrderedAt:         intakeAt,
		PredictedShipDate: intakeAt.AddDate(0, 0, 10),
	})
	require.NoError(t, err)
	return order
}

func (f *fixture) levelOf(t *testing.T, part string) int {
	t.Helper()
	levels, err := f.inventory.ListLevels(context.Background())
	require.NoError(t, err)
	for _, level := range levels {
		if level.Part == part {
			return level.Quantity
		}
	}
	t.Fatalf("part %s not found", part)
	return 0
}

func TestProcessIntake_MovesOrderThroughAllFourStores(t *testing.T) {
	f := newFixture(t)
	f.seedBOM(t)
	order := f.seedOrder(t, 10)
	ctx := context.Background()

	report, err := f.orch.ProcessIntake(ctx, intakeAt)
	require.NoError(t, err)
	require.Equal(t, 1, report.Processed)
	require.Zero(t, report.Skipped)
	require.Zero(t, report.Failed)
	require.InDelta(t, 200, report.Results[0].Cost, 1e-9)

	// Order store committed the transition.
	updated, err := f.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, ordersdomain.StatusProcessing, updated.Status)

	// Inventory store committed the deduction.
	require.Equal(t, 80, f.levelOf(t, "part_a"))
	require.Equal(t, 90, f.levelOf(t, "part_b"))

	// Financial store committed the usage entry.
	usage, err := f.finance.FindRelated(ctx, financedomain.TypeInventoryPurchase, order.ID)
	require.NoError(t, err)
	require.Len(t, usage, 1)
	require.InDelta(t, -200, usage[0].Amount, 1e-9)

	// Production store committed the pipeline.
	stages, err := f.production.ListByOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stages, 4)
	require.NotNil(t, stages[0].StartedAt)
}

func TestProcessIntake_RerunIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.seedBOM(t)
	order := f.seedOrder(t, 10)
	ctx := context.Background()

	_, err := f.orch.ProcessIntake(ctx, intakeAt)
	require.NoError(t, err)

	// A second pass finds no received orders and changes nothing.
	report, err := f.orch.ProcessIntake(ctx, intakeAt.Add(time.Hour))
	require.NoError(t, err)
	require.Zero(t, report.Processed)
	require.Empty(t, report.Results)
	require.Equal(t, 80, f.levelOf(t, "part_a"))

	usage, err := f.finance.FindRelated(ctx, financedomain.TypeInventoryPurchase, order.ID)
	require.NoError(t, err)
	require.Len(t, usage, 1)
}

func TestIntakeOrder_SkipsNonReceivedOrder(t *testing.T) {
	f := newFixture(t)
	f.seedBOM(t)
	order := f.seedOrder(t, 10)
	ctx := context.Background()

	first, err := f.orch.IntakeOrder(ctx, order.ID, intakeAt)
	require.NoError(t, err)
	require.Equal(t, ports.OutcomeProcessed, first.Outcome)

	// Direct re-invocation hits the status guard before any store writes.
	second, err := f.orch.IntakeOrder(ctx, order.ID, intakeAt)
	require.NoError(t, err)
	require.Equal(t, ports.OutcomeSkipped, second.Outcome)
	require.Equal(t, 80, f.levelOf(t, "part_a"))
}

func TestProcessIntake_InsufficientInventoryLeavesOrderReceived(t *testing.T) {
	f := newFixture(t)
	f.seedBOM(t)
	order := f.seedOrder(t, 60) // needs 120 part_a, only 100 on hand
	ctx := context.Background()

	report, err := f.orch.ProcessIntake(ctx, intakeAt)
	require.NoError(t, err)
	require.Equal(t, 1, report.Skipped)
	require.Zero(t, report.Processed)

	result := report.Results[0]
	require.Equal(t, ports.OutcomeSkipped, result.Outcome)
	require.ErrorIs(t, result.Err, ErrInsufficientInventory)
	require.Len(t, result.Shortfalls, 1)
	require.Equal(t, "part_a", result.Shortfalls[0].Part)
	require.Equal(t, 120, result.Shortfalls[0].Needed)

	// Nothing committed anywhere: order retryable, stock untouched.
	updated, err := f.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, ordersdomain.StatusReceived, updated.Status)
	require.Equal(t, 100, f.levelOf(t, "part_a"))

	transactions, err := f.finance.ListTransactions(ctx)
	require.NoError(t, err)
	require.Empty(t, transactions)
}

func TestAdvanceStages_ShipsAndRecordsPaymentOnce(t *testing.T) {
	f := newFixture(t)
	f.seedBOM(t)
	order := f.seedOrder(t, 10)
	ctx := context.Background()

	_, err := f.orch.ProcessIntake(ctx, intakeAt)
	require.NoError(t, err)

	// Stage durations top out at 72h, so probes 80h apart complete exactly
	// one stage per pass; the fourth pass fulfills and ships.
	var shipProbe time.Time
	for i := 1; i <= 4; i++ {
		probe := intakeAt.Add(time.Duration(i) * 80 * time.Hour)
		report, err := f.orch.AdvanceStages(ctx, probe)
		require.NoError(t, err)
		require.Zero(t, report.Failed)
		if i < 4 {
			require.Equal(t, 1, report.Advanced)
			require.Zero(t, report.Shipped)
		} else {
			require.Equal(t, 1, report.Shipped)
			shipProbe = probe
		}
	}

	shipped, err := f.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, ordersdomain.StatusShipped, shipped.Status)
	require.NotNil(t, shipped.ShippedAt)
	require.Equal(t, dateOf(shipProbe), *shipped.ShippedAt)

	payments, err := f.finance.FindRelated(ctx, financedomain.TypeCustomerPayment, order.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	require.InDelta(t, 1000, payments[0].Amount, 1e-9)

	// Shipped orders leave the processing set; later passes book nothing.
	report, err := f.orch.AdvanceStages(ctx, shipProbe.Add(80*time.Hour))
	require.NoError(t, err)
	require.Empty(t, report.Results)
	payments, err = f.finance.FindRelated(ctx, financedomain.TypeCustomerPayment, order.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
}

func TestAdvanceStages_InFlightReportsRemaining(t *testing.T) {
	f := newFixture(t)
	f.seedBOM(t)
	f.seedOrder(t, 10)
	ctx := context.Background()

	_, err := f.orch.ProcessIntake(ctx, intakeAt)
	require.NoError(t, err)

	// Minimum stage duration is 3h, so a probe 1h in is always early.
	report, err := f.orch.AdvanceStages(ctx, intakeAt.Add(time.Hour))
	require.NoError(t, err)
	require.Zero(t, report.Advanced)
	require.Len(t, report.Results, 1)
	require.Equal(t, ports.OutcomeInFlight, report.Results[0].Outcome)
	require.Positive(t, report.Results[0].Remaining)
}

func TestRunRestock_ReplenishesAndBooksPurchases(t *testing.T) {
	f := newFixture(t)
	f.seedBOM(t)
	ctx := context.Background()

	// part_a needs 2 per unit; threshold 10 units' worth = 20, target 100
	// units' worth = 200. Drop part_a below threshold, leave part_b healthy.
	require.NoError(t, f.inventory.SetLevel(ctx, inventorydomain.Level{Part: "part_a", Quantity: 15}))
	require.NoError(t, f.inventory.SetLevel(ctx, inventorydomain.Level{Part: "part_b", Quantity: 100}))

	report, err := f.orch.RunRestock(ctx, intakeAt)
	require.NoError(t, err)
	require.Len(t, report.Actions, 1)

	action := report.Actions[0]
	require.Equal(t, "part_a", action.Part)
	require.Equal(t, 185, action.QuantityOrdered)
	require.Equal(t, 200, action.NewQuantity)
	require.Equal(t, 200, f.levelOf(t, "part_a"))
	require.Equal(t, 100, f.levelOf(t, "part_b"))

	// Supplier price varies within 10% of the 5.00 catalog cost.
	perUnit := action.Cost / float64(action.QuantityOrdered)
	require.InDelta(t, 5.0, perUnit, 0.5+1e-9)
	require.InDelta(t, action.Cost, report.TotalCost, 1e-9)

	purchases, err := f.finance.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	require.Equal(t, financedomain.TypeInventoryPurchase, purchases[0].Type)
	require.InDelta(t, action.Cost, purchases[0].Amount, 1e-9)
	require.Positive(t, purchases[0].Amount)
}

func TestRunPayroll_OnlyRunsOnFridays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.finance.AddEmployee(ctx, &financedomain.Employee{Name: "Dana Reyes", Title: "Machinist", WeeklySalary: 1200})
	require.NoError(t, err)
	_, err = f.finance.AddEmployee(ctx, &financedomain.Employee{Name: "Lee Park", Title: "Inspector", WeeklySalary: 1400})
	require.NoError(t, err)

	monday := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	report, err := f.orch.RunPayroll(ctx, monday)
	require.NoError(t, err)
	require.False(t, report.Ran)
	require.Zero(t, report.Paid)

	friday := time.Date(2026, 2, 13, 12, 0, 0, 0, time.UTC)
	report, err = f.orch.RunPayroll(ctx, friday)
	require.NoError(t, err)
	require.True(t, report.Ran)
	require.Equal(t, 2, report.Paid)
	require.InDelta(t, 2600, report.TotalPaid, 1e-9)

	summary, err := f.finance.Summarize(ctx)
	require.NoError(t, err)
	require.InDelta(t, -2600, summary.Totals[financedomain.TypeEmployeePayment], 1e-9)
}

func TestReconcile_RecordsMissingCustomerPayment(t *testing.T) {
	f := newFixture(t)
	f.seedBOM(t)
	order := f.seedOrder(t, 5)
	ctx := context.Background()

	// Ship through the order store alone, as if the payment write was lost
	// between commits.
	_, err := f.orders.MarkProcessing(ctx, order.ID)
	require.NoError(t, err)
	_, err = f.orders.MarkShipped(ctx, order.ID, dateOf(intakeAt))
	require.NoError(t, err)

	report, err := f.orch.Reconcile(ctx, intakeAt)
	require.NoError(t, err)
	require.NotEmpty(t, report.Actions)

	payments, err := f.finance.FindRelated(ctx, financedomain.TypeCustomerPayment, order.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	require.InDelta(t, 500, payments[0].Amount, 1e-9)

	// A second pass finds nothing left to heal for this order's payment.
	report, err = f.orch.Reconcile(ctx, intakeAt)
	require.NoError(t, err)
	for _, action := range report.Actions {
		require.NotEqual(t, "recorded missing customer payment", action.Action)
	}
}

func TestReconcile_InitializesMissingProductionTracking(t *testing.T) {
	f := newFixture(t)
	f.seedBOM(t)
	order := f.seedOrder(t, 5)
	ctx := context.Background()

	// Processing in the order store, but the tracking write never landed.
	_, err := f.orders.MarkProcessing(ctx, order.ID)
	require.NoError(t, err)

	report, err := f.orch.Reconcile(ctx, intakeAt)
	require.NoError(t, err)
	require.NotEmpty(t, report.Actions)

	stages, err := f.production.ListByOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stages, 4)
}
