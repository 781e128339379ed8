package application

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/widgetco/fulfillment/internal/domains/inventory/adapters/memory"
	"github.com/widgetco/fulfillment/internal/domains/inventory/domain"
)

func newTestService(t *testing.T) (*Service, *memory.Repository) {
	t.Helper()
	repo := memory.NewRepository()
	return NewService(repo, rand.New(rand.NewSource(1))), repo
}

func seedProductX(t *testing.T, svc *Service) {
	t.Helper()
	ctx := context.Background()
	// Product X: 2x partA at $5, 1x partB at $10.
	_, err := svc.AddBOMEntry(ctx, domain.BOMEntry{Product: "X", Part: "partA", QuantityNeeded: 2, UnitCost: 5})
	require.NoError(t, err)
	_, err = svc.AddBOMEntry(ctx, domain.BOMEntry{Product: "X", Part: "partB", QuantityNeeded: 1, UnitCost: 10})
	require.NoError(t, err)
	require.NoError(t, svc.SetLevel(ctx, domain.Level{Part: "partA", Quantity: 100}))
	require.NoError(t, svc.SetLevel(ctx, domain.Level{Part: "partB", Quantity: 100}))
}

func TestCheckAvailability_Sufficient(t *testing.T) {
	svc, _ := newTestService(t)
	seedProductX(t, svc)

	availability, err := svc.CheckAvailability(context.Background(), "X", 10)
	require.NoError(t, err)
	require.True(t, availability.Sufficient)
	require.Empty(t, availability.Shortfalls)
}

func TestCheckAvailability_ReportsShortfalls(t *testing.T) {
	svc, _ := newTestService(t)
	seedProductX(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.SetLevel(ctx, domain.Level{Part: "partA", Quantity: 15}))

	availability, err := svc.CheckAvailability(ctx, "X", 10)
	require.NoError(t, err)
	require.False(t, availability.Sufficient)
	require.Len(t, availability.Shortfalls, 1)
	require.Equal(t, domain.Shortfall{Part: "partA", Needed: 20, Available: 15}, availability.Shortfalls[0])

	// A read-only check must not mutate stock.
	level, err := svc.repo.GetLevel(ctx, "partA")
	require.NoError(t, err)
	require.Equal(t, 15, level.Quantity)
}

func TestReserveAndDeduct_DeductsAndCosts(t *testing.T) {
	svc, _ := newTestService(t)
	seedProductX(t, svc)
	ctx := context.Background()

	cost, err := svc.ReserveAndDeduct(ctx, "X", 10)
	require.NoError(t, err)
	// 10 x (2x$5 + 1x$10) = $200.
	require.InDelta(t, 200.0, cost, 1e-9)

	levelA, err := svc.repo.GetLevel(ctx, "partA")
	require.NoError(t, err)
	require.Equal(t, 80, levelA.Quantity)
	levelB, err := svc.repo.GetLevel(ctx, "partB")
	require.NoError(t, err)
	require.Equal(t, 90, levelB.Quantity)
}

func TestReserveAndDeduct_UnknownProduct(t *testing.T) {
	svc, _ := newTestService(t)
	seedProductX(t, svc)

	_, err := svc.ReserveAndDeduct(context.Background(), "Y", 1)
	require.ErrorIs(t, err, domain.ErrNoBOM)
}

func TestRestock_ThresholdAndTarget(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// One part needed by two products: 3/unit and 2/unit.
	_, err := svc.AddBOMEntry(ctx, domain.BOMEntry{Product: "P1", Part: "gear", QuantityNeeded: 3, UnitCost: 4})
	require.NoError(t, err)
	_, err = svc.AddBOMEntry(ctx, domain.BOMEntry{Product: "P2", Part: "gear", QuantityNeeded: 2, UnitCost: 6})
	require.NoError(t, err)
	require.NoError(t, svc.SetLevel(ctx, domain.Level{Part: "gear", Quantity: 40}))

	// threshold = (3+2)*10 = 50 > 40, so restock to target = (3+2)*100 = 500.
	actions, err := svc.Restock(ctx, 10, 100)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	require.Equal(t, "gear", actions[0].Part)
	require.Equal(t, 460, actions[0].QuantityOrdered)
	require.Equal(t, 500, actions[0].NewQuantity)

	// Weighted average cost is (3*4 + 2*6)/5 = $4.80; purchase variance is
	// bounded at ±10%.
	perUnit := actions[0].Cost / float64(actions[0].QuantityOrdered)
	require.InDelta(t, 4.80, perUnit, 0.48)

	level, err := svc.repo.GetLevel(ctx, "gear")
	require.NoError(t, err)
	require.Equal(t, 500, level.Quantity)
}

func TestRestock_NoActionAboveThreshold(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddBOMEntry(ctx, domain.BOMEntry{Product: "P1", Part: "gear", QuantityNeeded: 5, UnitCost: 1})
	require.NoError(t, err)
	require.NoError(t, svc.SetLevel(ctx, domain.Level{Part: "gear", Quantity: 50}))

	actions, err := svc.Restock(ctx, 10, 100)
	require.NoError(t, err)
	require.Empty(t, actions)
}

func TestAddBOMEntry_RejectsDuplicates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddBOMEntry(ctx, domain.BOMEntry{Product: "X", Part: "partA", QuantityNeeded: 2, UnitCost: 5})
	require.NoError(t, err)
	_, err = svc.AddBOMEntry(ctx, domain.BOMEntry{Product: "X", Part: "partA", QuantityNeeded: 4, UnitCost: 5})
	require.ErrorIs(t, err, domain.ErrDuplicateBOMEntry)
}
