package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	inventorydomain "github.com/widgetco/fulfillment/internal/domains/inventory/domain"
	ordersdomain "github.com/widgetco/fulfillment/internal/domains/orders/domain"
)

func TestGenerator_SameSeedSameWorld(t *testing.T) {
	first := NewGenerator(42)
	second := NewGenerator(42)

	require.Equal(t, first.CustomerNames(50), second.CustomerNames(50))
	require.Equal(t, first.BOMs(), second.BOMs())

	a := first.Employees(20)
	b := second.Employees(20)
	require.Equal(t, a, b)
}

func TestGenerator_BOMsCoverCatalogWithinBounds(t *testing.T) {
	entries := NewGenerator(7).BOMs()

	perProduct := map[string]map[string]bool{}
	for _, entry := range entries {
		require.NoError(t, entry.Validate())
		require.GreaterOrEqual(t, entry.QuantityNeeded, 1)
		require.LessOrEqual(t, entry.QuantityNeeded, 20)
		require.GreaterOrEqual(t, entry.UnitCost, 0.25)
		require.LessOrEqual(t, entry.UnitCost, 25.0)
		if perProduct[entry.Product] == nil {
			perProduct[entry.Product] = map[string]bool{}
		}
		require.False(t, perProduct[entry.Product][entry.Part], "duplicate part %s for %s", entry.Part, entry.Product)
		perProduct[entry.Product][entry.Part] = true
	}
	require.Len(t, perProduct, len(ordersdomain.Products))
	for product, parts := range perProduct {
		require.GreaterOrEqual(t, len(parts), 5, product)
		// 25 drawn parts plus up to 5 shared ones.
		require.LessOrEqual(t, len(parts), 30, product)
	}
}

func TestInitialInventory_SumsRequirementsTimesBuildTarget(t *testing.T) {
	entries := []inventorydomain.BOMEntry{
		{Product: "Widget", Part: "part_a", QuantityNeeded: 2, UnitCost: 5},
		{Product: "Widget_Pro", Part: "part_a", QuantityNeeded: 3, UnitCost: 5},
		{Product: "Widget", Part: "part_b", QuantityNeeded: 1, UnitCost: 10},
	}

	levels := InitialInventory(entries, 100)
	require.Equal(t, []inventorydomain.Level{
		{Part: "part_a", Quantity: 500},
		{Part: "part_b", Quantity: 100},
	}, levels)
}

func TestGenerator_OrderTargetsMarginWithVariance(t *testing.T) {
	g := NewGenerator(11)
	at := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)
	customers := []string{"Acme Corp"}
	costOf := func(ordersdomain.Product) (float64, error) { return 100, nil }

	for i := 0; i < 50; i++ {
		spec, err := g.Order(at, customers, costOf)
		require.NoError(t, err)
		require.Equal(t, "Acme Corp", spec.Customer)
		require.True(t, ordersdomain.IsValidProduct(spec.Product))
		require.GreaterOrEqual(t, spec.Quantity, 1)
		require.LessOrEqual(t, spec.Quantity, 20)

		// Base price 142.86 for a 30% margin, then up to 10% either way.
		require.GreaterOrEqual(t, spec.UnitPrice, 128.57)
		require.LessOrEqual(t, spec.UnitPrice, 157.15)

		days := spec.PredictedShipDate.Sub(at).Hours() / 24
		require.GreaterOrEqual(t, days, 7.0)
		require.LessOrEqual(t, days, 14.0)
	}
}

func TestLoadProfile_DefaultsWhenMissing(t *testing.T) {
	profile, err := LoadProfile("does-not-exist.yaml")
	require.NoError(t, err)
	require.Equal(t, DefaultProfile(), profile)
}
