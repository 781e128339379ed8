package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/widgetco/fulfillment/internal/domains/orders/domain"
	"github.com/widgetco/fulfillment/internal/domains/orders/ports"
)

type fakeOrderRepo struct {
	orders map[int64]*domain.Order
	nextID int64
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int64]*domain.Order{}}
}

func (f *fakeOrderRepo) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	f.nextID++
	clone := *order
	clone.ID = f.nextID
	f.orders[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	if o, ok := f.orders[id]; ok {
		clone := *o
		return &clone, nil
	}
	return nil, ports.ErrNotFound
}

func (f *fakeOrderRepo) ListByStatus(_ context.Context, status domain.Status) ([]*domain.Order, error) {
	var list []*domain.Order
	for _, o := range f.orders {
		if o.Status == status {
			clone := *o
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (f *fakeOrderRepo) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if _, ok := f.orders[order.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	clone := *order
	f.orders[clone.ID] = &clone
	result := clone
	return &result, nil
}

func validInput() CreateOrderInput {
	orderedAt := time.Date(2026, 2, 12, 9, 30, 0, 0, time.UTC)
	return CreateOrderInput{
		Customer:          "Acme Corp",
		Product:           domain.ProductWidgetPro,
		Quantity:          10,
		UnitPrice:         142.86,
		OrderedAt:         orderedAt,
		PredictedShipDate: orderedAt.AddDate(0, 0, 10),
	}
}

func TestCreate_StartsReceived(t *testing.T) {
	svc := NewService(newFakeOrderRepo())

	order, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	require.Equal(t, domain.StatusReceived, order.Status)
	require.Nil(t, order.ShippedAt)
	require.NotZero(t, order.ID)
}

func TestCreate_RejectsInvalidInput(t *testing.T) {
	svc := NewService(newFakeOrderRepo())

	input := validInput()
	input.Quantity = 0
	_, err := svc.Create(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	input = validInput()
	input.Product = "Widget_Turbo"
	_, err = svc.Create(context.Background(), input)
	require.ErrorIs(t, err, domain.ErrUnknownProduct)
}

func TestStatusTransitions_AreMonotonic(t *testing.T) {
	svc := NewService(newFakeOrderRepo())
	ctx := context.Background()

	order, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	processed, err := svc.MarkProcessing(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusProcessing, processed.Status)

	// Re-running intake against an already-processing order must fail the
	// transition rather than silently resetting state.
	_, err = svc.MarkProcessing(ctx, order.ID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	shipDate := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	shipped, err := svc.MarkShipped(ctx, order.ID, shipDate)
	require.NoError(t, err)
	require.Equal(t, domain.StatusShipped, shipped.Status)
	require.NotNil(t, shipped.ShippedAt)
	require.Equal(t, shipDate, *shipped.ShippedAt)

	_, err = svc.MarkShipped(ctx, order.ID, shipDate)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = svc.MarkProcessing(ctx, order.ID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestMarkShipped_RequiresProcessing(t *testing.T) {
	svc := NewService(newFakeOrderRepo())
	ctx := context.Background()

	order, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.MarkShipped(ctx, order.ID, time.Now())
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestPriceForMargin(t *testing.T) {
	// 30% margin on a $100 cost yields ~$142.86.
	price := domain.PriceForMargin(100, 0.30)
	require.InDelta(t, 142.857, price, 0.001)
	require.InDelta(t, 0.30, (price-100)/price, 1e-9)

	require.Equal(t, 157.14, domain.ApplyMarketVariance(price, 0.10))
	require.Equal(t, 128.57, domain.ApplyMarketVariance(price, -0.10))
}
