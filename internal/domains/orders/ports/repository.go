package ports

import (
	"context"
	"errors"

	"github.com/widgetco/fulfillment/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Repository persists orders. Each call is a single store commit.
type Repository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Order, error)
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
}
