package ports

import (
	"context"
	"errors"

	"github.com/widgetco/fulfillment/internal/domains/production/domain"
)

var ErrNotFound = errors.New("production record not found")

// Repository persists per-order stage records. CreateBatch and SaveBatch
// commit their whole write-set in a single store transaction.
type Repository interface {
	CreateBatch(ctx context.Context, records []*domain.StageRecord) error
	ListByOrder(ctx context.Context, orderID int64) ([]*domain.StageRecord, error)
	SaveBatch(ctx context.Context, records []*domain.StageRecord) error
}
