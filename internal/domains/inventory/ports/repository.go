package ports

import (
	"context"
	"errors"

	"github.com/widgetco/fulfillment/internal/domains/inventory/domain"
)

var ErrNotFound = errors.New("inventory record not found")

// Repository persists the bill of materials and part stock levels.
// DeductBatch and SetLevels commit all rows of one logical write-set in a
// single store transaction; partial writes within the store must not be
// observable.
type Repository interface {
	CreateBOMEntry(ctx context.Context, entry domain.BOMEntry) (domain.BOMEntry, error)
	BOMForProduct(ctx context.Context, product string) ([]domain.BOMEntry, error)
	ListBOM(ctx context.Context) ([]domain.BOMEntry, error)

	UpsertLevel(ctx context.Context, level domain.Level) error
	GetLevel(ctx context.Context, part string) (domain.Level, error)
	ListLevels(ctx context.Context) ([]domain.Level, error)
	DeductBatch(ctx context.Context, deductions map[string]int) error
	SetLevels(ctx context.Context, levels []domain.Level) error
}
