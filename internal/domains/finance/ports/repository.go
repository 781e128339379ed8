package ports

import (
	"context"
	"errors"

	"github.com/widgetco/fulfillment/internal/domains/finance/domain"
)

var ErrNotFound = errors.New("financial record not found")

// Repository persists the financial store. The transaction log is
// structurally append-only: no update or delete operation exists.
type Repository interface {
	Append(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error)
	ListTransactions(ctx context.Context) ([]*domain.Transaction, error)
	ListByType(ctx context.Context, transactionType domain.TransactionType) ([]*domain.Transaction, error)
	FindRelated(ctx context.Context, transactionType domain.TransactionType, relatedID int64) ([]*domain.Transaction, error)

	CreateEmployee(ctx context.Context, employee *domain.Employee) (*domain.Employee, error)
	ListEmployees(ctx context.Context) ([]*domain.Employee, error)
}
