package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/widgetco/fulfillment/internal/domains/finance/domain"
	"github.com/widgetco/fulfillment/internal/domains/finance/ports"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid financial input")

// RecordInput captures one ledger entry to append.
type RecordInput struct {
	Type        domain.TransactionType
	Amount      float64
	Date        time.Time
	Description string
	RelatedID   *int64
}

// Summary aggregates the ledger per transaction type.
type Summary struct {
	Totals  map[domain.TransactionType]float64
	Counts  map[domain.TransactionType]int
	Balance float64
}

// Ledger exposes the financial store use cases.
type Ledger struct {
	repo ports.Repository
}

func NewLedger(repo ports.Repository) *Ledger {
	return &Ledger{repo: repo}
}

// Record appends one transaction. This is the only write path for the log.
func (l *Ledger) Record(ctx context.Context, input RecordInput) (*domain.Transaction, error) {
	transaction := &domain.Transaction{
		Type:        input.Type,
		Amount:      input.Amount,
		Date:        input.Date,
		Description: input.Description,
		RelatedID:   input.RelatedID,
	}
	if err := transaction.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return l.repo.Append(ctx, transaction)
}

// ListTransactions returns the full log in append order.
func (l *Ledger) ListTransactions(ctx context.Context) ([]*domain.Transaction, error) {
	return l.repo.ListTransactions(ctx)
}

// FindRelated returns entries of the given type tied to a related entity.
func (l *Ledger) FindRelated(ctx context.Context, transactionType domain.TransactionType, relatedID int64) ([]*domain.Transaction, error) {
	if !domain.IsValidType(transactionType) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrUnknownTransactionType)
	}
	return l.repo.FindRelated(ctx, transactionType, relatedID)
}

// Summarize folds the log into per-type totals and the overall cash balance.
func (l *Ledger) Summarize(ctx context.Context) (Summary, error) {
	transactions, err := l.repo.ListTransactions(ctx)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{
		Totals: map[domain.TransactionType]float64{},
		Counts: map[domain.TransactionType]int{},
	}
	for _, transaction := range transactions {
		summary.Totals[transaction.Type] += transaction.Amount
		summary.Counts[transaction.Type]++
		summary.Balance += transaction.Amount
	}
	return summary, nil
}

// AddEmployee registers a payroll recipient (bootstrap only).
func (l *Ledger) AddEmployee(ctx context.Context, employee *domain.Employee) (*domain.Employee, error) {
	if err := employee.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return l.repo.CreateEmployee(ctx, employee)
}

// ListEmployees returns all payroll recipients ordered by id.
func (l *Ledger) ListEmployees(ctx context.Context) ([]*domain.Employee, error) {
	return l.repo.ListEmployees(ctx)
}
