package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/widgetco/fulfillment/internal/domains/finance/domain"
	"github.com/widgetco/fulfillment/internal/domains/finance/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory financial store adapter.
type Repository struct {
	mu             sync.RWMutex
	transactions   []*domain.Transaction
	employees      []*domain.Employee
	nextTxID       int64
	nextEmployeeID int64
}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) Append(_ context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	if transaction == nil {
		return nil, errors.New("transaction is nil")
	}
	clone := *transaction
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextTxID++
	clone.ID = r.nextTxID
	r.transactions = append(r.transactions, &clone)
	result := clone
	return &result, nil
}

func (r *Repository) ListTransactions(_ context.Context) ([]*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Transaction, 0, len(r.transactions))
	for _, transaction := range r.transactions {
		clone := *transaction
		list = append(list, &clone)
	}
	return list, nil
}

func (r *Repository) ListByType(_ context.Context, transactionType domain.TransactionType) ([]*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*domain.Transaction
	for _, transaction := range r.transactions {
		if transaction.Type == transactionType {
			clone := *transaction
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (r *Repository) FindRelated(_ context.Context, transactionType domain.TransactionType, relatedID int64) ([]*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*domain.Transaction
	for _, transaction := range r.transactions {
		if transaction.Type == transactionType && transaction.RelatedID != nil && *transaction.RelatedID == relatedID {
			clone := *transaction
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (r *Repository) CreateEmployee(_ context.Context, employee *domain.Employee) (*domain.Employee, error) {
	if employee == nil {
		return nil, errors.New("employee is nil")
	}
	clone := *employee
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextEmployeeID++
	clone.ID = r.nextEmployeeID
	r.employees = append(r.employees, &clone)
	result := clone
	return &result, nil
}

func (r *Repository) ListEmployees(_ context.Context) ([]*domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Employee, 0, len(r.employees))
	for _, employee := range r.employees {
		clone := *employee
		list = append(list, &clone)
	}
	return list, nil
}
