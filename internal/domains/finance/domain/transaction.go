package domain

import (
	"errors"
	"time"
)

// TransactionType is the closed set of ledger entry kinds.
type TransactionType string

const (
	TypeInventoryPurchase TransactionType = "inventory_purchase"
	TypeEmployeePayment   TransactionType = "employee_payment"
	TypeCustomerPayment   TransactionType = "customer_payment"
)

var (
	ErrUnknownTransactionType = errors.New("transaction type is not in the closed set")
	ErrInvalidEmployee        = errors.New("employee record is invalid")
)

// Transaction is one append-only ledger entry. Sign convention: negative
// amounts are cash outflows (purchases, payroll), positive amounts are cash
// inflows (customer payments). Entries are immutable once written; a past
// action is corrected by a compensating entry, never by mutation.
type Transaction struct {
	ID          int64
	Type        TransactionType
	Amount      float64
	Date        time.Time
	Description string
	RelatedID   *int64
}

// Validate enforces the closed type set. Amounts are deliberately not
// range-checked; both signs are legal for inventory_purchase (usage
// deductions are negative, replenishment purchases positive).
func (t *Transaction) Validate() error {
	if !IsValidType(t.Type) {
		return ErrUnknownTransactionType
	}
	return nil
}

// IsValidType reports whether the type is part of the closed set.
func IsValidType(transactionType TransactionType) bool {
	switch transactionType {
	case TypeInventoryPurchase, TypeEmployeePayment, TypeCustomerPayment:
		return true
	default:
		return false
	}
}

// Employee is a payroll recipient stored alongside the ledger.
type Employee struct {
	ID           int64
	Name         string
	Title        string
	WeeklySalary float64
}

// Validate enforces invariants on an employee record.
func (e *Employee) Validate() error {
	if e.Name == "" || e.Title == "" || e.WeeklySalary <= 0 {
		return ErrInvalidEmployee
	}
	return nil
}
