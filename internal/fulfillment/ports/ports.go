package ports

import (
	"context"
	"time"

	financeapp "github.com/widgetco/fulfillment/internal/domains/finance/application"
	financedomain "github.com/widgetco/fulfillment/internal/domains/finance/domain"
	inventoryapp "github.com/widgetco/fulfillment/internal/domains/inventory/application"
	inventorydomain "github.com/widgetco/fulfillment/internal/domains/inventory/domain"
	ordersdomain "github.com/widgetco/fulfillment/internal/domains/orders/domain"
	productiondomain "github.com/widgetco/fulfillment/internal/domains/production/domain"
)

// OrderLedger is the orchestrator's view of the order store.
type OrderLedger interface {
	GetByID(ctx context.Context, id int64) (*ordersdomain.Order, error)
	ListByStatus(ctx context.Context, status ordersdomain.Status) ([]*ordersdomain.Order, error)
	MarkProcessing(ctx context.Context, id int64) (*ordersdomain.Order, error)
	MarkShipped(ctx context.Context, id int64, shippedAt time.Time) (*ordersdomain.Order, error)
}

// InventoryLedger is the orchestrator's view of the inventory store.
type InventoryLedger interface {
	CheckAvailability(ctx context.Context, product string, quantity int) (inventoryapp.Availability, error)
	ReserveAndDeduct(ctx context.Context, product string, quantity int) (float64, error)
	Restock(ctx context.Context, thresholdMultiple, targetMultiple int) ([]inventorydomain.RestockAction, error)
}

// ProductionTracker is the orchestrator's view of the production store.
type ProductionTracker interface {
	Initialize(ctx context.Context, orderID int64, firstStageStart time.Time) error
	TryAdvance(ctx context.Context, orderID int64, now time.Time) (productiondomain.AdvanceResult, error)
	ListByOrder(ctx context.Context, orderID int64) ([]*productiondomain.StageRecord, error)
}

// FinancialLedger is the orchestrator's view of the financial store.
type FinancialLedger interface {
	Record(ctx context.Context, input financeapp.RecordInput) (*financedomain.Transaction, error)
	FindRelated(ctx context.Context, transactionType financedomain.TransactionType, relatedID int64) ([]*financedomain.Transaction, error)
	ListEmployees(ctx context.Context) ([]*financedomain.Employee, error)
}

// Service is the fulfillment orchestrator surface. Every protocol takes the
// simulated time explicitly; there is no ambient clock.
type Service interface {
	ProcessIntake(ctx context.Context, at time.Time) (IntakeReport, error)
	AdvanceStages(ctx context.Context, at time.Time) (AdvanceReport, error)
	RunRestock(ctx context.Context, date time.Time) (RestockReport, error)
	RunPayroll(ctx context.Context, date time.Time) (PayrollReport, error)
	Reconcile(ctx context.Context, at time.Time) (ReconcileReport, error)
}

// IntakeOrchestrator starts the intake sequence for a single order, either
// inline or through a durable workflow engine.
type IntakeOrchestrator interface {
	IntakeOrder(ctx context.Context, orderID int64, at time.Time) (IntakeResult, error)
}
