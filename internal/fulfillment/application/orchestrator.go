package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	financeapp "github.com/widgetco/fulfillment/internal/domains/finance/application"
	financedomain "github.com/widgetco/fulfillment/internal/domains/finance/domain"
	ordersdomain "github.com/widgetco/fulfillment/internal/domains/orders/domain"
	productiondomain "github.com/widgetco/fulfillment/internal/domains/production/domain"
	"github.com/widgetco/fulfillment/internal/fulfillment/ports"
)

// ErrInsufficientInventory marks an order skipped for lack of parts. The
// order stays received and is retried on the next intake pass.
var ErrInsufficientInventory = errors.New("insufficient inventory")

// Config carries the orchestrator's replenishment policy.
type Config struct {
	// RestockThresholdMultiple is the stock floor, in "units of every
	// product buildable".
	RestockThresholdMultiple int
	// RestockTargetMultiple is the replenishment level, same unit.
	RestockTargetMultiple int
}

// DefaultConfig mirrors the reference policy: restock when below 10 units'
// worth of parts, back up to 100 units' worth.
func DefaultConfig() Config {
	return Config{RestockThresholdMultiple: 10, RestockTargetMultiple: 100}
}

// Orchestrator drives orders across the four stores. It holds no persistent
// state of its own: every durable fact lives in one of the stores, so the
// orchestrator is restartable between invocations. Steps of a multi-store
// sequence commit independently; a failure abandons the sequence at that
// step without rolling back earlier commits, and re-invocation heals.
type Orchestrator struct {
	orders     ports.OrderLedger
	inventory  ports.InventoryLedger
	production ports.ProductionTracker
	finance    ports.FinancialLedger
	intake     ports.IntakeOrchestrator
	cfg        Config
}

type Option func(*Orchestrator)

// WithConfig overrides the replenishment policy.
func WithConfig(cfg Config) Option {
	return func(o *Orchestrator) { o.cfg = cfg }
}

// WithIntakeOrchestrator routes per-order intake through a durable workflow
// engine instead of running the sequence inline.
func WithIntakeOrchestrator(intake ports.IntakeOrchestrator) Option {
	return func(o *Orchestrator) { o.intake = intake }
}

func NewOrchestrator(orders ports.OrderLedger, inventory ports.InventoryLedger, production ports.ProductionTracker, finance ports.FinancialLedger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		orders:     orders,
		inventory:  inventory,
		production: production,
		finance:    finance,
		cfg:        DefaultConfig(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

var _ ports.Service = (*Orchestrator)(nil)

// ProcessIntake runs the intake sequence for every received order at the
// given simulated time. A failed order is reported and the pass continues
// with the next order.
func (o *Orchestrator) ProcessIntake(ctx context.Context, at time.Time) (ports.IntakeReport, error) {
	report := ports.IntakeReport{RunID: uuid.NewString(), At: at}
	orders, err := o.orders.ListByStatus(ctx, ordersdomain.StatusReceived)
	if err != nil {
		return report, err
	}
	for _, order := range orders {
		var result ports.IntakeResult
		if o.intake != nil {
			result, err = o.intake.IntakeOrder(ctx, order.ID, at)
			if err != nil {
				result = ports.IntakeResult{OrderID: order.ID, Outcome: ports.OutcomeFailed, Err: err}
			}
		} else {
			result, _ = o.IntakeOrder(ctx, order.ID, at)
		}
		report.Results = append(report.Results, result)
		switch result.Outcome {
		case ports.OutcomeProcessed:
			report.Processed++
		case ports.OutcomeSkipped:
			report.Skipped++
		case ports.OutcomeFailed:
			report.Failed++
		}
	}
	return report, nil
}

// IntakeOrder runs the four-step intake sequence for one order: reserve and
// deduct inventory, record the material cost, mark the order processing,
// and initialize production tracking. Each step is a separate store commit.
// Re-running against an order no longer in received is a safe no-op.
func (o *Orchestrator) IntakeOrder(ctx context.Context, orderID int64, at time.Time) (ports.IntakeResult, error) {
	result := ports.IntakeResult{OrderID: orderID}

	order, err := o.orders.GetByID(ctx, orderID)
	if err != nil {
		return fail(result, ports.StepCheckAvailability, err), nil
	}
	if order.Status != ordersdomain.StatusReceived {
		result.Outcome = ports.OutcomeSkipped
		return result, nil
	}

	availability, err := o.inventory.CheckAvailability(ctx, string(order.Product), order.Quantity)
	if err != nil {
		return fail(result, ports.StepCheckAvailability, err), nil
	}
	if !availability.Sufficient {
		result.Outcome = ports.OutcomeSkipped
		result.Shortfalls = availability.Shortfalls
		result.Err = ErrInsufficientInventory
		return result, nil
	}

	cost, err := o.inventory.ReserveAndDeduct(ctx, string(order.Product), order.Quantity)
	if err != nil {
		return fail(result, ports.StepReserveInventory, err), nil
	}
	result.Cost = cost

	if err := o.recordInventoryUsage(ctx, order, cost, at); err != nil {
		return fail(result, ports.StepRecordUsage, err), nil
	}

	if _, err := o.orders.MarkProcessing(ctx, order.ID); err != nil {
		return fail(result, ports.StepMarkProcessing, err), nil
	}

	if err := o.production.Initialize(ctx, order.ID, at); err != nil {
		return fail(result, ports.StepInitializeTracking, err), nil
	}

	result.Outcome = ports.OutcomeProcessed
	return result, nil
}

// RecordInventoryUsage appends the negative-amount usage entry for an
// order's material cost. Exposed for the durable intake workflow; guarded
// so re-execution cannot double-book.
func (o *Orchestrator) RecordInventoryUsage(ctx context.Context, orderID int64, cost float64, at time.Time) error {
	order, err := o.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	return o.recordInventoryUsage(ctx, order, cost, at)
}

func (o *Orchestrator) recordInventoryUsage(ctx context.Context, order *ordersdomain.Order, cost float64, at time.Time) error {
	existing, err := o.finance.FindRelated(ctx, financedomain.TypeInventoryPurchase, order.ID)
	if err != nil {
		return err
	}
	for _, transaction := range existing {
		if transaction.Amount < 0 {
			// Usage already booked for this order.
			return nil
		}
	}
	_, err = o.finance.Record(ctx, financeapp.RecordInput{
		Type:        financedomain.TypeInventoryPurchase,
		Amount:      -cost,
		Date:        dateOf(at),
		Description: fmt.Sprintf("Inventory used for Order #%d (%dx %s)", order.ID, order.Quantity, order.Product),
		RelatedID:   &order.ID,
	})
	return err
}

// AdvanceStages probes every processing order once at the given simulated
// time. A fulfilled order is marked shipped and its customer payment is
// recorded, in that order, so a crash between the two leaves a detectable
// shipped-without-payment state for Reconcile rather than a paid unshipped
// order.
func (o *Orchestrator) AdvanceStages(ctx context.Context, at time.Time) (ports.AdvanceReport, error) {
	report := ports.AdvanceReport{RunID: uuid.NewString(), At: at}
	orders, err := o.orders.ListByStatus(ctx, ordersdomain.StatusProcessing)
	if err != nil {
		return report, err
	}
	for _, order := range orders {
		result := o.advanceOrder(ctx, order, at)
		report.Results = append(report.Results, result)
		switch result.Outcome {
		case ports.OutcomeShipped:
			report.Shipped++
			report.Advanced++
		case ports.OutcomeProcessed:
			report.Advanced++
		case ports.OutcomeFailed:
			report.Failed++
		}
	}
	return report, nil
}

func (o *Orchestrator) advanceOrder(ctx context.Context, order *ordersdomain.Order, at time.Time) ports.AdvanceResult {
	result := ports.AdvanceResult{OrderID: order.ID}

	advance, err := o.production.TryAdvance(ctx, order.ID, at)
	if err != nil {
		result.Outcome = ports.OutcomeFailed
		result.FailedStep = ports.StepTryAdvance
		result.Err = err
		return result
	}
	result.Stage = advance.Stage

	switch advance.Outcome {
	case productiondomain.OutcomeInProgress:
		result.Outcome = ports.OutcomeInFlight
		result.Remaining = advance.Remaining
		return result
	case productiondomain.OutcomeStageCompleted:
		result.Outcome = ports.OutcomeProcessed
		return result
	case productiondomain.OutcomeIdle:
		result.Outcome = ports.OutcomeInFlight
		return result
	case productiondomain.OutcomeFulfilled:
		// Fall through to shipping below.
	}

	if _, err := o.orders.MarkShipped(ctx, order.ID, dateOf(at)); err != nil {
		result.Outcome = ports.OutcomeFailed
		result.FailedStep = ports.StepMarkShipped
		result.Err = err
		return result
	}
	if err := o.recordCustomerPayment(ctx, order, at); err != nil {
		result.Outcome = ports.OutcomeFailed
		result.FailedStep = ports.StepRecordPayment
		result.Err = err
		return result
	}
	result.Outcome = ports.OutcomeShipped
	result.Payment = order.Total()
	return result
}

func (o *Orchestrator) recordCustomerPayment(ctx context.Context, order *ordersdomain.Order, at time.Time) error {
	existing, err := o.finance.FindRelated(ctx, financedomain.TypeCustomerPayment, order.ID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		// Exactly one payment per shipped order.
		return nil
	}
	_, err = o.finance.Record(ctx, financeapp.RecordInput{
		Type:        financedomain.TypeCustomerPayment,
		Amount:      order.Total(),
		Date:        dateOf(at),
		Description: fmt.Sprintf("Payment from %s for Order #%d", order.Customer, order.ID),
		RelatedID:   &order.ID,
	})
	return err
}

// RunRestock replenishes low parts and books one positive-amount purchase
// entry per restocked part.
func (o *Orchestrator) RunRestock(ctx context.Context, date time.Time) (ports.RestockReport, error) {
	report := ports.RestockReport{RunID: uuid.NewString(), Date: dateOf(date)}
	actions, err := o.inventory.Restock(ctx, o.cfg.RestockThresholdMultiple, o.cfg.RestockTargetMultiple)
	if err != nil {
		report.FailedStep = ports.StepRestock
		report.Err = err
		return report, err
	}
	report.Actions = actions
	for _, action := range actions {
		_, err := o.finance.Record(ctx, financeapp.RecordInput{
			Type:        financedomain.TypeInventoryPurchase,
			Amount:      action.Cost,
			Date:        dateOf(date),
			Description: fmt.Sprintf("Restocked %s: %d units", action.Part, action.QuantityOrdered),
		})
		if err != nil {
			report.FailedStep = ports.StepRecordRestock
			report.Err = err
			return report, err
		}
		report.TotalCost += action.Cost
	}
	return report, nil
}

// RunPayroll books weekly salaries when the given date is a Friday; any
// other weekday is a no-op. Individual failures are counted and the pass
// continues with the next employee.
func (o *Orchestrator) RunPayroll(ctx context.Context, date time.Time) (ports.PayrollReport, error) {
	report := ports.PayrollReport{RunID: uuid.NewString(), Date: dateOf(date)}
	if date.Weekday() != time.Friday {
		return report, nil
	}
	report.Ran = true
	employees, err := o.finance.ListEmployees(ctx)
	if err != nil {
		return report, err
	}
	for _, employee := range employees {
		employeeID := employee.ID
		_, err := o.finance.Record(ctx, financeapp.RecordInput{
			Type:        financedomain.TypeEmployeePayment,
			Amount:      -employee.WeeklySalary,
			Date:        dateOf(date),
			Description: fmt.Sprintf("Weekly salary for %s (%s)", employee.Name, employee.Title),
			RelatedID:   &employeeID,
		})
		if err != nil {
			report.Failed++
			continue
		}
		report.Paid++
		report.TotalPaid += employee.WeeklySalary
	}
	return report, nil
}

// Reconcile heals the cross-store inconsistencies a crash between commits
// can leave behind: processing orders whose production tracking was never
// initialized, and shipped orders whose customer payment was never booked.
func (o *Orchestrator) Reconcile(ctx context.Context, at time.Time) (ports.ReconcileReport, error) {
	report := ports.ReconcileReport{RunID: uuid.NewString(), At: at}

	processing, err := o.orders.ListByStatus(ctx, ordersdomain.StatusProcessing)
	if err != nil {
		return report, err
	}
	for _, order := range processing {
		stages, err := o.production.ListByOrder(ctx, order.ID)
		if err != nil || len(stages) > 0 {
			continue
		}
		if err := o.production.Initialize(ctx, order.ID, at); err != nil {
			continue
		}
		report.Actions = append(report.Actions, ports.ReconcileAction{OrderID: order.ID, Action: "initialized production tracking"})
	}

	shipped, err := o.orders.ListByStatus(ctx, ordersdomain.StatusShipped)
	if err != nil {
		return report, err
	}
	for _, order := range shipped {
		existing, err := o.finance.FindRelated(ctx, financedomain.TypeCustomerPayment, order.ID)
		if err != nil || len(existing) > 0 {
			continue
		}
		if err := o.recordCustomerPayment(ctx, order, at); err != nil {
			continue
		}
		report.Actions = append(report.Actions, ports.ReconcileAction{OrderID: order.ID, Action: "recorded missing customer payment"})
	}
	return report, nil
}

func fail(result ports.IntakeResult, step ports.Step, err error) ports.IntakeResult {
	result.Outcome = ports.OutcomeFailed
	result.FailedStep = step
	result.Err = err
	return result
}

// dateOf truncates a timestamp to its calendar day, matching the ledger's
// date-granularity convention.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
