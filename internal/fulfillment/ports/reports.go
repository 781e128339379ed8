package ports

import (
	"time"

	inventorydomain "github.com/widgetco/fulfillment/internal/domains/inventory/domain"
	productiondomain "github.com/widgetco/fulfillment/internal/domains/production/domain"
)

// Step identifies one independently committed write of a multi-store
// sequence; failures are reported against the step that broke.
type Step string

const (
	StepCheckAvailability  Step = "check_availability"
	StepReserveInventory   Step = "reserve_inventory"
	StepRecordUsage        Step = "record_inventory_usage"
	StepMarkProcessing     Step = "mark_processing"
	StepInitializeTracking Step = "initialize_tracking"
	StepTryAdvance         Step = "try_advance"
	StepMarkShipped        Step = "mark_shipped"
	StepRecordPayment      Step = "record_customer_payment"
	StepRestock            Step = "restock"
	StepRecordRestock      Step = "record_restock_purchase"
	StepRecordPayroll      Step = "record_employee_payment"
)

// Outcome classifies what happened to one order within a batch pass.
type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeShipped   Outcome = "shipped"
	OutcomeInFlight  Outcome = "in_flight"
	OutcomeFailed    Outcome = "failed"
)

// IntakeResult reports the intake sequence for one order.
type IntakeResult struct {
	OrderID    int64
	Outcome    Outcome
	Cost       float64
	Shortfalls []inventorydomain.Shortfall
	FailedStep Step
	Err        error
}

// IntakeReport aggregates one intake pass.
type IntakeReport struct {
	RunID     string
	At        time.Time
	Results   []IntakeResult
	Processed int
	Skipped   int
	Failed    int
}

// AdvanceResult reports one stage-advancement probe.
type AdvanceResult struct {
	OrderID    int64
	Outcome    Outcome
	Stage      productiondomain.Stage
	Remaining  time.Duration
	Payment    float64
	FailedStep Step
	Err        error
}

// AdvanceReport aggregates one stage-advancement pass.
type AdvanceReport struct {
	RunID    string
	At       time.Time
	Results  []AdvanceResult
	Advanced int
	Shipped  int
	Failed   int
}

// RestockReport aggregates one replenishment pass.
type RestockReport struct {
	RunID      string
	Date       time.Time
	Actions    []inventorydomain.RestockAction
	TotalCost  float64
	FailedStep Step
	Err        error
}

// PayrollReport aggregates one payroll pass.
type PayrollReport struct {
	RunID     string
	Date      time.Time
	Ran       bool
	Paid      int
	TotalPaid float64
	Failed    int
}

// ReconcileAction names one healed inconsistency.
type ReconcileAction struct {
	OrderID int64
	Action  string
}

// ReconcileReport aggregates one reconciliation pass over the four stores.
type ReconcileReport struct {
	RunID   string
	At      time.Time
	Actions []ReconcileAction
}
