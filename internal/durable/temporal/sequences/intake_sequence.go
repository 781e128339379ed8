package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	inventorydomain "github.com/widgetco/fulfillment/internal/domains/inventory/domain"
	fulfillmentactivities "github.com/widgetco/fulfillment/internal/durable/temporal/activities/fulfillment"
)

// Intake outcome labels returned to the workflow caller.
const (
	IntakeOutcomeProcessed = "processed"
	IntakeOutcomeSkipped   = "skipped"
)

// IntakeOutcome is the serializable result of the intake sequence.
type IntakeOutcome struct {
	OrderID    int64
	Outcome    string
	Reason     string
	Cost       float64
	Shortfalls []inventorydomain.Shortfall
}

// RunIntakeSequence executes the ordered intake activities for one order:
// guard and stock check, inventory deduction, usage booking, order
// transition, production tracking. Each activity commits against a single
// store; the workflow history makes the cross-store sequence resumable.
func RunIntakeSequence(ctx workflow.Context, cmd fulfillmentactivities.IntakeCommand) (*IntakeOutcome, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("intake sequence started", "orderId", cmd.OrderID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var prepared fulfillmentactivities.PrepareResult
	if err := workflow.ExecuteActivity(ctx, fulfillmentactivities.PrepareIntakeActivityName, cmd).Get(ctx, &prepared); err != nil {
		logger.Error("intake sequence failed during preparation", "orderId", cmd.OrderID, "error", err)
		return nil, err
	}
	if !prepared.Proceed {
		logger.Info("intake sequence skipped", "orderId", cmd.OrderID, "reason", prepared.Reason)
		return &IntakeOutcome{
			OrderID:    cmd.OrderID,
			Outcome:    IntakeOutcomeSkipped,
			Reason:     prepared.Reason,
			Shortfalls: prepared.Shortfalls,
		}, nil
	}

	var cost float64
	if err := workflow.ExecuteActivity(ctx, fulfillmentactivities.ReserveInventoryActivityName, cmd).Get(ctx, &cost); err != nil {
		logger.Error("intake sequence failed reserving inventory", "orderId", cmd.OrderID, "error", err)
		return nil, err
	}

	usage := fulfillmentactivities.UsageCommand{OrderID: cmd.OrderID, Cost: cost, At: cmd.At}
	if err := workflow.ExecuteActivity(ctx, fulfillmentactivities.RecordInventoryUsageActivityName, usage).Get(ctx, nil); err != nil {
		logger.Error("intake sequence failed recording usage", "orderId", cmd.OrderID, "error", err)
		return nil, err
	}

	if err := workflow.ExecuteActivity(ctx, fulfillmentactivities.BeginProcessingActivityName, cmd).Get(ctx, nil); err != nil {
		logger.Error("intake sequence failed transitioning order", "orderId", cmd.OrderID, "error", err)
		return nil, err
	}

	if err := workflow.ExecuteActivity(ctx, fulfillmentactivities.InitializeTrackingActivityName, cmd).Get(ctx, nil); err != nil {
		logger.Error("intake sequence failed initializing tracking", "orderId", cmd.OrderID, "error", err)
		return nil, err
	}

	logger.Info("intake sequence completed", "orderId", cmd.OrderID, "cost", cost)
	return &IntakeOutcome{OrderID: cmd.OrderID, Outcome: IntakeOutcomeProcessed, Cost: cost}, nil
}
