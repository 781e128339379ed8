package fulfillment

import (
	"go.temporal.io/sdk/workflow"

	fulfillmentactivities "github.com/widgetco/fulfillment/internal/durable/temporal/activities/fulfillment"
	"github.com/widgetco/fulfillment/internal/durable/temporal/sequences"
)

const (
	// IntakeWorkflowName is the public identifier for registering the workflow.
	IntakeWorkflowName = "fulfillment.workflows.Intake"
	// IntakeTaskQueue is the queue consumed by the worker processing intake workflows.
	IntakeTaskQueue = "ORDER_INTAKE"
)

// IntakeWorkflowInput captures the payload required to intake one order.
type IntakeWorkflowInput struct {
	Command fulfillmentactivities.IntakeCommand
	TraceID string
}

// IntakeWorkflow orchestrates the activities that move one order through
// intake across the four stores.
func IntakeWorkflow(ctx workflow.Context, input IntakeWorkflowInput) (*sequences.IntakeOutcome, error) {
	logger := workflow.GetLogger(ctx)
	orderID := input.Command.OrderID
	logger.Info("IntakeWorkflow started", withTraceID(input.TraceID, "orderId", orderID)...)
	outcome, err := sequences.RunIntakeSequence(ctx, input.Command)
	if err != nil {
		logger.Error("IntakeWorkflow failed", withTraceID(input.TraceID, "orderId", orderID, "error", err)...)
		return nil, err
	}
	logger.Info("IntakeWorkflow completed", withTraceID(input.TraceID, "orderId", orderID, "outcome", outcome.Outcome)...)
	return outcome, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
