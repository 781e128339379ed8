package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	fulfillmentactivities "github.com/widgetco/fulfillment/internal/durable/temporal/activities/fulfillment"
	"github.com/widgetco/fulfillment/internal/durable/temporal/sequences"
	intakeworkflows "github.com/widgetco/fulfillment/internal/durable/temporal/workflows/fulfillment"
	"github.com/widgetco/fulfillment/internal/fulfillment/application"
	"github.com/widgetco/fulfillment/internal/fulfillment/ports"
)

var (
	_ ports.IntakeOrchestrator = (*TemporalIntake)(nil)
	_ ports.IntakeOrchestrator = (*InlineIntake)(nil)
)

// TemporalIntake starts intake workflows on a Temporal cluster.
type TemporalIntake struct {
	client    client.Client
	taskQueue string
}

// NewTemporalIntake wires a Temporal client into the orchestrator.
func NewTemporalIntake(c client.Client) *TemporalIntake {
	return &TemporalIntake{client: c, taskQueue: intakeworkflows.IntakeTaskQueue}
}

// IntakeOrder starts the durable intake workflow for one order. The workflow
// ID is keyed by order, so a concurrent duplicate start attaches to the
// already-running execution instead of double-processing.
func (o *TemporalIntake) IntakeOrder(ctx context.Context, orderID int64, at time.Time) (ports.IntakeResult, error) {
	if o == nil || o.client == nil {
		return ports.IntakeResult{}, errors.New("temporal intake workflows not configured")
	}
	cmd := fulfillmentactivities.IntakeCommand{OrderID: orderID, At: at}
	options := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("order-intake-%d", orderID),
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		intakeworkflows.IntakeWorkflow,
		intakeworkflows.IntakeWorkflowInput{Command: cmd, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			existingRun := o.client.GetWorkflow(ctx, options.ID, alreadyStarted.RunId)
			var outcome sequences.IntakeOutcome
			if err := existingRun.Get(ctx, &outcome); err != nil {
				return ports.IntakeResult{}, err
			}
			return toIntakeResult(outcome), nil
		}
		return ports.IntakeResult{}, err
	}
	var outcome sequences.IntakeOutcome
	if err := run.Get(ctx, &outcome); err != nil {
		return ports.IntakeResult{}, err
	}
	return toIntakeResult(outcome), nil
}

// InlineIntake executes the intake sequence directly without Temporal,
// useful for tests or dev fallbacks.
type InlineIntake struct {
	orch *application.Orchestrator
}

// NewInlineIntake wraps the orchestrator for synchronous execution.
func NewInlineIntake(orch *application.Orchestrator) *InlineIntake {
	return &InlineIntake{orch: orch}
}

// IntakeOrder delegates to the application orchestrator without durable
// orchestration.
func (o *InlineIntake) IntakeOrder(ctx context.Context, orderID int64, at time.Time) (ports.IntakeResult, error) {
	if o == nil || o.orch == nil {
		return ports.IntakeResult{}, errors.New("inline intake workflows not configured")
	}
	return o.orch.IntakeOrder(ctx, orderID, at)
}

func toIntakeResult(outcome sequences.IntakeOutcome) ports.IntakeResult {
	result := ports.IntakeResult{
		OrderID:    outcome.OrderID,
		Cost:       outcome.Cost,
		Shortfalls: outcome.Shortfalls,
	}
	switch outcome.Outcome {
	case sequences.IntakeOutcomeProcessed:
		result.Outcome = ports.OutcomeProcessed
	case sequences.IntakeOutcomeSkipped:
		result.Outcome = ports.OutcomeSkipped
		if outcome.Reason == "insufficient_inventory" {
			result.Err = application.ErrInsufficientInventory
		}
	default:
		result.Outcome = ports.OutcomeFailed
		result.Err = fmt.Errorf("unexpected intake outcome %q", outcome.Outcome)
	}
	return result
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() || !spanCtx.TraceID().IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
