package fulfillment

import (
	"context"
	"errors"
	"time"

	"go.temporal.io/sdk/activity"

	inventorydomain "github.com/widgetco/fulfillment/internal/domains/inventory/domain"
	ordersdomain "github.com/widgetco/fulfillment/internal/domains/orders/domain"
	"github.com/widgetco/fulfillment/internal/fulfillment/application"
	"github.com/widgetco/fulfillment/internal/fulfillment/ports"
)

const (
	// PrepareIntakeActivityName guards and checks stock for one order.
	PrepareIntakeActivityName = "fulfillment.activities.PrepareIntake"
	// ReserveInventoryActivityName deducts parts from the inventory store.
	ReserveInventoryActivityName = "fulfillment.activities.ReserveInventory"
	// RecordInventoryUsageActivityName books the material cost in the financial store.
	RecordInventoryUsageActivityName = "fulfillment.activities.RecordInventoryUsage"
	// BeginProcessingActivityName transitions the order in the order store.
	BeginProcessingActivityName = "fulfillment.activities.BeginProcessing"
	// InitializeTrackingActivityName creates the production pipeline records.
	InitializeTrackingActivityName = "fulfillment.activities.InitializeTracking"
)

// IntakeCommand identifies one order intake at a simulated time.
type IntakeCommand struct {
	OrderID int64
	At      time.Time
}

// PrepareResult reports whether the intake sequence should proceed.
type PrepareResult struct {
	Proceed    bool
	Reason     string
	Shortfalls []inventorydomain.Shortfall
}

// UsageCommand carries the material cost booked against an order.
type UsageCommand struct {
	OrderID int64
	Cost    float64
	At      time.Time
}

// Activities groups the intake activities. Each one commits against a single
// store and tolerates re-execution, which Temporal's at-least-once delivery
// requires.
type Activities struct {
	orders     ports.OrderLedger
	inventory  ports.InventoryLedger
	production ports.ProductionTracker
	orch       *application.Orchestrator
}

// NewActivities wires the store collaborators into the activities bundle.
func NewActivities(orders ports.OrderLedger, inventory ports.InventoryLedger, production ports.ProductionTracker, orch *application.Orchestrator) *Activities {
	return &Activities{
		orders:     orders,
		inventory:  inventory,
		production: production,
		orch:       orch,
	}
}

// PrepareIntake loads the order, applies the status guard, and checks stock.
// Read-only; safe to retry unconditionally.
func (a *Activities) PrepareIntake(ctx context.Context, cmd IntakeCommand) (*PrepareResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.orders == nil || a.inventory == nil {
		return nil, errors.New("intake activities not initialized")
	}
	order, err := a.orders.GetByID(ctx, cmd.OrderID)
	if err != nil {
		logger.Error("PrepareIntake failed to load order", "orderId", cmd.OrderID, "error", err)
		return nil, err
	}
	if order.Status != ordersdomain.StatusReceived {
		logger.Info("PrepareIntake skipping order not in received", "orderId", cmd.OrderID, "status", string(order.Status))
		return &PrepareResult{Reason: "not_received"}, nil
	}
	availability, err := a.inventory.CheckAvailability(ctx, string(order.Product), order.Quantity)
	if err != nil {
		logger.Error("PrepareIntake availability check failed", "orderId", cmd.OrderID, "error", err)
		return nil, err
	}
	if !availability.Sufficient {
		logger.Info("PrepareIntake skipping order on insufficient inventory", "orderId", cmd.OrderID, "shortfalls", len(availability.Shortfalls))
		return &PrepareResult{Reason: "insufficient_inventory", Shortfalls: availability.Shortfalls}, nil
	}
	return &PrepareResult{Proceed: true}, nil
}

// ReserveInventory deducts the order's parts and returns the material cost.
// The deduction is not naturally idempotent, so a heartbeat records the
// committed cost and a retried attempt returns it without deducting again.
func (a *Activities) ReserveInventory(ctx context.Context, cmd IntakeCommand) (float64, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.orders == nil || a.inventory == nil {
		return 0, errors.New("intake activities not initialized")
	}

	var hb reserveHeartbeat
	if activity.HasHeartbeatDetails(ctx) {
		_ = activity.GetHeartbeatDetails(ctx, &hb)
	}
	if hb.Completed {
		logger.Info("ReserveInventory already completed in prior attempt; skipping", "orderId", cmd.OrderID)
		return hb.Cost, nil
	}

	order, err := a.orders.GetByID(ctx, cmd.OrderID)
	if err != nil {
		return 0, err
	}
	cost, err := a.inventory.ReserveAndDeduct(ctx, string(order.Product), order.Quantity)
	if err != nil {
		logger.Error("ReserveInventory failed", "orderId", cmd.OrderID, "error", err)
		return 0, err
	}
	activity.RecordHeartbeat(ctx, reserveHeartbeat{Completed: true, Cost: cost})
	logger.Info("ReserveInventory completed", "orderId", cmd.OrderID, "cost", cost)
	return cost, nil
}

// RecordInventoryUsage books the negative usage entry. The financial store is
// append-only, so the write is guarded by a lookup on the related order.
func (a *Activities) RecordInventoryUsage(ctx context.Context, cmd UsageCommand) error {
	if a == nil || a.orch == nil {
		return errors.New("intake activities not initialized")
	}
	return a.orch.RecordInventoryUsage(ctx, cmd.OrderID, cmd.Cost, cmd.At)
}

// BeginProcessing transitions the order from received to processing. An order
// already in processing means a prior attempt committed; that is success.
func (a *Activities) BeginProcessing(ctx context.Context, cmd IntakeCommand) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.orders == nil {
		return errors.New("intake activities not initialized")
	}
	_, err := a.orders.MarkProcessing(ctx, cmd.OrderID)
	if errors.Is(err, ordersdomain.ErrInvalidTransition) {
		order, getErr := a.orders.GetByID(ctx, cmd.OrderID)
		if getErr == nil && order.Status == ordersdomain.StatusProcessing {
			logger.Info("BeginProcessing already applied in prior attempt; skipping", "orderId", cmd.OrderID)
			return nil
		}
		return err
	}
	return err
}

// InitializeTracking creates the order's production pipeline. Initialization
// is a no-op when records already exist.
func (a *Activities) InitializeTracking(ctx context.Context, cmd IntakeCommand) error {
	if a == nil || a.production == nil {
		return errors.New("intake activities not initialized")
	}
	return a.production.Initialize(ctx, cmd.OrderID, cmd.At)
}

type reserveHeartbeat struct {
	Completed bool
	Cost      float64
}
