package main

import (
	"context"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/widgetco/fulfillment/internal/app/api"
	financeapp "github.com/widgetco/fulfillment/internal/domains/finance/application"
	inventoryapp "github.com/widgetco/fulfillment/internal/domains/inventory/application"
	ordersapp "github.com/widgetco/fulfillment/internal/domains/orders/application"
	productionapp "github.com/widgetco/fulfillment/internal/domains/production/application"
	fulfillmentapp "github.com/widgetco/fulfillment/internal/fulfillment/application"
)

// One-shot repair pass over the four stores, meant for cron. Heals orders
// shipped without a customer payment and processing orders with no
// production tracking, then exits.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	stores, cleanup := api.OpenStores(ctx, cfg, logger)
	defer cleanup()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	orchestrator := fulfillmentapp.NewOrchestrator(
		ordersapp.NewService(stores.Orders),
		inventoryapp.NewService(stores.Inventory, rng),
		productionapp.NewTracker(stores.Production, rng),
		financeapp.NewLedger(stores.Finance),
	)

	report, err := orchestrator.Reconcile(ctx, time.Now().UTC())
	if err != nil {
		log.Fatalf("reconcile failed: %v", err)
	}
	for _, action := range report.Actions {
		logger.Info("reconciled", slog.Int64("orderID", action.OrderID), slog.String("action", action.Action))
	}
	log.Printf("reconcile completed: %d actions", len(report.Actions))
}
