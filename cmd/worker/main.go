package main

import (
	"context"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/widgetco/fulfillment/internal/app/api"
	financeapp "github.com/widgetco/fulfillment/internal/domains/finance/application"
	inventoryapp "github.com/widgetco/fulfillment/internal/domains/inventory/application"
	ordersapp "github.com/widgetco/fulfillment/internal/domains/orders/application"
	productionapp "github.com/widgetco/fulfillment/internal/domains/production/application"
	fulfillmentactivities "github.com/widgetco/fulfillment/internal/durable/temporal/activities/fulfillment"
	intakeworkflows "github.com/widgetco/fulfillment/internal/durable/temporal/workflows/fulfillment"
	fulfillmentapp "github.com/widgetco/fulfillment/internal/fulfillment/application"
	platformobservability "github.com/widgetco/fulfillment/internal/platform/observability"
)

func main() {
	ctx := context.Background()
	const serviceName = "fulfillment-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	stores, cleanupStores := api.OpenStores(ctx, cfg, logger)
	defer cleanupStores()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ordersService := ordersapp.NewService(stores.Orders)
	inventoryService := inventoryapp.NewService(stores.Inventory, rng)
	productionTracker := productionapp.NewTracker(stores.Production, rng)
	financeLedger := financeapp.NewLedger(stores.Finance)
	orchestrator := fulfillmentapp.NewOrchestrator(ordersService, inventoryService, productionTracker, financeLedger)
	activities := fulfillmentactivities.NewActivities(ordersService, inventoryService, productionTracker, orchestrator)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, intakeworkflows.IntakeTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(intakeworkflows.IntakeWorkflow, workflow.RegisterOptions{Name: intakeworkflows.IntakeWorkflowName})
	w.RegisterActivityWithOptions(activities.PrepareIntake, activity.RegisterOptions{Name: fulfillmentactivities.PrepareIntakeActivityName})
	w.RegisterActivityWithOptions(activities.ReserveInventory, activity.RegisterOptions{Name: fulfillmentactivities.ReserveInventoryActivityName})
	w.RegisterActivityWithOptions(activities.RecordInventoryUsage, activity.RegisterOptions{Name: fulfillmentactivities.RecordInventoryUsageActivityName})
	w.RegisterActivityWithOptions(activities.BeginProcessing, activity.RegisterOptions{Name: fulfillmentactivities.BeginProcessingActivityName})
	w.RegisterActivityWithOptions(activities.InitializeTracking, activity.RegisterOptions{Name: fulfillmentactivities.InitializeTrackingActivityName})

	logger.Info("worker listening", slog.String("taskQueue", intakeworkflows.IntakeTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
