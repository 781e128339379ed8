package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	financeapp "github.com/widgetco/fulfillment/internal/domains/finance/application"
	inventoryapp "github.com/widgetco/fulfillment/internal/domains/inventory/application"
	ordersapp "github.com/widgetco/fulfillment/internal/domains/orders/application"
	productionapp "github.com/widgetco/fulfillment/internal/domains/production/application"
	fulfillmentobs "github.com/widgetco/fulfillment/internal/fulfillment/adapters/observability"
	fulfillmentworkflows "github.com/widgetco/fulfillment/internal/fulfillment/adapters/workflows"
	fulfillmentapp "github.com/widgetco/fulfillment/internal/fulfillment/application"
	platformobservability "github.com/widgetco/fulfillment/internal/platform/observability"
)

// Run boots the fulfillment HTTP API with observability, the four stores,
// and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "fulfillment-api"
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	stores, cleanupStores := OpenStores(ctx, cfg, logger)
	defer cleanupStores()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ordersService := ordersapp.NewService(stores.Orders)
	inventoryService := inventoryapp.NewService(stores.Inventory, rng)
	productionTracker := productionapp.NewTracker(stores.Production, rng)
	financeLedger := financeapp.NewLedger(stores.Finance)

	orchestratorOptions := []fulfillmentapp.Option{
		fulfillmentapp.WithConfig(fulfillmentapp.Config{
			RestockThresholdMultiple: cfg.RestockThresholdMultiple,
			RestockTargetMultiple:    cfg.RestockTargetMultiple,
		}),
	}
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running intake inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orchestratorOptions = append(orchestratorOptions,
			fulfillmentapp.WithIntakeOrchestrator(fulfillmentworkflows.NewTemporalIntake(temporalClient)))
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}
	orchestrator := fulfillmentapp.NewOrchestrator(
		ordersService, inventoryService, productionTracker, financeLedger,
		orchestratorOptions...,
	)
	fulfillmentService := fulfillmentobs.New(
		orchestrator,
		fulfillmentobs.WithLogger(logger),
		fulfillmentobs.WithTracer(instruments.Tracer("internal.fulfillment.application")),
		fulfillmentobs.WithMeter(instruments.Meter("internal.fulfillment.application")),
	)

	handlers := Handlers{
		Orders:      NewOrdersAPI(ordersService),
		Inventory:   NewInventoryAPI(inventoryService),
		Production:  NewProductionAPI(productionTracker),
		Finance:     NewFinanceAPI(financeLedger),
		Fulfillment: NewFulfillmentAPI(fulfillmentService),
	}

	router := NewRouter(handlers)
	router.Use(otelgin.Middleware(serviceName))
	addr := ":" + cfg.Port
	logger.Info("fulfillment API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("fulfillment API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
