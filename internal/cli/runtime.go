package cli

import (
	"context"
	"log/slog"
	"math/rand"
	"os"

	"github.com/widgetco/fulfillment/internal/app/api"
	financeapp "github.com/widgetco/fulfillment/internal/domains/finance/application"
	inventoryapp "github.com/widgetco/fulfillment/internal/domains/inventory/application"
	ordersapp "github.com/widgetco/fulfillment/internal/domains/orders/application"
	productionapp "github.com/widgetco/fulfillment/internal/domains/production/application"
	fulfillmentapp "github.com/widgetco/fulfillment/internal/fulfillment/application"
	fulfillmentports "github.com/widgetco/fulfillment/internal/fulfillment/ports"
	"github.com/widgetco/fulfillment/internal/seed"
	"github.com/widgetco/fulfillment/internal/simstate"
)

// runtime wires the stores and services a CLI invocation needs. Unlike the
// API server it carries no tracing; commands are one-shot and print to stdout.
type runtime struct {
	cfg     api.Config
	logger  *slog.Logger
	profile seed.Profile

	orders      *ordersapp.Service
	inventory   *inventoryapp.Service
	production  *productionapp.Tracker
	finance     *financeapp.Ledger
	fulfillment fulfillmentports.Service
	state       *simstate.Store
}

func newRuntime(ctx context.Context, opts *RootOptions) (*runtime, func(), error) {
	cfg, err := api.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	profile, err := seed.LoadProfile(opts.Profile)
	if err != nil {
		return nil, nil, err
	}
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	stores, cleanup := api.OpenStores(ctx, cfg, logger)

	// The inventory and production services draw purchase variance and stage
	// durations from this source; the profile seed keeps runs reproducible.
	rng := rand.New(rand.NewSource(profile.Seed))
	ordersService := ordersapp.NewService(stores.Orders)
	inventoryService := inventoryapp.NewService(stores.Inventory, rng)
	productionTracker := productionapp.NewTracker(stores.Production, rng)
	financeLedger := financeapp.NewLedger(stores.Finance)
	orchestrator := fulfillmentapp.NewOrchestrator(
		ordersService, inventoryService, productionTracker, financeLedger,
		fulfillmentapp.WithConfig(fulfillmentapp.Config{
			RestockThresholdMultiple: cfg.RestockThresholdMultiple,
			RestockTargetMultiple:    cfg.RestockTargetMultiple,
		}),
	)

	return &runtime{
		cfg:         cfg,
		logger:      logger,
		profile:     profile,
		orders:      ordersService,
		inventory:   inventoryService,
		production:  productionTracker,
		finance:     financeLedger,
		fulfillment: orchestrator,
		state:       simstate.NewStore(cfg.SimStatePath),
	}, cleanup, nil
}

// operationEnabled consults the simulation state file. A missing file means
// every operation runs.
func (r *runtime) operationEnabled(operation string) (bool, error) {
	disabled, err := r.state.IsDisabled(operation)
	if err != nil {
		return false, err
	}
	return !disabled, nil
}
