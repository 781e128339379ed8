package api

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	financememory "github.com/widgetco/fulfillment/internal/domains/finance/adapters/memory"
	financesqldb "github.com/widgetco/fulfillment/internal/domains/finance/adapters/persistence/sqldb"
	financeports "github.com/widgetco/fulfillment/internal/domains/finance/ports"
	inventorymemory "github.com/widgetco/fulfillment/internal/domains/inventory/adapters/memory"
	inventorysqldb "github.com/widgetco/fulfillment/internal/domains/inventory/adapters/persistence/sqldb"
	inventoryports "github.com/widgetco/fulfillment/internal/domains/inventory/ports"
	ordersmemory "github.com/widgetco/fulfillment/internal/domains/orders/adapters/memory"
	orderssqldb "github.com/widgetco/fulfillment/internal/domains/orders/adapters/persistence/sqldb"
	ordersports "github.com/widgetco/fulfillment/internal/domains/orders/ports"
	productionmemory "github.com/widgetco/fulfillment/internal/domains/production/adapters/memory"
	productionsqldb "github.com/widgetco/fulfillment/internal/domains/production/adapters/persistence/sqldb"
	productionports "github.com/widgetco/fulfillment/internal/domains/production/ports"
	platformpostgres "github.com/widgetco/fulfillment/internal/platform/postgres"
	platformsqlite "github.com/widgetco/fulfillment/internal/platform/sqlite"
)

// Stores bundles the four independently committed repositories.
type Stores struct {
	Orders     ordersports.Repository
	Inventory  inventoryports.Repository
	Production productionports.Repository
	Finance    financeports.Repository
}

// OpenStores wires each store to its own database: the store's DSN when set,
// otherwise a SQLite file under the data directory, otherwise memory. The
// returned cleanup closes every opened connection.
func OpenStores(ctx context.Context, cfg Config, logger *slog.Logger) (Stores, func()) {
	var cleanups []func()
	open := func(name, dsn string) *gorm.DB {
		db, cleanup := platformpostgres.ConnectStore(ctx, logger, name, dsn)
		if db == nil {
			db, cleanup = platformsqlite.OpenStore(logger, cfg.DataDir, name)
		}
		if db == nil {
			if logger != nil {
				logger.Warn("store falling back to in-memory repository", slog.String("store", name))
			}
			return nil
		}
		cleanups = append(cleanups, cleanup)
		return db
	}

	stores := Stores{}
	if db := open("orders", cfg.OrdersDSN); db != nil {
		stores.Orders = orderssqldb.NewRepository(db)
	} else {
		stores.Orders = ordersmemory.NewRepository()
	}
	if db := open("inventory", cfg.InventoryDSN); db != nil {
		stores.Inventory = inventorysqldb.NewRepository(db)
	} else {
		stores.Inventory = inventorymemory.NewRepository()
	}
	if db := open("production", cfg.ProductionDSN); db != nil {
		stores.Production = productionsqldb.NewRepository(db)
	} else {
		stores.Production = productionmemory.NewRepository()
	}
	if db := open("finance", cfg.FinanceDSN); db != nil {
		stores.Finance = financesqldb.NewRepository(db)
	} else {
		stores.Finance = financememory.NewRepository()
	}

	return stores, func() {
		for _, cleanup := range cleanups {
			cleanup()
		}
	}
}
