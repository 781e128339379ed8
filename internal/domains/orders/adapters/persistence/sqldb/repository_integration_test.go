//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package sqldb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/widgetco/fulfillment/internal/domains/orders/domain"
	"github.com/widgetco/fulfillment/internal/domains/orders/ports"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("orders_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func newOrder(t *testing.T) *domain.Order {
	orderedAt := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)
	order, err := domain.NewOrder("Acme Corp", domain.ProductWidget, 5, 142.86, orderedAt, orderedAt.AddDate(0, 0, 10))
	require.NoError(t, err)
	return order
}

func TestRepository_CreateAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	saved, err := repo.Create(ctx, newOrder(t))
	require.NoError(t, err)
	require.NotZero(t, saved.ID)

	retrieved, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", retrieved.Customer)
	assert.Equal(t, domain.ProductWidget, retrieved.Product)
	assert.Equal(t, domain.StatusReceived, retrieved.Status)
	assert.Nil(t, retrieved.ShippedAt)

	_, err = repo.GetByID(ctx, saved.ID+1000)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ListByStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	first, err := repo.Create(ctx, newOrder(t))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newOrder(t))
	require.NoError(t, err)

	require.NoError(t, first.BeginProcessing())
	_, err = repo.Save(ctx, first)
	require.NoError(t, err)

	received, err := repo.ListByStatus(ctx, domain.StatusReceived)
	require.NoError(t, err)
	assert.Len(t, received, 1)

	processing, err := repo.ListByStatus(ctx, domain.StatusProcessing)
	require.NoError(t, err)
	assert.Len(t, processing, 1)
	assert.Equal(t, first.ID, processing[0].ID)
}

func TestRepository_SavePersistsShipDate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order, err := repo.Create(ctx, newOrder(t))
	require.NoError(t, err)

	require.NoError(t, order.BeginProcessing())
	_, err = repo.Save(ctx, order)
	require.NoError(t, err)

	shippedAt := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	require.NoError(t, order.Ship(shippedAt))
	saved, err := repo.Save(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, saved.Status)

	retrieved, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, retrieved.ShippedAt)
	assert.Equal(t, shippedAt.Unix(), retrieved.ShippedAt.Unix())
}

func TestRepository_SaveUnknownOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	order := newOrder(t)
	order.ID = 9999

	_, err := repo.Save(context.Background(), order)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
