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

	"github.com/widgetco/fulfillment/internal/domains/finance/domain"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("finance_test"),
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

func TestRepository_AppendAndFindRelated(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	date := time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC)

	orderID := int64(42)
	saved, err := repo.Append(ctx, &domain.Transaction{
		Type:        domain.TypeCustomerPayment,
		Amount:      714.30,
		Date:        date,
		Description: "Payment from Acme Corp for Order #42",
		RelatedID:   &orderID,
	})
	require.NoError(t, err)
	require.NotZero(t, saved.ID)

	_, err = repo.Append(ctx, &domain.Transaction{
		Type:      domain.TypeInventoryPurchase,
		Amount:    -120.50,
		Date:      date,
		RelatedID: &orderID,
	})
	require.NoError(t, err)

	// Related lookups filter on both type and id.
	payments, err := repo.FindRelated(ctx, domain.TypeCustomerPayment, orderID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.InDelta(t, 714.30, payments[0].Amount, 1e-9)

	none, err := repo.FindRelated(ctx, domain.TypeCustomerPayment, orderID+1)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepository_ListTransactionsInAppendOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	date := time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC)

	amounts := []float64{100, -50, 200}
	for _, amount := range amounts {
		transactionType := domain.TypeCustomerPayment
		if amount < 0 {
			transactionType = domain.TypeInventoryPurchase
		}
		_, err := repo.Append(ctx, &domain.Transaction{Type: transactionType, Amount: amount, Date: date})
		require.NoError(t, err)
	}

	transactions, err := repo.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, transactions, 3)
	for i, amount := range amounts {
		assert.InDelta(t, amount, transactions[i].Amount, 1e-9)
	}
}

func TestRepository_Employees(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	first, err := repo.CreateEmployee(ctx, &domain.Employee{Name: "Ava Reyes", Title: "Accountant", WeeklySalary: 1100})
	require.NoError(t, err)
	require.NotZero(t, first.ID)
	_, err = repo.CreateEmployee(ctx, &domain.Employee{Name: "Noah Park", Title: "Test Engineer", WeeklySalary: 1200})
	require.NoError(t, err)

	employees, err := repo.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, "Ava Reyes", employees[0].Name)
	assert.Equal(t, "Noah Park", employees[1].Name)
}
