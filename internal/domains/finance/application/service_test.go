package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/widgetco/fulfillment/internal/domains/finance/adapters/memory"
	"github.com/widgetco/fulfillment/internal/domains/finance/domain"
)

var payDate = time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC)

func TestRecord_AppendsWithValidType(t *testing.T) {
	ledger := NewLedger(memory.NewRepository())
	ctx := context.Background()

	orderID := int64(12)
	transaction, err := ledger.Record(ctx, RecordInput{
		Type:        domain.TypeCustomerPayment,
		Amount:      1428.60,
		Date:        payDate,
		Description: "Payment from Acme Corp for Order #12",
		RelatedID:   &orderID,
	})
	require.NoError(t, err)
	require.NotZero(t, transaction.ID)

	found, err := ledger.FindRelated(ctx, domain.TypeCustomerPayment, orderID)
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.InDelta(t, 1428.60, found[0].Amount, 1e-9)
}

func TestRecord_RejectsUnknownType(t *testing.T) {
	ledger := NewLedger(memory.NewRepository())

	_, err := ledger.Record(context.Background(), RecordInput{
		Type:   "refund",
		Amount: -10,
		Date:   payDate,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrUnknownTransactionType)
}

func TestSummarize_FoldsSignedAmounts(t *testing.T) {
	ledger := NewLedger(memory.NewRepository())
	ctx := context.Background()

	_, err := ledger.Record(ctx, RecordInput{Type: domain.TypeInventoryPurchase, Amount: -200, Date: payDate})
	require.NoError(t, err)
	_, err = ledger.Record(ctx, RecordInput{Type: domain.TypeInventoryPurchase, Amount: 500, Date: payDate})
	require.NoError(t, err)
	_, err = ledger.Record(ctx, RecordInput{Type: domain.TypeEmployeePayment, Amount: -1000, Date: payDate})
	require.NoError(t, err)
	_, err = ledger.Record(ctx, RecordInput{Type: domain.TypeCustomerPayment, Amount: 1500, Date: payDate})
	require.NoError(t, err)

	summary, err := ledger.Summarize(ctx)
	require.NoError(t, err)
	require.InDelta(t, 300, summary.Totals[domain.TypeInventoryPurchase], 1e-9)
	require.InDelta(t, -1000, summary.Totals[domain.TypeEmployeePayment], 1e-9)
	require.InDelta(t, 1500, summary.Totals[domain.TypeCustomerPayment], 1e-9)
	require.InDelta(t, 800, summary.Balance, 1e-9)
	require.Equal(t, 2, summary.Counts[domain.TypeInventoryPurchase])
}

func TestAddEmployee_Validates(t *testing.T) {
	ledger := NewLedger(memory.NewRepository())
	ctx := context.Background()

	employee, err := ledger.AddEmployee(ctx, &domain.Employee{Name: "Dana Reyes", Title: "Machinist", WeeklySalary: 1200})
	require.NoError(t, err)
	require.NotZero(t, employee.ID)

	_, err = ledger.AddEmployee(ctx, &domain.Employee{Name: "", Title: "Machinist", WeeklySalary: 1200})
	require.ErrorIs(t, err, ErrInvalidInput)
}
