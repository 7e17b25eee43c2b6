package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/decora/internal/blobstore"
	"github.com/smallbiznis/decora/internal/clock"
	"github.com/smallbiznis/decora/internal/ledger/domain"
	"github.com/smallbiznis/decora/internal/ledger/repository"
	"github.com/smallbiznis/decora/internal/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (domain.Service, *blobstore.Store, *clock.FakeClock) {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	require.NoError(t, migration.Run(sqlDB, "sqlite"))

	blobs, err := blobstore.New(t.TempDir(), zaptest.NewLogger(t), blobstore.NewMetrics(prometheus.NewRegistry()))
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	svc := New(Params{
		DB:    conn,
		Log:   zaptest.NewLogger(t),
		Repo:  repository.Provide(),
		Blobs: blobs,
		Clock: clk,
	})
	return svc, blobs, clk
}

func TestCreateRentalCreatesSideRecord(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	start := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	view, err := svc.CreateTransaction(ctx, domain.CreateTransactionRequest{
		Type:         domain.TypeRental,
		ProductName:  "Carpa 6x6",
		Quantity:     1,
		UnitPrice:    500,
		TotalAmount:  500,
		CustomerName: "Ana",
		Detail:       &domain.DetailRequest{StartDate: &start, Deposit: 100},
	})
	require.NoError(t, err)

	require.NotNil(t, view.Rental)
	assert.Nil(t, view.Decoration)
	assert.Equal(t, domain.StatusActive, view.Rental.Status)
	assert.Equal(t, 100.0, view.Rental.Deposit)
	require.NotNil(t, view.Rental.StartDate)
	assert.True(t, start.Equal(*view.Rental.StartDate))

	fetched, err := svc.GetTransaction(ctx, view.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.Rental)
	assert.Equal(t, view.ID, fetched.Rental.TransactionID)
}

func TestCreateDecorationDefaultsDetail(t *testing.T) {
	svc, _, _ := newTestService(t)

	view, err := svc.CreateTransaction(context.Background(), domain.CreateTransactionRequest{
		Type:        domain.TypeDecoration,
		ProductName: "Boda jardin",
		TotalAmount: 2500,
	})
	require.NoError(t, err)

	require.NotNil(t, view.Decoration)
	assert.Equal(t, domain.StatusActive, view.Decoration.Status)
}

func TestCreateSaleHasNoSideRecord(t *testing.T) {
	svc, _, clk := newTestService(t)

	view, err := svc.CreateTransaction(context.Background(), domain.CreateTransactionRequest{
		Type:        domain.TypeSale,
		ProductName: "Centro de mesa",
		Quantity:    3,
		UnitPrice:   40,
		TotalAmount: 120,
	})
	require.NoError(t, err)

	assert.Nil(t, view.Rental)
	assert.Nil(t, view.Decoration)
	assert.True(t, clk.Now().Equal(view.Date))
}

func TestCreateTransactionRejectsUnknownType(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateTransaction(context.Background(), domain.CreateTransactionRequest{Type: "loan"})
	assert.ErrorIs(t, err, domain.ErrInvalidType)
}

func TestUpdateTransactionDetail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	view, err := svc.CreateTransaction(ctx, domain.CreateTransactionRequest{
		Type:        domain.TypeRental,
		ProductName: "Mesa imperial",
		TotalAmount: 300,
	})
	require.NoError(t, err)

	notes := "returned with scratches"
	paid := 300.0
	updated, err := svc.UpdateTransaction(ctx, domain.UpdateTransactionRequest{
		ID:         view.ID,
		Notes:      &notes,
		AmountPaid: &paid,
		Detail:     &domain.DetailRequest{Status: domain.StatusReturned},
	})
	require.NoError(t, err)

	assert.Equal(t, notes, updated.Notes)
	assert.Equal(t, paid, updated.AmountPaid)
	require.NotNil(t, updated.Rental)
	assert.Equal(t, domain.StatusReturned, updated.Rental.Status)
}

func TestDeleteTransactionCascadesSideRecord(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	view, err := svc.CreateTransaction(ctx, domain.CreateTransactionRequest{
		Type:        domain.TypeRental,
		ProductName: "Vajilla",
		TotalAmount: 80,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTransaction(ctx, view.ID))

	_, err = svc.GetTransaction(ctx, view.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListTransactionsFiltersByType(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateTransaction(ctx, domain.CreateTransactionRequest{Type: domain.TypeSale, TotalAmount: 10})
	require.NoError(t, err)
	_, err = svc.CreateTransaction(ctx, domain.CreateTransactionRequest{Type: domain.TypeRental, TotalAmount: 20})
	require.NoError(t, err)

	rentals, err := svc.ListTransactions(ctx, domain.ListFilter{Type: domain.TypeRental})
	require.NoError(t, err)
	require.Len(t, rentals, 1)
	require.NotNil(t, rentals[0].Rental)

	all, err := svc.ListTransactions(ctx, domain.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateExpenseInternalizesReceipt(t *testing.T) {
	svc, blobs, _ := newTestService(t)
	ctx := context.Background()

	src := filepath.Join(t.TempDir(), "receipt.jpg")
	require.NoError(t, os.WriteFile(src, []byte("receipt-bytes"), 0o644))

	expense, err := svc.CreateExpense(ctx, domain.CreateExpenseRequest{
		Description: "Gasolina",
		Amount:      45,
		Receipt:     &src,
	})
	require.NoError(t, err)

	assert.Equal(t, "general", expense.Category)
	require.NotNil(t, expense.Receipt)
	assert.NotEqual(t, src, *expense.Receipt)
	assert.True(t, blobs.Exists(*expense.Receipt))

	require.NoError(t, svc.DeleteExpense(ctx, expense.ID))
	assert.False(t, blobs.Exists(*expense.Receipt))
}

func TestDeleteExpenseNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.DeleteExpense(context.Background(), "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSummarize(t *testing.T) {
	svc, _, clk := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateTransaction(ctx, domain.CreateTransactionRequest{Type: domain.TypeSale, TotalAmount: 100})
	require.NoError(t, err)
	_, err = svc.CreateTransaction(ctx, domain.CreateTransactionRequest{Type: domain.TypeSale, TotalAmount: 50})
	require.NoError(t, err)
	_, err = svc.CreateTransaction(ctx, domain.CreateTransactionRequest{Type: domain.TypeRental, TotalAmount: 200})
	require.NoError(t, err)
	_, err = svc.CreateExpense(ctx, domain.CreateExpenseRequest{Description: "Flores", Amount: 80})
	require.NoError(t, err)

	from := clk.Now().Add(-24 * time.Hour)
	to := clk.Now().Add(24 * time.Hour)
	summary, err := svc.Summarize(ctx, from, to)
	require.NoError(t, err)

	totals := map[domain.Type]domain.TypeTotal{}
	for _, row := range summary.ByType {
		totals[row.Type] = row
	}
	assert.Equal(t, int64(2), totals[domain.TypeSale].Count)
	assert.Equal(t, 150.0, totals[domain.TypeSale].Total)
	assert.Equal(t, 200.0, totals[domain.TypeRental].Total)
	assert.Equal(t, 80.0, summary.Expenses)
	assert.Equal(t, 270.0, summary.Net)
}

func TestSummarizeRejectsInvertedRange(t *testing.T) {
	svc, _, clk := newTestService(t)

	_, err := svc.Summarize(context.Background(), clk.Now(), clk.Now().Add(-time.Hour))
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}
