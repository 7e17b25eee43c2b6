package service

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/decora/internal/blobstore"
	"github.com/smallbiznis/decora/internal/clock"
	ledgerdomain "github.com/smallbiznis/decora/internal/ledger/domain"
	ledgerrepository "github.com/smallbiznis/decora/internal/ledger/repository"
	ledgerservice "github.com/smallbiznis/decora/internal/ledger/service"
	"github.com/smallbiznis/decora/internal/migration"
	"github.com/smallbiznis/decora/internal/quotation/domain"
	"github.com/smallbiznis/decora/internal/quotation/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (domain.Service, ledgerdomain.Service) {
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

	ledger := ledgerservice.New(ledgerservice.Params{
		DB:    conn,
		Log:   zaptest.NewLogger(t),
		Repo:  ledgerrepository.Provide(),
		Blobs: blobs,
		Clock: clk,
	})

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:     conn,
		Log:    zaptest.NewLogger(t),
		Repo:   repository.Provide(),
		Ledger: ledger,
		GenID:  node,
		Clock:  clk,
	})
	return svc, ledger
}

func TestCreateQuotation(t *testing.T) {
	svc, _ := newTestService(t)

	q, err := svc.Create(context.Background(), domain.CreateRequest{
		Type:         ledgerdomain.TypeDecoration,
		ProductName:  "Boda civil",
		Quantity:     1,
		UnitPrice:    1800,
		TotalAmount:  1800,
		CustomerName: "Lucia",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(q.Number, "QT-"), "number %q", q.Number)
	assert.Equal(t, domain.StatusPending, q.Status)
	assert.False(t, q.Date.IsZero())

	fetched, err := svc.Get(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.Number, fetched.Number)
}

func TestCreateQuotationRejectsUnknownType(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateRequest{Type: "loan"})
	assert.ErrorIs(t, err, domain.ErrInvalidType)
}

func TestQuotationNumbersAreUnique(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seen := map[string]struct{}{}
	for i := 0; i < 5; i++ {
		q, err := svc.Create(ctx, domain.CreateRequest{Type: ledgerdomain.TypeSale, TotalAmount: 10})
		require.NoError(t, err)
		_, dup := seen[q.Number]
		assert.False(t, dup, "duplicate number %s", q.Number)
		seen[q.Number] = struct{}{}
	}
}

func TestConvertQuotation(t *testing.T) {
	svc, ledger := newTestService(t)
	ctx := context.Background()

	q, err := svc.Create(ctx, domain.CreateRequest{
		Type:         ledgerdomain.TypeRental,
		ProductName:  "Carpa 10x10",
		Quantity:     1,
		UnitPrice:    900,
		TotalAmount:  900,
		CustomerName: "Pedro",
	})
	require.NoError(t, err)

	view, err := svc.Convert(ctx, q.ID)
	require.NoError(t, err)

	assert.Equal(t, ledgerdomain.TypeRental, view.Type)
	assert.Equal(t, "Carpa 10x10", view.ProductName)
	assert.Equal(t, 900.0, view.TotalAmount)
	require.NotNil(t, view.Rental)
	assert.Contains(t, view.Notes, q.Number)

	persisted, err := ledger.GetTransaction(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pedro", persisted.CustomerName)

	converted, err := svc.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConverted, converted.Status)
}

func TestConvertTwiceFails(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	q, err := svc.Create(ctx, domain.CreateRequest{Type: ledgerdomain.TypeSale, TotalAmount: 50})
	require.NoError(t, err)

	_, err = svc.Convert(ctx, q.ID)
	require.NoError(t, err)

	_, err = svc.Convert(ctx, q.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyConverted)
}

func TestUpdateConvertedQuotationFails(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	q, err := svc.Create(ctx, domain.CreateRequest{Type: ledgerdomain.TypeSale, TotalAmount: 50})
	require.NoError(t, err)
	_, err = svc.Convert(ctx, q.ID)
	require.NoError(t, err)

	name := "Otro cliente"
	_, err = svc.Update(ctx, domain.UpdateRequest{ID: q.ID, CustomerName: &name})
	assert.ErrorIs(t, err, domain.ErrAlreadyConverted)
}

func TestDeleteQuotation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	q, err := svc.Create(ctx, domain.CreateRequest{Type: ledgerdomain.TypeSale, TotalAmount: 25})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, q.ID))

	_, err = svc.Get(ctx, q.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Delete(ctx, q.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
