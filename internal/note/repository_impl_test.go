package note

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/decora/internal/clock"
	"github.com/smallbiznis/decora/internal/migration"
	"github.com/smallbiznis/decora/internal/note/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestRepository(t *testing.T) (domain.Repository, *clock.FakeClock) {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	require.NoError(t, migration.Run(sqlDB, "sqlite"))

	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	return NewRepository(conn, clk), clk
}

func TestCreateAndFind(t *testing.T) {
	repo, clk := newTestRepository(t)
	ctx := context.Background()

	note, err := repo.Create(ctx, domain.CreateRequest{Title: "  Pendientes  ", Content: "llamar al florista"})
	require.NoError(t, err)
	assert.NotEmpty(t, note.ID)
	assert.Equal(t, "Pendientes", note.Title)
	assert.True(t, clk.Now().Equal(note.Date))

	found, err := repo.Find(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, note.Content, found.Content)
}

func TestFindMissing(t *testing.T) {
	repo, _ := newTestRepository(t)

	_, err := repo.Find(context.Background(), "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	repo, clk := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, domain.CreateRequest{Title: "vieja"})
	require.NoError(t, err)
	clk.Advance(time.Hour)
	_, err = repo.Create(ctx, domain.CreateRequest{Title: "nueva"})
	require.NoError(t, err)

	notes, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "nueva", notes[0].Title)
}

func TestUpdate(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	note, err := repo.Create(ctx, domain.CreateRequest{Title: "borrador"})
	require.NoError(t, err)

	title := "final"
	updated, err := repo.Update(ctx, domain.UpdateRequest{ID: note.ID, Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Title)

	_, err = repo.Update(ctx, domain.UpdateRequest{ID: "missing", Title: &title})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	note, err := repo.Create(ctx, domain.CreateRequest{Title: "efimera"})
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, note.ID))

	_, err = repo.Find(ctx, note.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
