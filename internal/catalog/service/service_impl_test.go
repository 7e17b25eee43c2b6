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
	"github.com/smallbiznis/decora/internal/catalog/domain"
	"github.com/smallbiznis/decora/internal/catalog/repository"
	"github.com/smallbiznis/decora/internal/clock"
	"github.com/smallbiznis/decora/internal/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (domain.Service, *blobstore.Store, *gorm.DB) {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	require.NoError(t, migration.Run(sqlDB, "sqlite"))

	blobs, err := blobstore.New(t.TempDir(), zaptest.NewLogger(t), blobstore.NewMetrics(prometheus.NewRegistry()))
	require.NoError(t, err)

	svc := New(Params{
		DB:    conn,
		Log:   zaptest.NewLogger(t),
		Repo:  repository.Provide(),
		Blobs: blobs,
		Clock: clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)),
	})
	return svc, blobs, conn
}

func writeImage(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func strptr(s string) *string { return &s }

func TestCreateSectionInternalizesImage(t *testing.T) {
	svc, blobs, _ := newTestService(t)
	ctx := context.Background()

	src := writeImage(t, "section.png", []byte("section-image"))
	section, err := svc.CreateSection(ctx, domain.CreateSectionRequest{
		Name:  "  Mobiliario  ",
		Color: "#aabbcc",
		Image: strptr(src),
	})
	require.NoError(t, err)

	assert.Equal(t, "Mobiliario", section.Name)
	require.NotNil(t, section.Image)
	assert.NotEqual(t, src, *section.Image)
	assert.True(t, blobs.Exists(*section.Image))

	data, err := os.ReadFile(*section.Image)
	require.NoError(t, err)
	assert.Equal(t, []byte("section-image"), data)
}

func TestCreateSectionRejectsBlankName(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateSection(context.Background(), domain.CreateSectionRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestGetSectionNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetSection(context.Background(), "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetSection(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestListSectionsCountsProducts(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	section, err := svc.CreateSection(ctx, domain.CreateSectionRequest{Name: "Flores"})
	require.NoError(t, err)
	empty, err := svc.CreateSection(ctx, domain.CreateSectionRequest{Name: "Telas"})
	require.NoError(t, err)

	for _, name := range []string{"Rosas", "Tulipanes"} {
		_, err := svc.CreateProduct(ctx, domain.CreateProductRequest{SectionID: section.ID, Name: name})
		require.NoError(t, err)
	}

	rows, err := svc.ListSections(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	counts := map[string]int64{}
	for _, row := range rows {
		counts[row.ID] = row.ProductCount
	}
	assert.Equal(t, int64(2), counts[section.ID])
	assert.Equal(t, int64(0), counts[empty.ID])
}

func TestCreateProductAssignsImageSlots(t *testing.T) {
	svc, blobs, _ := newTestService(t)
	ctx := context.Background()

	section, err := svc.CreateSection(ctx, domain.CreateSectionRequest{Name: "Sillas"})
	require.NoError(t, err)

	product, err := svc.CreateProduct(ctx, domain.CreateProductRequest{
		SectionID: section.ID,
		Name:      "Silla Tiffany",
		Price:     120,
		RentPrice: 15,
		Images: []string{
			writeImage(t, "a.png", []byte("a")),
			writeImage(t, "b.png", []byte("b")),
			writeImage(t, "c.png", []byte("c")),
		},
	})
	require.NoError(t, err)

	require.NotNil(t, product.Image)
	require.NotNil(t, product.ImageSecondary1)
	require.NotNil(t, product.ImageSecondary2)
	for _, ref := range product.ImageRefs() {
		assert.True(t, blobs.Exists(*ref))
	}
}

func TestCreateProductRequiresExistingSection(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateProduct(context.Background(), domain.CreateProductRequest{
		SectionID: "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Name:      "Mesa",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSection)
}

func TestUpdateProductReplacesImages(t *testing.T) {
	svc, blobs, _ := newTestService(t)
	ctx := context.Background()

	section, err := svc.CreateSection(ctx, domain.CreateSectionRequest{Name: "Mesas"})
	require.NoError(t, err)
	product, err := svc.CreateProduct(ctx, domain.CreateProductRequest{
		SectionID: section.ID,
		Name:      "Mesa redonda",
		Images:    []string{writeImage(t, "old.png", []byte("old"))},
	})
	require.NoError(t, err)
	old := *product.Image

	updated, err := svc.UpdateProduct(ctx, domain.UpdateProductRequest{
		ID:     product.ID,
		Images: []string{writeImage(t, "new.png", []byte("new"))},
	})
	require.NoError(t, err)

	require.NotNil(t, updated.Image)
	assert.NotEqual(t, old, *updated.Image)
	assert.False(t, blobs.Exists(old))
	assert.True(t, blobs.Exists(*updated.Image))
}

func TestDeleteSectionCascadesToProductsAndBlobs(t *testing.T) {
	svc, blobs, conn := newTestService(t)
	ctx := context.Background()

	section, err := svc.CreateSection(ctx, domain.CreateSectionRequest{
		Name:  "Arcos",
		Image: strptr(writeImage(t, "s.png", []byte("s"))),
	})
	require.NoError(t, err)
	product, err := svc.CreateProduct(ctx, domain.CreateProductRequest{
		SectionID: section.ID,
		Name:      "Arco floral",
		Images:    []string{writeImage(t, "p.png", []byte("p"))},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSection(ctx, section.ID))

	var productCount int64
	require.NoError(t, conn.Model(&domain.Product{}).Count(&productCount).Error)
	assert.Zero(t, productCount)

	assert.False(t, blobs.Exists(*section.Image))
	assert.False(t, blobs.Exists(*product.Image))

	_, err = svc.GetSection(ctx, section.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteProductRemovesBlobs(t *testing.T) {
	svc, blobs, _ := newTestService(t)
	ctx := context.Background()

	section, err := svc.CreateSection(ctx, domain.CreateSectionRequest{Name: "Luces"})
	require.NoError(t, err)
	product, err := svc.CreateProduct(ctx, domain.CreateProductRequest{
		SectionID: section.ID,
		Name:      "Guirnalda",
		Images:    []string{writeImage(t, "g.png", []byte("g"))},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, product.ID))
	assert.False(t, blobs.Exists(*product.Image))

	_, err = svc.GetProduct(ctx, product.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListProductsWithoutSectionReturnsAll(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateSection(ctx, domain.CreateSectionRequest{Name: "A"})
	require.NoError(t, err)
	second, err := svc.CreateSection(ctx, domain.CreateSectionRequest{Name: "B"})
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, domain.CreateProductRequest{SectionID: first.ID, Name: "P1"})
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, domain.CreateProductRequest{SectionID: second.ID, Name: "P2"})
	require.NoError(t, err)

	all, err := svc.ListProducts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := svc.ListProducts(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "P1", scoped[0].Name)
}
