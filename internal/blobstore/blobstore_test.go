package blobstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir(), zaptest.NewLogger(t), NewMetrics(prometheus.NewRegistry()))
	require.NoError(t, err)
	return store
}

func writeTemp(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func TestCopyToInternal(t *testing.T) {
	store := newTestStore(t)
	src := writeTemp(t, t.TempDir(), "photo.PNG", []byte("image-bytes"))

	internal, err := store.CopyToInternal(src)
	require.NoError(t, err)
	assert.True(t, store.Exists(internal))
	assert.Equal(t, ".png", filepath.Ext(internal))

	data, err := os.ReadFile(internal)
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), data)

	// Source remains untouched.
	assert.True(t, store.Exists(src) || fileExists(src))
}

func TestCopyToInternalIdempotentForInternalPaths(t *testing.T) {
	store := newTestStore(t)
	src := writeTemp(t, t.TempDir(), "a.jpg", []byte("x"))

	first, err := store.CopyToInternal(src)
	require.NoError(t, err)

	second, err := store.CopyToInternal(first)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	entries, err := os.ReadDir(store.Root())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCopyToInternalMissingSource(t *testing.T) {
	store := newTestStore(t)

	_, err := store.CopyToInternal(filepath.Join(t.TempDir(), "nope.png"))
	assert.ErrorIs(t, err, ErrNotFound)

	// An internal path that no longer exists is also a NotFound.
	_, err = store.CopyToInternal(filepath.Join(store.Root(), "gone.png"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRefusesOutsideRoot(t *testing.T) {
	store := newTestStore(t)
	outside := writeTemp(t, t.TempDir(), "keep.png", []byte("x"))

	store.Delete(outside)

	assert.True(t, fileExists(outside))
	assert.Equal(t, float64(1), testutil.ToFloat64(store.metrics.DeleteAttempts))
	assert.Equal(t, float64(1), testutil.ToFloat64(store.metrics.DeleteFailures))
}

func TestDeleteMissingIsAlreadyDeleted(t *testing.T) {
	store := newTestStore(t)

	store.Delete(filepath.Join(store.Root(), "missing.png"))

	assert.Equal(t, float64(1), testutil.ToFloat64(store.metrics.DeleteAttempts))
	assert.Equal(t, float64(0), testutil.ToFloat64(store.metrics.DeleteFailures))
}

func TestCleanOrphanedIdempotent(t *testing.T) {
	store := newTestStore(t)
	srcDir := t.TempDir()

	kept, err := store.CopyToInternal(writeTemp(t, srcDir, "kept.png", []byte("k")))
	require.NoError(t, err)
	_, err = store.CopyToInternal(writeTemp(t, srcDir, "orphan.png", []byte("o")))
	require.NoError(t, err)

	used := map[string]struct{}{RefKey(kept): {}}

	assert.Equal(t, 1, store.CleanOrphaned(used))
	assert.Equal(t, 0, store.CleanOrphaned(used))
	assert.True(t, store.Exists(kept))
	assert.Equal(t, float64(1), testutil.ToFloat64(store.metrics.OrphansRemoved))
}

func TestCleanOrphanedMatchesByBasename(t *testing.T) {
	store := newTestStore(t)

	internal, err := store.CopyToInternal(writeTemp(t, t.TempDir(), "pic.png", []byte("p")))
	require.NoError(t, err)

	// References rewritten across an export/import boundary keep only the
	// basename in common with the stored file.
	archiveStyle := "images/products/" + filepath.Base(internal)
	used := map[string]struct{}{RefKey(archiveStyle): {}}

	assert.Equal(t, 0, store.CleanOrphaned(used))
	assert.True(t, store.Exists(internal))
}

func TestPrepareExport(t *testing.T) {
	store := newTestStore(t)
	scratch := t.TempDir()

	internal, err := store.CopyToInternal(writeTemp(t, t.TempDir(), "img.png", []byte("bytes")))
	require.NoError(t, err)

	rel, err := store.PrepareExport(internal, scratch, "products")
	require.NoError(t, err)
	assert.Equal(t, "images/products/"+filepath.Base(internal), rel)

	data, err := os.ReadFile(filepath.Join(scratch, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, []byte("bytes"), data)
}

func TestPrepareExportMissingSource(t *testing.T) {
	store := newTestStore(t)

	_, err := store.PrepareExport(filepath.Join(store.Root(), "gone.png"), t.TempDir(), "sections")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWipe(t *testing.T) {
	store := newTestStore(t)

	_, err := store.CopyToInternal(writeTemp(t, t.TempDir(), "a.png", []byte("a")))
	require.NoError(t, err)

	require.NoError(t, store.Wipe())

	entries, err := os.ReadDir(store.Root())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRefKey(t *testing.T) {
	assert.Equal(t, "f.png", RefKey("/data/images/f.png"))
	assert.Equal(t, "f.png", RefKey("images/products/f.png"))
	assert.Equal(t, "f.png", RefKey("f.png"))
	assert.Equal(t, "", RefKey("  "))
}
