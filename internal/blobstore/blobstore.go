package blobstore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound reports that a source file does not exist.
var ErrNotFound = errors.New("blob not found")

// Store owns the image files under a single internal root directory. All
// mutation of that directory goes through it.
type Store struct {
	root    string
	log     *zap.Logger
	metrics *Metrics
}

func New(root string, log *zap.Logger, metrics *Metrics) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &Store{
		root:    abs,
		log:     log.Named("blobstore"),
		metrics: metrics,
	}, nil
}

// Root returns the internal root directory.
func (s *Store) Root() string {
	return s.root
}

// CopyToInternal copies an externally sourced file into the internal root
// under a freshly generated unique name and returns the new stable path.
// A path that already lives inside the root and exists is returned unchanged,
// so resaving an unmodified reference never duplicates the file.
func (s *Store) CopyToInternal(src string) (string, error) {
	abs, err := filepath.Abs(src)
	if err != nil {
		return "", err
	}

	if s.contains(abs) {
		if fileExists(abs) {
			return abs, nil
		}
		return "", fmt.Errorf("%w: %s", ErrNotFound, src)
	}

	if !fileExists(abs) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, src)
	}

	dest := filepath.Join(s.root, uuid.NewString()+strings.ToLower(filepath.Ext(abs)))
	if err := copyFile(abs, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// Delete removes a blob. It refuses paths outside the internal root and
// treats missing files as already deleted. Failures are swallowed: cleanup
// must never block the primary user action, so callers observe them through
// the metrics hook and logs instead.
func (s *Store) Delete(p string) {
	if p == "" {
		return
	}
	s.metrics.DeleteAttempts.Inc()

	abs, err := filepath.Abs(p)
	if err != nil || !s.contains(abs) {
		s.metrics.DeleteFailures.Inc()
		s.log.Warn("refusing to delete path outside blob root", zap.String("path", p))
		return
	}

	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		s.metrics.DeleteFailures.Inc()
		s.log.Warn("blob delete failed", zap.String("path", abs), zap.Error(err))
	}
}

// Exists probes a path. It never returns an error.
func (s *Store) Exists(p string) bool {
	if p == "" {
		return false
	}
	return fileExists(p)
}

// CleanOrphaned lists every file under the root and deletes those whose
// normalized key is absent from used. Returns the number of files removed.
// Matching is by basename: references may have been rewritten across
// export/import boundaries where the absolute prefix differs.
func (s *Store) CleanOrphaned(used map[string]struct{}) int {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		s.log.Warn("listing blob root failed", zap.Error(err))
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := used[RefKey(entry.Name())]; ok {
			continue
		}
		full := filepath.Join(s.root, entry.Name())
		s.metrics.DeleteAttempts.Inc()
		if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
			s.metrics.DeleteFailures.Inc()
			s.log.Warn("orphan delete failed", zap.String("path", full), zap.Error(err))
			continue
		}
		removed++
		s.metrics.OrphansRemoved.Inc()
	}

	if removed > 0 {
		s.log.Info("removed orphaned blobs", zap.Int("count", removed))
	}
	return removed
}

// PrepareExport copies a referenced blob into images/<kind>/ under scratchDir
// and returns its archive-relative path with forward slashes. The basename is
// preserved so exporting unchanged data yields identical manifests.
func (s *Store) PrepareExport(src, scratchDir, kind string) (string, error) {
	if !fileExists(src) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, src)
	}

	rel := path.Join("images", kind, filepath.Base(src))
	dest := filepath.Join(scratchDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", err
	}
	if err := copyFile(src, dest); err != nil {
		return "", err
	}
	return rel, nil
}

// Wipe removes every file under the root. Used by destructive restore before
// blobs are copied back in.
func (s *Store) Wipe() error {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(s.root, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// RefKey normalizes an image reference for orphan matching. Full paths and
// archive-relative paths collapse to the same key (the basename); the
// collision risk between two references sharing a generated basename is
// negligible because filenames are random per copy.
func RefKey(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	return path.Base(filepath.ToSlash(ref))
}

func (s *Store) contains(abs string) bool {
	rel, err := filepath.Rel(s.root, abs)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
