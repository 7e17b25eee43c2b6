package service

import (
	"context"

	"github.com/smallbiznis/decora/internal/backup/domain"
	"github.com/smallbiznis/decora/internal/blobstore"
	canvasdomain "github.com/smallbiznis/decora/internal/canvas/domain"
	"go.uber.org/zap"
)

// Collect reconciles the live reference set against the blob root and deletes
// unreferenced files. It reads a snapshot without locking, so a blob written
// by an operation racing the pass may be removed; the next save re-copies it.
func (s *Service) Collect(ctx context.Context) (domain.CollectStats, error) {
	used := map[string]struct{}{}
	addRef := func(ref *string) {
		if ref == nil {
			return
		}
		if key := blobstore.RefKey(*ref); key != "" {
			used[key] = struct{}{}
		}
	}

	sections, err := s.catalog.ListSections(ctx, s.db)
	if err != nil {
		return domain.CollectStats{}, err
	}
	for i := range sections {
		addRef(sections[i].Image)
	}

	products, err := s.catalog.ListAllProducts(ctx, s.db)
	if err != nil {
		return domain.CollectStats{}, err
	}
	for i := range products {
		for _, ref := range products[i].ImageRefs() {
			addRef(ref)
		}
	}

	canvases, err := s.canvases.List(ctx, s.db)
	if err != nil {
		return domain.CollectStats{}, err
	}
	for i := range canvases {
		addRef(canvases[i].Thumbnail)

		payload, err := canvasdomain.ParsePayload(canvases[i].Data)
		if err != nil {
			// An unreadable payload hides its references; skip the whole
			// pass rather than risk deleting something it points at.
			s.log.Warn("unreadable canvas payload, aborting collection",
				zap.String("canvas_id", canvases[i].ID), zap.Error(err))
			return domain.CollectStats{}, err
		}
		for _, ref := range payload.Refs() {
			ref := ref
			addRef(&ref)
		}
	}

	expenses, err := s.ledger.ListExpenses(ctx, s.db)
	if err != nil {
		return domain.CollectStats{}, err
	}
	for i := range expenses {
		addRef(expenses[i].Receipt)
	}

	removed := s.blobs.CleanOrphaned(used)
	stats := domain.CollectStats{Referenced: len(used), Removed: removed}
	s.log.Info("garbage collection finished",
		zap.Int("referenced", stats.Referenced),
		zap.Int("removed", stats.Removed),
	)
	return stats, nil
}
