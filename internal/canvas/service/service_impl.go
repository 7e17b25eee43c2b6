package service

import (
	"context"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/decora/internal/blobstore"
	"github.com/smallbiznis/decora/internal/canvas/domain"
	"github.com/smallbiznis/decora/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Repo  domain.Repository
	Blobs *blobstore.Store
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	blobs *blobstore.Store
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("canvas.service"),
		repo:  p.Repo,
		blobs: p.Blobs,
		clock: p.Clock,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Canvas, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Canvas, error) {
	return s.find(ctx, id)
}

// Save persists a design. Every placed image is pulled into the blob store
// before the row is written so no stored payload can reference an external
// path.
func (s *Service) Save(ctx context.Context, req domain.SaveRequest) (*domain.Canvas, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	payload := req.Payload
	for i, image := range payload.Images {
		if image.URI == "" {
			continue
		}
		stored, err := s.blobs.CopyToInternal(image.URI)
		if err != nil {
			return nil, err
		}
		payload.Images[i].URI = stored
	}

	data, err := payload.Encode()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()

	if strings.TrimSpace(req.ID) == "" {
		thumbnail, err := s.internalize(req.Thumbnail)
		if err != nil {
			return nil, err
		}
		canvas := &domain.Canvas{
			ID:        ulid.Make().String(),
			Name:      name,
			Data:      data,
			Thumbnail: thumbnail,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.repo.Insert(ctx, s.db, canvas); err != nil {
			return nil, err
		}
		return canvas, nil
	}

	canvas, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	canvas.Name = name
	canvas.Data = data
	if req.Thumbnail != nil {
		thumbnail, err := s.internalize(req.Thumbnail)
		if err != nil {
			return nil, err
		}
		if canvas.Thumbnail != nil && (thumbnail == nil || *canvas.Thumbnail != *thumbnail) {
			s.blobs.Delete(*canvas.Thumbnail)
		}
		canvas.Thumbnail = thumbnail
	}
	canvas.UpdatedAt = now
	if err := s.repo.Update(ctx, s.db, canvas); err != nil {
		return nil, err
	}
	return canvas, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	canvas, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	payload, payloadErr := domain.ParsePayload(canvas.Data)

	if err := s.repo.Delete(ctx, s.db, id); err != nil {
		return err
	}

	if canvas.Thumbnail != nil {
		s.blobs.Delete(*canvas.Thumbnail)
	}
	if payloadErr == nil {
		for _, ref := range payload.Refs() {
			s.blobs.Delete(ref)
		}
	} else {
		// Unparseable legacy data: its blobs become orphans for the
		// collector instead of blocking the delete.
		s.log.Warn("canvas payload unreadable on delete", zap.String("id", id), zap.Error(payloadErr))
	}
	return nil
}

func (s *Service) find(ctx context.Context, id string) (*domain.Canvas, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidID
	}
	canvas, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if canvas == nil {
		return nil, domain.ErrNotFound
	}
	return canvas, nil
}

func (s *Service) internalize(image *string) (*string, error) {
	if image == nil || strings.TrimSpace(*image) == "" {
		return nil, nil
	}
	stored, err := s.blobs.CopyToInternal(strings.TrimSpace(*image))
	if err != nil {
		return nil, err
	}
	return &stored, nil
}
