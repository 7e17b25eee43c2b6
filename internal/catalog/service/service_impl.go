package service

import (
	"context"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/decora/internal/blobstore"
	"github.com/smallbiznis/decora/internal/catalog/domain"
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
		log:   p.Log.Named("catalog.service"),
		repo:  p.Repo,
		blobs: p.Blobs,
		clock: p.Clock,
	}
}

func (s *Service) ListSections(ctx context.Context) ([]domain.SectionWithCount, error) {
	return s.repo.ListSections(ctx, s.db)
}

func (s *Service) GetSection(ctx context.Context, id string) (*domain.Section, error) {
	section, err := s.findSection(ctx, id)
	if err != nil {
		return nil, err
	}
	return section, nil
}

func (s *Service) CreateSection(ctx context.Context, req domain.CreateSectionRequest) (*domain.Section, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	image, err := s.internalize(req.Image)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	section := &domain.Section{
		ID:        ulid.Make().String(),
		Name:      name,
		Color:     strings.TrimSpace(req.Color),
		Icon:      strings.TrimSpace(req.Icon),
		Image:     image,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.InsertSection(ctx, s.db, section); err != nil {
		return nil, err
	}
	return section, nil
}

func (s *Service) UpdateSection(ctx context.Context, req domain.UpdateSectionRequest) (*domain.Section, error) {
	section, err := s.findSection(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		section.Name = name
	}
	if req.Color != nil {
		section.Color = strings.TrimSpace(*req.Color)
	}
	if req.Icon != nil {
		section.Icon = strings.TrimSpace(*req.Icon)
	}
	if req.Image != nil {
		replaced, err := s.replaceImage(section.Image, *req.Image)
		if err != nil {
			return nil, err
		}
		section.Image = replaced
	}

	section.UpdatedAt = s.clock.Now()
	if err := s.repo.UpdateSection(ctx, s.db, section); err != nil {
		return nil, err
	}
	return section, nil
}

func (s *Service) DeleteSection(ctx context.Context, id string) error {
	section, err := s.findSection(ctx, id)
	if err != nil {
		return err
	}

	products, err := s.repo.ListProducts(ctx, s.db, id)
	if err != nil {
		return err
	}

	// Rows first: the single section delete cascades to products, so no
	// dependent row can outlive its parent. Blob deletion follows as
	// separate best-effort steps; a crash in between strands files that the
	// next garbage-collection pass reclaims.
	if err := s.repo.DeleteSection(ctx, s.db, id); err != nil {
		return err
	}

	s.deleteRef(section.Image)
	for _, product := range products {
		for _, ref := range product.ImageRefs() {
			s.deleteRef(ref)
		}
	}
	return nil
}

func (s *Service) ListProducts(ctx context.Context, sectionID string) ([]domain.Product, error) {
	if strings.TrimSpace(sectionID) == "" {
		return s.repo.ListAllProducts(ctx, s.db)
	}
	return s.repo.ListProducts(ctx, s.db, sectionID)
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.findProduct(ctx, id)
}

func (s *Service) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	section, err := s.repo.FindSection(ctx, s.db, strings.TrimSpace(req.SectionID))
	if err != nil {
		return nil, err
	}
	if section == nil {
		return nil, domain.ErrInvalidSection
	}

	images, err := s.internalizeAll(req.Images)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	product := &domain.Product{
		ID:          ulid.Make().String(),
		SectionID:   section.ID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		RentPrice:   req.RentPrice,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	assignImages(product, images)

	if err := s.repo.InsertProduct(ctx, s.db, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) UpdateProduct(ctx context.Context, req domain.UpdateProductRequest) (*domain.Product, error) {
	product, err := s.findProduct(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		product.Name = name
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.RentPrice != nil {
		product.RentPrice = *req.RentPrice
	}
	if req.Images != nil {
		images, err := s.internalizeAll(req.Images)
		if err != nil {
			return nil, err
		}
		for _, old := range product.ImageRefs() {
			if old != nil && !contains(images, *old) {
				s.deleteRef(old)
			}
		}
		product.Image, product.ImageSecondary1, product.ImageSecondary2 = nil, nil, nil
		assignImages(product, images)
	}

	product.UpdatedAt = s.clock.Now()
	if err := s.repo.UpdateProduct(ctx, s.db, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteProduct(ctx, s.db, id); err != nil {
		return err
	}
	for _, ref := range product.ImageRefs() {
		s.deleteRef(ref)
	}
	return nil
}

func (s *Service) findSection(ctx context.Context, id string) (*domain.Section, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidID
	}
	section, err := s.repo.FindSection(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if section == nil {
		return nil, domain.ErrNotFound
	}
	return section, nil
}

func (s *Service) findProduct(ctx context.Context, id string) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidID
	}
	product, err := s.repo.FindProduct(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
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

func (s *Service) internalizeAll(images []string) ([]string, error) {
	out := make([]string, 0, len(images))
	for _, image := range images {
		stored, err := s.internalize(&image)
		if err != nil {
			return nil, err
		}
		if stored != nil {
			out = append(out, *stored)
		}
	}
	return out, nil
}

func (s *Service) replaceImage(old *string, next string) (*string, error) {
	next = strings.TrimSpace(next)
	if next == "" {
		s.deleteRef(old)
		return nil, nil
	}
	stored, err := s.blobs.CopyToInternal(next)
	if err != nil {
		return nil, err
	}
	if old != nil && *old != stored {
		s.deleteRef(old)
	}
	return &stored, nil
}

func (s *Service) deleteRef(ref *string) {
	if ref == nil || *ref == "" {
		return
	}
	s.blobs.Delete(*ref)
}

func assignImages(product *domain.Product, images []string) {
	slots := []**string{&product.Image, &product.ImageSecondary1, &product.ImageSecondary2}
	for i := 0; i < len(images) && i < len(slots); i++ {
		value := images[i]
		*slots[i] = &value
	}
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
