package note

import (
	"context"
	"errors"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/decora/internal/clock"
	"github.com/smallbiznis/decora/internal/note/domain"
	"gorm.io/gorm"
)

type repository struct {
	db    *gorm.DB
	clock clock.Clock
}

func NewRepository(db *gorm.DB, clk clock.Clock) domain.Repository {
	return &repository{db: db, clock: clk}
}

func (r *repository) List(ctx context.Context) ([]domain.Note, error) {
	var notes []domain.Note
	if err := r.db.WithContext(ctx).Order("date DESC, id DESC").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *repository) Find(ctx context.Context, id string) (*domain.Note, error) {
	var note domain.Note
	err := r.db.WithContext(ctx).First(&note, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *repository) Create(ctx context.Context, req domain.CreateRequest) (*domain.Note, error) {
	note := &domain.Note{
		ID:      ulid.Make().String(),
		Title:   strings.TrimSpace(req.Title),
		Content: req.Content,
		Date:    r.clock.Now(),
	}
	if err := r.db.WithContext(ctx).Create(note).Error; err != nil {
		return nil, err
	}
	return note, nil
}

func (r *repository) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Note, error) {
	note, err := r.Find(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		note.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		note.Content = *req.Content
	}
	if err := r.db.WithContext(ctx).Save(note).Error; err != nil {
		return nil, err
	}
	return note, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Note{}, "id = ?", id).Error
}
