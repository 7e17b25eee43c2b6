package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/decora/internal/canvas/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Canvas, error) {
	var canvases []domain.Canvas
	err := db.WithContext(ctx).Order("updated_at DESC, id").Find(&canvases).Error
	if err != nil {
		return nil, err
	}
	return canvases, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id string) (*domain.Canvas, error) {
	var canvas domain.Canvas
	err := db.WithContext(ctx).First(&canvas, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &canvas, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, canvas *domain.Canvas) error {
	return db.WithContext(ctx).Create(canvas).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, canvas *domain.Canvas) error {
	return db.WithContext(ctx).Save(canvas).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Delete(&domain.Canvas{}, "id = ?", id).Error
}
