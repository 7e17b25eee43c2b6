package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/decora/internal/quotation/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Quotation, error) {
	var quotes []domain.Quotation
	if err := db.WithContext(ctx).Order("date DESC, id DESC").Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id string) (*domain.Quotation, error) {
	var q domain.Quotation
	err := db.WithContext(ctx).First(&q, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, q *domain.Quotation) error {
	return db.WithContext(ctx).Create(q).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, q *domain.Quotation) error {
	return db.WithContext(ctx).Save(q).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Delete(&domain.Quotation{}, "id = ?", id).Error
}
