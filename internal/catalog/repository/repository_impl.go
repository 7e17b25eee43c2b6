package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/decora/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListSections(ctx context.Context, db *gorm.DB) ([]domain.SectionWithCount, error) {
	var rows []domain.SectionWithCount
	err := db.WithContext(ctx).Raw(
		`SELECT s.id, s.name, s.color, s.icon, s.image, s.created_at, s.updated_at,
		        COUNT(p.id) AS product_count
		 FROM sections s
		 LEFT JOIN products p ON p.section_id = s.id
		 GROUP BY s.id, s.name, s.color, s.icon, s.image, s.created_at, s.updated_at
		 ORDER BY s.created_at, s.id`,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) FindSection(ctx context.Context, db *gorm.DB, id string) (*domain.Section, error) {
	var section domain.Section
	err := db.WithContext(ctx).First(&section, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *repo) InsertSection(ctx context.Context, db *gorm.DB, section *domain.Section) error {
	return db.WithContext(ctx).Create(section).Error
}

func (r *repo) UpdateSection(ctx context.Context, db *gorm.DB, section *domain.Section) error {
	return db.WithContext(ctx).Save(section).Error
}

func (r *repo) DeleteSection(ctx context.Context, db *gorm.DB, id string) error {
	// Products go with the section via ON DELETE CASCADE.
	return db.WithContext(ctx).Delete(&domain.Section{}, "id = ?", id).Error
}

func (r *repo) ListProducts(ctx context.Context, db *gorm.DB, sectionID string) ([]domain.Product, error) {
	var products []domain.Product
	err := db.WithContext(ctx).
		Where("section_id = ?", sectionID).
		Order("created_at, id").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repo) ListAllProducts(ctx context.Context, db *gorm.DB) ([]domain.Product, error) {
	var products []domain.Product
	err := db.WithContext(ctx).Order("created_at, id").Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repo) FindProduct(ctx context.Context, db *gorm.DB, id string) (*domain.Product, error) {
	var product domain.Product
	err := db.WithContext(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repo) InsertProduct(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Create(product).Error
}

func (r *repo) UpdateProduct(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Save(product).Error
}

func (r *repo) DeleteProduct(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Delete(&domain.Product{}, "id = ?", id).Error
}
