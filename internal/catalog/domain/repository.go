package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	ListSections(ctx context.Context, db *gorm.DB) ([]SectionWithCount, error)
	FindSection(ctx context.Context, db *gorm.DB, id string) (*Section, error)
	InsertSection(ctx context.Context, db *gorm.DB, section *Section) error
	UpdateSection(ctx context.Context, db *gorm.DB, section *Section) error
	DeleteSection(ctx context.Context, db *gorm.DB, id string) error

	ListProducts(ctx context.Context, db *gorm.DB, sectionID string) ([]Product, error)
	ListAllProducts(ctx context.Context, db *gorm.DB) ([]Product, error)
	FindProduct(ctx context.Context, db *gorm.DB, id string) (*Product, error)
	InsertProduct(ctx context.Context, db *gorm.DB, product *Product) error
	UpdateProduct(ctx context.Context, db *gorm.DB, product *Product) error
	DeleteProduct(ctx context.Context, db *gorm.DB, id string) error
}
