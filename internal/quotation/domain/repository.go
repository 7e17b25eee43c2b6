package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context, db *gorm.DB) ([]Quotation, error)
	FindByID(ctx context.Context, db *gorm.DB, id string) (*Quotation, error)
	Insert(ctx context.Context, db *gorm.DB, q *Quotation) error
	Update(ctx context.Context, db *gorm.DB, q *Quotation) error
	Delete(ctx context.Context, db *gorm.DB, id string) error
}
