package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context, db *gorm.DB) ([]Canvas, error)
	FindByID(ctx context.Context, db *gorm.DB, id string) (*Canvas, error)
	Insert(ctx context.Context, db *gorm.DB, canvas *Canvas) error
	Update(ctx context.Context, db *gorm.DB, canvas *Canvas) error
	Delete(ctx context.Context, db *gorm.DB, id string) error
}
