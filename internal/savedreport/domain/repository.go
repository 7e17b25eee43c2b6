package domain

import (
	"context"

	"gorm.io/datatypes"
)

type CreateRequest struct {
	Name   string
	Type   string
	Params datatypes.JSON
}

type Repository interface {
	List(ctx context.Context) ([]SavedReport, error)
	Find(ctx context.Context, id string) (*SavedReport, error)
	Create(ctx context.Context, req CreateRequest) (*SavedReport, error)
	Delete(ctx context.Context, id string) error
}
