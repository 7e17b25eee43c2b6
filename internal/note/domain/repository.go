package domain

import "context"

type CreateRequest struct {
	Title   string
	Content string
}

type UpdateRequest struct {
	ID      string
	Title   *string
	Content *string
}

type Repository interface {
	List(ctx context.Context) ([]Note, error)
	Find(ctx context.Context, id string) (*Note, error)
	Create(ctx context.Context, req CreateRequest) (*Note, error)
	Update(ctx context.Context, req UpdateRequest) (*Note, error)
	Delete(ctx context.Context, id string) error
}
