package domain

import "context"

type CreateRequest struct {
	Name    string
	Phone   string
	Email   string
	Address string
	Notes   string
}

type UpdateRequest struct {
	ID      string
	Name    *string
	Phone   *string
	Email   *string
	Address *string
	Notes   *string
}

type Repository interface {
	List(ctx context.Context) ([]Client, error)
	Find(ctx context.Context, id string) (*Client, error)
	Create(ctx context.Context, req CreateRequest) (*Client, error)
	Update(ctx context.Context, req UpdateRequest) (*Client, error)
	Delete(ctx context.Context, id string) error
}
