package domain

import "context"

type SaveRequest struct {
	ID        string // empty on create
	Name      string
	Payload   Payload
	Thumbnail *string
}

type Service interface {
	List(ctx context.Context) ([]Canvas, error)
	Get(ctx context.Context, id string) (*Canvas, error)
	Save(ctx context.Context, req SaveRequest) (*Canvas, error)
	Delete(ctx context.Context, id string) error
}
