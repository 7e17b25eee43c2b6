package domain

import "context"

type Repository interface {
	// Get returns the stored value, or "" with ok=false when the key is unset.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	All(ctx context.Context) (map[string]string, error)
	ReplaceAll(ctx context.Context, values map[string]string) error
}
