package domain

import "context"

type CreateSectionRequest struct {
	Name  string
	Color string
	Icon  string
	// Image is a local file path supplied by the picker collaborator; the
	// service copies it into the blob store.
	Image *string
}

type UpdateSectionRequest struct {
	ID    string
	Name  *string
	Color *string
	Icon  *string
	Image *string
}

type CreateProductRequest struct {
	SectionID   string
	Name        string
	Description string
	Price       float64
	RentPrice   float64
	Images      []string
}

type UpdateProductRequest struct {
	ID          string
	Name        *string
	Description *string
	Price       *float64
	RentPrice   *float64
	Images      []string
}

type Service interface {
	ListSections(ctx context.Context) ([]SectionWithCount, error)
	GetSection(ctx context.Context, id string) (*Section, error)
	CreateSection(ctx context.Context, req CreateSectionRequest) (*Section, error)
	UpdateSection(ctx context.Context, req UpdateSectionRequest) (*Section, error)
	// DeleteSection removes the section, its products (FK cascade) and their
	// image blobs.
	DeleteSection(ctx context.Context, id string) error

	ListProducts(ctx context.Context, sectionID string) ([]Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error)
	UpdateProduct(ctx context.Context, req UpdateProductRequest) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
}
