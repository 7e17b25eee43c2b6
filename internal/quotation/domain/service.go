package domain

import (
	"context"
	"time"

	ledgerdomain "github.com/smallbiznis/decora/internal/ledger/domain"
)

type CreateRequest struct {
	Type         ledgerdomain.Type
	ProductID    *string
	ProductName  string
	Quantity     int
	UnitPrice    float64
	Discount     float64
	TotalAmount  float64
	CustomerName string
	ClientData   *ledgerdomain.ClientContact
	Items        []ledgerdomain.LineItem
	Notes        string
	Date         time.Time
}

type UpdateRequest struct {
	ID           string
	ProductName  *string
	Quantity     *int
	UnitPrice    *float64
	Discount     *float64
	TotalAmount  *float64
	CustomerName *string
	ClientData   *ledgerdomain.ClientContact
	Items        []ledgerdomain.LineItem
	Notes        *string
}

type Service interface {
	List(ctx context.Context) ([]Quotation, error)
	Get(ctx context.Context, id string) (*Quotation, error)
	Create(ctx context.Context, req CreateRequest) (*Quotation, error)
	Update(ctx context.Context, req UpdateRequest) (*Quotation, error)
	Delete(ctx context.Context, id string) error

	// Convert creates a transaction from a pending quotation and marks the
	// quotation converted. Converting twice fails with ErrAlreadyConverted.
	Convert(ctx context.Context, id string) (*ledgerdomain.TransactionView, error)
}
