package domain

import (
	"errors"
	"time"

	ledgerdomain "github.com/smallbiznis/decora/internal/ledger/domain"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidID        = errors.New("invalid id")
	ErrInvalidType      = errors.New("invalid quotation type")
	ErrAlreadyConverted = errors.New("quotation already converted")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConverted Status = "converted"
)

// Quotation is a priced offer that can later become a transaction.
// Pricing fields mirror the transaction so conversion is a straight copy.
type Quotation struct {
	ID           string                      `gorm:"primaryKey" json:"id"`
	Number       string                      `gorm:"column:quotation_number;not null" json:"quotationNumber"`
	Type         ledgerdomain.Type           `gorm:"not null" json:"type"`
	ProductID    *string                     `json:"productId"`
	ProductName  string                      `json:"productName"`
	Quantity     int                         `json:"quantity"`
	UnitPrice    float64                     `json:"unitPrice"`
	Discount     float64                     `json:"discount"`
	TotalAmount  float64                     `json:"totalAmount"`
	CustomerName string                      `json:"customerName"`
	ClientData   *ledgerdomain.ClientContact `gorm:"serializer:json" json:"clientData"`
	Notes        string                      `json:"notes"`
	Date         time.Time                   `gorm:"not null" json:"date"`
	Items        []ledgerdomain.LineItem     `gorm:"serializer:json" json:"items"`
	Status       Status                      `gorm:"not null" json:"status"`
	CreatedAt    time.Time                   `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time                   `gorm:"not null" json:"updatedAt"`
}
