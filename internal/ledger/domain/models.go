package domain

import (
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidID   = errors.New("invalid id")
	ErrInvalidType = errors.New("invalid transaction type")
	ErrInvalidDate = errors.New("invalid date range")
)

type Type string

const (
	TypeSale       Type = "sale"
	TypeRental     Type = "rental"
	TypeDecoration Type = "decoration"
)

func (t Type) Valid() bool {
	switch t {
	case TypeSale, TypeRental, TypeDecoration:
		return true
	default:
		return false
	}
}

// LineItem is one line of a multi-item transaction.
type LineItem struct {
	ProductID *string `json:"productId,omitempty"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// ClientContact is the typed form of the free-form client payload.
type ClientContact struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// Transaction is a sale, rental or decoration ledger entry. Rentals and
// decorations carry a 1:1 side record keyed by the transaction id.
type Transaction struct {
	ID            string         `gorm:"primaryKey" json:"id"`
	Type          Type           `gorm:"not null" json:"type"`
	ProductID     *string        `json:"productId"`
	ProductName   string         `json:"productName"`
	Quantity      int            `json:"quantity"`
	UnitPrice     float64        `json:"unitPrice"`
	Discount      float64        `json:"discount"`
	TotalAmount   float64        `json:"totalAmount"`
	CustomerName  string         `json:"customerName"`
	ClientData    *ClientContact `gorm:"serializer:json" json:"clientData"`
	Notes         string         `json:"notes"`
	Date          time.Time      `gorm:"not null" json:"date"`
	Items         []LineItem     `gorm:"serializer:json" json:"items"`
	IsInstallment bool           `json:"isInstallment"`
	TotalPrice    float64        `json:"totalPrice"`
	AmountPaid    float64        `json:"amountPaid"`
	CreatedAt     time.Time      `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updatedAt"`
}

type DetailStatus string

const (
	StatusActive   DetailStatus = "active"
	StatusReturned DetailStatus = "returned"
	StatusDone     DetailStatus = "done"
)

// RentalDetail is the 1:1 side record of a rental transaction. It cannot
// outlive its transaction (FK cascade).
type RentalDetail struct {
	TransactionID string       `gorm:"primaryKey" json:"transactionId"`
	Status        DetailStatus `gorm:"not null" json:"status"`
	StartDate     *time.Time   `json:"startDate"`
	EndDate       *time.Time   `json:"endDate"`
	Deposit       float64      `json:"deposit"`
}

func (RentalDetail) TableName() string { return "rentals" }

// DecorationDetail mirrors RentalDetail for decoration jobs.
type DecorationDetail struct {
	TransactionID string       `gorm:"primaryKey" json:"transactionId"`
	Status        DetailStatus `gorm:"not null" json:"status"`
	StartDate     *time.Time   `json:"startDate"`
	EndDate       *time.Time   `json:"endDate"`
	Deposit       float64      `json:"deposit"`
}

func (DecorationDetail) TableName() string { return "decorations" }

// Expense is an outgoing ledger entry, optionally backed by a receipt image.
type Expense struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Category    string    `gorm:"not null" json:"category"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Date        time.Time `gorm:"not null" json:"date"`
	Receipt     *string   `json:"receipt"`
	Notes       string    `json:"notes"`
}

// TypeTotal is one aggregation row: count and revenue per transaction type.
type TypeTotal struct {
	Type  Type    `json:"type"`
	Count int64   `json:"count"`
	Total float64 `json:"total"`
}

// Summary is the aggregation contract for the reports screen: totals per
// type plus expenses over a date range, computed in SQL.
type Summary struct {
	From     time.Time   `json:"from"`
	To       time.Time   `json:"to"`
	ByType   []TypeTotal `json:"byType"`
	Expenses float64     `json:"expenses"`
	Net      float64     `json:"net"`
}
