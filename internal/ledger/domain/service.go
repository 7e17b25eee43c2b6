package domain

import (
	"context"
	"time"
)

type DetailRequest struct {
	Status    DetailStatus
	StartDate *time.Time
	EndDate   *time.Time
	Deposit   float64
}

type CreateTransactionRequest struct {
	Type          Type
	ProductID     *string
	ProductName   string
	Quantity      int
	UnitPrice     float64
	Discount      float64
	TotalAmount   float64
	CustomerName  string
	ClientData    *ClientContact
	Notes         string
	Date          time.Time
	Items         []LineItem
	IsInstallment bool
	TotalPrice    float64
	AmountPaid    float64
	// Detail is required for rental and decoration transactions.
	Detail *DetailRequest
}

type UpdateTransactionRequest struct {
	ID           string
	Notes        *string
	CustomerName *string
	AmountPaid   *float64
	Detail       *DetailRequest
}

// TransactionView joins a transaction with its side record, if any.
type TransactionView struct {
	Transaction
	Rental     *RentalDetail     `json:"rental,omitempty"`
	Decoration *DecorationDetail `json:"decoration,omitempty"`
}

type CreateExpenseRequest struct {
	Category    string
	Description string
	Amount      float64
	Date        time.Time
	// Receipt is a local file path; the service copies it into the blob store.
	Receipt *string
	Notes   string
}

type Service interface {
	ListTransactions(ctx context.Context, filter ListFilter) ([]TransactionView, error)
	GetTransaction(ctx context.Context, id string) (*TransactionView, error)
	CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*TransactionView, error)
	UpdateTransaction(ctx context.Context, req UpdateTransactionRequest) (*TransactionView, error)
	DeleteTransaction(ctx context.Context, id string) error

	ListExpenses(ctx context.Context) ([]Expense, error)
	CreateExpense(ctx context.Context, req CreateExpenseRequest) (*Expense, error)
	DeleteExpense(ctx context.Context, id string) error

	Summarize(ctx context.Context, from, to time.Time) (*Summary, error)
}
