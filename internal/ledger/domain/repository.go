package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type ListFilter struct {
	Type Type
	From *time.Time
	To   *time.Time
}

type Repository interface {
	ListTransactions(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Transaction, error)
	FindTransaction(ctx context.Context, db *gorm.DB, id string) (*Transaction, error)
	InsertTransaction(ctx context.Context, db *gorm.DB, txn *Transaction) error
	UpdateTransaction(ctx context.Context, db *gorm.DB, txn *Transaction) error
	DeleteTransaction(ctx context.Context, db *gorm.DB, id string) error

	FindRental(ctx context.Context, db *gorm.DB, transactionID string) (*RentalDetail, error)
	ListRentals(ctx context.Context, db *gorm.DB) ([]RentalDetail, error)
	InsertRental(ctx context.Context, db *gorm.DB, detail *RentalDetail) error
	UpdateRental(ctx context.Context, db *gorm.DB, detail *RentalDetail) error

	FindDecoration(ctx context.Context, db *gorm.DB, transactionID string) (*DecorationDetail, error)
	ListDecorations(ctx context.Context, db *gorm.DB) ([]DecorationDetail, error)
	InsertDecoration(ctx context.Context, db *gorm.DB, detail *DecorationDetail) error
	UpdateDecoration(ctx context.Context, db *gorm.DB, detail *DecorationDetail) error

	ListExpenses(ctx context.Context, db *gorm.DB) ([]Expense, error)
	FindExpense(ctx context.Context, db *gorm.DB, id string) (*Expense, error)
	InsertExpense(ctx context.Context, db *gorm.DB, expense *Expense) error
	UpdateExpense(ctx context.Context, db *gorm.DB, expense *Expense) error
	DeleteExpense(ctx context.Context, db *gorm.DB, id string) error

	// TotalsByType aggregates count and revenue per type in a single query.
	TotalsByType(ctx context.Context, db *gorm.DB, from, to time.Time) ([]TypeTotal, error)
	ExpenseTotal(ctx context.Context, db *gorm.DB, from, to time.Time) (float64, error)
}
