package repository

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/decora/internal/ledger/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListTransactions(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Transaction, error) {
	stmt := db.WithContext(ctx).Model(&domain.Transaction{})
	if filter.Type != "" {
		stmt = stmt.Where("type = ?", filter.Type)
	}
	if filter.From != nil {
		stmt = stmt.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		stmt = stmt.Where("date <= ?", *filter.To)
	}

	var txns []domain.Transaction
	if err := stmt.Order("date DESC, id DESC").Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *repo) FindTransaction(ctx context.Context, db *gorm.DB, id string) (*domain.Transaction, error) {
	var txn domain.Transaction
	err := db.WithContext(ctx).First(&txn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *repo) InsertTransaction(ctx context.Context, db *gorm.DB, txn *domain.Transaction) error {
	return db.WithContext(ctx).Create(txn).Error
}

func (r *repo) UpdateTransaction(ctx context.Context, db *gorm.DB, txn *domain.Transaction) error {
	return db.WithContext(ctx).Save(txn).Error
}

func (r *repo) DeleteTransaction(ctx context.Context, db *gorm.DB, id string) error {
	// Side records cascade.
	return db.WithContext(ctx).Delete(&domain.Transaction{}, "id = ?", id).Error
}

func (r *repo) FindRental(ctx context.Context, db *gorm.DB, transactionID string) (*domain.RentalDetail, error) {
	var detail domain.RentalDetail
	err := db.WithContext(ctx).First(&detail, "transaction_id = ?", transactionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *repo) ListRentals(ctx context.Context, db *gorm.DB) ([]domain.RentalDetail, error) {
	var details []domain.RentalDetail
	if err := db.WithContext(ctx).Order("transaction_id").Find(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}

func (r *repo) InsertRental(ctx context.Context, db *gorm.DB, detail *domain.RentalDetail) error {
	return db.WithContext(ctx).Create(detail).Error
}

func (r *repo) UpdateRental(ctx context.Context, db *gorm.DB, detail *domain.RentalDetail) error {
	return db.WithContext(ctx).Save(detail).Error
}

func (r *repo) FindDecoration(ctx context.Context, db *gorm.DB, transactionID string) (*domain.DecorationDetail, error) {
	var detail domain.DecorationDetail
	err := db.WithContext(ctx).First(&detail, "transaction_id = ?", transactionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *repo) ListDecorations(ctx context.Context, db *gorm.DB) ([]domain.DecorationDetail, error) {
	var details []domain.DecorationDetail
	if err := db.WithContext(ctx).Order("transaction_id").Find(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}

func (r *repo) InsertDecoration(ctx context.Context, db *gorm.DB, detail *domain.DecorationDetail) error {
	return db.WithContext(ctx).Create(detail).Error
}

func (r *repo) UpdateDecoration(ctx context.Context, db *gorm.DB, detail *domain.DecorationDetail) error {
	return db.WithContext(ctx).Save(detail).Error
}

func (r *repo) ListExpenses(ctx context.Context, db *gorm.DB) ([]domain.Expense, error) {
	var expenses []domain.Expense
	if err := db.WithContext(ctx).Order("date DESC, id DESC").Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *repo) FindExpense(ctx context.Context, db *gorm.DB, id string) (*domain.Expense, error) {
	var expense domain.Expense
	err := db.WithContext(ctx).First(&expense, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *repo) InsertExpense(ctx context.Context, db *gorm.DB, expense *domain.Expense) error {
	return db.WithContext(ctx).Create(expense).Error
}

func (r *repo) UpdateExpense(ctx context.Context, db *gorm.DB, expense *domain.Expense) error {
	return db.WithContext(ctx).Save(expense).Error
}

func (r *repo) DeleteExpense(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Delete(&domain.Expense{}, "id = ?", id).Error
}

func (r *repo) TotalsByType(ctx context.Context, db *gorm.DB, from, to time.Time) ([]domain.TypeTotal, error) {
	var rows []domain.TypeTotal
	err := db.WithContext(ctx).Raw(
		`SELECT type, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total
		 FROM transactions
		 WHERE date >= ? AND date <= ?
		 GROUP BY type
		 ORDER BY type`,
		from, to,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) ExpenseTotal(ctx context.Context, db *gorm.DB, from, to time.Time) (float64, error) {
	var total float64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE date >= ? AND date <= ?`,
		from, to,
	).Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
