package service

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/decora/internal/blobstore"
	"github.com/smallbiznis/decora/internal/clock"
	"github.com/smallbiznis/decora/internal/ledger/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Repo  domain.Repository
	Blobs *blobstore.Store
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	blobs *blobstore.Store
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("ledger.service"),
		repo:  p.Repo,
		blobs: p.Blobs,
		clock: p.Clock,
	}
}

func (s *Service) ListTransactions(ctx context.Context, filter domain.ListFilter) ([]domain.TransactionView, error) {
	txns, err := s.repo.ListTransactions(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	views := make([]domain.TransactionView, 0, len(txns))
	for i := range txns {
		view, err := s.attachDetail(ctx, &txns[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *Service) GetTransaction(ctx context.Context, id string) (*domain.TransactionView, error) {
	txn, err := s.findTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.attachDetail(ctx, txn)
}

func (s *Service) CreateTransaction(ctx context.Context, req domain.CreateTransactionRequest) (*domain.TransactionView, error) {
	if !req.Type.Valid() {
		return nil, domain.ErrInvalidType
	}

	date := req.Date
	if date.IsZero() {
		date = s.clock.Now()
	}

	now := s.clock.Now()
	txn := &domain.Transaction{
		ID:            ulid.Make().String(),
		Type:          req.Type,
		ProductID:     req.ProductID,
		ProductName:   strings.TrimSpace(req.ProductName),
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
		Discount:      req.Discount,
		TotalAmount:   req.TotalAmount,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		ClientData:    req.ClientData,
		Notes:         req.Notes,
		Date:          date,
		Items:         req.Items,
		IsInstallment: req.IsInstallment,
		TotalPrice:    req.TotalPrice,
		AmountPaid:    req.AmountPaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertTransaction(ctx, tx, txn); err != nil {
			return err
		}
		if req.Type == domain.TypeSale {
			return nil
		}

		detail := req.Detail
		if detail == nil {
			detail = &domain.DetailRequest{Status: domain.StatusActive}
		}
		status := detail.Status
		if status == "" {
			status = domain.StatusActive
		}
		switch req.Type {
		case domain.TypeRental:
			return s.repo.InsertRental(ctx, tx, &domain.RentalDetail{
				TransactionID: txn.ID,
				Status:        status,
				StartDate:     detail.StartDate,
				EndDate:       detail.EndDate,
				Deposit:       detail.Deposit,
			})
		default:
			return s.repo.InsertDecoration(ctx, tx, &domain.DecorationDetail{
				TransactionID: txn.ID,
				Status:        status,
				StartDate:     detail.StartDate,
				EndDate:       detail.EndDate,
				Deposit:       detail.Deposit,
			})
		}
	})
	if err != nil {
		return nil, err
	}

	return s.attachDetail(ctx, txn)
}

func (s *Service) UpdateTransaction(ctx context.Context, req domain.UpdateTransactionRequest) (*domain.TransactionView, error) {
	txn, err := s.findTransaction(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Notes != nil {
		txn.Notes = *req.Notes
	}
	if req.CustomerName != nil {
		txn.CustomerName = strings.TrimSpace(*req.CustomerName)
	}
	if req.AmountPaid != nil {
		txn.AmountPaid = *req.AmountPaid
	}

	txn.UpdatedAt = s.clock.Now()
	if err := s.repo.UpdateTransaction(ctx, s.db, txn); err != nil {
		return nil, err
	}

	if req.Detail != nil {
		if err := s.updateDetail(ctx, txn, *req.Detail); err != nil {
			return nil, err
		}
	}
	return s.attachDetail(ctx, txn)
}

func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	if _, err := s.findTransaction(ctx, id); err != nil {
		return err
	}
	// The side record goes with the row via FK cascade; there is no blob to
	// clean for transactions.
	return s.repo.DeleteTransaction(ctx, s.db, id)
}

func (s *Service) ListExpenses(ctx context.Context) ([]domain.Expense, error) {
	return s.repo.ListExpenses(ctx, s.db)
}

func (s *Service) CreateExpense(ctx context.Context, req domain.CreateExpenseRequest) (*domain.Expense, error) {
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "general"
	}

	var receipt *string
	if req.Receipt != nil && strings.TrimSpace(*req.Receipt) != "" {
		stored, err := s.blobs.CopyToInternal(strings.TrimSpace(*req.Receipt))
		if err != nil {
			return nil, err
		}
		receipt = &stored
	}

	date := req.Date
	if date.IsZero() {
		date = s.clock.Now()
	}

	expense := &domain.Expense{
		ID:          ulid.Make().String(),
		Category:    category,
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount,
		Date:        date,
		Receipt:     receipt,
		Notes:       req.Notes,
	}
	if err := s.repo.InsertExpense(ctx, s.db, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ErrInvalidID
	}
	expense, err := s.repo.FindExpense(ctx, s.db, id)
	if err != nil {
		return err
	}
	if expense == nil {
		return domain.ErrNotFound
	}

	if err := s.repo.DeleteExpense(ctx, s.db, id); err != nil {
		return err
	}
	if expense.Receipt != nil {
		s.blobs.Delete(*expense.Receipt)
	}
	return nil
}

func (s *Service) Summarize(ctx context.Context, from, to time.Time) (*domain.Summary, error) {
	if to.Before(from) {
		return nil, domain.ErrInvalidDate
	}

	byType, err := s.repo.TotalsByType(ctx, s.db, from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := s.repo.ExpenseTotal(ctx, s.db, from, to)
	if err != nil {
		return nil, err
	}

	var revenue float64
	for _, row := range byType {
		revenue += row.Total
	}

	return &domain.Summary{
		From:     from,
		To:       to,
		ByType:   byType,
		Expenses: expenses,
		Net:      revenue - expenses,
	}, nil
}

func (s *Service) findTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidID
	}
	txn, err := s.repo.FindTransaction(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, domain.ErrNotFound
	}
	return txn, nil
}

func (s *Service) attachDetail(ctx context.Context, txn *domain.Transaction) (*domain.TransactionView, error) {
	view := &domain.TransactionView{Transaction: *txn}
	switch txn.Type {
	case domain.TypeRental:
		detail, err := s.repo.FindRental(ctx, s.db, txn.ID)
		if err != nil {
			return nil, err
		}
		view.Rental = detail
	case domain.TypeDecoration:
		detail, err := s.repo.FindDecoration(ctx, s.db, txn.ID)
		if err != nil {
			return nil, err
		}
		view.Decoration = detail
	}
	return view, nil
}

func (s *Service) updateDetail(ctx context.Context, txn *domain.Transaction, req domain.DetailRequest) error {
	switch txn.Type {
	case domain.TypeRental:
		detail, err := s.repo.FindRental(ctx, s.db, txn.ID)
		if err != nil {
			return err
		}
		if detail == nil {
			return domain.ErrNotFound
		}
		applyDetail(&detail.Status, &detail.StartDate, &detail.EndDate, &detail.Deposit, req)
		return s.repo.UpdateRental(ctx, s.db, detail)
	case domain.TypeDecoration:
		detail, err := s.repo.FindDecoration(ctx, s.db, txn.ID)
		if err != nil {
			return err
		}
		if detail == nil {
			return domain.ErrNotFound
		}
		applyDetail(&detail.Status, &detail.StartDate, &detail.EndDate, &detail.Deposit, req)
		return s.repo.UpdateDecoration(ctx, s.db, detail)
	default:
		return domain.ErrInvalidType
	}
}

func applyDetail(status *domain.DetailStatus, start, end **time.Time, deposit *float64, req domain.DetailRequest) {
	if req.Status != "" {
		*status = req.Status
	}
	if req.StartDate != nil {
		*start = req.StartDate
	}
	if req.EndDate != nil {
		*end = req.EndDate
	}
	if req.Deposit != 0 {
		*deposit = req.Deposit
	}
}
