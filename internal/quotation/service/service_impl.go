package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/decora/internal/clock"
	ledgerdomain "github.com/smallbiznis/decora/internal/ledger/domain"
	"github.com/smallbiznis/decora/internal/quotation/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Repo   domain.Repository
	Ledger ledgerdomain.Service
	GenID  *snowflake.Node
	Clock  clock.Clock
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	repo   domain.Repository
	ledger ledgerdomain.Service
	genID  *snowflake.Node
	clock  clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("quotation.service"),
		repo:   p.Repo,
		ledger: p.Ledger,
		genID:  p.GenID,
		clock:  p.Clock,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Quotation, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Quotation, error) {
	return s.find(ctx, id)
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Quotation, error) {
	if !req.Type.Valid() {
		return nil, domain.ErrInvalidType
	}

	date := req.Date
	if date.IsZero() {
		date = s.clock.Now()
	}

	now := s.clock.Now()
	q := &domain.Quotation{
		ID:           ulid.Make().String(),
		Number:       fmt.Sprintf("QT-%s", s.genID.Generate().String()),
		Type:         req.Type,
		ProductID:    req.ProductID,
		ProductName:  strings.TrimSpace(req.ProductName),
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		Discount:     req.Discount,
		TotalAmount:  req.TotalAmount,
		CustomerName: strings.TrimSpace(req.CustomerName),
		ClientData:   req.ClientData,
		Notes:        req.Notes,
		Date:         date,
		Items:        req.Items,
		Status:       domain.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, s.db, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Quotation, error) {
	q, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if q.Status == domain.StatusConverted {
		return nil, domain.ErrAlreadyConverted
	}

	if req.ProductName != nil {
		q.ProductName = strings.TrimSpace(*req.ProductName)
	}
	if req.Quantity != nil {
		q.Quantity = *req.Quantity
	}
	if req.UnitPrice != nil {
		q.UnitPrice = *req.UnitPrice
	}
	if req.Discount != nil {
		q.Discount = *req.Discount
	}
	if req.TotalAmount != nil {
		q.TotalAmount = *req.TotalAmount
	}
	if req.CustomerName != nil {
		q.CustomerName = strings.TrimSpace(*req.CustomerName)
	}
	if req.ClientData != nil {
		q.ClientData = req.ClientData
	}
	if req.Items != nil {
		q.Items = req.Items
	}
	if req.Notes != nil {
		q.Notes = *req.Notes
	}

	q.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, id)
}

func (s *Service) Convert(ctx context.Context, id string) (*ledgerdomain.TransactionView, error) {
	q, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status == domain.StatusConverted {
		return nil, domain.ErrAlreadyConverted
	}

	notes := q.Notes
	if notes == "" {
		notes = fmt.Sprintf("Converted from quotation %s", q.Number)
	}
	view, err := s.ledger.CreateTransaction(ctx, ledgerdomain.CreateTransactionRequest{
		Type:         q.Type,
		ProductID:    q.ProductID,
		ProductName:  q.ProductName,
		Quantity:     q.Quantity,
		UnitPrice:    q.UnitPrice,
		Discount:     q.Discount,
		TotalAmount:  q.TotalAmount,
		CustomerName: q.CustomerName,
		ClientData:   q.ClientData,
		Notes:        notes,
		Date:         s.clock.Now(),
		Items:        q.Items,
	})
	if err != nil {
		return nil, err
	}

	q.Status = domain.StatusConverted
	q.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, q); err != nil {
		s.log.Warn("quotation converted but status update failed",
			zap.String("quotation_id", q.ID),
			zap.String("transaction_id", view.ID),
			zap.Error(err),
		)
		return nil, err
	}
	return view, nil
}

func (s *Service) find(ctx context.Context, id string) (*domain.Quotation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidID
	}
	q, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	return q, nil
}
