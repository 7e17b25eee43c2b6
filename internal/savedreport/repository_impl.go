package savedreport

import (
	"context"
	"errors"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/decora/internal/clock"
	"github.com/smallbiznis/decora/internal/savedreport/domain"
	"gorm.io/gorm"
)

type repository struct {
	db    *gorm.DB
	clock clock.Clock
}

func NewRepository(db *gorm.DB, clk clock.Clock) domain.Repository {
	return &repository{db: db, clock: clk}
}

func (r *repository) List(ctx context.Context) ([]domain.SavedReport, error) {
	var reports []domain.SavedReport
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *repository) Find(ctx context.Context, id string) (*domain.SavedReport, error) {
	var report domain.SavedReport
	err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *repository) Create(ctx context.Context, req domain.CreateRequest) (*domain.SavedReport, error) {
	report := &domain.SavedReport{
		ID:        ulid.Make().String(),
		Name:      strings.TrimSpace(req.Name),
		Type:      strings.TrimSpace(req.Type),
		Params:    req.Params,
		CreatedAt: r.clock.Now(),
	}
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return nil, err
	}
	return report, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.SavedReport{}, "id = ?", id).Error
}
