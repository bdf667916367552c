package warehouse

import (
	"context"
	"fmt"
	"time"

	"outflow/internal/core/apperror"
	"outflow/internal/core/tx"
	"outflow/internal/domain"
	"outflow/pkg/numerator"
)

// Repository defines the persistence contract for warehouses.
type Repository interface {
	domain.CatalogRepository[*Warehouse]
}

// Service provides business logic for the warehouse catalog.
type Service struct {
	*domain.CatalogService[*Warehouse]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new warehouse service.
func NewService(repo Repository, txm tx.Manager, num *numerator.Service) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Warehouse]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: "warehouse",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      num,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, w *Warehouse) error {
	if w.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("WH"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		w.Code = code
		return nil
	}

	exists, err := s.repo.ExistsByCode(ctx, w.Code)
	if err != nil {
		return fmt.Errorf("check code: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("warehouse", "code", w.Code)
	}
	return nil
}

// ListActive returns active warehouses for selection lists.
func (s *Service) ListActive(ctx context.Context) (domain.ListResult[*Warehouse], error) {
	filter := domain.DefaultListFilter()
	filter.ActiveOnly = true
	filter.Limit = 500
	return s.List(ctx, filter)
}
