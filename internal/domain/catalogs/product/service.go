package product

import (
	"context"
	"fmt"
	"time"

	"outflow/internal/core/apperror"
	"outflow/internal/core/tx"
	"outflow/internal/domain"
	"outflow/pkg/numerator"
)

// Repository defines the persistence contract for products.
type Repository interface {
	domain.CatalogRepository[*Product]
}

// Service provides business logic for the product catalog.
type Service struct {
	*domain.CatalogService[*Product]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new product service.
func NewService(repo Repository, txm tx.Manager, num *numerator.Service) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: "product",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      num,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, p *Product) error {
	if p.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("PRD"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		p.Code = code
		return nil
	}

	exists, err := s.repo.ExistsByCode(ctx, p.Code)
	if err != nil {
		return fmt.Errorf("check code: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("product", "code", p.Code)
	}
	return nil
}

// ListActive returns active products for selection lists.
func (s *Service) ListActive(ctx context.Context, search string, limit, offset int) (domain.ListResult[*Product], error) {
	filter := domain.DefaultListFilter()
	filter.Search = search
	filter.ActiveOnly = true
	if limit > 0 {
		filter.Limit = limit
	}
	filter.Offset = offset
	return s.List(ctx, filter)
}
