package material

import (
	"context"
	"fmt"
	"time"

	"outflow/internal/core/apperror"
	"outflow/internal/core/tx"
	"outflow/internal/domain"
	"outflow/pkg/numerator"
)

// Repository defines the persistence contract for materials.
type Repository interface {
	domain.CatalogRepository[*Material]
}

// Service provides business logic for the material catalog.
type Service struct {
	*domain.CatalogService[*Material]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new material service.
func NewService(repo Repository, txm tx.Manager, num *numerator.Service) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Material]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: "material",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      num,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

// prepareForCreate generates a code when absent and enforces code uniqueness.
func (s *Service) prepareForCreate(ctx context.Context, m *Material) error {
	if m.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("MAT"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		m.Code = code
		return nil
	}

	exists, err := s.repo.ExistsByCode(ctx, m.Code)
	if err != nil {
		return fmt.Errorf("check code: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("material", "code", m.Code)
	}
	return nil
}

// ListActive returns active materials for selection lists.
func (s *Service) ListActive(ctx context.Context, search string, limit, offset int) (domain.ListResult[*Material], error) {
	filter := domain.DefaultListFilter()
	filter.Search = search
	filter.ActiveOnly = true
	if limit > 0 {
		filter.Limit = limit
	}
	filter.Offset = offset
	return s.List(ctx, filter)
}
