package partner

import (
	"context"
	"fmt"
	"time"

	"outflow/internal/core/apperror"
	"outflow/internal/core/tx"
	"outflow/internal/domain"
	"outflow/pkg/numerator"
)

// Repository defines the persistence contract for partners.
type Repository interface {
	domain.CatalogRepository[*Partner]

	// ListByType returns active partners of a given type.
	ListByType(ctx context.Context, partnerType Type, filter domain.ListFilter) (domain.ListResult[*Partner], error)
}

// Service provides business logic for the partner catalog.
type Service struct {
	*domain.CatalogService[*Partner]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new partner service.
func NewService(repo Repository, txm tx.Manager, num *numerator.Service) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Partner]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: "partner",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      num,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, p *Partner) error {
	if p.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("PTN"), nil, time.Now())
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
		return apperror.NewDuplicate("partner", "code", p.Code)
	}
	return nil
}

// ListByType returns active partners filtered by role, for the partner
// pickers on outsourcing and purchase-return forms.
func (s *Service) ListByType(ctx context.Context, partnerType Type, search string, limit, offset int) (domain.ListResult[*Partner], error) {
	if !validType(partnerType) {
		return domain.ListResult[*Partner]{}, apperror.NewValidation("invalid partner type").
			WithDetail("value", string(partnerType))
	}
	filter := domain.DefaultListFilter()
	filter.Search = search
	filter.ActiveOnly = true
	if limit > 0 {
		filter.Limit = limit
	}
	filter.Offset = offset
	return s.repo.ListByType(ctx, partnerType, filter)
}
