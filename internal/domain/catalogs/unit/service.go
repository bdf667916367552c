package unit

import (
	"context"
	"fmt"
	"time"

	"outflow/internal/core/apperror"
	"outflow/internal/core/id"
	"outflow/internal/core/tx"
	"outflow/internal/domain"
	"outflow/pkg/numerator"
)

// Repository defines the persistence contract for units.
type Repository interface {
	domain.CatalogRepository[*Unit]

	// FindBySymbol retrieves a unit by its unique symbol.
	FindBySymbol(ctx context.Context, symbol string) (*Unit, error)
}

// Service provides business logic for the unit catalog.
type Service struct {
	*domain.CatalogService[*Unit]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new unit service.
func NewService(repo Repository, txm tx.Manager, num *numerator.Service) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Unit]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: "unit",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      num,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.checkSymbolUnique)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, u *Unit) error {
	if u.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("UN"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		u.Code = code
	}
	return s.checkSymbolUnique(ctx, u)
}

func (s *Service) checkSymbolUnique(ctx context.Context, u *Unit) error {
	if u.Symbol == "" {
		return nil
	}
	existing, err := s.repo.FindBySymbol(ctx, u.Symbol)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("check symbol: %w", err)
	}
	if existing != nil && existing.ID != u.ID {
		return apperror.NewConflict("unit with this symbol already exists").
			WithDetail("symbol", u.Symbol)
	}
	return nil
}

// FindBySymbol retrieves a unit by symbol.
func (s *Service) FindBySymbol(ctx context.Context, symbol string) (*Unit, error) {
	return s.repo.FindBySymbol(ctx, symbol)
}

// ResolveFallback returns the configured fallback unit used when an issue
// line carries no unit of its own.
func (s *Service) ResolveFallback(ctx context.Context, fallbackID id.ID) (*Unit, error) {
	return s.GetByID(ctx, fallbackID)
}
