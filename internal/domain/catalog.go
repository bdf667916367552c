package domain

import (
	"context"
	"fmt"

	"outflow/internal/core/apperror"
	"outflow/internal/core/entity"
	"outflow/internal/core/id"
	"outflow/internal/core/tx"
	"outflow/pkg/logger"
)

// Hook runs catalog-specific logic around CRUD operations.
type Hook[T any] func(ctx context.Context, entity T) error

// HookRegistry collects hooks for a catalog service.
type HookRegistry[T any] struct {
	beforeCreate []Hook[T]
	beforeUpdate []Hook[T]
	beforeDelete []Hook[T]
}

// NewHookRegistry creates an empty registry.
func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{}
}

func (h *HookRegistry[T]) OnBeforeCreate(fn Hook[T]) { h.beforeCreate = append(h.beforeCreate, fn) }
func (h *HookRegistry[T]) OnBeforeUpdate(fn Hook[T]) { h.beforeUpdate = append(h.beforeUpdate, fn) }
func (h *HookRegistry[T]) OnBeforeDelete(fn Hook[T]) { h.beforeDelete = append(h.beforeDelete, fn) }

func runHooks[T any](ctx context.Context, hooks []Hook[T], entity T) error {
	for _, fn := range hooks {
		if err := fn(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

// CatalogService provides business logic common to all catalogs.
// Specific catalogs embed it and register hooks for their extra rules.
type CatalogService[T entity.Validatable] struct {
	repo       CatalogRepository[T]
	txManager  tx.Manager
	hooks      *HookRegistry[T]
	entityName string
}

// CatalogServiceConfig configures the catalog service.
type CatalogServiceConfig[T entity.Validatable] struct {
	Repo       CatalogRepository[T]
	TxManager  tx.Manager
	EntityName string
}

// NewCatalogService creates a new catalog service.
func NewCatalogService[T entity.Validatable](cfg CatalogServiceConfig[T]) *CatalogService[T] {
	return &CatalogService[T]{
		repo:       cfg.Repo,
		txManager:  cfg.TxManager,
		hooks:      NewHookRegistry[T](),
		entityName: cfg.EntityName,
	}
}

// Hooks returns the hook registry for external registration.
func (s *CatalogService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

func (s *CatalogService[T]) normalizeGetErr(err error, idOrCode any) error {
	if err == nil {
		return nil
	}
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName, idOrCode)
	}
	if _, ok := apperror.AsAppError(err); ok {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", s.entityName).WithDetail("id", idOrCode)
}

// Create validates, runs hooks and inserts a new catalog entity.
func (s *CatalogService[T]) Create(ctx context.Context, item T) error {
	if err := item.Validate(ctx); err != nil {
		return err
	}

	if err := runHooks(ctx, s.hooks.beforeCreate, item); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, item); err != nil {
			return fmt.Errorf("create %s: %w", s.entityName, err)
		}
		return nil
	})
}

// GetByID retrieves an entity by ID.
func (s *CatalogService[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	item, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return item, s.normalizeGetErr(err, entityID.String())
	}
	return item, nil
}

// GetByCode retrieves an entity by code.
func (s *CatalogService[T]) GetByCode(ctx context.Context, code string) (T, error) {
	item, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return item, s.normalizeGetErr(err, code)
	}
	return item, nil
}

// Update validates, runs hooks and saves an existing entity.
func (s *CatalogService[T]) Update(ctx context.Context, item T) error {
	if err := item.Validate(ctx); err != nil {
		return err
	}

	if err := runHooks(ctx, s.hooks.beforeUpdate, item); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, item); err != nil {
			return fmt.Errorf("update %s: %w", s.entityName, err)
		}
		return nil
	})
}

// Delete performs a soft delete.
func (s *CatalogService[T]) Delete(ctx context.Context, entityID id.ID) error {
	item, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return s.normalizeGetErr(err, entityID.String())
	}

	if err := runHooks(ctx, s.hooks.beforeDelete, item); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.SetDeletionMark(ctx, entityID, true)
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", s.entityName, err)
	}

	logger.Info(ctx, "catalog entity deleted", "entity", s.entityName, "id", entityID)
	return nil
}

// List retrieves entities with filtering.
func (s *CatalogService[T]) List(ctx context.Context, filter ListFilter) (ListResult[T], error) {
	return s.repo.List(ctx, filter)
}

// Exists checks whether an entity exists.
func (s *CatalogService[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	return s.repo.Exists(ctx, entityID)
}
