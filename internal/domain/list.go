// Package domain provides shared business-logic interfaces and types.
package domain

import (
	"context"

	"outflow/internal/core/entity"
	"outflow/internal/core/id"
)

// ListFilter contains common filtering options for list operations.
type ListFilter struct {
	// Search performs substring search on code and name
	Search string

	// IDs filters by specific IDs
	IDs []id.ID

	// ActiveOnly limits results to active records (selection lists)
	ActiveOnly bool

	// IncludeDeleted includes soft-deleted records
	IncludeDeleted bool

	// OrderBy specifies sorting (e.g. "name", "date DESC")
	OrderBy string

	// Pagination
	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit:   50,
		OrderBy: "name",
	}
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// CatalogRepository defines CRUD operations for catalog entities.
type CatalogRepository[T entity.Validatable] interface {
	Create(ctx context.Context, entity T) error
	GetByID(ctx context.Context, id id.ID) (T, error)
	GetByCode(ctx context.Context, code string) (T, error)

	// Update modifies an existing entity with optimistic locking.
	Update(ctx context.Context, entity T) error

	// SetDeletionMark sets or clears the soft-delete mark.
	SetDeletionMark(ctx context.Context, id id.ID, marked bool) error

	List(ctx context.Context, filter ListFilter) (ListResult[T], error)
	Exists(ctx context.Context, id id.ID) (bool, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
}
