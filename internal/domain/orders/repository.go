package orders

import (
	"context"

	"outflow/internal/core/id"
	"outflow/internal/domain"
)

// ListFilter narrows order list queries.
type ListFilter struct {
	domain.ListFilter

	Type      Type
	Status    Status
	PartnerID *id.ID
}

// Repository defines the persistence contract for source orders.
type Repository interface {
	GetByID(ctx context.Context, orderID id.ID) (*Order, error)
	GetLines(ctx context.Context, orderID id.ID) ([]Line, error)
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Order], error)
}
