// Package warehouse provides the warehouse catalog.
package warehouse

import (
	"context"

	"outflow/internal/core/entity"
)

// Warehouse represents a physical stock location.
type Warehouse struct {
	entity.Catalog

	// Address is the street address, free form
	Address string `db:"address" json:"address,omitempty"`

	// Keeper is the responsible storekeeper's name
	Keeper string `db:"keeper" json:"keeper,omitempty"`
}

// NewWarehouse creates a new warehouse record.
func NewWarehouse(code, name string) *Warehouse {
	return &Warehouse{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable.
func (w *Warehouse) Validate(ctx context.Context) error {
	return w.Catalog.Validate(ctx)
}
