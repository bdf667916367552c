package entity

import (
	"context"

	"outflow/internal/core/apperror"
)

// Catalog is the base type for master data (materials, products, warehouses,
// partners, units).
type Catalog struct {
	BaseEntity

	// Code is a human-readable identifier, unique per catalog
	Code string `db:"code" json:"code"`

	// Name is the display name
	Name string `db:"name" json:"name"`

	// Active indicates whether the record is offered in selection lists
	Active bool `db:"active" json:"active"`
}

// NewCatalog creates a new Catalog with a generated ID. New records are
// active by default.
func NewCatalog(code, name string) Catalog {
	return Catalog{
		BaseEntity: NewBaseEntity(),
		Code:       code,
		Name:       name,
		Active:     true,
	}
}

// Validate implements Validatable. Code may be auto-generated later, so only
// the name is mandatory at creation.
func (c *Catalog) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}
