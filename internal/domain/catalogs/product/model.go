// Package product provides the finished-goods catalog.
package product

import (
	"context"

	"outflow/internal/core/apperror"
	"outflow/internal/core/entity"
	"outflow/internal/core/id"
)

// Product represents a finished good issued against sales orders.
type Product struct {
	entity.Catalog

	// UnitID is the default measurement unit
	UnitID *id.ID `db:"unit_id" json:"unitId,omitempty"`

	// UnitName is denormalized for display and line defaulting
	UnitName string `db:"unit_name" json:"unitName,omitempty"`

	// SKU is the stock-keeping code printed on labels
	SKU string `db:"sku" json:"sku,omitempty"`
}

// NewProduct creates a new product record.
func NewProduct(code, name string) *Product {
	return &Product{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}
	if p.UnitID != nil && id.IsNil(*p.UnitID) {
		return apperror.NewValidation("unit reference is empty").
			WithDetail("field", "unitId")
	}
	return nil
}
