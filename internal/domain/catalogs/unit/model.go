// Package unit provides the unit-of-measure catalog.
package unit

import (
	"context"

	"github.com/shopspring/decimal"

	"outflow/internal/core/apperror"
	"outflow/internal/core/entity"
	"outflow/internal/core/id"
)

// Unit represents a measurement unit.
type Unit struct {
	entity.Catalog

	// Symbol is the short symbol (e.g. "kg", "m", "pcs")
	Symbol string `db:"symbol" json:"symbol"`

	// BaseUnitID references the base unit for conversions
	BaseUnitID *id.ID `db:"base_unit_id" json:"baseUnitId,omitempty"`

	// ConversionFactor is the multiplier to convert to the base unit,
	// e.g. for "gram" with base "kilogram": 0.001
	ConversionFactor decimal.Decimal `db:"conversion_factor" json:"conversionFactor"`

	// IsBase indicates a base unit (not derived)
	IsBase bool `db:"is_base" json:"isBase"`
}

// NewUnit creates a new base unit with factor 1.
func NewUnit(code, name, symbol string) *Unit {
	return &Unit{
		Catalog:          entity.NewCatalog(code, name),
		Symbol:           symbol,
		ConversionFactor: decimal.NewFromInt(1),
		IsBase:           true,
	}
}

// Validate implements entity.Validatable.
func (u *Unit) Validate(ctx context.Context) error {
	if err := u.Catalog.Validate(ctx); err != nil {
		return err
	}

	if u.Symbol == "" {
		return apperror.NewValidation("symbol is required").
			WithDetail("field", "symbol")
	}

	if !u.IsBase {
		if u.BaseUnitID == nil || id.IsNil(*u.BaseUnitID) {
			return apperror.NewValidation("derived unit requires a base unit").
				WithDetail("field", "baseUnitId")
		}
		if !u.ConversionFactor.IsPositive() {
			return apperror.NewValidation("conversion factor must be positive").
				WithDetail("field", "conversionFactor")
		}
	}

	return nil
}
