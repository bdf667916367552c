// Package material provides the raw-material catalog.
package material

import (
	"context"

	"outflow/internal/core/apperror"
	"outflow/internal/core/entity"
	"outflow/internal/core/id"
)

// Material represents a raw material consumed by production, outsourcing and
// purchase-return issue notes.
type Material struct {
	entity.Catalog

	// UnitID is the default measurement unit
	UnitID *id.ID `db:"unit_id" json:"unitId,omitempty"`

	// UnitName is denormalized for display and line defaulting
	UnitName string `db:"unit_name" json:"unitName,omitempty"`

	// Specification is a free-form technical note
	Specification string `db:"specification" json:"specification,omitempty"`
}

// NewMaterial creates a new material record.
func NewMaterial(code, name string) *Material {
	return &Material{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable.
func (m *Material) Validate(ctx context.Context) error {
	if err := m.Catalog.Validate(ctx); err != nil {
		return err
	}
	if m.UnitID != nil && id.IsNil(*m.UnitID) {
		return apperror.NewValidation("unit reference is empty").
			WithDetail("field", "unitId")
	}
	return nil
}
