// Package partner provides the business-partner catalog.
package partner

import (
	"context"

	"outflow/internal/core/apperror"
	"outflow/internal/core/entity"
)

// Type classifies a partner by its role in issue flows.
type Type string

const (
	// TypeCustomer receives goods on sales issues
	TypeCustomer Type = "customer"
	// TypeProcessor receives materials on outsourcing issues
	TypeProcessor Type = "processor"
	// TypeSupplier receives goods back on purchase returns
	TypeSupplier Type = "supplier"
)

func validType(t Type) bool {
	switch t {
	case TypeCustomer, TypeProcessor, TypeSupplier:
		return true
	}
	return false
}

// Partner represents a counterparty: customer, outsourcing processor or
// supplier.
type Partner struct {
	entity.Catalog

	// Type determines which issue categories may reference this partner
	Type Type `db:"type" json:"type"`

	// TaxID is the registration number, free form
	TaxID string `db:"tax_id" json:"taxId,omitempty"`

	// ContactPhone and ContactEmail are optional contact details
	ContactPhone string `db:"contact_phone" json:"contactPhone,omitempty"`
	ContactEmail string `db:"contact_email" json:"contactEmail,omitempty"`
}

// NewPartner creates a new partner record.
func NewPartner(code, name string, partnerType Type) *Partner {
	return &Partner{
		Catalog: entity.NewCatalog(code, name),
		Type:    partnerType,
	}
}

// Validate implements entity.Validatable.
func (p *Partner) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}
	if !validType(p.Type) {
		return apperror.NewValidation("invalid partner type").
			WithDetail("field", "type").
			WithDetail("value", string(p.Type))
	}
	return nil
}
