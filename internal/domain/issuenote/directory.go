package issuenote

import (
	"context"

	"outflow/internal/core/apperror"
	"outflow/internal/core/id"
	"outflow/internal/domain/catalogs/material"
	"outflow/internal/domain/catalogs/product"
	"outflow/internal/domain/stock"
)

// SubjectDirectory resolves a subject reference to its descriptive fields.
type SubjectDirectory interface {
	Resolve(ctx context.Context, subjectID id.ID, kind stock.SubjectKind) (SubjectRef, error)
}

// CatalogDirectory resolves subjects against the material and product
// catalogs.
type CatalogDirectory struct {
	materials *material.Service
	products  *product.Service
}

// NewCatalogDirectory creates a directory over the two catalogs.
func NewCatalogDirectory(materials *material.Service, products *product.Service) *CatalogDirectory {
	return &CatalogDirectory{materials: materials, products: products}
}

// Resolve implements SubjectDirectory.
func (d *CatalogDirectory) Resolve(ctx context.Context, subjectID id.ID, kind stock.SubjectKind) (SubjectRef, error) {
	switch kind {
	case stock.KindMaterial:
		m, err := d.materials.GetByID(ctx, subjectID)
		if err != nil {
			return SubjectRef{}, err
		}
		return SubjectRef{
			ID:       m.ID,
			Kind:     stock.KindMaterial,
			Code:     m.Code,
			Name:     m.Name,
			UnitID:   m.UnitID,
			UnitName: m.UnitName,
		}, nil
	case stock.KindProduct:
		p, err := d.products.GetByID(ctx, subjectID)
		if err != nil {
			return SubjectRef{}, err
		}
		return SubjectRef{
			ID:       p.ID,
			Kind:     stock.KindProduct,
			Code:     p.Code,
			Name:     p.Name,
			UnitID:   p.UnitID,
			UnitName: p.UnitName,
		}, nil
	}
	return SubjectRef{}, apperror.NewValidation("invalid subject kind").
		WithDetail("value", string(kind))
}
