// Package orders provides the source orders issue notes draw from: sales
// orders (product lines) and production orders (BOM material lines).
package orders

import (
	"context"

	"outflow/internal/core/apperror"
	"outflow/internal/core/entity"
	"outflow/internal/core/id"
	"outflow/internal/core/types"
	"outflow/internal/domain/stock"
)

// Type distinguishes the two source order kinds.
type Type string

const (
	TypeSales      Type = "sales"
	TypeProduction Type = "production"
)

// Valid reports whether t is a known order type.
func (t Type) Valid() bool {
	return t == TypeSales || t == TypeProduction
}

// Status is the order fulfillment state.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Order is a source document referenced by issue notes.
type Order struct {
	entity.Document

	Type   Type   `db:"type" json:"type"`
	Status Status `db:"status" json:"status"`

	// PartnerID is the customer (sales) or internal requester (production)
	PartnerID   id.ID  `db:"partner_id" json:"partnerId"`
	PartnerName string `db:"partner_name" json:"partnerName,omitempty"`

	// Table part: order detail lines
	Lines []Line `db:"-" json:"lines"`
}

// Line is one order detail entry. The same subject may appear on several
// lines; aggregation happens downstream when the issue-note draft is built.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	SubjectID   id.ID             `db:"subject_id" json:"subjectId"`
	Kind        stock.SubjectKind `db:"subject_kind" json:"subjectKind"`
	SubjectCode string            `db:"subject_code" json:"subjectCode"`
	SubjectName string            `db:"subject_name" json:"subjectName"`

	UnitID   *id.ID `db:"unit_id" json:"unitId,omitempty"`
	UnitName string `db:"unit_name" json:"unitName,omitempty"`

	// RequiredQuantity is what the order asks for; ReceivedQuantity is what
	// prior issue notes already covered.
	RequiredQuantity types.Quantity `db:"required_quantity" json:"requiredQuantity"`
	ReceivedQuantity types.Quantity `db:"received_quantity" json:"receivedQuantity"`
}

// Validate implements entity.Validatable.
func (o *Order) Validate(ctx context.Context) error {
	if err := o.Document.Validate(ctx); err != nil {
		return err
	}
	if !o.Type.Valid() {
		return apperror.NewValidation("invalid order type").
			WithDetail("field", "type")
	}
	if id.IsNil(o.PartnerID) {
		return apperror.NewValidation("partner is required").
			WithDetail("field", "partnerId")
	}
	return nil
}
