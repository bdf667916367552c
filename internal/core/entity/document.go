package entity

import (
	"context"
	"time"

	"outflow/internal/core/apperror"
	"outflow/internal/core/id"
)

// Document is the base type for business transactions (issue notes).
type Document struct {
	BaseDocument

	// Number is the document number, auto-generated and unique per type+year
	Number string `db:"number" json:"number"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	// Posted indicates the document's movements are recorded in registers
	Posted bool `db:"posted" json:"posted"`

	// Comment is an optional user comment
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a new Document dated now.
func NewDocument() Document {
	return Document{
		BaseDocument: NewBaseDocument(),
		Date:         time.Now().UTC(),
	}
}

// Validate implements Validatable.
func (d *Document) Validate(ctx context.Context) error {
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	return nil
}

// CanModify checks whether the document can still be changed.
func (d *Document) CanModify() error {
	if d.Posted {
		return apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"Cannot modify a posted document.",
		).WithDetail("document_id", d.ID.String())
	}
	return nil
}

// MarkPosted sets the posted flag.
func (d *Document) MarkPosted() {
	d.Posted = true
	d.Touch()
}

// GetID returns the document ID.
func (d *Document) GetID() id.ID {
	return d.ID
}
