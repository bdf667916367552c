package issuenote

import (
	"time"

	"outflow/internal/core/id"
)

// FieldError points a validation failure at the form field that caused it.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FormState is the complete draft as the submission guard sees it.
type FormState struct {
	Category      Category             `json:"category"`
	Date          time.Time            `json:"date"`
	SourceOrderID *id.ID               `json:"sourceOrderId,omitempty"`
	PartnerID     *id.ID               `json:"partnerId,omitempty"`
	Receiver      string               `json:"receiver,omitempty"`
	Comment       string               `json:"comment,omitempty"`
	Rows          []LineItem           `json:"rows"`
	Returns       []ExpectedReturnLine `json:"returns,omitempty"`
}

// Validate runs the submission guard. Checks run in a fixed order and the
// first failure wins, so the user is always pointed at the earliest
// incomplete part of the form:
//
//  1. category chosen
//  2. reference order, when the category needs one
//  3. partner, when the category needs one
//  4. expected returns present and complete, for outsourcing
//  5. no allocation rejected or over its available stock
//  6. at least one submittable allocation
func (f FormState) Validate() []FieldError {
	if !f.Category.Valid() {
		return []FieldError{{Field: "category", Message: "issue category is required"}}
	}

	if f.Category.RequiresSourceOrder() {
		if f.SourceOrderID == nil || id.IsNil(*f.SourceOrderID) {
			return []FieldError{{Field: "source_order_id", Message: "reference order is required"}}
		}
	}

	if f.Category.RequiresPartner() {
		if f.PartnerID == nil || id.IsNil(*f.PartnerID) {
			return []FieldError{{Field: "partner_id", Message: "partner is required"}}
		}
	}

	if f.Category == CategoryOutsourcing {
		if len(f.Returns) == 0 {
			return []FieldError{{
				Field:   "expected_returns",
				Message: "at least one expected return is required",
			}}
		}
		for _, r := range f.Returns {
			if id.IsNil(r.MaterialID) || !r.Quantity.IsPositive() {
				return []FieldError{{
					Field:   "expected_returns",
					Message: "each expected return needs a material and a positive quantity",
				}}
			}
		}
	}

	for _, row := range f.Rows {
		for _, a := range row.Allocations {
			if a.ValidationError != "" {
				return []FieldError{{
					Field:   "rows",
					Message: "fix invalid quantities before submitting",
				}}
			}
			// Re-check the bound itself, not just the stored error: the
			// snapshot may have been assembled outside the entry flow.
			if a.ExportQuantity > a.AvailableQuantity {
				return []FieldError{{
					Field:   "rows",
					Message: "export quantity exceeds available stock",
				}}
			}
		}
	}

	emittable := 0
	for _, row := range f.Rows {
		if !row.HasSubject() {
			continue
		}
		for _, a := range row.Allocations {
			if !a.IsPlaceholder() && a.ExportQuantity.IsPositive() {
				emittable++
			}
		}
	}
	if emittable == 0 {
		return []FieldError{{Field: "rows", Message: "at least one export quantity is required"}}
	}

	return nil
}
