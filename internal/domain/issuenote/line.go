package issuenote

import (
	"outflow/internal/core/id"
	"outflow/internal/core/types"
	"outflow/internal/domain/stock"
)

// WarehouseAllocation is one warehouse's contribution toward a line item's
// export. A line always holds at least one allocation; when no warehouse has
// stock, a placeholder with a nil WarehouseID stands in.
type WarehouseAllocation struct {
	// WarehouseID is nil for the zero-stock placeholder
	WarehouseID   *id.ID `json:"warehouseId"`
	WarehouseName string `json:"warehouseName,omitempty"`

	// AvailableQuantity is the stock snapshot, read-only for editors
	AvailableQuantity types.Quantity `json:"availableQuantity"`

	// ExportQuantity is the user-entered quantity to issue from this
	// warehouse. Only values passing the bound checks are ever committed.
	ExportQuantity types.Quantity `json:"exportQuantity"`

	// ValidationError is non-empty exactly when the last entered value
	// violated a rule. The prior committed ExportQuantity survives.
	ValidationError string `json:"validationError,omitempty"`
}

// IsPlaceholder reports whether the allocation stands in for "no stock".
func (a WarehouseAllocation) IsPlaceholder() bool {
	return a.WarehouseID == nil
}

func placeholderAllocation() WarehouseAllocation {
	return WarehouseAllocation{}
}

// SubjectRef carries the descriptive fields denormalized onto a line when a
// material or product is selected.
type SubjectRef struct {
	ID       id.ID             `json:"id"`
	Kind     stock.SubjectKind `json:"kind"`
	Code     string            `json:"code"`
	Name     string            `json:"name"`
	UnitID   *id.ID            `json:"unitId,omitempty"`
	UnitName string            `json:"unitName,omitempty"`
}

// LineItem is one row of the drafting table: one distinct material or
// product with its per-warehouse allocations.
type LineItem struct {
	// ID is stable for the life of the draft: derived from the subject for
	// loaded rows, freshly generated for manually added ones.
	ID id.ID `json:"id"`

	// SubjectID is nil-UUID while no material/product is selected
	SubjectID id.ID             `json:"subjectId"`
	Kind      stock.SubjectKind `json:"subjectKind"`

	Code     string `json:"code,omitempty"`
	Name     string `json:"name,omitempty"`
	UnitID   *id.ID `json:"unitId,omitempty"`
	UnitName string `json:"unitName,omitempty"`

	// OrderQuantity is the total the source order asks for (0 for manual
	// rows); ExportedQuantity is what prior issue notes already covered.
	OrderQuantity    types.Quantity `json:"orderQuantity"`
	ExportedQuantity types.Quantity `json:"exportedQuantity"`

	Allocations []WarehouseAllocation `json:"allocations"`
}

// PendingQuantity is always derived, never stored: what is still owed
// against the order. Negative values surface upstream inconsistencies and
// are deliberately not clamped.
func (l LineItem) PendingQuantity() types.Quantity {
	return l.OrderQuantity - l.ExportedQuantity
}

// HasSubject reports whether a material/product has been selected.
func (l LineItem) HasSubject() bool {
	return !id.IsNil(l.SubjectID)
}

// clone returns a deep copy; allocations are the only reference field.
func (l LineItem) clone() LineItem {
	out := l
	out.Allocations = make([]WarehouseAllocation, len(l.Allocations))
	copy(out.Allocations, l.Allocations)
	return out
}

// cloneRows copies the slice so mutators never alias their input.
func cloneRows(rows []LineItem) []LineItem {
	out := make([]LineItem, len(rows))
	copy(out, rows)
	return out
}

// ExpectedReturnLine records a material expected back from an outsourcing
// processor. Independent of the export table.
type ExpectedReturnLine struct {
	MaterialID id.ID          `json:"materialId"`
	Quantity   types.Quantity `json:"quantity"`
}
