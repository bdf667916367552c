package issuenote

import (
	"outflow/internal/core/id"
	"outflow/internal/core/types"
	"outflow/internal/domain/stock"
)

// DetailEntry is one submittable allocation: a concrete warehouse, a
// concrete subject and a committed positive quantity. Exactly one of
// MaterialID/ProductID is set.
type DetailEntry struct {
	WarehouseID id.ID          `json:"warehouseId"`
	MaterialID  *id.ID         `json:"materialId,omitempty"`
	ProductID   *id.ID         `json:"productId,omitempty"`
	Quantity    types.Quantity `json:"quantity"`
	UnitID      id.ID          `json:"unitId"`
}

// ReturnEntry is one expected-return line for outsourcing issues. Nothing
// has come back yet at submission time, so ReceivedQuantity is always 0.
type ReturnEntry struct {
	MaterialID       id.ID          `json:"materialId"`
	Quantity         types.Quantity `json:"quantity"`
	ReceivedQuantity types.Quantity `json:"receivedQuantity"`
}

// Payload is the flattened, deterministic submission shape built from the
// drafting table.
type Payload struct {
	Details []DetailEntry `json:"details"`
	Returns []ReturnEntry `json:"returns,omitempty"`
}

// BuildPayload flattens the drafting rows into submittable detail entries.
//
// Only allocations against a real warehouse with a committed positive
// quantity are emitted. Order is deterministic: rows in table order, then
// each row's allocations in warehouse order. Lines with a missing unit fall
// back to the configured default unit.
func BuildPayload(rows []LineItem, category Category, returns []ExpectedReturnLine, fallbackUnitID id.ID) Payload {
	p := Payload{Details: make([]DetailEntry, 0, len(rows))}

	fixedKind, hasFixed := category.FixedSubjectKind()

	for _, row := range rows {
		if !row.HasSubject() {
			continue
		}
		kind := row.Kind
		if hasFixed {
			kind = fixedKind
		}

		unitID := fallbackUnitID
		if row.UnitID != nil && !id.IsNil(*row.UnitID) {
			unitID = *row.UnitID
		}

		for _, a := range row.Allocations {
			if a.IsPlaceholder() || !a.ExportQuantity.IsPositive() {
				continue
			}
			entry := DetailEntry{
				WarehouseID: *a.WarehouseID,
				Quantity:    a.ExportQuantity,
				UnitID:      unitID,
			}
			subjectID := row.SubjectID
			if kind == stock.KindProduct {
				entry.ProductID = &subjectID
			} else {
				entry.MaterialID = &subjectID
			}
			p.Details = append(p.Details, entry)
		}
	}

	if category == CategoryOutsourcing {
		p.Returns = make([]ReturnEntry, 0, len(returns))
		for _, r := range returns {
			p.Returns = append(p.Returns, ReturnEntry{
				MaterialID: r.MaterialID,
				Quantity:   r.Quantity,
			})
		}
	}

	return p
}
