package issuenote

import (
	"fmt"

	"outflow/internal/core/id"
	"outflow/internal/core/types"
	"outflow/internal/domain/stock"
)

// Line mutators are pure state transitions over the whole row collection:
// each takes the current rows and returns a fresh collection, never mutating
// its input. The draft session serializes calls and owns the result.

// AddRow appends an empty manual row with a fresh ID and the zero-stock
// placeholder allocation.
func AddRow(rows []LineItem, kind stock.SubjectKind) []LineItem {
	out := cloneRows(rows)
	return append(out, LineItem{
		ID:          id.New(),
		Kind:        kind,
		Allocations: []WarehouseAllocation{placeholderAllocation()},
	})
}

// RemoveRow filters out the row. Removing an absent ID is a no-op.
func RemoveRow(rows []LineItem, rowID id.ID) []LineItem {
	out := make([]LineItem, 0, len(rows))
	for _, r := range rows {
		if r.ID != rowID {
			out = append(out, r)
		}
	}
	return out
}

// SetSubject applies a selected subject and its freshly fetched allocations
// to a row, discarding any prior export quantities and validation errors.
// Empty allocations collapse to the placeholder.
func SetSubject(rows []LineItem, rowID id.ID, subject SubjectRef, allocations []WarehouseAllocation) []LineItem {
	out := cloneRows(rows)
	for i, r := range out {
		if r.ID != rowID {
			continue
		}
		row := r.clone()
		row.SubjectID = subject.ID
		row.Kind = subject.Kind
		row.Code = subject.Code
		row.Name = subject.Name
		row.UnitID = subject.UnitID
		row.UnitName = subject.UnitName
		if len(allocations) == 0 {
			row.Allocations = []WarehouseAllocation{placeholderAllocation()}
		} else {
			row.Allocations = make([]WarehouseAllocation, len(allocations))
			copy(row.Allocations, allocations)
			for j := range row.Allocations {
				row.Allocations[j].ExportQuantity = 0
				row.Allocations[j].ValidationError = ""
			}
		}
		out[i] = row
		break
	}
	return out
}

// ClearSubject resets a row to its unselected state.
func ClearSubject(rows []LineItem, rowID id.ID) []LineItem {
	out := cloneRows(rows)
	for i, r := range out {
		if r.ID != rowID {
			continue
		}
		row := r.clone()
		row.SubjectID = id.Nil()
		row.Code = ""
		row.Name = ""
		row.UnitID = nil
		row.UnitName = ""
		row.OrderQuantity = 0
		row.ExportedQuantity = 0
		row.Allocations = []WarehouseAllocation{placeholderAllocation()}
		out[i] = row
		break
	}
	return out
}

// SetExportQuantity parses and commits an entered export quantity for one
// allocation of one row.
//
// Rejected values (non-numeric, not positive, above the allocation bound)
// are not stored: only the validation error is set and the last committed
// quantity survives. The bound is min(available, pending) for categories
// that track a pending quantity, available stock alone otherwise.
func SetExportQuantity(rows []LineItem, category Category, rowID id.ID, warehouseIndex int, raw string) []LineItem {
	out := cloneRows(rows)
	for i, r := range out {
		if r.ID != rowID {
			continue
		}
		if warehouseIndex < 0 || warehouseIndex >= len(r.Allocations) {
			break
		}

		row := r.clone()
		alloc := &row.Allocations[warehouseIndex]

		parsed, err := types.ParseQuantity(raw)
		switch {
		case err != nil:
			alloc.ValidationError = "quantity must be a number"
		case !parsed.IsPositive():
			alloc.ValidationError = "quantity must be greater than 0"
		default:
			limit := alloc.AvailableQuantity
			limitName := "available stock"
			if category.TracksPending() {
				if pending := row.PendingQuantity(); pending < limit {
					limit = pending
					limitName = "pending quantity"
				}
			}
			if parsed > limit {
				alloc.ValidationError = fmt.Sprintf("quantity exceeds %s (%s)", limitName, limit.String())
			} else {
				alloc.ExportQuantity = parsed
				alloc.ValidationError = ""
			}
		}

		out[i] = row
		break
	}
	return out
}
