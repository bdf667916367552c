package issuenote

import (
	"context"

	"outflow/internal/core/id"
	"outflow/internal/core/types"
	"outflow/internal/domain/orders"
	"outflow/internal/domain/stock"
	"outflow/pkg/logger"
)

// SourceDetail is one raw order detail entry before aggregation. Several
// entries may name the same subject.
type SourceDetail struct {
	SubjectID id.ID
	Kind      stock.SubjectKind
	Code      string
	Name      string
	UnitID    *id.ID
	UnitName  string

	RequiredQuantity types.Quantity
	ReceivedQuantity types.Quantity
}

// detailFromOrderLine converts an order line into a normalizer input.
func detailFromOrderLine(l orders.Line) SourceDetail {
	return SourceDetail{
		SubjectID:        l.SubjectID,
		Kind:             l.Kind,
		Code:             l.SubjectCode,
		Name:             l.SubjectName,
		UnitID:           l.UnitID,
		UnitName:         l.UnitName,
		RequiredQuantity: l.RequiredQuantity,
		ReceivedQuantity: l.ReceivedQuantity,
	}
}

// Normalize collapses raw source details into one aggregated line item per
// distinct subject. Quantities are summed, so the result is independent of
// input order. Rows keep their first-appearance position; each loaded row's
// ID is derived from its subject so reloads are stable.
//
// Malformed entries (nil subject) are skipped with a warning; empty input
// yields an empty list, never an error.
func Normalize(ctx context.Context, details []SourceDetail) []LineItem {
	if len(details) == 0 {
		logger.Warn(ctx, "normalize called with no source details")
		return []LineItem{}
	}

	rows := make([]LineItem, 0, len(details))
	index := make(map[id.ID]int, len(details))

	for _, d := range details {
		if id.IsNil(d.SubjectID) {
			logger.Warn(ctx, "skipping source detail with empty subject",
				"code", d.Code,
			)
			continue
		}

		if i, ok := index[d.SubjectID]; ok {
			rows[i].OrderQuantity += d.RequiredQuantity
			rows[i].ExportedQuantity += d.ReceivedQuantity
			continue
		}

		index[d.SubjectID] = len(rows)
		rows = append(rows, LineItem{
			ID:               d.SubjectID,
			SubjectID:        d.SubjectID,
			Kind:             d.Kind,
			Code:             d.Code,
			Name:             d.Name,
			UnitID:           d.UnitID,
			UnitName:         d.UnitName,
			OrderQuantity:    d.RequiredQuantity,
			ExportedQuantity: d.ReceivedQuantity,
			Allocations:      []WarehouseAllocation{placeholderAllocation()},
		})
	}

	return rows
}
