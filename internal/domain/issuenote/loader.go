package issuenote

import (
	"context"
	"fmt"

	"outflow/internal/core/apperror"
	"outflow/internal/core/id"
	"outflow/internal/domain/orders"
	"outflow/internal/domain/stock"
	"outflow/pkg/logger"
)

// OrderSource yields the detail lines of a reference order. Satisfied by the
// orders service.
type OrderSource interface {
	OrderLines(ctx context.Context, orderType orders.Type, orderID id.ID) ([]orders.Line, error)
}

// StockLookup yields per-warehouse balances for one subject. Satisfied by
// the stock service. scopeOrderID narrows the snapshot to stock reserved for
// that order when set.
type StockLookup interface {
	BalancesBySubject(ctx context.Context, subjectID id.ID, kind stock.SubjectKind, scopeOrderID *id.ID) ([]stock.Balance, error)
}

// SourceLoader builds the initial drafting table from a reference order:
// order lines are aggregated per subject and each row is enriched with its
// per-warehouse stock snapshot.
type SourceLoader struct {
	orders OrderSource
	stock  StockLookup
}

// NewSourceLoader creates a new source loader.
func NewSourceLoader(orderSource OrderSource, stockLookup StockLookup) *SourceLoader {
	return &SourceLoader{orders: orderSource, stock: stockLookup}
}

// LoadLines fetches the order's details and returns the aggregated, enriched
// rows. A failure fetching the order details blocks the whole load; a stock
// lookup failure for one row only degrades that row to the zero-stock
// placeholder.
func (l *SourceLoader) LoadLines(ctx context.Context, category Category, orderID id.ID) ([]LineItem, error) {
	orderType, ok := orderTypeFor(category)
	if !ok {
		return nil, apperror.NewValidation("category does not use a reference order").
			WithDetail("category", string(category))
	}

	lines, err := l.orders.OrderLines(ctx, orderType, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order lines: %w", err)
	}

	details := make([]SourceDetail, 0, len(lines))
	for _, line := range lines {
		details = append(details, detailFromOrderLine(line))
	}
	rows := Normalize(ctx, details)

	for i, row := range rows {
		balances, err := l.stock.BalancesBySubject(ctx, row.SubjectID, row.Kind, &orderID)
		if err != nil {
			logger.Warn(ctx, "stock lookup failed, keeping placeholder",
				"subject_id", row.SubjectID,
				"error", err,
			)
			continue
		}
		if allocs := allocationsFromBalances(balances); len(allocs) > 0 {
			rows[i].Allocations = allocs
		}
	}

	return rows, nil
}

// SubjectAllocations fetches the unscoped stock snapshot for one subject,
// used when a subject is picked manually on a row.
func (l *SourceLoader) SubjectAllocations(ctx context.Context, subjectID id.ID, kind stock.SubjectKind) ([]WarehouseAllocation, error) {
	balances, err := l.stock.BalancesBySubject(ctx, subjectID, kind, nil)
	if err != nil {
		return nil, fmt.Errorf("stock lookup: %w", err)
	}
	allocs := allocationsFromBalances(balances)
	if len(allocs) == 0 {
		allocs = []WarehouseAllocation{placeholderAllocation()}
	}
	return allocs, nil
}

// allocationsFromBalances maps a balance snapshot to editable allocations.
func allocationsFromBalances(balances []stock.Balance) []WarehouseAllocation {
	allocs := make([]WarehouseAllocation, 0, len(balances))
	for _, b := range balances {
		whID := b.WarehouseID
		allocs = append(allocs, WarehouseAllocation{
			WarehouseID:       &whID,
			WarehouseName:     b.WarehouseName,
			AvailableQuantity: b.Quantity,
		})
	}
	return allocs
}
