package issuenote

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outflow/internal/core/id"
	"outflow/internal/domain/orders"
	"outflow/internal/domain/stock"
)

type fakeOrderSource struct {
	lines []orders.Line
	err   error
}

func (f *fakeOrderSource) OrderLines(ctx context.Context, orderType orders.Type, orderID id.ID) ([]orders.Line, error) {
	return f.lines, f.err
}

type fakeStockLookup struct {
	balances map[id.ID][]stock.Balance
	err      error
}

func (f *fakeStockLookup) BalancesBySubject(ctx context.Context, subjectID id.ID, kind stock.SubjectKind, scopeOrderID *id.ID) ([]stock.Balance, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.balances[subjectID], nil
}

func orderLine(subjectID id.ID, required, received float64) orders.Line {
	return orders.Line{
		LineID:           id.New(),
		SubjectID:        subjectID,
		Kind:             stock.KindMaterial,
		SubjectCode:      "M",
		RequiredQuantity: qty(required),
		ReceivedQuantity: qty(received),
	}
}

func TestLoadLines_EnrichesRowsWithBalances(t *testing.T) {
	m1 := id.New()
	wh := id.New()

	loader := NewSourceLoader(
		&fakeOrderSource{lines: []orders.Line{orderLine(m1, 10, 2)}},
		&fakeStockLookup{balances: map[id.ID][]stock.Balance{
			m1: {{WarehouseID: wh, WarehouseName: "main", SubjectID: m1, Kind: stock.KindMaterial, Quantity: qty(30)}},
		}},
	)

	rows, err := loader.LoadLines(context.Background(), CategoryProduction, id.New())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Len(t, rows[0].Allocations, 1)
	assert.False(t, rows[0].Allocations[0].IsPlaceholder())
	assert.Equal(t, qty(30), rows[0].Allocations[0].AvailableQuantity)
	assert.Equal(t, "main", rows[0].Allocations[0].WarehouseName)
}

func TestLoadLines_OrderFailureBlocksLoad(t *testing.T) {
	loader := NewSourceLoader(
		&fakeOrderSource{err: errors.New("connection refused")},
		&fakeStockLookup{},
	)

	_, err := loader.LoadLines(context.Background(), CategorySales, id.New())
	require.Error(t, err)
}

func TestLoadLines_StockFailureDegradesToPlaceholder(t *testing.T) {
	m1 := id.New()

	loader := NewSourceLoader(
		&fakeOrderSource{lines: []orders.Line{orderLine(m1, 10, 0)}},
		&fakeStockLookup{err: errors.New("timeout")},
	)

	rows, err := loader.LoadLines(context.Background(), CategoryProduction, id.New())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Len(t, rows[0].Allocations, 1)
	assert.True(t, rows[0].Allocations[0].IsPlaceholder())
}

func TestLoadLines_RejectsNonOrderCategory(t *testing.T) {
	loader := NewSourceLoader(&fakeOrderSource{}, &fakeStockLookup{})

	_, err := loader.LoadLines(context.Background(), CategoryOther, id.New())
	require.Error(t, err)
}

func TestSubjectAllocations_EmptySnapshotYieldsPlaceholder(t *testing.T) {
	loader := NewSourceLoader(&fakeOrderSource{}, &fakeStockLookup{balances: map[id.ID][]stock.Balance{}})

	allocs, err := loader.SubjectAllocations(context.Background(), id.New(), stock.KindMaterial)
	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.True(t, allocs[0].IsPlaceholder())
}
