package issuenote

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outflow/internal/core/id"
	"outflow/internal/domain/stock"
)

func allocation(warehouseID id.ID, available float64) WarehouseAllocation {
	return WarehouseAllocation{
		WarehouseID:       &warehouseID,
		WarehouseName:     "warehouse",
		AvailableQuantity: qty(available),
	}
}

func materialRow(available float64) []LineItem {
	subjectID := id.New()
	return []LineItem{{
		ID:          subjectID,
		SubjectID:   subjectID,
		Kind:        stock.KindMaterial,
		Code:        "M1",
		Allocations: []WarehouseAllocation{allocation(id.New(), available)},
	}}
}

func TestAddRow_AppendsEmptyRowWithPlaceholder(t *testing.T) {
	rows := AddRow(nil, stock.KindMaterial)

	require.Len(t, rows, 1)
	assert.False(t, rows[0].HasSubject())
	require.Len(t, rows[0].Allocations, 1)
	assert.True(t, rows[0].Allocations[0].IsPlaceholder())
}

func TestRemoveRow_IsIdempotent(t *testing.T) {
	rows := materialRow(10)
	rowID := rows[0].ID

	once := RemoveRow(rows, rowID)
	twice := RemoveRow(once, rowID)

	assert.Empty(t, once)
	assert.Empty(t, twice)
}

func TestSetSubject_ResetsExportsAndErrors(t *testing.T) {
	rows := AddRow(nil, stock.KindMaterial)
	rowID := rows[0].ID

	fetched := []WarehouseAllocation{allocation(id.New(), 40)}
	fetched[0].ExportQuantity = qty(7)
	fetched[0].ValidationError = "leftover"

	subject := SubjectRef{ID: id.New(), Kind: stock.KindMaterial, Code: "M9", Name: "bolts"}
	out := SetSubject(rows, rowID, subject, fetched)

	require.Len(t, out, 1)
	assert.Equal(t, subject.ID, out[0].SubjectID)
	require.Len(t, out[0].Allocations, 1)
	assert.True(t, out[0].Allocations[0].ExportQuantity.IsZero())
	assert.Empty(t, out[0].Allocations[0].ValidationError)
}

func TestSetSubject_EmptyAllocationsCollapseToPlaceholder(t *testing.T) {
	rows := AddRow(nil, stock.KindMaterial)
	out := SetSubject(rows, rows[0].ID, SubjectRef{ID: id.New(), Kind: stock.KindMaterial}, nil)

	require.Len(t, out[0].Allocations, 1)
	assert.True(t, out[0].Allocations[0].IsPlaceholder())
}

func TestSetExportQuantity_NonNumericKeepsPriorValue(t *testing.T) {
	rows := materialRow(50)
	rowID := rows[0].ID

	rows = SetExportQuantity(rows, CategoryOther, rowID, 0, "30")
	require.Equal(t, qty(30), rows[0].Allocations[0].ExportQuantity)

	rows = SetExportQuantity(rows, CategoryOther, rowID, 0, "abc")
	assert.Equal(t, "quantity must be a number", rows[0].Allocations[0].ValidationError)
	assert.Equal(t, qty(30), rows[0].Allocations[0].ExportQuantity)
}

func TestSetExportQuantity_RejectsZeroAndNegative(t *testing.T) {
	rows := materialRow(50)
	rowID := rows[0].ID

	rows = SetExportQuantity(rows, CategoryOther, rowID, 0, "0")
	assert.Equal(t, "quantity must be greater than 0", rows[0].Allocations[0].ValidationError)
	assert.True(t, rows[0].Allocations[0].ExportQuantity.IsZero())

	rows = SetExportQuantity(rows, CategoryOther, rowID, 0, "-3")
	assert.Equal(t, "quantity must be greater than 0", rows[0].Allocations[0].ValidationError)
}

func TestSetExportQuantity_BoundedByAvailableStock(t *testing.T) {
	rows := materialRow(50)
	rowID := rows[0].ID

	rows = SetExportQuantity(rows, CategoryOther, rowID, 0, "51")
	assert.Contains(t, rows[0].Allocations[0].ValidationError, "available stock")
	assert.True(t, rows[0].Allocations[0].ExportQuantity.IsZero())

	rows = SetExportQuantity(rows, CategoryOther, rowID, 0, "50")
	assert.Empty(t, rows[0].Allocations[0].ValidationError)
	assert.Equal(t, qty(50), rows[0].Allocations[0].ExportQuantity)
}

func TestSetExportQuantity_PendingCapsOrderDrivenCategories(t *testing.T) {
	// Two source lines for the same material: 10+8 required, 2+1 already
	// issued. Pending is 15 while 50 sits on the shelf.
	m1 := id.New()
	rows := Normalize(context.Background(), []SourceDetail{
		detail(m1, "M1", 10, 2),
		detail(m1, "M1", 8, 1),
	})
	require.Len(t, rows, 1)
	rows[0].Allocations = []WarehouseAllocation{allocation(id.New(), 50)}

	rows = SetExportQuantity(rows, CategoryProduction, rows[0].ID, 0, "20")
	assert.Contains(t, rows[0].Allocations[0].ValidationError, "pending quantity")
	assert.True(t, rows[0].Allocations[0].ExportQuantity.IsZero())

	rows = SetExportQuantity(rows, CategoryProduction, rows[0].ID, 0, "15")
	assert.Empty(t, rows[0].Allocations[0].ValidationError)
	assert.Equal(t, qty(15), rows[0].Allocations[0].ExportQuantity)
}

func TestSetExportQuantity_SuccessClearsPriorError(t *testing.T) {
	rows := materialRow(50)
	rowID := rows[0].ID

	rows = SetExportQuantity(rows, CategoryOther, rowID, 0, "oops")
	require.NotEmpty(t, rows[0].Allocations[0].ValidationError)

	rows = SetExportQuantity(rows, CategoryOther, rowID, 0, "10")
	assert.Empty(t, rows[0].Allocations[0].ValidationError)
	assert.Equal(t, qty(10), rows[0].Allocations[0].ExportQuantity)
}

func TestMutators_DoNotAliasInput(t *testing.T) {
	rows := materialRow(50)
	rowID := rows[0].ID

	out := SetExportQuantity(rows, CategoryOther, rowID, 0, "10")

	assert.True(t, rows[0].Allocations[0].ExportQuantity.IsZero())
	assert.Equal(t, qty(10), out[0].Allocations[0].ExportQuantity)
}
