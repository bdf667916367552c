package issuenote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outflow/internal/core/id"
	"outflow/internal/domain/stock"
)

func TestBuildPayload_SkipsPlaceholdersAndZeroQuantities(t *testing.T) {
	wh1 := id.New()
	subjectID := id.New()
	fallbackUnit := id.New()

	rows := []LineItem{{
		ID:        subjectID,
		SubjectID: subjectID,
		Kind:      stock.KindMaterial,
		Allocations: []WarehouseAllocation{
			{WarehouseID: &wh1, AvailableQuantity: qty(20), ExportQuantity: qty(5)},
			placeholderAllocation(),
		},
	}}

	p := BuildPayload(rows, CategoryProduction, nil, fallbackUnit)

	require.Len(t, p.Details, 1)
	assert.Equal(t, wh1, p.Details[0].WarehouseID)
	assert.Equal(t, qty(5), p.Details[0].Quantity)
	require.NotNil(t, p.Details[0].MaterialID)
	assert.Equal(t, subjectID, *p.Details[0].MaterialID)
	assert.Nil(t, p.Details[0].ProductID)
}

func TestBuildPayload_DeterministicRowThenWarehouseOrder(t *testing.T) {
	whA, whB := id.New(), id.New()
	s1, s2 := id.New(), id.New()
	fallbackUnit := id.New()

	rows := []LineItem{
		{
			ID: s1, SubjectID: s1, Kind: stock.KindMaterial,
			Allocations: []WarehouseAllocation{
				{WarehouseID: &whA, ExportQuantity: qty(1)},
				{WarehouseID: &whB, ExportQuantity: qty(2)},
			},
		},
		{
			ID: s2, SubjectID: s2, Kind: stock.KindMaterial,
			Allocations: []WarehouseAllocation{
				{WarehouseID: &whA, ExportQuantity: qty(3)},
			},
		},
	}

	p := BuildPayload(rows, CategoryProduction, nil, fallbackUnit)

	require.Len(t, p.Details, 3)
	assert.Equal(t, qty(1), p.Details[0].Quantity)
	assert.Equal(t, qty(2), p.Details[1].Quantity)
	assert.Equal(t, qty(3), p.Details[2].Quantity)
	assert.Equal(t, whA, p.Details[0].WarehouseID)
	assert.Equal(t, whB, p.Details[1].WarehouseID)
}

func TestBuildPayload_CategoryPicksSubjectColumn(t *testing.T) {
	wh := id.New()
	subjectID := id.New()
	fallbackUnit := id.New()

	rows := []LineItem{{
		ID: subjectID, SubjectID: subjectID, Kind: stock.KindProduct,
		Allocations: []WarehouseAllocation{
			{WarehouseID: &wh, ExportQuantity: qty(4)},
		},
	}}

	p := BuildPayload(rows, CategorySales, nil, fallbackUnit)
	require.Len(t, p.Details, 1)
	assert.NotNil(t, p.Details[0].ProductID)
	assert.Nil(t, p.Details[0].MaterialID)

	p = BuildPayload(rows, CategoryPurchaseReturn, nil, fallbackUnit)
	require.Len(t, p.Details, 1)
	assert.NotNil(t, p.Details[0].MaterialID)
	assert.Nil(t, p.Details[0].ProductID)
}

func TestBuildPayload_OtherCategoryUsesRowKind(t *testing.T) {
	wh := id.New()
	matID, prodID := id.New(), id.New()
	fallbackUnit := id.New()

	rows := []LineItem{
		{
			ID: matID, SubjectID: matID, Kind: stock.KindMaterial,
			Allocations: []WarehouseAllocation{{WarehouseID: &wh, ExportQuantity: qty(1)}},
		},
		{
			ID: prodID, SubjectID: prodID, Kind: stock.KindProduct,
			Allocations: []WarehouseAllocation{{WarehouseID: &wh, ExportQuantity: qty(2)}},
		},
	}

	p := BuildPayload(rows, CategoryOther, nil, fallbackUnit)

	require.Len(t, p.Details, 2)
	assert.NotNil(t, p.Details[0].MaterialID)
	assert.NotNil(t, p.Details[1].ProductID)
}

func TestBuildPayload_MissingUnitFallsBack(t *testing.T) {
	wh := id.New()
	subjectID := id.New()
	unitID := id.New()
	fallbackUnit := id.New()

	withUnit := []LineItem{{
		ID: subjectID, SubjectID: subjectID, Kind: stock.KindMaterial, UnitID: &unitID,
		Allocations: []WarehouseAllocation{{WarehouseID: &wh, ExportQuantity: qty(1)}},
	}}
	p := BuildPayload(withUnit, CategoryProduction, nil, fallbackUnit)
	require.Len(t, p.Details, 1)
	assert.Equal(t, unitID, p.Details[0].UnitID)

	withoutUnit := []LineItem{{
		ID: subjectID, SubjectID: subjectID, Kind: stock.KindMaterial,
		Allocations: []WarehouseAllocation{{WarehouseID: &wh, ExportQuantity: qty(1)}},
	}}
	p = BuildPayload(withoutUnit, CategoryProduction, nil, fallbackUnit)
	require.Len(t, p.Details, 1)
	assert.Equal(t, fallbackUnit, p.Details[0].UnitID)
}

func TestBuildPayload_ReturnsOnlyForOutsourcing(t *testing.T) {
	wh := id.New()
	subjectID := id.New()
	returns := []ExpectedReturnLine{{MaterialID: id.New(), Quantity: qty(3)}}

	rows := []LineItem{{
		ID: subjectID, SubjectID: subjectID, Kind: stock.KindMaterial,
		Allocations: []WarehouseAllocation{{WarehouseID: &wh, ExportQuantity: qty(1)}},
	}}

	p := BuildPayload(rows, CategoryOutsourcing, returns, id.New())
	require.Len(t, p.Returns, 1)
	assert.True(t, p.Returns[0].ReceivedQuantity.IsZero())

	p = BuildPayload(rows, CategoryProduction, returns, id.New())
	assert.Empty(t, p.Returns)
}
