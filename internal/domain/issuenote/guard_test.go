package issuenote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outflow/internal/core/id"
	"outflow/internal/domain/stock"
)

func submittableRows() []LineItem {
	wh := id.New()
	subjectID := id.New()
	return []LineItem{{
		ID: subjectID, SubjectID: subjectID, Kind: stock.KindMaterial,
		Allocations: []WarehouseAllocation{
			{WarehouseID: &wh, AvailableQuantity: qty(20), ExportQuantity: qty(5)},
		},
	}}
}

func TestValidate_CategoryCheckedFirst(t *testing.T) {
	// Category and reference order both missing: the category error wins.
	errs := FormState{}.Validate()

	require.Len(t, errs, 1)
	assert.Equal(t, "category", errs[0].Field)
}

func TestValidate_ReferenceOrderRequired(t *testing.T) {
	state := FormState{Category: CategorySales, Rows: submittableRows()}
	errs := state.Validate()

	require.Len(t, errs, 1)
	assert.Equal(t, "source_order_id", errs[0].Field)

	orderID := id.New()
	state.SourceOrderID = &orderID
	assert.Empty(t, state.Validate())
}

func TestValidate_PartnerRequired(t *testing.T) {
	state := FormState{Category: CategoryPurchaseReturn, Rows: submittableRows()}
	errs := state.Validate()

	require.Len(t, errs, 1)
	assert.Equal(t, "partner_id", errs[0].Field)

	partnerID := id.New()
	state.PartnerID = &partnerID
	assert.Empty(t, state.Validate())
}

func TestValidate_ExpectedReturnsMustBeComplete(t *testing.T) {
	partnerID := id.New()
	state := FormState{
		Category:  CategoryOutsourcing,
		PartnerID: &partnerID,
		Rows:      submittableRows(),
		Returns:   []ExpectedReturnLine{{MaterialID: id.New()}},
	}

	errs := state.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "expected_returns", errs[0].Field)

	state.Returns[0].Quantity = qty(2)
	assert.Empty(t, state.Validate())
}

func TestValidate_ExpectedReturnsMustExist(t *testing.T) {
	// Zero return lines is as incomplete as a half-filled one.
	partnerID := id.New()
	state := FormState{
		Category:  CategoryOutsourcing,
		PartnerID: &partnerID,
		Rows:      submittableRows(),
	}

	errs := state.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "expected_returns", errs[0].Field)

	state.Returns = []ExpectedReturnLine{{MaterialID: id.New(), Quantity: qty(2)}}
	assert.Empty(t, state.Validate())
}

func TestValidate_RejectedAllocationBlocksSubmit(t *testing.T) {
	rows := submittableRows()
	rows[0].Allocations[0].ValidationError = "quantity exceeds available stock (20.0000)"

	state := FormState{Category: CategoryOther, Rows: rows}
	errs := state.Validate()

	require.Len(t, errs, 1)
	assert.Equal(t, "rows", errs[0].Field)
	assert.Contains(t, errs[0].Message, "invalid quantities")
}

func TestValidate_OverAllocationCaughtWithoutStoredError(t *testing.T) {
	// A state assembled outside the entry flow carries no ValidationError;
	// the bound itself still holds at submit time.
	rows := submittableRows()
	rows[0].Allocations[0].AvailableQuantity = qty(5)
	rows[0].Allocations[0].ExportQuantity = qty(9)

	state := FormState{Category: CategoryOther, Rows: rows}
	errs := state.Validate()

	require.Len(t, errs, 1)
	assert.Equal(t, "rows", errs[0].Field)
	assert.Contains(t, errs[0].Message, "exceeds available")
}

func TestValidate_AtLeastOneAllocation(t *testing.T) {
	rows := submittableRows()
	rows[0].Allocations[0].ExportQuantity = 0

	state := FormState{Category: CategoryOther, Rows: rows}
	errs := state.Validate()

	require.Len(t, errs, 1)
	assert.Equal(t, "rows", errs[0].Field)
	assert.Contains(t, errs[0].Message, "at least one")
}

func TestValidate_PrecedenceIsStable(t *testing.T) {
	// Everything wrong at once: missing order, missing quantities. The
	// reference-order error is reported, nothing else.
	state := FormState{Category: CategoryProduction}
	errs := state.Validate()

	require.Len(t, errs, 1)
	assert.Equal(t, "source_order_id", errs[0].Field)
}
