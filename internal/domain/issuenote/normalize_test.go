package issuenote

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outflow/internal/core/id"
	"outflow/internal/core/types"
	"outflow/internal/domain/stock"
)

func qty(v float64) types.Quantity {
	return types.NewQuantityFromFloat64(v)
}

func detail(subjectID id.ID, code string, required, received float64) SourceDetail {
	return SourceDetail{
		SubjectID:        subjectID,
		Kind:             stock.KindMaterial,
		Code:             code,
		Name:             "material " + code,
		RequiredQuantity: qty(required),
		ReceivedQuantity: qty(received),
	}
}

func TestNormalize_AggregatesDuplicateSubjects(t *testing.T) {
	ctx := context.Background()
	m1 := id.New()
	m2 := id.New()

	rows := Normalize(ctx, []SourceDetail{
		detail(m1, "M1", 10, 2),
		detail(m2, "M2", 5, 0),
		detail(m1, "M1", 8, 1),
	})

	require.Len(t, rows, 2)

	assert.Equal(t, m1, rows[0].ID)
	assert.Equal(t, qty(18), rows[0].OrderQuantity)
	assert.Equal(t, qty(3), rows[0].ExportedQuantity)
	assert.Equal(t, qty(15), rows[0].PendingQuantity())

	assert.Equal(t, m2, rows[1].ID)
	assert.Equal(t, qty(5), rows[1].OrderQuantity)
}

func TestNormalize_OrderIndependentTotals(t *testing.T) {
	ctx := context.Background()
	m1 := id.New()
	m2 := id.New()

	details := []SourceDetail{
		detail(m1, "M1", 10, 2),
		detail(m2, "M2", 5, 0),
		detail(m1, "M1", 8, 1),
	}
	reversed := []SourceDetail{details[2], details[1], details[0]}

	a := Normalize(ctx, details)
	b := Normalize(ctx, reversed)

	require.Len(t, a, 2)
	require.Len(t, b, 2)

	totals := func(rows []LineItem) map[id.ID][2]types.Quantity {
		out := make(map[id.ID][2]types.Quantity)
		for _, r := range rows {
			out[r.SubjectID] = [2]types.Quantity{r.OrderQuantity, r.ExportedQuantity}
		}
		return out
	}
	assert.Equal(t, totals(a), totals(b))
}

func TestNormalize_EmptyInputYieldsEmptyList(t *testing.T) {
	rows := Normalize(context.Background(), nil)
	require.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestNormalize_SkipsNilSubject(t *testing.T) {
	m1 := id.New()
	rows := Normalize(context.Background(), []SourceDetail{
		{Code: "BROKEN", RequiredQuantity: qty(3)},
		detail(m1, "M1", 10, 0),
	})

	require.Len(t, rows, 1)
	assert.Equal(t, m1, rows[0].SubjectID)
}

func TestNormalize_RowsStartWithPlaceholder(t *testing.T) {
	rows := Normalize(context.Background(), []SourceDetail{detail(id.New(), "M1", 10, 0)})

	require.Len(t, rows, 1)
	require.Len(t, rows[0].Allocations, 1)
	assert.True(t, rows[0].Allocations[0].IsPlaceholder())
	assert.True(t, rows[0].Allocations[0].AvailableQuantity.IsZero())
}

func TestNormalize_NegativePendingIsNotClamped(t *testing.T) {
	m1 := id.New()
	rows := Normalize(context.Background(), []SourceDetail{detail(m1, "M1", 5, 9)})

	require.Len(t, rows, 1)
	assert.Equal(t, qty(-4), rows[0].PendingQuantity())
}
