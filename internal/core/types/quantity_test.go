package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "integer", input: "5", want: 50_000},
		{name: "decimal", input: "2.5", want: 25_000},
		{name: "four digits", input: "0.0001", want: 1},
		{name: "extra digits truncated", input: "1.23456", want: 12_345},
		{name: "leading plus", input: "+3", want: 30_000},
		{name: "negative", input: "-1.5", want: -15_000},
		{name: "bare dot fraction", input: ".5", want: 5_000},
		{name: "surrounding whitespace", input: "  7  ", want: 70_000},
		{name: "exponent form", input: "1e2", want: 1_000_000},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "abc", wantErr: true},
		{name: "two dots", input: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQuantity(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Int64Scaled())
		})
	}
}

func TestQuantity_String(t *testing.T) {
	assert.Equal(t, "2.5000", NewQuantityFromFloat64(2.5).String())
	assert.Equal(t, "0.0000", Quantity(0).String())
	assert.Equal(t, "-1.2500", NewQuantityFromFloat64(-1.25).String())
	assert.Equal(t, "0.0001", Quantity(1).String())
	assert.Equal(t, "-0.0001", Quantity(-1).String())
}

func TestQuantity_JSONRoundTrip(t *testing.T) {
	type doc struct {
		Qty Quantity `json:"qty"`
	}

	data, err := json.Marshal(doc{Qty: NewQuantityFromFloat64(12.34)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"qty":12.3400}`, string(data))

	var decoded doc
	require.NoError(t, json.Unmarshal([]byte(`{"qty":"3.25"}`), &decoded))
	assert.Equal(t, int64(32_500), decoded.Qty.Int64Scaled())

	require.NoError(t, json.Unmarshal([]byte(`{"qty":null}`), &decoded))
	assert.True(t, decoded.Qty.IsZero())
}

func TestQuantity_Min(t *testing.T) {
	a := NewQuantityFromFloat64(3)
	b := NewQuantityFromFloat64(7)

	assert.Equal(t, a, a.Min(b))
	assert.Equal(t, a, b.Min(a))
}

func TestQuantity_FloatConstructionRounds(t *testing.T) {
	// 0.1 is not representable in binary; fixed-point storage must not drift.
	q := NewQuantityFromFloat64(0.1)
	assert.Equal(t, int64(1_000), q.Int64Scaled())

	sum := Quantity(0)
	for i := 0; i < 10; i++ {
		sum += q
	}
	assert.Equal(t, "1.0000", sum.String())
}
