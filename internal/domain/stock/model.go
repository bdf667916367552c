// Package stock provides the stock register: per-warehouse balances and the
// movements that change them.
package stock

import (
	"time"

	"outflow/internal/core/id"
	"outflow/internal/core/types"
)

// SubjectKind distinguishes what a balance or movement refers to.
type SubjectKind string

const (
	KindMaterial SubjectKind = "material"
	KindProduct  SubjectKind = "product"
)

// Valid reports whether k is a known subject kind.
func (k SubjectKind) Valid() bool {
	return k == KindMaterial || k == KindProduct
}

// RecordType defines the movement direction.
type RecordType string

const (
	// RecordTypeReceipt increases the balance
	RecordTypeReceipt RecordType = "receipt"
	// RecordTypeExpense decreases the balance
	RecordTypeExpense RecordType = "expense"
)

// Balance is the stock on hand for one subject at one warehouse.
// When scoped to an order it reflects the quantity earmarked for that order
// plus free stock.
type Balance struct {
	WarehouseID   id.ID          `db:"warehouse_id" json:"warehouseId"`
	WarehouseName string         `db:"warehouse_name" json:"warehouseName"`
	SubjectID     id.ID          `db:"subject_id" json:"subjectId"`
	Kind          SubjectKind    `db:"subject_kind" json:"subjectKind"`
	Quantity      types.Quantity `db:"quantity" json:"quantity"`
}

// Movement is one immutable register record. Movements are never updated,
// only deleted and recreated by their recorder document.
type Movement struct {
	LineID id.ID `db:"line_id" json:"lineId"`

	// RecorderID is the document that produced this movement
	RecorderID   id.ID  `db:"recorder_id" json:"recorderId"`
	RecorderType string `db:"recorder_type" json:"recorderType"`

	// Period is the business date, for period-based queries
	Period time.Time `db:"period" json:"period"`

	RecordType RecordType `db:"record_type" json:"recordType"`

	WarehouseID id.ID          `db:"warehouse_id" json:"warehouseId"`
	SubjectID   id.ID          `db:"subject_id" json:"subjectId"`
	Kind        SubjectKind    `db:"subject_kind" json:"subjectKind"`
	Quantity    types.Quantity `db:"quantity" json:"quantity"`

	// ReservedOrderID earmarks a receipt for a specific order. Earmarked
	// stock is invisible to balance snapshots scoped to other orders.
	ReservedOrderID *id.ID `db:"reserved_order_id" json:"reservedOrderId,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewExpense creates an expense movement for a recorder document.
func NewExpense(recorderID id.ID, recorderType string, period time.Time, warehouseID, subjectID id.ID, kind SubjectKind, qty types.Quantity) Movement {
	return Movement{
		LineID:       id.New(),
		RecorderID:   recorderID,
		RecorderType: recorderType,
		Period:       period,
		RecordType:   RecordTypeExpense,
		WarehouseID:  warehouseID,
		SubjectID:    subjectID,
		Kind:         kind,
		Quantity:     qty,
		CreatedAt:    time.Now().UTC(),
	}
}
