package issuenote

import (
	"context"

	"outflow/internal/core/apperror"
	"outflow/internal/core/entity"
	"outflow/internal/core/id"
	"outflow/internal/core/types"
	"outflow/internal/domain/stock"
)

// RecorderType identifies issue notes in the stock register.
const RecorderType = "issue_note"

// IssueNote is the goods-out slip: a posted record of quantities issued from
// warehouses, optionally against a source order.
type IssueNote struct {
	entity.Document

	Category Category `db:"category" json:"category"`

	// SourceOrderID is set for sales and production issues
	SourceOrderID *id.ID `db:"source_order_id" json:"sourceOrderId,omitempty"`

	// PartnerID is set for outsourcing and purchase-return issues
	PartnerID *id.ID `db:"partner_id" json:"partnerId,omitempty"`

	// Receiver is the free-form name of whoever takes the goods
	Receiver string `db:"receiver" json:"receiver,omitempty"`

	// TotalQuantity is the sum over all lines, denormalized for lists
	TotalQuantity types.Quantity `db:"total_quantity" json:"totalQuantity"`

	Lines           []IssueLine  `db:"-" json:"lines,omitempty"`
	ExpectedReturns []ReturnLine `db:"-" json:"expectedReturns,omitempty"`
}

// IssueLine is one issued allocation. Exactly one of MaterialID/ProductID is
// set.
type IssueLine struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	NoteID id.ID `db:"note_id" json:"noteId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	WarehouseID id.ID  `db:"warehouse_id" json:"warehouseId"`
	MaterialID  *id.ID `db:"material_id" json:"materialId,omitempty"`
	ProductID   *id.ID `db:"product_id" json:"productId,omitempty"`

	UnitID   id.ID          `db:"unit_id" json:"unitId"`
	Quantity types.Quantity `db:"quantity" json:"quantity"`
}

// ReturnLine is one expected-return record on an outsourcing issue.
// ReceivedQuantity grows as the processor sends material back.
type ReturnLine struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	NoteID id.ID `db:"note_id" json:"noteId"`

	MaterialID       id.ID          `db:"material_id" json:"materialId"`
	Quantity         types.Quantity `db:"quantity" json:"quantity"`
	ReceivedQuantity types.Quantity `db:"received_quantity" json:"receivedQuantity"`
}

// newNote assembles an issue note from a validated form state and its built
// payload.
func newNote(state FormState, payload Payload) *IssueNote {
	note := &IssueNote{
		Document:      entity.NewDocument(),
		Category:      state.Category,
		SourceOrderID: state.SourceOrderID,
		PartnerID:     state.PartnerID,
		Receiver:      state.Receiver,
	}
	if !state.Date.IsZero() {
		note.Date = state.Date
	}
	note.Comment = state.Comment

	note.Lines = make([]IssueLine, 0, len(payload.Details))
	for i, d := range payload.Details {
		note.Lines = append(note.Lines, IssueLine{
			LineID:      id.New(),
			NoteID:      note.ID,
			LineNo:      i + 1,
			WarehouseID: d.WarehouseID,
			MaterialID:  d.MaterialID,
			ProductID:   d.ProductID,
			UnitID:      d.UnitID,
			Quantity:    d.Quantity,
		})
	}

	note.ExpectedReturns = make([]ReturnLine, 0, len(payload.Returns))
	for _, r := range payload.Returns {
		note.ExpectedReturns = append(note.ExpectedReturns, ReturnLine{
			LineID:     id.New(),
			NoteID:     note.ID,
			MaterialID: r.MaterialID,
			Quantity:   r.Quantity,
		})
	}

	note.recalcTotals()
	return note
}

func (n *IssueNote) recalcTotals() {
	var total types.Quantity
	for _, l := range n.Lines {
		total += l.Quantity
	}
	n.TotalQuantity = total
}

// Validate implements Validatable.
func (n *IssueNote) Validate(ctx context.Context) error {
	if err := n.Document.Validate(ctx); err != nil {
		return err
	}
	if !n.Category.Valid() {
		return apperror.NewValidation("invalid issue category").
			WithDetail("value", string(n.Category))
	}
	if n.Category.RequiresSourceOrder() && (n.SourceOrderID == nil || id.IsNil(*n.SourceOrderID)) {
		return apperror.NewValidation("reference order is required").
			WithDetail("field", "source_order_id")
	}
	if n.Category.RequiresPartner() && (n.PartnerID == nil || id.IsNil(*n.PartnerID)) {
		return apperror.NewValidation("partner is required").
			WithDetail("field", "partner_id")
	}
	if n.Category == CategoryOutsourcing && len(n.ExpectedReturns) == 0 {
		return apperror.NewValidation("at least one expected return is required").
			WithDetail("field", "expected_returns")
	}
	if len(n.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}
	for i, l := range n.Lines {
		if id.IsNil(l.WarehouseID) {
			return apperror.NewValidation("line warehouse is required").
				WithDetail("line", i+1)
		}
		if (l.MaterialID == nil) == (l.ProductID == nil) {
			return apperror.NewValidation("line must reference exactly one material or product").
				WithDetail("line", i+1)
		}
		if !l.Quantity.IsPositive() {
			return apperror.NewValidation("line quantity must be positive").
				WithDetail("line", i+1)
		}
	}
	return nil
}

// Movements builds the expense register records this note posts.
func (n *IssueNote) Movements() []stock.Movement {
	movements := make([]stock.Movement, 0, len(n.Lines))
	for _, l := range n.Lines {
		subjectID := id.Nil()
		kind := stock.KindMaterial
		if l.ProductID != nil {
			subjectID = *l.ProductID
			kind = stock.KindProduct
		} else if l.MaterialID != nil {
			subjectID = *l.MaterialID
		}
		movements = append(movements, stock.NewExpense(
			n.ID, RecorderType, n.Date, l.WarehouseID, subjectID, kind, l.Quantity,
		))
	}
	return movements
}
