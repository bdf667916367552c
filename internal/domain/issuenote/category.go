// Package issuenote provides the issue-note (goods-out slip) document and the
// drafting flow that reconciles order lines against per-warehouse stock.
package issuenote

import (
	"outflow/internal/domain/orders"
	"outflow/internal/domain/stock"
)

// Category is the business reason for the issue. It determines which source
// data is loaded and which validation rules apply.
type Category string

const (
	CategorySales          Category = "sales"
	CategoryProduction     Category = "production"
	CategoryOutsourcing    Category = "outsourcing"
	CategoryPurchaseReturn Category = "purchase_return"
	CategoryOther          Category = "other"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategorySales, CategoryProduction, CategoryOutsourcing, CategoryPurchaseReturn, CategoryOther:
		return true
	}
	return false
}

// TracksPending reports whether lines of this category carry a pending
// quantity that caps allocations. Only order-driven categories do.
func (c Category) TracksPending() bool {
	return c == CategorySales || c == CategoryProduction
}

// RequiresSourceOrder reports whether a reference order must be selected.
func (c Category) RequiresSourceOrder() bool {
	return c == CategorySales || c == CategoryProduction
}

// RequiresPartner reports whether a partner (processor or supplier) must be
// selected.
func (c Category) RequiresPartner() bool {
	return c == CategoryOutsourcing || c == CategoryPurchaseReturn
}

// FixedSubjectKind returns the subject kind all lines of this category use.
// The "other" category mixes kinds per row, so ok is false there.
func (c Category) FixedSubjectKind() (kind stock.SubjectKind, ok bool) {
	switch c {
	case CategorySales:
		return stock.KindProduct, true
	case CategoryProduction, CategoryOutsourcing, CategoryPurchaseReturn:
		return stock.KindMaterial, true
	}
	return "", false
}

// orderTypeFor maps an order-driven category to its source order type.
func orderTypeFor(c Category) (orders.Type, bool) {
	switch c {
	case CategorySales:
		return orders.TypeSales, true
	case CategoryProduction:
		return orders.TypeProduction, true
	}
	return "", false
}
