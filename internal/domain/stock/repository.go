package stock

import (
	"context"

	"outflow/internal/core/id"
)

// Repository defines the persistence contract for the stock register.
type Repository interface {
	// BalancesBySubject returns per-warehouse balances for one subject.
	// When scopeOrderID is set, order-earmarked stock for that order is
	// included on top of free stock.
	BalancesBySubject(ctx context.Context, subjectID id.ID, kind SubjectKind, scopeOrderID *id.ID) ([]Balance, error)

	// BalancesByWarehouse returns non-zero balances held at a warehouse.
	BalancesByWarehouse(ctx context.Context, warehouseID id.ID) ([]Balance, error)

	// CreateMovements records movements and applies them to balances.
	// Expense movements that would push a balance negative fail the whole
	// batch.
	CreateMovements(ctx context.Context, movements []Movement) error

	// DeleteMovementsByRecorder removes a document's movements and reverses
	// their balance effect.
	DeleteMovementsByRecorder(ctx context.Context, recorderID id.ID) error
}
