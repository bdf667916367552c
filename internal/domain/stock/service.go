package stock

import (
	"context"
	"fmt"

	"outflow/internal/core/apperror"
	"outflow/internal/core/id"
	"outflow/pkg/logger"
)

// Service provides business operations on the stock register.
// Transactions are managed by the caller: movements are recorded inside the
// recorder document's transaction.
type Service struct {
	repo Repository
}

// NewService creates a new stock register service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// BalancesBySubject returns the per-warehouse stock snapshot for a subject.
// This is the lookup the issue-note drafting flow runs per line.
func (s *Service) BalancesBySubject(ctx context.Context, subjectID id.ID, kind SubjectKind, scopeOrderID *id.ID) ([]Balance, error) {
	if id.IsNil(subjectID) {
		return nil, apperror.NewValidation("subject is required")
	}
	if !kind.Valid() {
		return nil, apperror.NewValidation("invalid subject kind").
			WithDetail("value", string(kind))
	}
	return s.repo.BalancesBySubject(ctx, subjectID, kind, scopeOrderID)
}

// BalancesByWarehouse returns all non-zero balances at a warehouse.
func (s *Service) BalancesByWarehouse(ctx context.Context, warehouseID id.ID) ([]Balance, error) {
	return s.repo.BalancesByWarehouse(ctx, warehouseID)
}

// RecordMovements validates and records a batch of movements.
// Called inside the recorder document's transaction.
func (s *Service) RecordMovements(ctx context.Context, movements []Movement) error {
	if len(movements) == 0 {
		return nil
	}

	for i, m := range movements {
		if !m.Quantity.IsPositive() {
			return apperror.NewValidation(fmt.Sprintf("movement %d: quantity must be positive", i))
		}
		if id.IsNil(m.RecorderID) {
			return apperror.NewValidation(fmt.Sprintf("movement %d: recorder_id is required", i))
		}
		if id.IsNil(m.WarehouseID) {
			return apperror.NewValidation(fmt.Sprintf("movement %d: warehouse_id is required", i))
		}
	}

	if err := s.repo.CreateMovements(ctx, movements); err != nil {
		return fmt.Errorf("create movements: %w", err)
	}

	logger.Info(ctx, "recorded stock movements",
		"count", len(movements),
		"recorder_id", movements[0].RecorderID,
	)
	return nil
}

// ReverseMovements removes a document's movements (document deletion).
func (s *Service) ReverseMovements(ctx context.Context, recorderID id.ID) error {
	if err := s.repo.DeleteMovementsByRecorder(ctx, recorderID); err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}
	logger.Info(ctx, "reversed stock movements", "recorder_id", recorderID)
	return nil
}
