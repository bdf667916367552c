package orders

import (
	"context"
	"fmt"

	"outflow/internal/core/apperror"
	"outflow/internal/core/id"
	"outflow/internal/domain"
)

// Service provides read operations over source orders. Orders are created by
// an upstream system; this service only consumes them.
type Service struct {
	repo Repository
}

// NewService creates a new orders service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetByID retrieves an order with its detail lines.
func (s *Service) GetByID(ctx context.Context, orderID id.ID) (*Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	order.Lines = lines

	return order, nil
}

// OrderLines returns the detail lines of an order, checking the order is of
// the expected type. This is the order-source lookup the issue-note draft
// flow runs when a reference order is selected.
func (s *Service) OrderLines(ctx context.Context, orderType Type, orderID id.ID) ([]Line, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Type != orderType {
		return nil, apperror.NewValidation("order type does not match issue category").
			WithDetail("order_id", orderID.String()).
			WithDetail("expected", string(orderType)).
			WithDetail("actual", string(order.Type))
	}
	return s.repo.GetLines(ctx, orderID)
}

// ListOpen returns open orders of a type for the reference-order picker.
func (s *Service) ListOpen(ctx context.Context, orderType Type, search string, limit, offset int) (domain.ListResult[*Order], error) {
	if !orderType.Valid() {
		return domain.ListResult[*Order]{}, apperror.NewValidation("invalid order type").
			WithDetail("value", string(orderType))
	}

	filter := ListFilter{ListFilter: domain.DefaultListFilter()}
	filter.Search = search
	filter.Type = orderType
	filter.Status = StatusOpen
	filter.OrderBy = "-date"
	if limit > 0 {
		filter.Limit = limit
	}
	filter.Offset = offset

	return s.repo.List(ctx, filter)
}
