package issuenote

import (
	"context"
	"time"

	"outflow/internal/core/id"
	"outflow/internal/domain"
)

// ListFilter narrows issue-note listings.
type ListFilter struct {
	domain.ListFilter

	Category      Category
	SourceOrderID *id.ID
	PartnerID     *id.ID
	DateFrom      *time.Time
	DateTo        *time.Time
}

// Repository persists issue notes. Line and return collections are saved
// atomically with the header inside the caller's transaction.
type Repository interface {
	Create(ctx context.Context, note *IssueNote) error
	Update(ctx context.Context, note *IssueNote) error
	GetByID(ctx context.Context, noteID id.ID) (*IssueNote, error)
	GetLines(ctx context.Context, noteID id.ID) ([]IssueLine, error)
	GetReturns(ctx context.Context, noteID id.ID) ([]ReturnLine, error)
	Delete(ctx context.Context, noteID id.ID) error
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*IssueNote], error)
}
