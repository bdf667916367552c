package evidence

import (
	"context"

	"outflow/internal/core/id"
)

// Repository persists attachment metadata. File content lives on disk.
type Repository interface {
	Create(ctx context.Context, file *File) error
	GetByID(ctx context.Context, fileID id.ID) (*File, error)
	LinkToNote(ctx context.Context, noteID id.ID, fileIDs []id.ID) error
	ListByNote(ctx context.Context, noteID id.ID) ([]File, error)
	DeleteOrphans(ctx context.Context, olderThanHours int) (int64, error)
}
