package evidence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"outflow/internal/core/appctx"
	"outflow/internal/core/id"
	"outflow/pkg/logger"
)

// Service stores attachment content on disk and metadata in the database.
type Service struct {
	repo Repository
	root string
}

// NewService creates the evidence service. root is the storage directory;
// it is created if missing.
func NewService(repo Repository, root string) (*Service, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &Service{repo: repo, root: root}, nil
}

// Upload validates and stores one file, returning its metadata. The file is
// not yet bound to any note.
func (s *Service) Upload(ctx context.Context, upload Upload) (*File, error) {
	if err := upload.Validate(ctx); err != nil {
		return nil, err
	}

	fileID := id.New()
	// Two-level fanout keeps directories small.
	rel := filepath.Join(fileID.String()[:2], fileID.String())
	abs := filepath.Join(s.root, rel)

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	if err := os.WriteFile(abs, upload.Data, 0o644); err != nil {
		return nil, fmt.Errorf("write file: %w", err)
	}

	file := &File{
		ID:          fileID,
		FileName:    upload.FileName,
		ContentType: upload.ContentType,
		SizeBytes:   int64(len(upload.Data)),
		StoragePath: rel,
		UploadedBy:  appctx.UserID(ctx),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, file); err != nil {
		if rmErr := os.Remove(abs); rmErr != nil {
			logger.Warn(ctx, "orphan file left on disk", "path", rel, "error", rmErr)
		}
		return nil, fmt.Errorf("save file metadata: %w", err)
	}

	logger.Info(ctx, "stored attachment", "file_id", fileID, "file_name", upload.FileName, "size", file.SizeBytes)
	return file, nil
}

// LinkToNote binds previously uploaded files to a committed note.
func (s *Service) LinkToNote(ctx context.Context, noteID id.ID, fileIDs []id.ID) error {
	if len(fileIDs) == 0 {
		return nil
	}
	if err := s.repo.LinkToNote(ctx, noteID, fileIDs); err != nil {
		return fmt.Errorf("link files: %w", err)
	}
	return nil
}

// ListByNote returns the attachments of a note.
func (s *Service) ListByNote(ctx context.Context, noteID id.ID) ([]File, error) {
	return s.repo.ListByNote(ctx, noteID)
}

// Content reads a stored file back.
func (s *Service) Content(ctx context.Context, fileID id.ID) (*File, []byte, error) {
	file, err := s.repo.GetByID(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.root, file.StoragePath))
	if err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}
	return file, data, nil
}

// SweepOrphans deletes metadata of files never linked to a note. Disk blobs
// are left to an out-of-band cleanup.
func (s *Service) SweepOrphans(ctx context.Context, olderThanHours int) error {
	n, err := s.repo.DeleteOrphans(ctx, olderThanHours)
	if err != nil {
		return fmt.Errorf("sweep orphans: %w", err)
	}
	if n > 0 {
		logger.Info(ctx, "swept orphan attachments", "count", n)
	}
	return nil
}
