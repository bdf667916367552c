// Package evidence_repo provides the PostgreSQL implementation for attachment
// metadata.
package evidence_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"outflow/internal/core/apperror"
	"outflow/internal/core/id"
	"outflow/internal/domain/evidence"
	"outflow/internal/infrastructure/storage/postgres"
)

const filesTable = "evidence_files"

var fileColumns = []string{
	"id", "note_id", "file_name", "content_type",
	"size_bytes", "storage_path", "uploaded_by", "created_at",
}

// FileRepo implements evidence.Repository.
type FileRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewFileRepo creates a new file metadata repository.
func NewFileRepo(txm *postgres.TxManager) *FileRepo {
	return &FileRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts file metadata.
func (r *FileRepo) Create(ctx context.Context, file *evidence.File) error {
	q := r.builder.
		Insert(filesTable).
		Columns(fileColumns...).
		Values(
			file.ID, file.NoteID, file.FileName, file.ContentType,
			file.SizeBytes, file.StoragePath, file.UploadedBy, file.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	return nil
}

// GetByID retrieves file metadata.
func (r *FileRepo) GetByID(ctx context.Context, fileID id.ID) (*evidence.File, error) {
	q := r.builder.
		Select(fileColumns...).
		From(filesTable).
		Where(squirrel.Eq{"id": fileID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	file := &evidence.File{}
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), file, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("file", fileID.String())
		}
		return nil, fmt.Errorf("get file: %w", err)
	}
	return file, nil
}

// LinkToNote attaches uploaded files to a note. Files already linked to a
// note are left untouched; a count mismatch is reported as a conflict.
func (r *FileRepo) LinkToNote(ctx context.Context, noteID id.ID, fileIDs []id.ID) error {
	if len(fileIDs) == 0 {
		return nil
	}

	query := `
		UPDATE evidence_files
		SET note_id = $1
		WHERE id = ANY($2) AND note_id IS NULL
	`

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, query, noteID, fileIDs)
	if err != nil {
		return fmt.Errorf("link files: %w", err)
	}

	if int(result.RowsAffected()) != len(fileIDs) {
		return apperror.NewConflict("some files are missing or already linked").
			WithDetail("note_id", noteID.String()).
			WithDetail("linked", result.RowsAffected()).
			WithDetail("requested", len(fileIDs))
	}
	return nil
}

// ListByNote returns all files attached to a note.
func (r *FileRepo) ListByNote(ctx context.Context, noteID id.ID) ([]evidence.File, error) {
	q := r.builder.
		Select(fileColumns...).
		From(filesTable).
		Where(squirrel.Eq{"note_id": noteID}).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var files []evidence.File
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &files, sql, args...); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

// DeleteOrphans removes metadata of files never linked to a note. Returns the
// number of deleted rows; disk cleanup is the caller's job.
func (r *FileRepo) DeleteOrphans(ctx context.Context, olderThanHours int) (int64, error) {
	query := `
		DELETE FROM evidence_files
		WHERE note_id IS NULL AND created_at < now() - make_interval(hours => $1)
	`

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, query, olderThanHours)
	if err != nil {
		return 0, fmt.Errorf("delete orphans: %w", err)
	}
	return result.RowsAffected(), nil
}

// Ensure interface compliance
var _ evidence.Repository = (*FileRepo)(nil)
