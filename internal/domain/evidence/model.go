// Package evidence stores files attached to issue notes (signed slips,
// photos of the outgoing goods). Files are uploaded first and linked to a
// note at submission time.
package evidence

import (
	"context"
	"time"

	"outflow/internal/core/apperror"
	"outflow/internal/core/id"
)

// maxFileSize caps a single upload at 10 MiB.
const maxFileSize = 10 << 20

// File is the metadata row for one stored attachment. NoteID is nil until
// the file is linked to a committed note; unlinked files are garbage.
type File struct {
	ID     id.ID  `db:"id" json:"id"`
	NoteID *id.ID `db:"note_id" json:"noteId,omitempty"`

	FileName    string `db:"file_name" json:"fileName"`
	ContentType string `db:"content_type" json:"contentType"`
	SizeBytes   int64  `db:"size_bytes" json:"sizeBytes"`

	// StoragePath is relative to the configured storage root
	StoragePath string `db:"storage_path" json:"-"`

	UploadedBy string    `db:"uploaded_by" json:"uploadedBy,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// Upload is the inbound file content.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Validate checks an upload before anything touches disk.
func (u Upload) Validate(ctx context.Context) error {
	if u.FileName == "" {
		return apperror.NewValidation("file name is required")
	}
	if len(u.Data) == 0 {
		return apperror.NewValidation("file is empty").
			WithDetail("file_name", u.FileName)
	}
	if len(u.Data) > maxFileSize {
		return apperror.NewValidation("file is too large").
			WithDetail("file_name", u.FileName).
			WithDetail("max_bytes", maxFileSize)
	}
	return nil
}
