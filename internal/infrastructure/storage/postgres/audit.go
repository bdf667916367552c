package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"outflow/internal/core/appctx"
	"outflow/internal/core/id"
)

// CompressionAlgo specifies the compression algorithm used for a snapshot.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// AuditEntry is one row of the document audit trail. Large snapshots are
// stored zstd-compressed.
type AuditEntry struct {
	ID                 id.ID           `db:"id"`
	Action             string          `db:"action"`
	EntityID           id.ID           `db:"entity_id"`
	UserID             string          `db:"user_id"`
	UserEmail          string          `db:"user_email"`
	Snapshot           json.RawMessage `db:"snapshot"`
	SnapshotCompressed []byte          `db:"snapshot_compressed"`
	CompressionAlgo    CompressionAlgo `db:"compression_algo"`
	CreatedAt          time.Time       `db:"created_at"`
}

// AuditService writes and reads the audit trail. It satisfies the issue-note
// service's AuditLog dependency.
type AuditService struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

// NewAuditService creates the audit service.
func NewAuditService(txManager *TxManager) (*AuditService, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AuditService{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024,
	}, nil
}

// Record stores a snapshot of an entity at the moment of an action.
func (s *AuditService) Record(ctx context.Context, action string, entityID id.ID, payload any) error {
	snapshot, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	entry := AuditEntry{
		ID:              id.New(),
		Action:          action,
		EntityID:        entityID,
		Snapshot:        snapshot,
		CompressionAlgo: CompressionNone,
		CreatedAt:       time.Now().UTC(),
	}
	if u := appctx.GetUser(ctx); u != nil {
		entry.UserID = u.UserID
		entry.UserEmail = u.Email
	}

	if len(entry.Snapshot) > s.compressThreshold {
		entry.SnapshotCompressed = s.encoder.EncodeAll(entry.Snapshot, nil)
		entry.Snapshot = nil
		entry.CompressionAlgo = CompressionZstd
	}

	sql := `
		INSERT INTO sys_audit (
			id, action, entity_id, user_id, user_email,
			snapshot, snapshot_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.txManager.GetQuerier(ctx).Exec(ctx, sql,
		entry.ID, entry.Action, entry.EntityID, entry.UserID, entry.UserEmail,
		entry.Snapshot, entry.SnapshotCompressed, entry.CompressionAlgo, entry.CreatedAt,
	)
	return err
}

// EntityHistory retrieves the audit trail of one entity, newest first.
func (s *AuditService) EntityHistory(ctx context.Context, entityID id.ID, limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	sql := `
		SELECT id, action, entity_id, user_id, user_email,
		       snapshot, snapshot_compressed, compression_algo, created_at
		FROM sys_audit
		WHERE entity_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, sql, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		err := rows.Scan(
			&e.ID, &e.Action, &e.EntityID, &e.UserID, &e.UserEmail,
			&e.Snapshot, &e.SnapshotCompressed, &e.CompressionAlgo, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		if e.CompressionAlgo == CompressionZstd && len(e.SnapshotCompressed) > 0 {
			decompressed, err := s.decoder.DecodeAll(e.SnapshotCompressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress snapshot: %w", err)
			}
			e.Snapshot = decompressed
			e.SnapshotCompressed = nil
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
