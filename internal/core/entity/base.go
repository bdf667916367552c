// Package entity provides the base types for catalogs and documents.
package entity

import (
	"context"
	"time"

	"outflow/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants without database access.
type Validatable interface {
	Validate(ctx context.Context) error
}

// BaseEntity contains fields common to all persisted entities.
type BaseEntity struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// DeletionMark indicates a soft-deleted entity
	DeletionMark bool `db:"deletion_mark" json:"deletionMark"`

	// Version for optimistic locking, incremented on each update
	Version int `db:"version" json:"version"`
}

// NewBaseEntity creates a new BaseEntity with a generated ID.
func NewBaseEntity() BaseEntity {
	return BaseEntity{
		ID:      id.New(),
		Version: 1,
	}
}

// Touch increments the version.
func (b *BaseEntity) Touch() {
	b.Version++
}

// MarkDeleted sets the deletion mark.
func (b *BaseEntity) MarkDeleted() {
	b.DeletionMark = true
}

// SetVersion updates the version number (used by repositories after sync).
func (b *BaseEntity) SetVersion(v int) {
	b.Version = v
}

// BaseDocument extends BaseEntity with audit fields.
type BaseDocument struct {
	BaseEntity

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`
	UpdatedBy string    `db:"updated_by" json:"updatedBy,omitempty"`
}

// NewBaseDocument creates a new BaseDocument with generated ID and timestamps.
func NewBaseDocument() BaseDocument {
	now := time.Now().UTC()
	return BaseDocument{
		BaseEntity: NewBaseEntity(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Touch updates UpdatedAt and increments the version.
func (b *BaseDocument) Touch() {
	b.UpdatedAt = time.Now().UTC()
	b.BaseEntity.Touch()
}
