package dto

import (
	"time"

	"outflow/internal/core/types"
	"outflow/internal/domain/issuenote"
)

// StartDraftResponse returns the new session and its initial state.
type StartDraftResponse struct {
	SessionID string              `json:"sessionId"`
	State     issuenote.FormState `json:"state"`
}

// SetCategoryRequest switches the draft's issue category.
type SetCategoryRequest struct {
	Category string `json:"category" binding:"required"`
}

// SelectOrderRequest picks the reference order.
type SelectOrderRequest struct {
	OrderID string `json:"orderId" binding:"required"`
}

// AddRowRequest appends a manual row. Kind is only honored for categories
// without a fixed subject kind.
type AddRowRequest struct {
	Kind string `json:"kind,omitempty"`
}

// SelectSubjectRequest puts a material or product on a row.
type SelectSubjectRequest struct {
	SubjectID string `json:"subjectId" binding:"required"`
	Kind      string `json:"kind,omitempty"`
}

// SetQuantityRequest applies an entered export quantity. Value is the raw
// user input; validation happens against the draft state.
type SetQuantityRequest struct {
	WarehouseIndex int    `json:"warehouseIndex"`
	Value          string `json:"value"`
}

// SetPartnerRequest records the selected partner.
type SetPartnerRequest struct {
	PartnerID string `json:"partnerId" binding:"required"`
}

// ExpectedReturnRequest is one expected-return entry.
type ExpectedReturnRequest struct {
	MaterialID string         `json:"materialId" binding:"required"`
	Quantity   types.Quantity `json:"quantity"`
}

// SetReturnsRequest replaces the expected-return lines.
type SetReturnsRequest struct {
	Returns []ExpectedReturnRequest `json:"returns"`
}

// SetHeaderRequest updates date, receiver and comment.
type SetHeaderRequest struct {
	Date     time.Time `json:"date"`
	Receiver string    `json:"receiver"`
	Comment  string    `json:"comment"`
}

// SubmitDraftRequest commits the draft, optionally linking uploaded
// attachments.
type SubmitDraftRequest struct {
	AttachmentIDs []string `json:"attachmentIds,omitempty"`
}

// SubmitDraftResponse reports the committed note. AttachmentError is set
// when the note committed but linking attachments failed.
type SubmitDraftResponse struct {
	Note            *issuenote.IssueNote `json:"note"`
	AttachmentError string               `json:"attachmentError,omitempty"`
}
