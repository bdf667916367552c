package issuenote

import (
	"context"
	"fmt"

	"outflow/internal/core/apperror"
	"outflow/internal/core/appctx"
	"outflow/internal/core/id"
	"outflow/internal/domain/stock"
	"outflow/pkg/logger"
)

// DraftService drives the drafting flow: it owns the sessions and runs the
// order and stock lookups whose results feed them. Lookups happen outside
// the session lock; stale responses are discarded by sequence number.
type DraftService struct {
	sessions  *SessionManager
	loader    *SourceLoader
	directory SubjectDirectory
	notes     *Service
}

// NewDraftService creates the drafting service.
func NewDraftService(sessions *SessionManager, loader *SourceLoader, directory SubjectDirectory, notes *Service) *DraftService {
	return &DraftService{
		sessions:  sessions,
		loader:    loader,
		directory: directory,
		notes:     notes,
	}
}

func (d *DraftService) owner(ctx context.Context) (id.ID, error) {
	userID := appctx.UserID(ctx)
	if userID == "" {
		return id.Nil(), apperror.NewUnauthorized("authentication required")
	}
	ownerID, err := id.Parse(userID)
	if err != nil {
		return id.Nil(), apperror.NewUnauthorized("invalid user identity")
	}
	return ownerID, nil
}

func (d *DraftService) session(ctx context.Context, sessionID id.ID) (*Session, error) {
	ownerID, err := d.owner(ctx)
	if err != nil {
		return nil, err
	}
	return d.sessions.Get(ctx, sessionID, ownerID)
}

// Start opens a new empty draft for the caller.
func (d *DraftService) Start(ctx context.Context) (id.ID, FormState, error) {
	ownerID, err := d.owner(ctx)
	if err != nil {
		return id.Nil(), FormState{}, err
	}
	s, err := d.sessions.Create(ctx, ownerID)
	if err != nil {
		return id.Nil(), FormState{}, err
	}
	return s.ID, s.Snapshot(), nil
}

// Discard drops a draft without submitting.
func (d *DraftService) Discard(ctx context.Context, sessionID id.ID) error {
	s, err := d.session(ctx, sessionID)
	if err != nil {
		return err
	}
	d.sessions.Delete(s.ID)
	return nil
}

// State returns the current draft snapshot.
func (d *DraftService) State(ctx context.Context, sessionID id.ID) (FormState, error) {
	s, err := d.session(ctx, sessionID)
	if err != nil {
		return FormState{}, err
	}
	return s.Snapshot(), nil
}

// SetCategory switches the issue category, resetting the table.
func (d *DraftService) SetCategory(ctx context.Context, sessionID id.ID, category Category) (FormState, error) {
	s, err := d.session(ctx, sessionID)
	if err != nil {
		return FormState{}, err
	}
	if err := s.SetCategory(category); err != nil {
		return FormState{}, err
	}
	return s.Snapshot(), nil
}

// SelectOrder loads the reference order's lines with their stock snapshots
// and replaces the draft table.
func (d *DraftService) SelectOrder(ctx context.Context, sessionID, orderID id.ID) (FormState, error) {
	s, err := d.session(ctx, sessionID)
	if err != nil {
		return FormState{}, err
	}

	category := s.Snapshot().Category
	rows, err := d.loader.LoadLines(ctx, category, orderID)
	if err != nil {
		return FormState{}, err
	}

	if err := s.SetSourceOrder(orderID, rows); err != nil {
		return FormState{}, err
	}
	return s.Snapshot(), nil
}

// SelectSubject puts a material or product on a row, fetching its stock
// snapshot. A newer selection on the same row wins over a slower older one.
func (d *DraftService) SelectSubject(ctx context.Context, sessionID, rowID, subjectID id.ID, kind stock.SubjectKind) (FormState, error) {
	s, err := d.session(ctx, sessionID)
	if err != nil {
		return FormState{}, err
	}

	if fixed, ok := s.Snapshot().Category.FixedSubjectKind(); ok {
		kind = fixed
	}
	if !kind.Valid() {
		return FormState{}, apperror.NewValidation("subject kind is required").
			WithDetail("row_id", rowID.String())
	}

	seq, err := s.BeginSubjectSelect(rowID, subjectID)
	if err != nil {
		return FormState{}, err
	}

	subject, err := d.directory.Resolve(ctx, subjectID, kind)
	if err != nil {
		return FormState{}, fmt.Errorf("resolve subject: %w", err)
	}
	allocations, err := d.loader.SubjectAllocations(ctx, subjectID, kind)
	if err != nil {
		// A failed stock lookup degrades the row, it does not block the
		// selection.
		logger.Warn(ctx, "stock lookup failed, keeping placeholder",
			"subject_id", subjectID,
			"error", err,
		)
		allocations = []WarehouseAllocation{placeholderAllocation()}
	}

	if !s.ApplySubjectStock(rowID, seq, subject, allocations) {
		logger.Debug(ctx, "discarded stale subject selection",
			"session_id", sessionID,
			"row_id", rowID,
			"seq", seq,
		)
	}
	return s.Snapshot(), nil
}

// AddRow appends an empty manual row.
func (d *DraftService) AddRow(ctx context.Context, sessionID id.ID, kind stock.SubjectKind) (FormState, error) {
	s, err := d.session(ctx, sessionID)
	if err != nil {
		return FormState{}, err
	}
	if kind != "" {
		if _, err := s.AddRowOfKind(kind); err != nil {
			return FormState{}, err
		}
	} else if _, err := s.AddRow(); err != nil {
		return FormState{}, err
	}
	return s.Snapshot(), nil
}

// RemoveRow drops a row from the table.
func (d *DraftService) RemoveRow(ctx context.Context, sessionID, rowID id.ID) (FormState, error) {
	s, err := d.session(ctx, sessionID)
	if err != nil {
		return FormState{}, err
	}
	s.RemoveRow(rowID)
	return s.Snapshot(), nil
}

// ClearSubject resets a row to its unselected state.
func (d *DraftService) ClearSubject(ctx context.Context, sessionID, rowID id.ID) (FormState, error) {
	s, err := d.session(ctx, sessionID)
	if err != nil {
		return FormState{}, err
	}
	s.ClearSubject(rowID)
	return s.Snapshot(), nil
}

// SetExportQuantity applies an entered quantity to one allocation of a row.
func (d *DraftService) SetExportQuantity(ctx context.Context, sessionID, rowID id.ID, warehouseIndex int, raw string) (FormState, error) {
	s, err := d.session(ctx, sessionID)
	if err != nil {
		return FormState{}, err
	}
	s.SetExportQuantity(rowID, warehouseIndex, raw)
	return s.Snapshot(), nil
}

// SetPartner records the selected partner.
func (d *DraftService) SetPartner(ctx context.Context, sessionID, partnerID id.ID) (FormState, error) {
	s, err := d.session(ctx, sessionID)
	if err != nil {
		return FormState{}, err
	}
	s.SetPartner(partnerID)
	return s.Snapshot(), nil
}

// SetExpectedReturns replaces the expected-return lines.
func (d *DraftService) SetExpectedReturns(ctx context.Context, sessionID id.ID, returns []ExpectedReturnLine) (FormState, error) {
	s, err := d.session(ctx, sessionID)
	if err != nil {
		return FormState{}, err
	}
	if err := s.SetExpectedReturns(returns); err != nil {
		return FormState{}, err
	}
	return s.Snapshot(), nil
}

// SetHeader updates date, receiver and comment.
func (d *DraftService) SetHeader(ctx context.Context, sessionID id.ID, header FormState) (FormState, error) {
	s, err := d.session(ctx, sessionID)
	if err != nil {
		return FormState{}, err
	}
	s.SetHeader(header.Date, header.Receiver, header.Comment)
	return s.Snapshot(), nil
}

// Submit commits the draft as an issue note. The session is discarded only
// after the note is safely committed.
func (d *DraftService) Submit(ctx context.Context, sessionID id.ID, attachmentIDs []id.ID) (*SubmitResult, error) {
	s, err := d.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result, err := d.notes.Submit(ctx, s.Snapshot(), attachmentIDs)
	if err != nil {
		return nil, err
	}

	d.sessions.Delete(s.ID)
	return result, nil
}
