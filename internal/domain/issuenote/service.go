package issuenote

import (
	"context"
	"fmt"
	"time"

	"outflow/internal/core/apperror"
	"outflow/internal/core/appctx"
	"outflow/internal/core/events"
	"outflow/internal/core/id"
	"outflow/internal/core/tx"
	"outflow/internal/domain"
	"outflow/internal/domain/stock"
	"outflow/pkg/logger"
	"outflow/pkg/numerator"
)

const numberPrefix = "IS"

// StockRegister is the slice of the stock service the note service needs.
type StockRegister interface {
	RecordMovements(ctx context.Context, movements []stock.Movement) error
	ReverseMovements(ctx context.Context, recorderID id.ID) error
}

// EvidenceLinker binds previously uploaded evidence files to a note.
// Implemented by the evidence service.
type EvidenceLinker interface {
	LinkToNote(ctx context.Context, noteID id.ID, fileIDs []id.ID) error
}

// AuditLog records a compressed snapshot of committed documents.
type AuditLog interface {
	Record(ctx context.Context, action string, entityID id.ID, payload any) error
}

// Config holds issue-note service settings.
type Config struct {
	// FallbackUnitID is used for lines whose subject carries no unit
	FallbackUnitID id.ID
}

// Service owns the issue-note document lifecycle: submission from a draft,
// direct creation, reads and deletion with movement reversal.
type Service struct {
	repo      Repository
	stock     StockRegister
	numerator *numerator.Service
	txm       tx.Manager
	bus       *events.Bus
	evidence  EvidenceLinker
	audit     AuditLog
	cfg       Config
}

// NewService creates the issue-note service. evidence and audit may be nil;
// both are best-effort collaborators.
func NewService(
	repo Repository,
	stockReg StockRegister,
	num *numerator.Service,
	txm tx.Manager,
	bus *events.Bus,
	evidence EvidenceLinker,
	audit AuditLog,
	cfg Config,
) *Service {
	return &Service{
		repo:      repo,
		stock:     stockReg,
		numerator: num,
		txm:       txm,
		bus:       bus,
		evidence:  evidence,
		audit:     audit,
		cfg:       cfg,
	}
}

// SubmitResult reports a committed note plus any non-fatal follow-up
// failure. AttachmentError is set when the note exists but linking evidence
// files failed; the client may retry the linking separately.
type SubmitResult struct {
	Note            *IssueNote `json:"note"`
	AttachmentError string     `json:"attachmentError,omitempty"`
}

// Submit validates a draft, flattens it and commits the resulting note with
// its stock movements in one transaction. Notes are posted on creation;
// there is no separate posting step.
func (s *Service) Submit(ctx context.Context, state FormState, attachmentIDs []id.ID) (*SubmitResult, error) {
	if errs := state.Validate(); len(errs) > 0 {
		first := errs[0]
		return nil, apperror.NewValidation(first.Message).
			WithDetail("field", first.Field)
	}

	payload := BuildPayload(state.Rows, state.Category, state.Returns, s.cfg.FallbackUnitID)
	note := newNote(state, payload)

	userID := appctx.UserID(ctx)
	note.CreatedBy = userID
	note.UpdatedBy = userID

	if err := note.Validate(ctx); err != nil {
		return nil, err
	}

	number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(numberPrefix), nil, note.Date)
	if err != nil {
		return nil, fmt.Errorf("generate number: %w", err)
	}
	note.Number = number
	note.MarkPosted()

	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, note); err != nil {
			return fmt.Errorf("create note: %w", err)
		}
		if err := s.stock.RecordMovements(ctx, note.Movements()); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "issue note committed",
		"note_id", note.ID,
		"number", note.Number,
		"category", note.Category,
		"lines", len(note.Lines),
	)

	if s.audit != nil {
		if err := s.audit.Record(ctx, "issue_note.create", note.ID, note); err != nil {
			logger.Warn(ctx, "audit record failed", "note_id", note.ID, "error", err)
		}
	}

	s.bus.Publish(ctx, events.NoteCreated{
		NoteID:     note.ID,
		Number:     note.Number,
		Category:   string(note.Category),
		CreatedBy:  userID,
		OccurredAt: time.Now().UTC(),
	})

	result := &SubmitResult{Note: note}
	if len(attachmentIDs) > 0 && s.evidence != nil {
		if err := s.evidence.LinkToNote(ctx, note.ID, attachmentIDs); err != nil {
			logger.Warn(ctx, "attachment linking failed",
				"note_id", note.ID,
				"file_count", len(attachmentIDs),
				"error", err,
			)
			result.AttachmentError = "note was saved but attachments could not be linked"
		}
	}

	return result, nil
}

// GetByID returns a note with its lines and expected returns.
func (s *Service) GetByID(ctx context.Context, noteID id.ID) (*IssueNote, error) {
	note, err := s.repo.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}

	if note.Lines, err = s.repo.GetLines(ctx, noteID); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	if note.ExpectedReturns, err = s.repo.GetReturns(ctx, noteID); err != nil {
		return nil, fmt.Errorf("get returns: %w", err)
	}
	return note, nil
}

// List returns note headers matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*IssueNote], error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return domain.ListResult[*IssueNote]{}, apperror.NewValidation("invalid issue category").
			WithDetail("value", string(filter.Category))
	}
	if filter.Limit <= 0 {
		filter.ListFilter = domain.DefaultListFilter()
	}
	if filter.OrderBy == "" || filter.OrderBy == "name" {
		filter.OrderBy = "-date"
	}
	return s.repo.List(ctx, filter)
}

// Delete soft-deletes a note and reverses its stock movements in one
// transaction.
func (s *Service) Delete(ctx context.Context, noteID id.ID) error {
	note, err := s.repo.GetByID(ctx, noteID)
	if err != nil {
		return err
	}

	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.stock.ReverseMovements(ctx, noteID); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, noteID); err != nil {
			return fmt.Errorf("delete note: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "issue note deleted", "note_id", noteID, "number", note.Number)

	if s.audit != nil {
		if err := s.audit.Record(ctx, "issue_note.delete", noteID, note); err != nil {
			logger.Warn(ctx, "audit record failed", "note_id", noteID, "error", err)
		}
	}
	return nil
}
