package issuenote

import (
	"sync"
	"time"

	"outflow/internal/core/apperror"
	"outflow/internal/core/id"
	"outflow/internal/domain/stock"
)

// Session is one user's in-progress issue-note draft. All mutations are
// serialized under the mutex; lookups (order lines, stock snapshots) run
// outside it and re-enter through Apply* methods carrying a sequence number,
// so a slow lookup can never clobber a newer selection.
type Session struct {
	ID      id.ID
	OwnerID id.ID

	mu        sync.Mutex
	state     FormState
	seqs      map[id.ID]uint64
	touchedAt time.Time
}

// newSession creates an empty draft owned by a user.
func newSession(ownerID id.ID) *Session {
	return &Session{
		ID:      id.New(),
		OwnerID: ownerID,
		state: FormState{
			Date: time.Now(),
			Rows: []LineItem{},
		},
		seqs:      make(map[id.ID]uint64),
		touchedAt: time.Now(),
	}
}

func (s *Session) touch() { s.touchedAt = time.Now() }

// lastTouched is read by the session manager for TTL and eviction decisions.
func (s *Session) lastTouched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchedAt
}

// Snapshot returns a deep copy of the current form state.
func (s *Session) Snapshot() FormState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() FormState {
	out := s.state
	out.Rows = make([]LineItem, len(s.state.Rows))
	for i, r := range s.state.Rows {
		out.Rows[i] = r.clone()
	}
	out.Returns = make([]ExpectedReturnLine, len(s.state.Returns))
	copy(out.Returns, s.state.Returns)
	return out
}

// SetCategory switches the issue category. Rows, the reference order, the
// partner and expected returns all depend on the category, so everything is
// rebuilt from scratch.
func (s *Session) SetCategory(category Category) error {
	if !category.Valid() {
		return apperror.NewValidation("invalid issue category").
			WithDetail("value", string(category))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Category = category
	s.state.SourceOrderID = nil
	s.state.PartnerID = nil
	s.state.Rows = []LineItem{}
	s.state.Returns = nil
	s.seqs = make(map[id.ID]uint64)
	s.touch()
	return nil
}

// SetSourceOrder records the selected reference order and replaces the table
// with the rows loaded from it.
func (s *Session) SetSourceOrder(orderID id.ID, rows []LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Category.RequiresSourceOrder() {
		return apperror.NewValidation("category does not use a reference order").
			WithDetail("category", string(s.state.Category))
	}

	s.state.SourceOrderID = &orderID
	s.state.Rows = rows
	s.seqs = make(map[id.ID]uint64)
	s.touch()
	return nil
}

// SetPartner records the selected partner.
func (s *Session) SetPartner(partnerID id.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.PartnerID = &partnerID
	s.touch()
}

// SetHeader updates the free-form header fields.
func (s *Session) SetHeader(date time.Time, receiver, comment string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !date.IsZero() {
		s.state.Date = date
	}
	s.state.Receiver = receiver
	s.state.Comment = comment
	s.touch()
}

// AddRow appends an empty manual row and returns its ID.
func (s *Session) AddRow() (id.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Category.Valid() {
		return id.Nil(), apperror.NewValidation("select a category first")
	}
	kind, _ := s.state.Category.FixedSubjectKind()

	s.state.Rows = AddRow(s.state.Rows, kind)
	s.touch()
	return s.state.Rows[len(s.state.Rows)-1].ID, nil
}

// AddRowOfKind appends an empty row with an explicit subject kind, for the
// mixed-kind "other" category.
func (s *Session) AddRowOfKind(kind stock.SubjectKind) (id.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Category != CategoryOther {
		return id.Nil(), apperror.NewValidation("explicit subject kind is only for the other category")
	}
	if !kind.Valid() {
		return id.Nil(), apperror.NewValidation("invalid subject kind").
			WithDetail("value", string(kind))
	}

	s.state.Rows = AddRow(s.state.Rows, kind)
	s.touch()
	return s.state.Rows[len(s.state.Rows)-1].ID, nil
}

// RemoveRow deletes a row. Unknown IDs are ignored.
func (s *Session) RemoveRow(rowID id.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Rows = RemoveRow(s.state.Rows, rowID)
	delete(s.seqs, rowID)
	s.touch()
}

// ClearSubject resets a row to its unselected state.
func (s *Session) ClearSubject(rowID id.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Rows = ClearSubject(s.state.Rows, rowID)
	s.seqs[rowID]++
	s.touch()
}

// BeginSubjectSelect registers the intent to put a subject on a row and
// returns the sequence number the follow-up ApplySubjectStock must present.
// Selecting a subject already used on another row is rejected up front.
func (s *Session) BeginSubjectSelect(rowID, subjectID id.ID) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, r := range s.state.Rows {
		if r.ID == rowID {
			found = true
			continue
		}
		if r.SubjectID == subjectID {
			return 0, apperror.NewConflict("subject is already on another row").
				WithDetail("subject_id", subjectID.String())
		}
	}
	if !found {
		return 0, apperror.NewNotFound("draft row", rowID.String())
	}

	s.seqs[rowID]++
	s.touch()
	return s.seqs[rowID], nil
}

// ApplySubjectStock completes a subject selection with the fetched stock
// snapshot. If another selection started on the row since seq was issued,
// the response is stale and silently discarded.
func (s *Session) ApplySubjectStock(rowID id.ID, seq uint64, subject SubjectRef, allocations []WarehouseAllocation) (applied bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seqs[rowID] != seq {
		return false
	}

	s.state.Rows = SetSubject(s.state.Rows, rowID, subject, allocations)
	s.touch()
	return true
}

// SetExportQuantity applies an entered export quantity to one allocation.
func (s *Session) SetExportQuantity(rowID id.ID, warehouseIndex int, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Rows = SetExportQuantity(s.state.Rows, s.state.Category, rowID, warehouseIndex, raw)
	s.touch()
}

// SetExpectedReturns replaces the expected-return lines.
func (s *Session) SetExpectedReturns(returns []ExpectedReturnLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Category != CategoryOutsourcing {
		return apperror.NewValidation("expected returns apply only to outsourcing issues")
	}
	s.state.Returns = make([]ExpectedReturnLine, len(returns))
	copy(s.state.Returns, returns)
	s.touch()
	return nil
}
