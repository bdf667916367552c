package issuenote

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outflow/internal/core/apperror"
	"outflow/internal/core/id"
	"outflow/internal/domain/stock"
)

func newTestSession(t *testing.T, category Category) *Session {
	t.Helper()
	s := newSession(id.New())
	require.NoError(t, s.SetCategory(category))
	return s
}

func TestSession_StaleSubjectLookupIsDiscarded(t *testing.T) {
	s := newTestSession(t, CategoryOther)
	rowID, err := s.AddRowOfKind(stock.KindMaterial)
	require.NoError(t, err)

	first := id.New()
	second := id.New()

	seq1, err := s.BeginSubjectSelect(rowID, first)
	require.NoError(t, err)
	seq2, err := s.BeginSubjectSelect(rowID, second)
	require.NoError(t, err)

	// The newer selection resolves first.
	applied := s.ApplySubjectStock(rowID, seq2, SubjectRef{ID: second, Kind: stock.KindMaterial, Name: "washers"}, nil)
	require.True(t, applied)

	// The older one straggles in afterwards and must be dropped.
	applied = s.ApplySubjectStock(rowID, seq1, SubjectRef{ID: first, Kind: stock.KindMaterial, Name: "bolts"}, nil)
	assert.False(t, applied)

	state := s.Snapshot()
	require.Len(t, state.Rows, 1)
	assert.Equal(t, second, state.Rows[0].SubjectID)
	assert.Equal(t, "washers", state.Rows[0].Name)
}

func TestSession_DuplicateSubjectRejected(t *testing.T) {
	s := newTestSession(t, CategoryOther)
	row1, err := s.AddRowOfKind(stock.KindMaterial)
	require.NoError(t, err)
	row2, err := s.AddRowOfKind(stock.KindMaterial)
	require.NoError(t, err)

	subjectID := id.New()
	seq, err := s.BeginSubjectSelect(row1, subjectID)
	require.NoError(t, err)
	require.True(t, s.ApplySubjectStock(row1, seq, SubjectRef{ID: subjectID, Kind: stock.KindMaterial}, nil))

	_, err = s.BeginSubjectSelect(row2, subjectID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
}

func TestSession_ClearSubjectInvalidatesInFlightLookup(t *testing.T) {
	s := newTestSession(t, CategoryOther)
	rowID, err := s.AddRowOfKind(stock.KindMaterial)
	require.NoError(t, err)

	subjectID := id.New()
	seq, err := s.BeginSubjectSelect(rowID, subjectID)
	require.NoError(t, err)

	s.ClearSubject(rowID)

	applied := s.ApplySubjectStock(rowID, seq, SubjectRef{ID: subjectID, Kind: stock.KindMaterial}, nil)
	assert.False(t, applied)
	assert.False(t, s.Snapshot().Rows[0].HasSubject())
}

func TestSession_SetCategoryResetsEverything(t *testing.T) {
	s := newTestSession(t, CategoryProduction)
	orderID := id.New()

	m := id.New()
	rows := Normalize(context.Background(), []SourceDetail{detail(m, "M1", 10, 0)})
	require.NoError(t, s.SetSourceOrder(orderID, rows))
	require.Len(t, s.Snapshot().Rows, 1)

	require.NoError(t, s.SetCategory(CategorySales))

	state := s.Snapshot()
	assert.Empty(t, state.Rows)
	assert.Nil(t, state.SourceOrderID)
	assert.Nil(t, state.PartnerID)
}

func TestSession_SourceOrderOnlyForOrderDrivenCategories(t *testing.T) {
	s := newTestSession(t, CategoryOther)
	err := s.SetSourceOrder(id.New(), nil)
	require.Error(t, err)
}

func TestSession_ExpectedReturnsOnlyForOutsourcing(t *testing.T) {
	s := newTestSession(t, CategoryOutsourcing)
	require.NoError(t, s.SetExpectedReturns([]ExpectedReturnLine{{MaterialID: id.New(), Quantity: qty(2)}}))

	s2 := newTestSession(t, CategorySales)
	require.Error(t, s2.SetExpectedReturns(nil))
}

func TestSession_SnapshotIsDetached(t *testing.T) {
	s := newTestSession(t, CategoryOther)
	rowID, err := s.AddRowOfKind(stock.KindMaterial)
	require.NoError(t, err)

	snap := s.Snapshot()
	require.Len(t, snap.Rows, 1)
	snap.Rows[0].Name = "scribbled"

	assert.Empty(t, s.Snapshot().Rows[0].Name)
	_ = rowID
}

func TestSessionManager_OwnershipEnforced(t *testing.T) {
	m := NewSessionManager(time.Minute)
	defer m.Close()
	ctx := context.Background()

	owner := id.New()
	s, err := m.Create(ctx, owner)
	require.NoError(t, err)

	_, err = m.Get(ctx, s.ID, owner)
	require.NoError(t, err)

	_, err = m.Get(ctx, s.ID, id.New())
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestSessionManager_DeleteIsIdempotent(t *testing.T) {
	m := NewSessionManager(time.Minute)
	defer m.Close()

	owner := id.New()
	s, err := m.Create(context.Background(), owner)
	require.NoError(t, err)

	m.Delete(s.ID)
	m.Delete(s.ID)

	_, err = m.Get(context.Background(), s.ID, owner)
	require.Error(t, err)
}
