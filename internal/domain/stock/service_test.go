package stock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outflow/internal/core/apperror"
	"outflow/internal/core/id"
	"outflow/internal/core/types"
)

type fakeRepo struct {
	balances []Balance
	recorded []Movement
	deleted  []id.ID
}

func (f *fakeRepo) BalancesBySubject(ctx context.Context, subjectID id.ID, kind SubjectKind, scopeOrderID *id.ID) ([]Balance, error) {
	return f.balances, nil
}

func (f *fakeRepo) BalancesByWarehouse(ctx context.Context, warehouseID id.ID) ([]Balance, error) {
	return f.balances, nil
}

func (f *fakeRepo) CreateMovements(ctx context.Context, movements []Movement) error {
	f.recorded = append(f.recorded, movements...)
	return nil
}

func (f *fakeRepo) DeleteMovementsByRecorder(ctx context.Context, recorderID id.ID) error {
	f.deleted = append(f.deleted, recorderID)
	return nil
}

func expense(qty float64) Movement {
	return NewExpense(id.New(), "issue_note", time.Now(), id.New(), id.New(), KindMaterial, types.NewQuantityFromFloat64(qty))
}

func TestBalancesBySubject_RejectsMissingSubject(t *testing.T) {
	svc := NewService(&fakeRepo{})

	_, err := svc.BalancesBySubject(context.Background(), id.Nil(), KindMaterial, nil)

	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestBalancesBySubject_RejectsUnknownKind(t *testing.T) {
	svc := NewService(&fakeRepo{})

	_, err := svc.BalancesBySubject(context.Background(), id.New(), SubjectKind("gadget"), nil)

	require.Error(t, err)
}

func TestRecordMovements_EmptyBatchIsNoop(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	require.NoError(t, svc.RecordMovements(context.Background(), nil))
	assert.Empty(t, repo.recorded)
}

func TestRecordMovements_RejectsNonPositiveQuantity(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	m := expense(5)
	m.Quantity = 0

	err := svc.RecordMovements(context.Background(), []Movement{m})

	require.Error(t, err)
	assert.Empty(t, repo.recorded)
}

func TestRecordMovements_PassesValidBatchThrough(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	require.NoError(t, svc.RecordMovements(context.Background(), []Movement{expense(2), expense(3)}))
	assert.Len(t, repo.recorded, 2)
}

func TestReverseMovements_DelegatesToRepo(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	recorderID := id.New()

	require.NoError(t, svc.ReverseMovements(context.Background(), recorderID))
	assert.Equal(t, []id.ID{recorderID}, repo.deleted)
}
