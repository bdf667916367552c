package issuenote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outflow/internal/core/apperror"
	"outflow/internal/core/appctx"
	"outflow/internal/core/id"
	"outflow/internal/domain/stock"
)

type fakeDirectory struct {
	refs map[id.ID]SubjectRef
}

func (f *fakeDirectory) Resolve(ctx context.Context, subjectID id.ID, kind stock.SubjectKind) (SubjectRef, error) {
	ref, ok := f.refs[subjectID]
	if !ok {
		return SubjectRef{}, apperror.NewNotFound("subject", subjectID.String())
	}
	return ref, nil
}

func userContext(userID id.ID) context.Context {
	return appctx.WithUser(context.Background(), &appctx.User{UserID: userID.String()})
}

func newTestDraftService(t *testing.T, stocks *fakeStockLookup, dir *fakeDirectory) *DraftService {
	t.Helper()
	sessions := NewSessionManager(time.Minute)
	t.Cleanup(sessions.Close)

	loader := NewSourceLoader(&fakeOrderSource{}, stocks)
	return NewDraftService(sessions, loader, dir, nil)
}

func TestDraftService_StartRequiresAuthentication(t *testing.T) {
	svc := newTestDraftService(t, &fakeStockLookup{}, &fakeDirectory{})

	_, _, err := svc.Start(context.Background())

	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestDraftService_SessionIsOwnerScoped(t *testing.T) {
	svc := newTestDraftService(t, &fakeStockLookup{}, &fakeDirectory{})

	ownerCtx := userContext(id.New())
	sessionID, _, err := svc.Start(ownerCtx)
	require.NoError(t, err)

	_, err = svc.State(userContext(id.New()), sessionID)
	require.Error(t, err)

	_, err = svc.State(ownerCtx, sessionID)
	assert.NoError(t, err)
}

func TestDraftService_SelectSubjectLoadsStockSnapshot(t *testing.T) {
	subjectID := id.New()
	warehouseID := id.New()

	stocks := &fakeStockLookup{balances: map[id.ID][]stock.Balance{
		subjectID: {{
			WarehouseID:   warehouseID,
			WarehouseName: "main",
			SubjectID:     subjectID,
			Kind:          stock.KindMaterial,
			Quantity:      qty(12),
		}},
	}}
	dir := &fakeDirectory{refs: map[id.ID]SubjectRef{
		subjectID: {ID: subjectID, Kind: stock.KindMaterial, Code: "M-7", Name: "bolts"},
	}}
	svc := newTestDraftService(t, stocks, dir)

	ctx := userContext(id.New())
	sessionID, _, err := svc.Start(ctx)
	require.NoError(t, err)

	_, err = svc.SetCategory(ctx, sessionID, CategoryOther)
	require.NoError(t, err)

	state, err := svc.AddRow(ctx, sessionID, stock.KindMaterial)
	require.NoError(t, err)
	require.Len(t, state.Rows, 1)
	rowID := state.Rows[0].ID

	state, err = svc.SelectSubject(ctx, sessionID, rowID, subjectID, stock.KindMaterial)
	require.NoError(t, err)

	require.Len(t, state.Rows, 1)
	row := state.Rows[0]
	assert.Equal(t, "bolts", row.Name)
	require.Len(t, row.Allocations, 1)
	assert.Equal(t, warehouseID, *row.Allocations[0].WarehouseID)
	assert.Equal(t, qty(12), row.Allocations[0].AvailableQuantity)
}

func TestDraftService_QuantityEntryFlowsIntoSnapshot(t *testing.T) {
	subjectID := id.New()
	stocks := &fakeStockLookup{balances: map[id.ID][]stock.Balance{
		subjectID: {{
			WarehouseID:   id.New(),
			WarehouseName: "main",
			SubjectID:     subjectID,
			Kind:          stock.KindMaterial,
			Quantity:      qty(10),
		}},
	}}
	dir := &fakeDirectory{refs: map[id.ID]SubjectRef{
		subjectID: {ID: subjectID, Kind: stock.KindMaterial, Name: "bolts"},
	}}
	svc := newTestDraftService(t, stocks, dir)

	ctx := userContext(id.New())
	sessionID, _, err := svc.Start(ctx)
	require.NoError(t, err)
	_, err = svc.SetCategory(ctx, sessionID, CategoryOther)
	require.NoError(t, err)

	state, err := svc.AddRow(ctx, sessionID, stock.KindMaterial)
	require.NoError(t, err)
	rowID := state.Rows[0].ID

	_, err = svc.SelectSubject(ctx, sessionID, rowID, subjectID, stock.KindMaterial)
	require.NoError(t, err)

	// Entry above availability is rejected in place, not stored.
	state, err = svc.SetExportQuantity(ctx, sessionID, rowID, 0, "25")
	require.NoError(t, err)
	alloc := state.Rows[0].Allocations[0]
	assert.NotEmpty(t, alloc.ValidationError)
	assert.True(t, alloc.ExportQuantity.IsZero())

	state, err = svc.SetExportQuantity(ctx, sessionID, rowID, 0, "4")
	require.NoError(t, err)
	alloc = state.Rows[0].Allocations[0]
	assert.Empty(t, alloc.ValidationError)
	assert.Equal(t, qty(4), alloc.ExportQuantity)
}

func TestDraftService_SelectSubjectDegradesOnStockFailure(t *testing.T) {
	subjectID := id.New()
	stocks := &fakeStockLookup{err: errors.New("timeout")}
	dir := &fakeDirectory{refs: map[id.ID]SubjectRef{
		subjectID: {ID: subjectID, Kind: stock.KindMaterial, Name: "bolts"},
	}}
	svc := newTestDraftService(t, stocks, dir)

	ctx := userContext(id.New())
	sessionID, _, err := svc.Start(ctx)
	require.NoError(t, err)
	_, err = svc.SetCategory(ctx, sessionID, CategoryOther)
	require.NoError(t, err)

	state, err := svc.AddRow(ctx, sessionID, stock.KindMaterial)
	require.NoError(t, err)
	rowID := state.Rows[0].ID

	// The selection still lands; the row degrades to the zero placeholder.
	state, err = svc.SelectSubject(ctx, sessionID, rowID, subjectID, stock.KindMaterial)
	require.NoError(t, err)

	row := state.Rows[0]
	assert.Equal(t, "bolts", row.Name)
	require.Len(t, row.Allocations, 1)
	assert.True(t, row.Allocations[0].IsPlaceholder())
}

func TestDraftService_DiscardRemovesSession(t *testing.T) {
	svc := newTestDraftService(t, &fakeStockLookup{}, &fakeDirectory{})

	ctx := userContext(id.New())
	sessionID, _, err := svc.Start(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Discard(ctx, sessionID))

	_, err = svc.State(ctx, sessionID)
	require.Error(t, err)
}
