package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"outflow/internal/core/id"
	"outflow/internal/domain"
	"outflow/internal/domain/issuenote"
	"outflow/internal/infrastructure/storage/postgres"
)

const (
	issueNotesTable       = "doc_issue_notes"
	issueNoteLinesTable   = "doc_issue_note_lines"
	issueNoteReturnsTable = "doc_issue_note_returns"
)

var issueLineColumns = []string{
	"line_id", "note_id", "line_no",
	"warehouse_id", "material_id", "product_id",
	"unit_id", "quantity",
}

var returnLineColumns = []string{
	"line_id", "note_id",
	"material_id", "quantity", "received_quantity",
}

// IssueNoteRepo implements issuenote.Repository.
type IssueNoteRepo struct {
	*BaseDocumentRepo[*issuenote.IssueNote]
	txm *postgres.TxManager
}

// NewIssueNoteRepo creates a new issue note repository.
func NewIssueNoteRepo(txm *postgres.TxManager) *IssueNoteRepo {
	return &IssueNoteRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*issuenote.IssueNote](
			txm,
			issueNotesTable,
			postgres.ExtractDBColumns[issuenote.IssueNote](),
			func() *issuenote.IssueNote { return &issuenote.IssueNote{} },
		),
		txm: txm,
	}
}

// Create inserts the header plus line and return collections. Requires an
// open transaction; the COPY fast path is used for the collections.
func (r *IssueNoteRepo) Create(ctx context.Context, note *issuenote.IssueNote) error {
	if err := r.BaseDocumentRepo.Create(ctx, note); err != nil {
		return err
	}
	if err := r.insertLines(ctx, note.Lines); err != nil {
		return err
	}
	return r.insertReturns(ctx, note.ExpectedReturns)
}

// Update rewrites the header and replaces both collections.
func (r *IssueNoteRepo) Update(ctx context.Context, note *issuenote.IssueNote) error {
	if err := r.BaseDocumentRepo.Update(ctx, note); err != nil {
		return err
	}

	querier := r.Querier(ctx)
	if _, err := querier.Exec(ctx, "DELETE FROM "+issueNoteLinesTable+" WHERE note_id = $1", note.ID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}
	if _, err := querier.Exec(ctx, "DELETE FROM "+issueNoteReturnsTable+" WHERE note_id = $1", note.ID); err != nil {
		return fmt.Errorf("delete existing returns: %w", err)
	}

	if err := r.insertLines(ctx, note.Lines); err != nil {
		return err
	}
	return r.insertReturns(ctx, note.ExpectedReturns)
}

func (r *IssueNoteRepo) insertLines(ctx context.Context, lines []issuenote.IssueLine) error {
	if len(lines) == 0 {
		return nil
	}

	if tx := r.txm.GetTx(ctx); tx != nil {
		rows := make([][]any, 0, len(lines))
		for _, l := range lines {
			rows = append(rows, []any{
				l.LineID, l.NoteID, l.LineNo,
				l.WarehouseID, l.MaterialID, l.ProductID,
				l.UnitID, l.Quantity,
			})
		}
		inserter := postgres.NewBatchInserter(r.txm)
		if _, err := inserter.CopyFromSlice(ctx, issueNoteLinesTable, issueLineColumns, rows); err != nil {
			return fmt.Errorf("copy lines: %w", err)
		}
		return nil
	}

	q := r.Builder().Insert(issueNoteLinesTable).Columns(issueLineColumns...)
	for _, l := range lines {
		q = q.Values(
			l.LineID, l.NoteID, l.LineNo,
			l.WarehouseID, l.MaterialID, l.ProductID,
			l.UnitID, l.Quantity,
		)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}
	return nil
}

func (r *IssueNoteRepo) insertReturns(ctx context.Context, returns []issuenote.ReturnLine) error {
	if len(returns) == 0 {
		return nil
	}

	q := r.Builder().Insert(issueNoteReturnsTable).Columns(returnLineColumns...)
	for _, rl := range returns {
		q = q.Values(rl.LineID, rl.NoteID, rl.MaterialID, rl.Quantity, rl.ReceivedQuantity)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert returns: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert returns: %w", err)
	}
	return nil
}

// GetLines returns the note's lines in line order.
func (r *IssueNoteRepo) GetLines(ctx context.Context, noteID id.ID) ([]issuenote.IssueLine, error) {
	q := r.Builder().
		Select(issueLineColumns...).
		From(issueNoteLinesTable).
		Where(squirrel.Eq{"note_id": noteID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []issuenote.IssueLine
	if err := pgxscan.Select(ctx, r.Querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	return lines, nil
}

// GetReturns returns the note's expected-return records.
func (r *IssueNoteRepo) GetReturns(ctx context.Context, noteID id.ID) ([]issuenote.ReturnLine, error) {
	q := r.Builder().
		Select(returnLineColumns...).
		From(issueNoteReturnsTable).
		Where(squirrel.Eq{"note_id": noteID}).
		OrderBy("material_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var returns []issuenote.ReturnLine
	if err := pgxscan.Select(ctx, r.Querier(ctx), &returns, sql, args...); err != nil {
		return nil, fmt.Errorf("get returns: %w", err)
	}
	return returns, nil
}

// List retrieves issue notes with category and reference filters.
func (r *IssueNoteRepo) List(ctx context.Context, filter issuenote.ListFilter) (domain.ListResult[*issuenote.IssueNote], error) {
	result := domain.ListResult[*issuenote.IssueNote]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}
	if filter.Category != "" {
		q = q.Where(squirrel.Eq{"category": filter.Category})
	}
	if filter.SourceOrderID != nil {
		q = q.Where(squirrel.Eq{"source_order_id": *filter.SourceOrderID})
	}
	if filter.PartnerID != nil {
		q = q.Where(squirrel.Eq{"partner_id": *filter.PartnerID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"number": searchPattern},
			squirrel.ILike{"receiver": searchPattern},
		})
	}

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.Querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select: %w", err)
	}
	return result, nil
}
