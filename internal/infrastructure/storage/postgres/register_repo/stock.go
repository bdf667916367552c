// Package register_repo provides PostgreSQL implementations for register
// repositories.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"outflow/internal/core/apperror"
	"outflow/internal/core/id"
	"outflow/internal/domain/stock"
	"outflow/internal/infrastructure/storage/postgres"
)

const stockMovementsTable = "reg_stock_movements"

var movementColumns = []string{
	"line_id", "recorder_id", "recorder_type",
	"period", "record_type",
	"warehouse_id", "subject_id", "subject_kind",
	"quantity", "reserved_order_id", "created_at",
}

// StockRepo implements stock.Repository. Balances are derived from the
// movement register on read; the negative-balance floor is enforced on
// write, inside the caller's transaction.
type StockRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewStockRepo creates a new stock register repository.
func NewStockRepo(txm *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// BalancesBySubject returns per-warehouse balances for one subject.
// When scopeOrderID is set, movements earmarked for other orders are
// excluded: the snapshot is free stock plus stock reserved for that order.
func (r *StockRepo) BalancesBySubject(ctx context.Context, subjectID id.ID, kind stock.SubjectKind, scopeOrderID *id.ID) ([]stock.Balance, error) {
	sql := `
		SELECT m.warehouse_id,
		       w.name AS warehouse_name,
		       m.subject_id,
		       m.subject_kind,
		       SUM(CASE WHEN m.record_type = 'receipt' THEN m.quantity ELSE -m.quantity END)::bigint AS quantity
		FROM reg_stock_movements m
		JOIN cat_warehouses w ON w.id = m.warehouse_id
		WHERE m.subject_id = $1
		  AND m.subject_kind = $2
		  AND ($3::uuid IS NULL OR m.reserved_order_id IS NULL OR m.reserved_order_id = $3)
		GROUP BY m.warehouse_id, w.name, m.subject_id, m.subject_kind
		HAVING SUM(CASE WHEN m.record_type = 'receipt' THEN m.quantity ELSE -m.quantity END) <> 0
		ORDER BY w.name
	`

	var balances []stock.Balance
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &balances, sql, subjectID, kind, scopeOrderID); err != nil {
		return nil, fmt.Errorf("select balances: %w", err)
	}
	return balances, nil
}

// BalancesByWarehouse returns non-zero balances held at a warehouse.
func (r *StockRepo) BalancesByWarehouse(ctx context.Context, warehouseID id.ID) ([]stock.Balance, error) {
	sql := `
		SELECT m.warehouse_id,
		       w.name AS warehouse_name,
		       m.subject_id,
		       m.subject_kind,
		       SUM(CASE WHEN m.record_type = 'receipt' THEN m.quantity ELSE -m.quantity END)::bigint AS quantity
		FROM reg_stock_movements m
		JOIN cat_warehouses w ON w.id = m.warehouse_id
		WHERE m.warehouse_id = $1
		GROUP BY m.warehouse_id, w.name, m.subject_id, m.subject_kind
		HAVING SUM(CASE WHEN m.record_type = 'receipt' THEN m.quantity ELSE -m.quantity END) <> 0
		ORDER BY m.subject_kind, m.subject_id
	`

	var balances []stock.Balance
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &balances, sql, warehouseID); err != nil {
		return nil, fmt.Errorf("select warehouse balances: %w", err)
	}
	return balances, nil
}

// CreateMovements batch inserts movements, then verifies no affected balance
// went negative. A violation fails the batch; the caller's transaction rolls
// everything back.
func (r *StockRepo) CreateMovements(ctx context.Context, movements []stock.Movement) error {
	if len(movements) == 0 {
		return nil
	}

	if tx := r.txm.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(r.txm)
		rows := make([][]any, 0, len(movements))
		for _, m := range movements {
			rows = append(rows, []any{
				m.LineID, m.RecorderID, m.RecorderType,
				m.Period, m.RecordType,
				m.WarehouseID, m.SubjectID, m.Kind,
				m.Quantity, m.ReservedOrderID, m.CreatedAt,
			})
		}
		if _, err := inserter.CopyFromSlice(ctx, stockMovementsTable, movementColumns, rows); err != nil {
			return fmt.Errorf("copy movements: %w", err)
		}
	} else {
		// Fallback outside a transaction. Prefer calling within tx.
		q := r.builder.Insert(stockMovementsTable).Columns(movementColumns...)
		for _, m := range movements {
			q = q.Values(
				m.LineID, m.RecorderID, m.RecorderType,
				m.Period, m.RecordType,
				m.WarehouseID, m.SubjectID, m.Kind,
				m.Quantity, m.ReservedOrderID, m.CreatedAt,
			)
		}
		sql, args, err := q.ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert movements: %w", err)
		}
	}

	return r.checkFloor(ctx, movements)
}

// checkFloor recomputes the balance of every (warehouse, subject) the batch
// touched and rejects the batch if any went below zero.
func (r *StockRepo) checkFloor(ctx context.Context, movements []stock.Movement) error {
	type key struct {
		warehouseID id.ID
		subjectID   id.ID
		kind        stock.SubjectKind
	}
	seen := make(map[key]struct{}, len(movements))

	sql := `
		SELECT COALESCE(SUM(CASE WHEN record_type = 'receipt' THEN quantity ELSE -quantity END), 0)::bigint
		FROM reg_stock_movements
		WHERE warehouse_id = $1 AND subject_id = $2 AND subject_kind = $3
	`
	querier := r.txm.GetQuerier(ctx)

	for _, m := range movements {
		k := key{m.WarehouseID, m.SubjectID, m.Kind}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}

		var balanceScaled int64
		if err := querier.QueryRow(ctx, sql, k.warehouseID, k.subjectID, k.kind).Scan(&balanceScaled); err != nil {
			return fmt.Errorf("check balance: %w", err)
		}
		if balanceScaled < 0 {
			return apperror.NewInsufficientStock(
				k.subjectID.String(),
				m.Quantity.Float64(),
				m.Quantity.Float64()+float64(balanceScaled)/10_000,
			).WithDetail("warehouse_id", k.warehouseID.String())
		}
	}
	return nil
}

// DeleteMovementsByRecorder removes a document's movements.
func (r *StockRepo) DeleteMovementsByRecorder(ctx context.Context, recorderID id.ID) error {
	q := r.builder.Delete(stockMovementsTable).
		Where(squirrel.Eq{"recorder_id": recorderID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}
	return nil
}
