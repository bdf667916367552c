package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"outflow/internal/core/apperror"
	"outflow/internal/core/id"
	"outflow/internal/domain"
	"outflow/internal/domain/orders"
	"outflow/internal/infrastructure/storage/postgres"
)

const (
	ordersTable     = "doc_orders"
	orderLinesTable = "doc_order_lines"
)

// orderHeaderColumns joins the partner name in; orders are read-only here,
// upstream owns their lifecycle.
var orderHeaderColumns = []string{
	"o.id", "o.deletion_mark", "o.version",
	"o.created_at", "o.updated_at", "o.created_by", "o.updated_by",
	"o.number", "o.date", "o.posted", "o.comment",
	"o.type", "o.status", "o.partner_id",
	"p.name AS partner_name",
}

// OrderRepo implements orders.Repository. Read-only by contract.
type OrderRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewOrderRepo creates a new order repository.
func NewOrderRepo(txm *postgres.TxManager) *OrderRepo {
	return &OrderRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *OrderRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder.
		Select(orderHeaderColumns...).
		From(ordersTable + " o").
		Join("cat_partners p ON p.id = o.partner_id")
}

// GetByID retrieves an order header.
func (r *OrderRepo) GetByID(ctx context.Context, orderID id.ID) (*orders.Order, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"o.id": orderID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	order := &orders.Order{}
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), order, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("order", orderID.String())
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

// GetLines returns order detail lines in line order, with subject and unit
// names resolved from the catalogs.
func (r *OrderRepo) GetLines(ctx context.Context, orderID id.ID) ([]orders.Line, error) {
	sql := `
		SELECT l.line_id,
		       l.line_no,
		       l.subject_id,
		       l.subject_kind,
		       COALESCE(m.code, pr.code, '') AS subject_code,
		       COALESCE(m.name, pr.name, '') AS subject_name,
		       l.unit_id,
		       COALESCE(u.name, '') AS unit_name,
		       l.required_quantity,
		       l.received_quantity
		FROM doc_order_lines l
		LEFT JOIN cat_materials m ON l.subject_kind = 'material' AND m.id = l.subject_id
		LEFT JOIN cat_products pr ON l.subject_kind = 'product' AND pr.id = l.subject_id
		LEFT JOIN cat_units u ON u.id = l.unit_id
		WHERE l.order_id = $1
		ORDER BY l.line_no
	`

	var lines []orders.Line
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &lines, sql, orderID); err != nil {
		return nil, fmt.Errorf("get order lines: %w", err)
	}
	return lines, nil
}

// List retrieves orders filtered by type, status and partner.
func (r *OrderRepo) List(ctx context.Context, filter orders.ListFilter) (domain.ListResult[*orders.Order], error) {
	result := domain.ListResult[*orders.Order]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"o.deletion_mark": false})
	}
	if filter.Type != "" {
		q = q.Where(squirrel.Eq{"o.type": filter.Type})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"o.status": filter.Status})
	}
	if filter.PartnerID != nil {
		q = q.Where(squirrel.Eq{"o.partner_id": *filter.PartnerID})
	}
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"o.number": searchPattern},
			squirrel.ILike{"p.name": searchPattern},
		})
	}

	countQ := r.builder.Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy := "o.date DESC"
	switch filter.OrderBy {
	case "", "-date":
	case "date":
		orderBy = "o.date ASC"
	case "number":
		orderBy = "o.number ASC"
	case "-number":
		orderBy = "o.number DESC"
	default:
		return result, apperror.NewValidation("invalid orderBy").
			WithDetail("orderBy", filter.OrderBy)
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
