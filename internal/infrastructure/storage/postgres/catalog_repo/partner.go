package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"outflow/internal/domain"
	"outflow/internal/domain/catalogs/partner"
	"outflow/internal/infrastructure/storage/postgres"
)

const partnerTable = "cat_partners"

// PartnerRepo implements partner.Repository.
type PartnerRepo struct {
	*BaseCatalogRepo[*partner.Partner]
	txm *postgres.TxManager
}

// NewPartnerRepo creates a new partner repository.
func NewPartnerRepo(txm *postgres.TxManager) *PartnerRepo {
	return &PartnerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*partner.Partner](
			txm,
			partnerTable,
			postgres.ExtractDBColumns[partner.Partner](),
			func() *partner.Partner { return &partner.Partner{} },
		),
		txm: txm,
	}
}

// ListByType returns active partners of a given type.
func (r *PartnerRepo) ListByType(ctx context.Context, partnerType partner.Type, filter domain.ListFilter) (domain.ListResult[*partner.Partner], error) {
	result := domain.ListResult[*partner.Partner]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.Builder().
		Select(postgres.ExtractDBColumns[partner.Partner]()...).
		From(partnerTable).
		Where(squirrel.Eq{"type": partnerType}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.Eq{"active": true})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"code": pattern},
		})
	}

	countQ := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("name ASC")
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
		return result, fmt.Errorf("list by type: %w", err)
	}
	return result, nil
}
