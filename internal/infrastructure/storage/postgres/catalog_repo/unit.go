package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"outflow/internal/domain/catalogs/unit"
	"outflow/internal/infrastructure/storage/postgres"
)

const unitTable = "cat_units"

// UnitRepo implements unit.Repository.
type UnitRepo struct {
	*BaseCatalogRepo[*unit.Unit]
}

// NewUnitRepo creates a new unit repository.
func NewUnitRepo(txm *postgres.TxManager) *UnitRepo {
	return &UnitRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*unit.Unit](
			txm,
			unitTable,
			postgres.ExtractDBColumns[unit.Unit](),
			func() *unit.Unit { return &unit.Unit{} },
		),
	}
}

// FindBySymbol retrieves a unit by its unique symbol.
func (r *UnitRepo) FindBySymbol(ctx context.Context, symbol string) (*unit.Unit, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[unit.Unit]()...).
		From(unitTable).
		Where(squirrel.Eq{"symbol": symbol}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	return r.FindOne(ctx, q)
}
