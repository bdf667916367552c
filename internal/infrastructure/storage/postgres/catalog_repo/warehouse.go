package catalog_repo

import (
	"outflow/internal/domain/catalogs/warehouse"
	"outflow/internal/infrastructure/storage/postgres"
)

const warehouseTable = "cat_warehouses"

// WarehouseRepo implements warehouse.Repository.
type WarehouseRepo struct {
	*BaseCatalogRepo[*warehouse.Warehouse]
}

// NewWarehouseRepo creates a new warehouse repository.
func NewWarehouseRepo(txm *postgres.TxManager) *WarehouseRepo {
	return &WarehouseRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*warehouse.Warehouse](
			txm,
			warehouseTable,
			postgres.ExtractDBColumns[warehouse.Warehouse](),
			func() *warehouse.Warehouse { return &warehouse.Warehouse{} },
		),
	}
}
