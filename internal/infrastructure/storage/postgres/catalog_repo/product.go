package catalog_repo

import (
	"outflow/internal/domain/catalogs/product"
	"outflow/internal/infrastructure/storage/postgres"
)

const productTable = "cat_products"

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*product.Product](
			txm,
			productTable,
			postgres.ExtractDBColumns[product.Product](),
			func() *product.Product { return &product.Product{} },
		),
	}
}
