// internal/core/ports/product_repository.go
package ports

import (
	"context"

	"github.com/yanniacalzado/OptiGest/internal/core/domain"
)

// ProductRepository defines the persistence port for the product catalog.
// This interface is implemented by the database adapter.
type ProductRepository interface {
	Save(ctx context.Context, product *domain.Product) error
	FindAll(ctx context.Context, params ProductListParams) ([]domain.Product, int64, error)
	ListAll(ctx context.Context) ([]domain.Product, error)
	DistinctSuppliers(ctx context.Context) ([]string, error)
}

// ProductListParams holds the listing query for products. Empty facet
// values mean the facet is unset.
type ProductListParams struct {
	Search   string
	Category string
	Supplier string
	Type     string
	Page     int
	PageSize int
}
