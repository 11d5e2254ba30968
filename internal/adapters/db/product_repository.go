// internal/adapters/db/product_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"

	"github.com/yanniacalzado/OptiGest/internal/core/domain"
	"github.com/yanniacalzado/OptiGest/internal/core/ports"
)

// productRepository implements ports.ProductRepository
type productRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *Database, logger *slog.Logger) ports.ProductRepository {
	return &productRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "products")),
	}
}

var productColumns = []string{
	"id", "code", "name", "category", "supplier",
	"stock", "price", "status", "type", "created_at",
}

// Save inserts a new product
func (r *productRepository) Save(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (
			code, name, category, supplier, stock, price, status, type, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		product.Code, product.Name, product.Category, product.Supplier,
		product.Stock, product.Price, product.Status, product.Type, product.CreatedAt,
	).Scan(&product.ID)

	if err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}

	r.logger.DebugContext(ctx, "product saved",
		slog.String("code", product.Code),
		slog.Int64("id", product.ID))

	return nil
}

// FindAll retrieves one page of products matching the listing query, plus
// the total match count via a window function so a second roundtrip is not
// needed.
func (r *productRepository) FindAll(ctx context.Context, params ports.ProductListParams) ([]domain.Product, int64, error) {
	builder := squirrel.
		Select(productColumns...).
		Column("COUNT(*) OVER() AS total_count").
		From("products").
		PlaceholderFormat(squirrel.Dollar)

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"category": pattern},
			squirrel.ILike{"supplier": pattern},
			squirrel.ILike{"code": pattern},
		})
	}
	if params.Category != "" {
		builder = builder.Where(squirrel.Eq{"category": params.Category})
	}
	if params.Supplier != "" {
		builder = builder.Where(squirrel.ILike{"supplier": "%" + params.Supplier + "%"})
	}
	if params.Type != "" {
		builder = builder.Where(squirrel.Eq{"type": params.Type})
	}

	builder = builder.
		OrderBy("created_at DESC").
		Limit(uint64(params.PageSize)).
		Offset(uint64((params.Page - 1) * params.PageSize))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	var total int64
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.Code, &p.Name, &p.Category, &p.Supplier,
			&p.Stock, &p.Price, &p.Status, &p.Type, &p.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return products, total, nil
}

// ListAll retrieves the whole catalog ordered by creation time.
func (r *productRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	query, args, err := squirrel.
		Select(productColumns...).
		From("products").
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.Code, &p.Name, &p.Category, &p.Supplier,
			&p.Stock, &p.Price, &p.Status, &p.Type, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return products, nil
}

// DistinctSuppliers returns the supplier facet values present in the data.
func (r *productRepository) DistinctSuppliers(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT supplier FROM products ORDER BY supplier ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	defer rows.Close()

	suppliers := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return suppliers, nil
}
