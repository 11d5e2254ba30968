// internal/core/services/product.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yanniacalzado/OptiGest/internal/core/domain"
	"github.com/yanniacalzado/OptiGest/internal/core/ports"
)

// ProductService handles catalog business logic
type ProductService struct {
	repo   ports.ProductRepository
	logger *slog.Logger
}

// Statically assert that *ProductService implements the ProductService interface.
var _ ports.ProductService = (*ProductService)(nil)

// NewProductService creates a new product service
func NewProductService(repo ports.ProductRepository, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		logger: logger.With(slog.String("service", "products")),
	}
}

// List retrieves one page of the catalog with the pagination envelope and
// the facet values the listing currently offers.
func (s *ProductService) List(ctx context.Context, params ports.ProductListParams) (*ports.ProductList, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize <= 0 {
		params.PageSize = domain.DefaultPageSize
	}

	products, total, err := s.repo.FindAll(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}

	suppliers, err := s.repo.DistinctSuppliers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load supplier facet: %w", err)
	}

	filters := domain.FilterOptions{Suppliers: suppliers}
	for _, c := range domain.Categories() {
		filters.Categories = append(filters.Categories, string(c))
	}
	for _, t := range domain.ProductTypes() {
		filters.Types = append(filters.Types, string(t))
	}

	return &ports.ProductList{
		Products:   products,
		Pagination: domain.NewPagination(params.Page, params.PageSize, total),
		Filters:    filters,
	}, nil
}

// Create validates, prepares and persists a new product. The catalog code
// and the stock status are assigned here, never taken from the caller.
func (s *ProductService) Create(ctx context.Context, product *domain.Product) error {
	if err := product.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	product.PrepareForStorage()

	if err := s.repo.Save(ctx, product); err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}

	s.logger.InfoContext(ctx, "created product",
		slog.String("code", product.Code),
		slog.String("name", product.Name),
		slog.String("status", product.Status))

	return nil
}

// ExportAll returns the full catalog for spreadsheet export.
func (s *ProductService) ExportAll(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export products: %w", err)
	}
	return products, nil
}
