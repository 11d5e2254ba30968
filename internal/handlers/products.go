// internal/handlers/products.go
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	redis_a "github.com/yanniacalzado/OptiGest/internal/adapters/redis_adapter"
	"github.com/yanniacalzado/OptiGest/internal/core/domain"
	"github.com/yanniacalzado/OptiGest/internal/core/ports"
)

// ProductHandler handles product catalog HTTP requests
type ProductHandler struct {
	service ports.ProductService
	cache   ports.CacheRepository
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service ports.ProductService, cache ports.CacheRepository, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		cache:   cache,
		logger:  logger.With(slog.String("handler", "products")),
	}
}

// ListProducts handles GET /api/products/
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params := h.parseListParams(r)

	result, err := h.service.List(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list products",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list products")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// CreateProduct handles POST /api/products/
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondCreateError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		h.respondCreateError(w, http.StatusBadRequest, err.Error())
		return
	}

	product := req.ToDomain()

	if err := h.service.Create(ctx, product); err != nil {
		h.logger.ErrorContext(ctx, "failed to create product",
			slog.String("name", req.Name),
			slog.String("error", err.Error()))
		h.respondCreateError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Stored totals changed, cached dashboard aggregations are stale.
	redis_a.InvalidateDashboard(ctx, h.cache, h.logger)

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Producto creado exitosamente",
		"product": product,
	})
}

// parseListParams parses query parameters for the product listing
func (h *ProductHandler) parseListParams(r *http.Request) ports.ProductListParams {
	params := ports.ProductListParams{
		Page:     1,
		PageSize: domain.DefaultPageSize,
	}

	if page := r.URL.Query().Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil && p > 0 {
			params.Page = p
		}
	}

	if size := r.URL.Query().Get("page_size"); size != "" {
		if s, err := strconv.Atoi(size); err == nil && s > 0 {
			if s > 100 {
				params.PageSize = 100
			} else {
				params.PageSize = s
			}
		}
	}

	params.Search = r.URL.Query().Get("search")
	params.Category = r.URL.Query().Get("category")
	params.Supplier = r.URL.Query().Get("supplier")
	params.Type = r.URL.Query().Get("type")

	return params
}

// Helper methods

func (h *ProductHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *ProductHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

func (h *ProductHandler) respondCreateError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// Request DTOs

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Supplier string          `json:"supplier"`
	Stock    int             `json:"stock"`
	Price    decimal.Decimal `json:"price"`
	Type     string          `json:"type,omitempty"`
}

// Validate validates the create product request
func (r *CreateProductRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.Category == "" {
		return fmt.Errorf("category is required")
	}
	if !domain.Category(r.Category).Valid() {
		return fmt.Errorf("unknown category: %s", r.Category)
	}
	if r.Supplier == "" {
		return fmt.Errorf("supplier is required")
	}
	if r.Stock < 0 {
		return fmt.Errorf("stock cannot be negative")
	}
	if r.Price.IsNegative() {
		return fmt.Errorf("price cannot be negative")
	}
	if r.Type != "" && !domain.ProductType(r.Type).Valid() {
		return fmt.Errorf("unknown type: %s", r.Type)
	}
	return nil
}

// ToDomain converts the request to a domain model
func (r *CreateProductRequest) ToDomain() *domain.Product {
	product := &domain.Product{
		Name:     r.Name,
		Category: domain.Category(r.Category),
		Supplier: r.Supplier,
		Stock:    r.Stock,
		Price:    r.Price,
		Type:     domain.ProductType(r.Type),
	}

	if product.Type == "" {
		product.Type = domain.TypeOwned
	}

	return product
}
