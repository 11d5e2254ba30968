package domain_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanniacalzado/OptiGest/internal/core/domain"
)

func TestClassifyStock(t *testing.T) {
	tests := []struct {
		name  string
		stock int
		want  domain.StockStatus
	}{
		{name: "zero_is_critical", stock: 0, want: domain.StockCritical},
		{name: "negative_is_critical", stock: -1, want: domain.StockCritical},
		{name: "one_is_low", stock: 1, want: domain.StockLow},
		{name: "three_is_low", stock: 3, want: domain.StockLow},
		{name: "five_is_low", stock: 5, want: domain.StockLow},
		{name: "six_is_normal", stock: 6, want: domain.StockNormal},
		{name: "large_is_normal", stock: 500, want: domain.StockNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ClassifyStock(tt.stock))
		})
	}
}

func TestStockStatus_Display(t *testing.T) {
	assert.Equal(t, "Normal", domain.StockNormal.Display())
	assert.Equal(t, "Bajo", domain.StockLow.Display())
	assert.Equal(t, "Crítico", domain.StockCritical.Display())
}

func TestParseStockStatus(t *testing.T) {
	tests := []struct {
		in   string
		want domain.StockStatus
		ok   bool
	}{
		{in: "normal", want: domain.StockNormal, ok: true},
		{in: "Normal", want: domain.StockNormal, ok: true},
		{in: "Bajo", want: domain.StockLow, ok: true},
		{in: "Crítico", want: domain.StockCritical, ok: true},
		{in: "critico", want: domain.StockCritical, ok: true},
		{in: "agotado", ok: false},
		{in: "", ok: false},
	}

	for _, tt := range tests {
		t.Run("parse_"+tt.in, func(t *testing.T) {
			got, ok := domain.ParseStockStatus(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestProduct_StockStatus(t *testing.T) {
	t.Run("serialized_status_wins", func(t *testing.T) {
		p := &domain.Product{Status: "Crítico", Stock: 100}
		assert.Equal(t, domain.StockCritical, p.StockStatus())
	})

	t.Run("derives_from_stock_when_status_missing", func(t *testing.T) {
		p := &domain.Product{Stock: 3}
		assert.Equal(t, domain.StockLow, p.StockStatus())
	})

	t.Run("derives_from_stock_when_status_unknown", func(t *testing.T) {
		p := &domain.Product{Status: "???", Stock: 0}
		assert.Equal(t, domain.StockCritical, p.StockStatus())
	})
}

func TestProduct_Validate(t *testing.T) {
	tests := []struct {
		name      string
		product   *domain.Product
		wantError bool
		errorMsg  string
	}{
		{
			name: "valid_product",
			product: &domain.Product{
				Name:     "Armazón Ray-Ban Classic",
				Category: domain.CategoryFrames,
				Supplier: "Luxottica",
				Stock:    15,
				Price:    decimal.NewFromFloat(120.50),
				Type:     domain.TypeOwned,
			},
			wantError: false,
		},
		{
			name: "missing_name",
			product: &domain.Product{
				Category: domain.CategoryFrames,
				Supplier: "Luxottica",
			},
			wantError: true,
			errorMsg:  "name is required",
		},
		{
			name: "missing_category",
			product: &domain.Product{
				Name:     "Armazón",
				Supplier: "Luxottica",
			},
			wantError: true,
			errorMsg:  "category is required",
		},
		{
			name: "unknown_category",
			product: &domain.Product{
				Name:     "Armazón",
				Category: "relojes",
				Supplier: "Luxottica",
			},
			wantError: true,
			errorMsg:  "unknown category",
		},
		{
			name: "missing_supplier",
			product: &domain.Product{
				Name:     "Armazón",
				Category: domain.CategoryFrames,
			},
			wantError: true,
			errorMsg:  "supplier is required",
		},
		{
			name: "negative_stock",
			product: &domain.Product{
				Name:     "Armazón",
				Category: domain.CategoryFrames,
				Supplier: "Luxottica",
				Stock:    -1,
			},
			wantError: true,
			errorMsg:  "stock cannot be negative",
		},
		{
			name: "negative_price",
			product: &domain.Product{
				Name:     "Armazón",
				Category: domain.CategoryFrames,
				Supplier: "Luxottica",
				Price:    decimal.NewFromFloat(-10),
			},
			wantError: true,
			errorMsg:  "price cannot be negative",
		},
		{
			name: "defaults_type_when_empty",
			product: &domain.Product{
				Name:     "Armazón",
				Category: domain.CategoryFrames,
				Supplier: "Luxottica",
			},
			wantError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.product.Validate()

			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
				if tt.name == "defaults_type_when_empty" {
					assert.Equal(t, domain.TypeOwned, tt.product.Type)
				}
			}
		})
	}
}

func TestProduct_PrepareForStorage(t *testing.T) {
	t.Run("generates_code_and_derives_status", func(t *testing.T) {
		p := &domain.Product{Name: "Lente", Stock: 0}

		p.PrepareForStorage()

		assert.True(t, strings.HasPrefix(p.Code, "PROD-"))
		assert.Len(t, p.Code, len("PROD-")+8)
		assert.Equal(t, strings.ToUpper(p.Code), p.Code)
		assert.Equal(t, "Crítico", p.Status)
		assert.NotZero(t, p.CreatedAt)
	})

	t.Run("preserves_existing_code", func(t *testing.T) {
		p := &domain.Product{Code: "PROD-AAAA1111", Stock: 20}

		p.PrepareForStorage()

		assert.Equal(t, "PROD-AAAA1111", p.Code)
		assert.Equal(t, "Normal", p.Status)
	})

	t.Run("status_is_always_rederived", func(t *testing.T) {
		p := &domain.Product{Status: "Normal", Stock: 2}

		p.PrepareForStorage()

		assert.Equal(t, "Bajo", p.Status)
	})
}

func TestCategory_Display(t *testing.T) {
	assert.Equal(t, "Armazones", domain.CategoryFrames.Display())
	assert.Equal(t, "Lentes", domain.CategoryLenses.Display())
	assert.Equal(t, "Lentes de Contacto", domain.CategoryContactLens.Display())
	assert.Equal(t, "Accesorios", domain.CategoryAccessories.Display())
}

func TestProductType_Display(t *testing.T) {
	assert.Equal(t, "Propio", domain.TypeOwned.Display())
	assert.Equal(t, "Consignación", domain.TypeConsignment.Display())
}
