// internal/core/domain/product.go
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category represents product categories
type Category string

// Category constants
const (
	CategoryFrames      Category = "armazones"
	CategoryLenses      Category = "lentes"
	CategoryContactLens Category = "lentes_contacto"
	CategoryAccessories Category = "accesorios"
)

// Categories lists every category code in catalog order.
func Categories() []Category {
	return []Category{CategoryFrames, CategoryLenses, CategoryContactLens, CategoryAccessories}
}

// Display returns the human-readable Spanish name for the category.
func (c Category) Display() string {
	switch c {
	case CategoryFrames:
		return "Armazones"
	case CategoryLenses:
		return "Lentes"
	case CategoryContactLens:
		return "Lentes de Contacto"
	case CategoryAccessories:
		return "Accesorios"
	default:
		return string(c)
	}
}

// Valid reports whether the category is a known code.
func (c Category) Valid() bool {
	switch c {
	case CategoryFrames, CategoryLenses, CategoryContactLens, CategoryAccessories:
		return true
	}
	return false
}

// ProductType represents product ownership types
type ProductType string

const (
	TypeOwned       ProductType = "propio"
	TypeConsignment ProductType = "consignacion"
)

// ProductTypes lists every type code.
func ProductTypes() []ProductType {
	return []ProductType{TypeOwned, TypeConsignment}
}

// Display returns the human-readable Spanish name for the type.
func (t ProductType) Display() string {
	switch t {
	case TypeOwned:
		return "Propio"
	case TypeConsignment:
		return "Consignación"
	default:
		return string(t)
	}
}

// Valid reports whether the type is a known code.
func (t ProductType) Valid() bool {
	return t == TypeOwned || t == TypeConsignment
}

// StockStatus represents the derived availability status of a product
type StockStatus string

const (
	StockNormal   StockStatus = "normal"
	StockLow      StockStatus = "bajo"
	StockCritical StockStatus = "critico"
)

// Stock thresholds for status derivation
const lowStockThreshold = 5

// ClassifyStock derives the stock status from a unit count.
// Zero stock is critical, five or fewer units is low, anything above is normal.
func ClassifyStock(stock int) StockStatus {
	switch {
	case stock <= 0:
		return StockCritical
	case stock <= lowStockThreshold:
		return StockLow
	default:
		return StockNormal
	}
}

// Display returns the human-readable Spanish name for the status.
func (s StockStatus) Display() string {
	switch s {
	case StockNormal:
		return "Normal"
	case StockLow:
		return "Bajo"
	case StockCritical:
		return "Crítico"
	default:
		return string(s)
	}
}

// ParseStockStatus maps a code or display string back to a status.
// The second return is false when the input matches no known status.
func ParseStockStatus(s string) (StockStatus, bool) {
	switch strings.ToLower(s) {
	case "normal":
		return StockNormal, true
	case "bajo":
		return StockLow, true
	case "critico", "crítico":
		return StockCritical, true
	}
	return "", false
}

// Product represents an optical product in the catalog.
// Status always travels in display casing and is derived from stock,
// never accepted from client input.
type Product struct {
	ID        int64           `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Category  Category        `json:"category"`
	Supplier  string          `json:"supplier"`
	Stock     int             `json:"stock"`
	Price     decimal.Decimal `json:"price"`
	Status    string          `json:"status"`
	Type      ProductType     `json:"type"`
	CreatedAt time.Time       `json:"created_at"`
}

// StockStatus returns the status for tallying. The serialized status wins
// when it parses; otherwise the status is re-derived from the stock count.
func (p *Product) StockStatus() StockStatus {
	if st, ok := ParseStockStatus(p.Status); ok {
		return st
	}
	return ClassifyStock(p.Stock)
}

// Validate performs domain validation on the product
func (p *Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Category == "" {
		return fmt.Errorf("category is required")
	}
	if !p.Category.Valid() {
		return fmt.Errorf("unknown category: %s", p.Category)
	}
	if p.Supplier == "" {
		return fmt.Errorf("supplier is required")
	}
	if p.Stock < 0 {
		return fmt.Errorf("stock cannot be negative")
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("price cannot be negative")
	}
	if p.Type == "" {
		p.Type = TypeOwned
	}
	if !p.Type.Valid() {
		return fmt.Errorf("unknown type: %s", p.Type)
	}
	return nil
}

// PrepareForStorage assigns the generated code, derives the status and
// stamps creation time before the product is persisted.
func (p *Product) PrepareForStorage() {
	if p.Code == "" {
		p.Code = NewProductCode()
	}
	p.Status = ClassifyStock(p.Stock).Display()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
}

// NewProductCode generates a catalog code like PROD-3F2A81BC.
func NewProductCode() string {
	return "PROD-" + strings.ToUpper(uuid.NewString()[:8])
}
