// internal/console/forms.go
package console

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yanniacalzado/OptiGest/internal/core/domain"
)

// ProductForm is the create payload for a catalog product. Code and status
// are server-assigned and deliberately absent.
type ProductForm struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Supplier string          `json:"supplier"`
	Stock    int             `json:"stock"`
	Price    decimal.Decimal `json:"price"`
	Type     string          `json:"type"`
}

// Validate enforces the client-side rules before any request is sent.
func (f *ProductForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return &ValidationError{Field: "name", Message: "el nombre es obligatorio"}
	}
	if strings.TrimSpace(f.Category) == "" {
		return &ValidationError{Field: "category", Message: "la categoría es obligatoria"}
	}
	if !domain.Category(f.Category).Valid() {
		return &ValidationError{Field: "category", Message: "categoría desconocida"}
	}
	if strings.TrimSpace(f.Supplier) == "" {
		return &ValidationError{Field: "supplier", Message: "el proveedor es obligatorio"}
	}
	if f.Stock < 0 {
		return &ValidationError{Field: "stock", Message: "el stock no puede ser negativo"}
	}
	if f.Price.IsNegative() {
		return &ValidationError{Field: "price", Message: "el precio no puede ser negativo"}
	}
	if f.Type != "" && !domain.ProductType(f.Type).Valid() {
		return &ValidationError{Field: "type", Message: "tipo desconocido"}
	}
	return nil
}

// PatientForm is the create payload for a patient.
type PatientForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Status  string `json:"status"`
	Address string `json:"address,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// Validate enforces the client-side rules before any request is sent.
// An empty email is rejected here, not by the server.
func (f *PatientForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return &ValidationError{Field: "name", Message: "el nombre es obligatorio"}
	}
	if strings.TrimSpace(f.Email) == "" {
		return &ValidationError{Field: "email", Message: "el email es obligatorio"}
	}
	if !strings.Contains(f.Email, "@") {
		return &ValidationError{Field: "email", Message: "el email no es válido"}
	}
	if strings.TrimSpace(f.Phone) == "" {
		return &ValidationError{Field: "phone", Message: "el teléfono es obligatorio"}
	}
	if f.Status != "" {
		if _, ok := domain.ParsePatientStatus(f.Status); !ok {
			return &ValidationError{Field: "status", Message: "estado desconocido"}
		}
	}
	return nil
}
