package console_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanniacalzado/OptiGest/internal/console"
)

func TestProductForm_Validate(t *testing.T) {
	valid := func() console.ProductForm {
		return console.ProductForm{
			Name:     "Armazón Clásico",
			Category: "armazones",
			Supplier: "Luxottica",
			Stock:    10,
			Price:    decimal.NewFromFloat(99.90),
			Type:     "propio",
		}
	}

	tests := []struct {
		name      string
		mutate    func(*console.ProductForm)
		wantField string
	}{
		{name: "valid", mutate: func(f *console.ProductForm) {}},
		{name: "blank_name", mutate: func(f *console.ProductForm) { f.Name = "  " }, wantField: "name"},
		{name: "missing_category", mutate: func(f *console.ProductForm) { f.Category = "" }, wantField: "category"},
		{name: "unknown_category", mutate: func(f *console.ProductForm) { f.Category = "relojes" }, wantField: "category"},
		{name: "missing_supplier", mutate: func(f *console.ProductForm) { f.Supplier = "" }, wantField: "supplier"},
		{name: "negative_stock", mutate: func(f *console.ProductForm) { f.Stock = -1 }, wantField: "stock"},
		{name: "negative_price", mutate: func(f *console.ProductForm) { f.Price = decimal.NewFromInt(-5) }, wantField: "price"},
		{name: "unknown_type", mutate: func(f *console.ProductForm) { f.Type = "alquilado" }, wantField: "type"},
		{name: "empty_type_allowed", mutate: func(f *console.ProductForm) { f.Type = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid()
			tt.mutate(&form)

			err := form.Validate()

			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ve *console.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestPatientForm_Validate(t *testing.T) {
	valid := func() console.PatientForm {
		return console.PatientForm{
			Name:   "María González",
			Email:  "maria@example.com",
			Phone:  "555-0101",
			Status: "activo",
		}
	}

	tests := []struct {
		name      string
		mutate    func(*console.PatientForm)
		wantField string
	}{
		{name: "valid", mutate: func(f *console.PatientForm) {}},
		{name: "blank_name", mutate: func(f *console.PatientForm) { f.Name = "" }, wantField: "name"},
		{name: "empty_email", mutate: func(f *console.PatientForm) { f.Email = "" }, wantField: "email"},
		{name: "malformed_email", mutate: func(f *console.PatientForm) { f.Email = "sin-arroba" }, wantField: "email"},
		{name: "missing_phone", mutate: func(f *console.PatientForm) { f.Phone = "" }, wantField: "phone"},
		{name: "unknown_status", mutate: func(f *console.PatientForm) { f.Status = "pendiente" }, wantField: "status"},
		{name: "empty_status_allowed", mutate: func(f *console.PatientForm) { f.Status = "" }},
		{name: "display_casing_status_allowed", mutate: func(f *console.PatientForm) { f.Status = "Inactivo" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid()
			tt.mutate(&form)

			err := form.Validate()

			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ve *console.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}
