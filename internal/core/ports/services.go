// internal/core/ports/services.go
package ports

import (
	"context"

	"github.com/yanniacalzado/OptiGest/internal/core/domain"
)

// ProductList is the full listing payload: one page of products plus the
// pagination envelope and the facet values the data currently offers.
type ProductList struct {
	Products   []domain.Product     `json:"products"`
	Pagination domain.Pagination    `json:"pagination"`
	Filters    domain.FilterOptions `json:"filters"`
}

// PatientList mirrors ProductList for patients.
type PatientList struct {
	Patients   []domain.Patient     `json:"patients"`
	Pagination domain.Pagination    `json:"pagination"`
	Filters    domain.FilterOptions `json:"filters"`
}

// ProductService defines the application service port for the catalog.
type ProductService interface {
	List(ctx context.Context, params ProductListParams) (*ProductList, error)
	Create(ctx context.Context, product *domain.Product) error
	ExportAll(ctx context.Context) ([]domain.Product, error)
}

// PatientService defines the application service port for patients.
type PatientService interface {
	List(ctx context.Context, params PatientListParams) (*PatientList, error)
	Create(ctx context.Context, patient *domain.Patient) error
	ExportAll(ctx context.Context) ([]domain.Patient, error)
}
