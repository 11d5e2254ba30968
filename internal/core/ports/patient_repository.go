// internal/core/ports/patient_repository.go
package ports

import (
	"context"

	"github.com/yanniacalzado/OptiGest/internal/core/domain"
)

// PatientRepository defines the persistence port for patients.
// FindAll returns patients with purchase history attached.
type PatientRepository interface {
	Save(ctx context.Context, patient *domain.Patient) error
	FindAll(ctx context.Context, params PatientListParams) ([]domain.Patient, int64, error)
	ListAll(ctx context.Context) ([]domain.Patient, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// PatientListParams holds the listing query for patients.
type PatientListParams struct {
	Search   string
	Status   string
	Page     int
	PageSize int
}
