// internal/core/services/patient.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yanniacalzado/OptiGest/internal/core/domain"
	"github.com/yanniacalzado/OptiGest/internal/core/ports"
)

// ErrDuplicateEmail is returned when a patient's email is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// PatientService handles patient business logic
type PatientService struct {
	repo   ports.PatientRepository
	logger *slog.Logger
}

// Statically assert that *PatientService implements the PatientService interface.
var _ ports.PatientService = (*PatientService)(nil)

// NewPatientService creates a new patient service
func NewPatientService(repo ports.PatientRepository, logger *slog.Logger) *PatientService {
	return &PatientService{
		repo:   repo,
		logger: logger.With(slog.String("service", "patients")),
	}
}

// List retrieves one page of patients with the pagination envelope and the
// status facet values.
func (s *PatientService) List(ctx context.Context, params ports.PatientListParams) (*ports.PatientList, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize <= 0 {
		params.PageSize = domain.DefaultPageSize
	}

	patients, total, err := s.repo.FindAll(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	if patients == nil {
		patients = []domain.Patient{}
	}

	filters := domain.FilterOptions{}
	for _, st := range domain.PatientStatuses() {
		filters.Statuses = append(filters.Statuses, string(st))
	}

	return &ports.PatientList{
		Patients:   patients,
		Pagination: domain.NewPagination(params.Page, params.PageSize, total),
		Filters:    filters,
	}, nil
}

// Create validates and persists a new patient, rejecting duplicate emails.
func (s *PatientService) Create(ctx context.Context, patient *domain.Patient) error {
	if err := patient.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	exists, err := s.repo.EmailExists(ctx, patient.Email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return ErrDuplicateEmail
	}

	patient.PrepareForStorage()

	if err := s.repo.Save(ctx, patient); err != nil {
		return fmt.Errorf("failed to save patient: %w", err)
	}

	s.logger.InfoContext(ctx, "created patient",
		slog.String("name", patient.Name),
		slog.String("email", patient.Email))

	return nil
}

// ExportAll returns every patient for spreadsheet export.
func (s *PatientService) ExportAll(ctx context.Context) ([]domain.Patient, error) {
	patients, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export patients: %w", err)
	}
	return patients, nil
}
