// internal/handlers/patients.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	redis_a "github.com/yanniacalzado/OptiGest/internal/adapters/redis_adapter"
	"github.com/yanniacalzado/OptiGest/internal/core/domain"
	"github.com/yanniacalzado/OptiGest/internal/core/ports"
	"github.com/yanniacalzado/OptiGest/internal/core/services"
)

// PatientHandler handles patient registry HTTP requests
type PatientHandler struct {
	service ports.PatientService
	cache   ports.CacheRepository
	logger  *slog.Logger
}

// NewPatientHandler creates a new patient handler
func NewPatientHandler(service ports.PatientService, cache ports.CacheRepository, logger *slog.Logger) *PatientHandler {
	return &PatientHandler{
		service: service,
		cache:   cache,
		logger:  logger.With(slog.String("handler", "patients")),
	}
}

// ListPatients handles GET /api/patients/
func (h *PatientHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params := h.parseListParams(r)

	result, err := h.service.List(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list patients",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list patients")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// CreatePatient handles POST /api/patients/
func (h *PatientHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondCreateError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		h.respondCreateError(w, http.StatusBadRequest, err.Error())
		return
	}

	patient := req.ToDomain()

	if err := h.service.Create(ctx, patient); err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			h.respondCreateError(w, http.StatusBadRequest, "El email ya está registrado")
			return
		}

		h.logger.ErrorContext(ctx, "failed to create patient",
			slog.String("email", req.Email),
			slog.String("error", err.Error()))
		h.respondCreateError(w, http.StatusBadRequest, err.Error())
		return
	}

	redis_a.InvalidateDashboard(ctx, h.cache, h.logger)

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Paciente registrado exitosamente",
		"patient": patient,
	})
}

// parseListParams parses query parameters for the patient listing
func (h *PatientHandler) parseListParams(r *http.Request) ports.PatientListParams {
	params := ports.PatientListParams{
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
	params.Status = r.URL.Query().Get("status")

	return params
}

// Helper methods

func (h *PatientHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *PatientHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

func (h *PatientHandler) respondCreateError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// Request DTOs

// CreatePatientRequest represents the request body for registering a patient
type CreatePatientRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Status  string `json:"status,omitempty"`
	Address string `json:"address,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// Validate validates the create patient request
func (r *CreatePatientRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(r.Email, "@") {
		return fmt.Errorf("invalid email address")
	}
	if r.Phone == "" {
		return fmt.Errorf("phone is required")
	}
	if r.Status != "" {
		if _, ok := domain.ParsePatientStatus(r.Status); !ok {
			return fmt.Errorf("unknown status: %s", r.Status)
		}
	}
	return nil
}

// ToDomain converts the request to a domain model
func (r *CreatePatientRequest) ToDomain() *domain.Patient {
	status := r.Status
	if status == "" {
		status = string(domain.PatientActive)
	}

	return &domain.Patient{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Status:  status,
		Address: r.Address,
		Notes:   r.Notes,
	}
}
