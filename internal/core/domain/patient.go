// internal/core/domain/patient.go
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PatientStatus represents patient activity states
type PatientStatus string

const (
	PatientActive   PatientStatus = "activo"
	PatientInactive PatientStatus = "inactivo"
)

// PatientStatuses lists every status code.
func PatientStatuses() []PatientStatus {
	return []PatientStatus{PatientActive, PatientInactive}
}

// Display returns the human-readable Spanish name for the status.
func (s PatientStatus) Display() string {
	switch s {
	case PatientActive:
		return "Activo"
	case PatientInactive:
		return "Inactivo"
	default:
		return string(s)
	}
}

// Valid reports whether the status is a known code.
func (s PatientStatus) Valid() bool {
	return s == PatientActive || s == PatientInactive
}

// ParsePatientStatus maps a code or display string back to a status.
func ParsePatientStatus(s string) (PatientStatus, bool) {
	switch strings.ToLower(s) {
	case "activo":
		return PatientActive, true
	case "inactivo":
		return PatientInactive, true
	}
	return "", false
}

// PurchaseRef is one row of a patient's recent purchase history.
type PurchaseRef struct {
	Product  string          `json:"product"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Date     time.Time       `json:"date"`
}

// Patient represents a clinic patient. Status travels in display casing
// (Activo/Inactivo); purchase history is capped to the five most recent
// purchases while total_purchases carries the full count.
type Patient struct {
	ID              int64         `json:"id"`
	Name            string        `json:"name"`
	Email           string        `json:"email"`
	Phone           string        `json:"phone"`
	Status          string        `json:"status"`
	Address         string        `json:"address,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	TotalPurchases  int           `json:"total_purchases"`
	PurchaseHistory []PurchaseRef `json:"purchase_history"`
	CreatedAt       time.Time     `json:"created_at"`
}

// Validate performs domain validation on the patient
func (p *Patient) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(p.Email, "@") {
		return fmt.Errorf("email is not valid")
	}
	if p.Phone == "" {
		return fmt.Errorf("phone is required")
	}
	if p.Status == "" {
		p.Status = PatientActive.Display()
	}
	if _, ok := ParsePatientStatus(p.Status); !ok {
		return fmt.Errorf("unknown status: %s", p.Status)
	}
	return nil
}

// PrepareForStorage normalizes the status to display casing and stamps
// creation time before the patient is persisted.
func (p *Patient) PrepareForStorage() {
	if st, ok := ParsePatientStatus(p.Status); ok {
		p.Status = st.Display()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
}
