// internal/handlers/stubs.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// StubHandler serves the modules that ship with demo payloads while their
// full workflows are still on the roadmap: appointments, sales, purchases
// and consignments.
type StubHandler struct {
	logger *slog.Logger
}

// NewStubHandler creates a new stub handler
func NewStubHandler(logger *slog.Logger) *StubHandler {
	return &StubHandler{
		logger: logger.With(slog.String("handler", "stubs")),
	}
}

// ListAppointments handles GET /api/appointments/
func (h *StubHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"appointments": []map[string]interface{}{
			{"id": 1, "patient": "Ana Martín", "date": "2024-01-16", "time": "10:00", "type": "Examen Visual", "status": "Confirmada"},
			{"id": 2, "patient": "Luis Pérez", "date": "2024-01-16", "time": "11:30", "type": "Control", "status": "Pendiente"},
		},
	})
}

// CreateAppointment handles POST /api/appointments/
func (h *StubHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	h.acceptSubmission(w, r, "Cita agendada exitosamente")
}

// ListSales handles GET /api/sales/
func (h *StubHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"sales": []map[string]interface{}{
			{"id": 1, "customer": "María González", "amount": 350, "date": "2024-01-15", "status": "Entregado"},
			{"id": 2, "customer": "Carlos López", "amount": 520, "date": "2024-01-15", "status": "En Proceso"},
		},
	})
}

// CreateSale handles POST /api/sales/
func (h *StubHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	h.acceptSubmission(w, r, "Venta registrada exitosamente")
}

// ListPurchases handles GET /api/purchases/
func (h *StubHandler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"purchases": []map[string]interface{}{
			{"id": 1, "supplier": "Proveedor A", "amount": 1200, "date": "2024-01-10", "status": "Recibido"},
			{"id": 2, "supplier": "Proveedor B", "amount": 800, "date": "2024-01-12", "status": "Pendiente"},
		},
	})
}

// CreatePurchase handles POST /api/purchases/
func (h *StubHandler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	h.acceptSubmission(w, r, "Compra registrada exitosamente")
}

// ListConsignments handles GET /api/consignments/
func (h *StubHandler) ListConsignments(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"consignments": []map[string]interface{}{
			{"id": 1, "supplier": "Telko", "product": "Lentes Premium", "quantity": 10, "status": "Activa"},
			{"id": 2, "supplier": "Telko", "product": "Armazones Designer", "quantity": 5, "status": "Vendida"},
		},
	})
}

// CreateConsignment handles POST /api/consignments/
func (h *StubHandler) CreateConsignment(w http.ResponseWriter, r *http.Request) {
	h.acceptSubmission(w, r, "Consignación registrada exitosamente")
}

// acceptSubmission validates the body is JSON and acknowledges it without
// persisting anything.
func (h *StubHandler) acceptSubmission(w http.ResponseWriter, r *http.Request, message string) {
	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Invalid request body",
		})
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": message,
	})
}

func (h *StubHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}
