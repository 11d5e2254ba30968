// internal/handlers/stubs_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanniacalzado/OptiGest/internal/handlers"
	"github.com/yanniacalzado/OptiGest/test/helpers"
)

func TestStubHandler_Listings(t *testing.T) {
	handler := handlers.NewStubHandler(helpers.TestLogger())

	tests := []struct {
		name     string
		serve    func(http.ResponseWriter, *http.Request)
		url      string
		rootKey  string
		count    int
		validate func(*testing.T, []map[string]interface{})
	}{
		{
			name:    "appointments",
			serve:   handler.ListAppointments,
			url:     "/api/appointments/",
			rootKey: "appointments",
			count:   2,
			validate: func(t *testing.T, items []map[string]interface{}) {
				assert.Equal(t, "Ana Martín", items[0]["patient"])
				assert.Equal(t, "Confirmada", items[0]["status"])
				assert.Equal(t, "Pendiente", items[1]["status"])
			},
		},
		{
			name:    "sales",
			serve:   handler.ListSales,
			url:     "/api/sales/",
			rootKey: "sales",
			count:   2,
			validate: func(t *testing.T, items []map[string]interface{}) {
				assert.Equal(t, "María González", items[0]["customer"])
				assert.Equal(t, float64(350), items[0]["amount"])
			},
		},
		{
			name:    "purchases",
			serve:   handler.ListPurchases,
			url:     "/api/purchases/",
			rootKey: "purchases",
			count:   2,
			validate: func(t *testing.T, items []map[string]interface{}) {
				assert.Equal(t, "Proveedor A", items[0]["supplier"])
				assert.Equal(t, float64(1200), items[0]["amount"])
			},
		},
		{
			name:    "consignments",
			serve:   handler.ListConsignments,
			url:     "/api/consignments/",
			rootKey: "consignments",
			count:   2,
			validate: func(t *testing.T, items []map[string]interface{}) {
				assert.Equal(t, "Telko", items[0]["supplier"])
				assert.Equal(t, "Lentes Premium", items[0]["product"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.url, nil)
			w := httptest.NewRecorder()

			tt.serve(w, req)

			require.Equal(t, http.StatusOK, w.Code)

			var response map[string][]map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			items, ok := response[tt.rootKey]
			require.True(t, ok)
			require.Len(t, items, tt.count)
			tt.validate(t, items)
		})
	}
}

func TestStubHandler_Submissions(t *testing.T) {
	handler := handlers.NewStubHandler(helpers.TestLogger())

	tests := []struct {
		name    string
		serve   func(http.ResponseWriter, *http.Request)
		message string
	}{
		{"appointment", handler.CreateAppointment, "Cita agendada exitosamente"},
		{"sale", handler.CreateSale, "Venta registrada exitosamente"},
		{"purchase", handler.CreatePurchase, "Compra registrada exitosamente"},
		{"consignment", handler.CreateConsignment, "Consignación registrada exitosamente"},
	}

	for _, tt := range tests {
		t.Run(tt.name+"_accepted", func(t *testing.T) {
			body := bytes.NewBufferString(`{"any":"payload"}`)
			req := httptest.NewRequest("POST", "/api/test/", body)
			w := httptest.NewRecorder()

			tt.serve(w, req)

			require.Equal(t, http.StatusOK, w.Code)

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, true, response["success"])
			assert.Equal(t, tt.message, response["message"])
		})

		t.Run(tt.name+"_rejects_bad_json", func(t *testing.T) {
			body := bytes.NewBufferString(`{broken`)
			req := httptest.NewRequest("POST", "/api/test/", body)
			w := httptest.NewRecorder()

			tt.serve(w, req)

			require.Equal(t, http.StatusBadRequest, w.Code)

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, false, response["success"])
		})
	}
}
