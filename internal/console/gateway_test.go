package console_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanniacalzado/OptiGest/internal/console"
	"github.com/yanniacalzado/OptiGest/internal/core/domain"
	"github.com/yanniacalzado/OptiGest/test/helpers"
)

func newTestGateway(t *testing.T, handler http.Handler) *console.Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return console.NewGateway(srv.URL, 5*time.Second, helpers.TestLogger())
}

func TestFetchList_DecodesFullEnvelope(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"products": [{"id": 1, "name": "Armazón Clásico", "stock": 12, "status": "Normal"}],
			"pagination": {"current_page": 1, "total_pages": 3, "total_items": 25, "has_next": true, "has_previous": false},
			"filters": {"suppliers": ["Luxottica"], "categories": ["armazones"], "types": ["propio"]}
		}`))
	}))

	page, err := console.FetchList[domain.Product](context.Background(), gw, "/api/products/", "products", nil)

	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Armazón Clásico", page.Items[0].Name)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasNext)
	assert.Equal(t, []string{"Luxottica"}, page.Filters.Suppliers)
}

func TestFetchList_SparseBodyDefaultsToEmptyContainers(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))

	page, err := console.FetchList[domain.Product](context.Background(), gw, "/api/products/", "products", nil)

	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, domain.Pagination{}, page.Pagination)
	assert.Equal(t, domain.FilterOptions{}, page.Filters)
}

func TestFetchList_NullItemsDecodeToEmptySlice(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"products": null}`))
	}))

	page, err := console.FetchList[domain.Product](context.Background(), gw, "/api/products/", "products", nil)

	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestFetchList_ForwardsQueryValues(t *testing.T) {
	var got url.Values
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Write([]byte(`{"products": []}`))
	}))

	q := console.NewQuery[console.ProductFilters]()
	q.Update(console.ProductFilters{Search: "lente"})
	_, err := console.FetchList[domain.Product](context.Background(), gw, "/api/products/", "products", q.Values())

	require.NoError(t, err)
	assert.Equal(t, "lente", got.Get("search"))
	assert.Equal(t, "", got.Get("supplier"))
	assert.Equal(t, "1", got.Get("page"))
}

func TestFetchList_FailureTaxonomy(t *testing.T) {
	t.Run("http_error_carries_status", func(t *testing.T) {
		gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"success": false, "message": "boom"}`))
		}))

		_, err := console.FetchList[domain.Product](context.Background(), gw, "/api/products/", "products", nil)

		fe, ok := console.AsFetchError(err)
		require.True(t, ok)
		assert.Equal(t, console.ReasonHTTP, fe.Reason)
		assert.Equal(t, http.StatusInternalServerError, fe.Status)
		assert.Equal(t, "boom", fe.Message)
	})

	t.Run("network_error_when_server_unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()
		gw := console.NewGateway(srv.URL, time.Second, helpers.TestLogger())

		_, err := console.FetchList[domain.Product](context.Background(), gw, "/api/products/", "products", nil)

		fe, ok := console.AsFetchError(err)
		require.True(t, ok)
		assert.Equal(t, console.ReasonNetwork, fe.Reason)
	})

	t.Run("parse_error_on_unparseable_body", func(t *testing.T) {
		gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>not json</html>`))
		}))

		_, err := console.FetchList[domain.Product](context.Background(), gw, "/api/products/", "products", nil)

		fe, ok := console.AsFetchError(err)
		require.True(t, ok)
		assert.Equal(t, console.ReasonParse, fe.Reason)
	})

	t.Run("timeout_when_deadline_expires", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		t.Cleanup(srv.Close)
		gw := console.NewGateway(srv.URL, 20*time.Millisecond, helpers.TestLogger())

		_, err := console.FetchList[domain.Product](context.Background(), gw, "/api/products/", "products", nil)

		fe, ok := console.AsFetchError(err)
		require.True(t, ok)
		assert.Equal(t, console.ReasonTimeout, fe.Reason)
	})
}

func TestSubmitCreate_DecodesCreatedRecord(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"success": true, "message": "Producto creado exitosamente", "product": {"id": 9, "code": "PROD-AB12CD34", "name": "Lente Nuevo"}}`))
	}))

	form := &console.ProductForm{Name: "Lente Nuevo", Category: "lentes", Supplier: "Essilor"}
	created, err := console.SubmitCreate[domain.Product](context.Background(), gw, "/api/products/", "product", form)

	require.NoError(t, err)
	assert.Equal(t, int64(9), created.ID)
	assert.Equal(t, "PROD-AB12CD34", created.Code)
}

func TestSubmitCreate_ServerRejectionIsHTTPError(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success": false, "message": "El email ya está registrado"}`))
	}))

	form := &console.PatientForm{Name: "Ana", Email: "ana@example.com", Phone: "555"}
	_, err := console.SubmitCreate[domain.Patient](context.Background(), gw, "/api/patients/", "patient", form)

	fe, ok := console.AsFetchError(err)
	require.True(t, ok)
	assert.Equal(t, console.ReasonHTTP, fe.Reason)
	assert.Equal(t, http.StatusBadRequest, fe.Status)
	assert.Equal(t, "El email ya está registrado", fe.Message)
}

func TestGateway_FetchDashboard(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/dashboard/", r.URL.Path)
		w.Write([]byte(`{"dailySales": "1200", "monthlySales": "38000", "appointments": 4, "inventory": 321}`))
	}))

	snap, err := gw.FetchDashboard(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(4), snap.Appointments)
	assert.Equal(t, int64(321), snap.Inventory)
	assert.True(t, snap.DailySales.Equal(decimal.NewFromInt(1200)))
}
