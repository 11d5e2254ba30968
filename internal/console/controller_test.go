package console_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanniacalzado/OptiGest/internal/console"
	"github.com/yanniacalzado/OptiGest/internal/core/domain"
	"github.com/yanniacalzado/OptiGest/test/helpers"
)

func newProductController(t *testing.T, handler http.Handler) *console.ListController[console.ProductFilters, domain.Product] {
	t.Helper()
	gw := newTestGateway(t, handler)
	return console.NewListController[console.ProductFilters, domain.Product](
		gw, "/api/products/", "products", "product", helpers.TestLogger())
}

// listingBody builds a one-product listing response named after the search
// term, so tests can tell which request produced the committed state.
func listingBody(search string, page, totalPages int) []byte {
	body := map[string]any{
		"products": []map[string]any{{"id": 1, "name": search, "stock": 10, "status": "Normal"}},
		"pagination": map[string]any{
			"current_page": page, "total_pages": totalPages, "total_items": totalPages * 10,
			"has_next": page < totalPages, "has_previous": page > 1,
		},
		"filters": map[string]any{"suppliers": []string{"Luxottica"}},
	}
	raw, _ := json.Marshal(body)
	return raw
}

func TestListController_RefreshReplacesStateAtomically(t *testing.T) {
	ctrl := newProductController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(listingBody("primera", 1, 3))
	}))

	require.NoError(t, ctrl.Refresh(context.Background()))

	state := ctrl.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, "primera", state.Items[0].Name)
	assert.Equal(t, 3, state.Pagination.TotalPages)
	assert.Equal(t, []string{"Luxottica"}, state.Filters.Suppliers)
	assert.False(t, state.Loading)
}

func TestListController_FailureClearsListing(t *testing.T) {
	var fail atomic.Bool
	ctrl := newProductController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(listingBody("ok", 2, 5))
	}))

	require.NoError(t, ctrl.Refresh(context.Background()))
	require.NotEmpty(t, ctrl.State().Items)

	fail.Store(true)
	err := ctrl.Refresh(context.Background())

	fe, ok := console.AsFetchError(err)
	require.True(t, ok)
	assert.Equal(t, console.ReasonHTTP, fe.Reason)

	state := ctrl.State()
	assert.NotNil(t, state.Items)
	assert.Empty(t, state.Items)
	assert.Equal(t, domain.Pagination{}, state.Pagination)
}

func TestListController_SetFiltersResetsPage(t *testing.T) {
	var lastQuery atomic.Value
	ctrl := newProductController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastQuery.Store(r.URL.RawQuery)
		w.Write(listingBody("x", 1, 9))
	}))
	ctx := context.Background()

	require.NoError(t, ctrl.Refresh(ctx))
	require.NoError(t, ctrl.SetPage(ctx, 4))
	assert.Equal(t, 4, ctrl.Query().Page)

	require.NoError(t, ctrl.SetFilters(ctx, console.ProductFilters{Category: "lentes"}))

	assert.Equal(t, 1, ctrl.Query().Page)
	assert.Contains(t, lastQuery.Load().(string), "page=1")
	assert.Contains(t, lastQuery.Load().(string), "category=lentes")
}

func TestListController_PagingKeepsFilters(t *testing.T) {
	var lastQuery atomic.Value
	ctrl := newProductController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastQuery.Store(r.URL.Query())
		page := r.URL.Query().Get("page")
		w.Write(listingBody("p"+page, 2, 3))
	}))
	ctx := context.Background()

	require.NoError(t, ctrl.SetFilters(ctx, console.ProductFilters{Supplier: "Essilor"}))
	require.NoError(t, ctrl.NextPage(ctx))

	q := lastQuery.Load().(url.Values)
	assert.Equal(t, "Essilor", q["supplier"][0])
	assert.Equal(t, "2", q["page"][0])
	assert.Equal(t, 2, ctrl.Query().Page)
}

func TestListController_PrevPageStopsAtFirst(t *testing.T) {
	var calls int32
	ctrl := newProductController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write(listingBody("x", 1, 1))
	}))
	ctx := context.Background()

	require.NoError(t, ctrl.Refresh(ctx))
	before := atomic.LoadInt32(&calls)

	// No previous page in the envelope, so no request is issued.
	require.NoError(t, ctrl.PrevPage(ctx))
	assert.Equal(t, before, atomic.LoadInt32(&calls))
}

func TestListController_LastRequestWins(t *testing.T) {
	release := make(chan struct{})
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			// Hold the first response until the second has committed.
			<-release
		}
		w.Write(listingBody(r.URL.Query().Get("search"), 1, 1))
	})
	ctrl := newProductController(t, handler)
	ctx := context.Background()

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- ctrl.SetFilters(ctx, console.ProductFilters{Search: "lenta"})
	}()

	// Wait for the slow request to reach the server before racing it.
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) >= 1
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, ctrl.SetFilters(ctx, console.ProductFilters{Search: "ganadora"}))
	close(release)

	// The superseded request reports no error and must not touch state.
	require.NoError(t, <-firstDone)

	state := ctrl.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, "ganadora", state.Items[0].Name)
	assert.Equal(t, console.ProductFilters{Search: "ganadora"}, ctrl.Query().Filters)
}

func TestListController_StaleFailureDoesNotClearState(t *testing.T) {
	release := make(chan struct{})
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			<-release
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(listingBody("vigente", 1, 1))
	})
	ctrl := newProductController(t, handler)
	ctx := context.Background()

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- ctrl.Refresh(ctx)
	}()
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) >= 1
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, ctrl.Refresh(ctx))
	close(release)
	require.NoError(t, <-firstDone)

	state := ctrl.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, "vigente", state.Items[0].Name)
}

func TestListController_CreateValidatesBeforeAnyRequest(t *testing.T) {
	var calls int32
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	ctrl := console.NewListController[console.PatientFilters, domain.Patient](
		gw, "/api/patients/", "patients", "patient", helpers.TestLogger())

	form := &console.PatientForm{Name: "Ana", Email: "", Phone: "555"}
	_, err := ctrl.Create(context.Background(), form)

	var ve *console.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Field)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls), "validation failures must not reach the network")
}

func TestListController_CreateRefreshesWithCurrentQuery(t *testing.T) {
	var refetchQuery atomic.Value
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"success": true, "message": "Producto creado exitosamente", "product": {"id": 7, "name": "Nuevo"}}`))
			return
		}
		refetchQuery.Store(r.URL.Query())
		page := r.URL.Query().Get("page")
		w.Write(listingBody("page"+page, 2, 4))
	})
	ctrl := newProductController(t, handler)
	ctx := context.Background()

	require.NoError(t, ctrl.SetFilters(ctx, console.ProductFilters{Category: "armazones"}))
	require.NoError(t, ctrl.SetPage(ctx, 2))

	form := &console.ProductForm{Name: "Nuevo", Category: "armazones", Supplier: "Luxottica"}
	created, err := ctrl.Create(ctx, form)

	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)

	q := refetchQuery.Load().(url.Values)
	assert.Equal(t, "2", q["page"][0], "create must not reset the page")
	assert.Equal(t, "armazones", q["category"][0], "create must keep the filters")
}

func TestListController_CreateFailureLeavesStateUntouched(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success": false, "message": "duplicado"}`))
			return
		}
		w.Write(listingBody("estable", 1, 1))
	})
	ctrl := newProductController(t, handler)
	ctx := context.Background()

	require.NoError(t, ctrl.Refresh(ctx))
	form := &console.ProductForm{Name: "Dup", Category: "lentes", Supplier: "X"}

	_, err := ctrl.Create(ctx, form)

	fe, ok := console.AsFetchError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, fe.Status)

	state := ctrl.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, "estable", state.Items[0].Name)
}

func TestListController_CloseDiscardsLateResponseAndClearsState(t *testing.T) {
	release := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write(listingBody("tarde", 1, 1))
	})
	ctrl := newProductController(t, handler)

	done := make(chan error, 1)
	go func() {
		done <- ctrl.Refresh(context.Background())
	}()
	time.Sleep(20 * time.Millisecond)

	ctrl.Close()
	close(release)
	require.NoError(t, <-done)

	state := ctrl.State()
	assert.Empty(t, state.Items)
	assert.Equal(t, domain.Pagination{}, state.Pagination)
	assert.False(t, state.Loading)

	assert.ErrorIs(t, ctrl.Refresh(context.Background()), console.ErrClosed)
	assert.ErrorIs(t, ctrl.SetPage(context.Background(), 2), console.ErrClosed)

	_, err := ctrl.Create(context.Background(), &console.ProductForm{})
	assert.ErrorIs(t, err, console.ErrClosed)
}

func TestListController_RefreshIsIdempotentForSameQuery(t *testing.T) {
	var calls int32
	ctrl := newProductController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write(listingBody(fmt.Sprintf("c%d", atomic.LoadInt32(&calls)), 1, 1))
	}))
	ctx := context.Background()

	require.NoError(t, ctrl.Refresh(ctx))
	first := ctrl.State()
	require.NoError(t, ctrl.Refresh(ctx))
	second := ctrl.State()

	// Same query, two fetches: state is simply replaced, never duplicated.
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Len(t, first.Items, 1)
	assert.Len(t, second.Items, 1)
	assert.Equal(t, first.Pagination, second.Pagination)
}
