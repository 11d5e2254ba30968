//go:build e2e
// +build e2e

package e2e_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	redis_a "github.com/yanniacalzado/OptiGest/internal/adapters/redis_adapter"
	"github.com/yanniacalzado/OptiGest/internal/console"
	"github.com/yanniacalzado/OptiGest/internal/core/domain"
	"github.com/yanniacalzado/OptiGest/internal/core/ports"
	"github.com/yanniacalzado/OptiGest/internal/core/services"
	"github.com/yanniacalzado/OptiGest/internal/handlers"
	"github.com/yanniacalzado/OptiGest/test/helpers"
)

// ConsoleE2ESuite drives the console client against a real HTTP server
// running the real handlers and services, with in-memory repositories
// standing in for Postgres.
type ConsoleE2ESuite struct {
	suite.Suite
	server   *httptest.Server
	gw       *console.Gateway
	products *console.ListController[console.ProductFilters, domain.Product]
	patients *console.ListController[console.PatientFilters, domain.Patient]

	productRepo *memProductRepo
	patientRepo *memPatientRepo
}

func (s *ConsoleE2ESuite) SetupSuite() {
	logger := helpers.TestLogger()

	s.productRepo = &memProductRepo{}
	s.patientRepo = &memPatientRepo{}

	productService := services.NewProductService(s.productRepo, logger)
	patientService := services.NewPatientService(s.patientRepo, logger)

	testRedis := helpers.SetupTestRedis(s.T())
	cache := redis_a.NewCache(testRedis.Client, time.Minute, logger)

	productHandler := handlers.NewProductHandler(productService, cache, logger)
	patientHandler := handlers.NewPatientHandler(patientService, cache, logger)
	exportHandler := handlers.NewExportHandler(productService, patientService, logger)
	stubHandler := handlers.NewStubHandler(logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products/{$}", productHandler.ListProducts)
	mux.HandleFunc("POST /api/products/{$}", productHandler.CreateProduct)
	mux.HandleFunc("GET /api/products/export/{$}", exportHandler.ExportProducts)
	mux.HandleFunc("GET /api/patients/{$}", patientHandler.ListPatients)
	mux.HandleFunc("POST /api/patients/{$}", patientHandler.CreatePatient)
	mux.HandleFunc("GET /api/patients/export/{$}", exportHandler.ExportPatients)
	mux.HandleFunc("GET /api/appointments/{$}", stubHandler.ListAppointments)

	s.server = httptest.NewServer(mux)

	s.gw = console.NewGateway(s.server.URL, 10*time.Second, logger)
	s.products = console.NewListController[console.ProductFilters, domain.Product](
		s.gw, "/api/products/", "products", "product", logger)
	s.patients = console.NewListController[console.PatientFilters, domain.Patient](
		s.gw, "/api/patients/", "patients", "patient", logger)
}

func (s *ConsoleE2ESuite) SetupTest() {
	s.productRepo.reset()
	s.patientRepo.reset()
}

func (s *ConsoleE2ESuite) TearDownSuite() {
	s.products.Close()
	s.patients.Close()
	s.server.Close()
}

func (s *ConsoleE2ESuite) TestCatalogWorkflow() {
	ctx := context.Background()

	// 1. Register products through the console form
	forms := []console.ProductForm{
		{Name: "Armazón Clásico", Category: "armazones", Supplier: "Luxottica", Stock: 15, Price: decimal.NewFromFloat(120.50)},
		{Name: "Lentes Progresivos", Category: "lentes", Supplier: "Essilor", Stock: 4, Price: decimal.NewFromFloat(280)},
		{Name: "Spray Limpiador", Category: "accesorios", Supplier: "Proveedor B", Stock: 0, Price: decimal.NewFromFloat(6.90), Type: "consignacion"},
	}
	for i := range forms {
		created, err := s.products.Create(ctx, &forms[i])
		s.Require().NoError(err)
		s.Require().NotNil(created)
		s.NotEmpty(created.Code)
	}

	// 2. Status is derived server-side from stock
	s.Require().NoError(s.products.Refresh(ctx))
	state := s.products.State()
	s.Require().Len(state.Items, 3)

	byName := map[string]domain.Product{}
	for _, p := range state.Items {
		byName[p.Name] = p
	}
	s.Equal("Normal", byName["Armazón Clásico"].Status)
	s.Equal("Bajo", byName["Lentes Progresivos"].Status)
	s.Equal("Crítico", byName["Spray Limpiador"].Status)

	// 3. Facets reflect the data
	s.Contains(state.Filters.Suppliers, "Essilor")
	s.Contains(state.Filters.Categories, "armazones")

	// 4. Filter by category
	s.Require().NoError(s.products.SetFilters(ctx, console.ProductFilters{Category: "lentes"}))
	state = s.products.State()
	s.Require().Len(state.Items, 1)
	s.Equal("Lentes Progresivos", state.Items[0].Name)

	// 5. Reset shows everything again
	s.Require().NoError(s.products.ResetFilters(ctx))
	s.Len(s.products.State().Items, 3)
}

func (s *ConsoleE2ESuite) TestCatalogPagination() {
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		form := console.ProductForm{
			Name:     "Estuche Serie " + string(rune('A'+i)),
			Category: "accesorios",
			Supplier: "Proveedor A",
			Stock:    10 + i,
			Price:    decimal.NewFromFloat(8.50),
		}
		_, err := s.products.Create(ctx, &form)
		s.Require().NoError(err)
	}

	s.Require().NoError(s.products.ResetFilters(ctx))
	state := s.products.State()
	s.Len(state.Items, domain.DefaultPageSize)
	s.True(state.Pagination.HasNext)
	s.False(state.Pagination.HasPrevious)

	s.Require().NoError(s.products.NextPage(ctx))
	state = s.products.State()
	s.Equal(2, state.Pagination.CurrentPage)
	s.True(state.Pagination.HasPrevious)

	s.Require().NoError(s.products.PrevPage(ctx))
	s.Equal(1, s.products.State().Pagination.CurrentPage)
}

func (s *ConsoleE2ESuite) TestPatientWorkflow() {
	ctx := context.Background()

	form := console.PatientForm{
		Name:  "María González",
		Email: "maria.gonzalez@example.com",
		Phone: "+34 600 111 222",
	}
	created, err := s.patients.Create(ctx, &form)
	s.Require().NoError(err)
	s.Equal("Activo", created.Status)

	// Duplicate email is rejected with the server message intact
	dup := console.PatientForm{
		Name:  "Otra Persona",
		Email: "MARIA.GONZALEZ@example.com",
		Phone: "+34 600 333 444",
	}
	_, err = s.patients.Create(ctx, &dup)
	s.Require().Error(err)
	fe, ok := console.AsFetchError(err)
	s.Require().True(ok)
	s.Contains(fe.Message, "ya está registrado")

	// Client-side validation never reaches the wire
	bad := console.PatientForm{Name: "Sin Email", Phone: "+34 600 555 666"}
	_, err = s.patients.Create(ctx, &bad)
	var ve *console.ValidationError
	s.Require().ErrorAs(err, &ve)
	s.Equal("email", ve.Field)
}

func (s *ConsoleE2ESuite) TestExportDownload() {
	resp, err := http.Get(s.gw.ExportURL("/api/products/export/"))
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		resp.Header.Get("Content-Type"))
	s.Contains(resp.Header.Get("Content-Disposition"), "productos.xlsx")
}

func (s *ConsoleE2ESuite) TestDashboardFallback() {
	// The test server exposes no dashboard route, so the controller must
	// serve the demo snapshot and flag it as not live.
	logger := helpers.TestLogger()
	dashboard := console.NewDashboardController(s.gw, logger)

	snapshot := dashboard.Load(context.Background())
	s.False(dashboard.Live())
	s.Equal(int64(2850), snapshot.DailySales.IntPart())
	s.NotEmpty(snapshot.RecentSales)
	s.NotEmpty(snapshot.RecentAppointments)
}

func TestConsoleE2ESuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}
	suite.Run(t, new(ConsoleE2ESuite))
}

// In-memory repositories backing the test server.

type memProductRepo struct {
	mu       sync.Mutex
	products []domain.Product
	nextID   int64
}

func (r *memProductRepo) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = nil
	r.nextID = 0
}

func (r *memProductRepo) Save(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	product.ID = r.nextID
	r.products = append(r.products, *product)
	return nil
}

func (r *memProductRepo) FindAll(ctx context.Context, params ports.ProductListParams) ([]domain.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []domain.Product
	for _, p := range r.products {
		if params.Search != "" {
			needle := strings.ToLower(params.Search)
			if !strings.Contains(strings.ToLower(p.Name), needle) &&
				!strings.Contains(strings.ToLower(p.Supplier), needle) &&
				!strings.Contains(strings.ToLower(p.Code), needle) {
				continue
			}
		}
		if params.Category != "" && string(p.Category) != params.Category {
			continue
		}
		if params.Supplier != "" && p.Supplier != params.Supplier {
			continue
		}
		if params.Type != "" && string(p.Type) != params.Type {
			continue
		}
		matched = append(matched, p)
	}

	total := int64(len(matched))
	start := (params.Page - 1) * params.PageSize
	if start >= len(matched) {
		return []domain.Product{}, total, nil
	}
	end := start + params.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *memProductRepo) ListAll(ctx context.Context) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

func (r *memProductRepo) DistinctSuppliers(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]bool{}
	var suppliers []string
	for _, p := range r.products {
		if !seen[p.Supplier] {
			seen[p.Supplier] = true
			suppliers = append(suppliers, p.Supplier)
		}
	}
	sort.Strings(suppliers)
	return suppliers, nil
}

type memPatientRepo struct {
	mu       sync.Mutex
	patients []domain.Patient
	nextID   int64
}

func (r *memPatientRepo) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patients = nil
	r.nextID = 0
}

func (r *memPatientRepo) Save(ctx context.Context, patient *domain.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	patient.ID = r.nextID
	r.patients = append(r.patients, *patient)
	return nil
}

func (r *memPatientRepo) FindAll(ctx context.Context, params ports.PatientListParams) ([]domain.Patient, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []domain.Patient
	for _, p := range r.patients {
		if params.Search != "" {
			needle := strings.ToLower(params.Search)
			if !strings.Contains(strings.ToLower(p.Name), needle) &&
				!strings.Contains(strings.ToLower(p.Email), needle) {
				continue
			}
		}
		if params.Status != "" {
			if st, ok := domain.ParsePatientStatus(params.Status); !ok || p.Status != st.Display() {
				continue
			}
		}
		matched = append(matched, p)
	}

	total := int64(len(matched))
	start := (params.Page - 1) * params.PageSize
	if start >= len(matched) {
		return []domain.Patient{}, total, nil
	}
	end := start + params.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *memPatientRepo) ListAll(ctx context.Context) ([]domain.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Patient, len(r.patients))
	copy(out, r.patients)
	return out, nil
}

func (r *memPatientRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.patients {
		if strings.EqualFold(p.Email, email) {
			return true, nil
		}
	}
	return false, nil
}
