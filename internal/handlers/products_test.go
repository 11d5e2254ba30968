// internal/handlers/products_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/yanniacalzado/OptiGest/internal/core/domain"
	"github.com/yanniacalzado/OptiGest/internal/core/ports"
	"github.com/yanniacalzado/OptiGest/internal/handlers"
	"github.com/yanniacalzado/OptiGest/test/helpers"
	"github.com/yanniacalzado/OptiGest/test/mocks"
)

func domainPagination(page, totalPages int, totalItems int64) domain.Pagination {
	return domain.Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}

func domainFilters(suppliers []string) domain.FilterOptions {
	return domain.FilterOptions{
		Suppliers:  suppliers,
		Categories: []string{"armazones", "lentes", "lentes_contacto", "accesorios"},
		Types:      []string{"propio", "consignacion"},
	}
}

func TestProductHandler_ListProducts(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		setupMocks     func(*mocks.MockProductService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name: "returns_listing_with_pagination_and_filters",
			url:  "/api/products/",
			setupMocks: func(m *mocks.MockProductService) {
				m.EXPECT().
					List(gomock.Any(), ports.ProductListParams{Page: 1, PageSize: 10}).
					Return(&ports.ProductList{
						Products:   helpers.CreateTestProducts(2),
						Pagination: domainPagination(1, 1, 2),
						Filters:    domainFilters([]string{"Luxottica"}),
					}, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var response ports.ProductList
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Len(t, response.Products, 2)
				assert.Equal(t, int64(2), response.Pagination.TotalItems)
				assert.Equal(t, []string{"Luxottica"}, response.Filters.Suppliers)
			},
		},
		{
			name: "forwards_query_parameters",
			url:  "/api/products/?page=2&page_size=5&search=lente&category=lentes&supplier=Essilor&type=propio",
			setupMocks: func(m *mocks.MockProductService) {
				m.EXPECT().
					List(gomock.Any(), ports.ProductListParams{
						Search:   "lente",
						Category: "lentes",
						Supplier: "Essilor",
						Type:     "propio",
						Page:     2,
						PageSize: 5,
					}).
					Return(&ports.ProductList{}, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody:   func(t *testing.T, body []byte) {},
		},
		{
			name: "caps_page_size_at_100",
			url:  "/api/products/?page_size=500",
			setupMocks: func(m *mocks.MockProductService) {
				m.EXPECT().
					List(gomock.Any(), gomock.Cond(func(x any) bool {
						params := x.(ports.ProductListParams)
						return params.PageSize == 100
					})).
					Return(&ports.ProductList{}, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody:   func(t *testing.T, body []byte) {},
		},
		{
			name: "ignores_malformed_page",
			url:  "/api/products/?page=abc",
			setupMocks: func(m *mocks.MockProductService) {
				m.EXPECT().
					List(gomock.Any(), gomock.Cond(func(x any) bool {
						params := x.(ports.ProductListParams)
						return params.Page == 1
					})).
					Return(&ports.ProductList{}, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody:   func(t *testing.T, body []byte) {},
		},
		{
			name: "service_error",
			url:  "/api/products/",
			setupMocks: func(m *mocks.MockProductService) {
				m.EXPECT().
					List(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("database connection failed"))
			},
			expectedStatus: http.StatusInternalServerError,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "Failed to list products", response["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockProductService(ctrl)
			mockCache := mocks.NewMockCacheRepository(ctrl)
			tt.setupMocks(mockService)

			handler := handlers.NewProductHandler(mockService, mockCache, helpers.TestLogger())

			req := httptest.NewRequest("GET", tt.url, nil)
			w := httptest.NewRecorder()

			handler.ListProducts(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.validateBody(t, w.Body.Bytes())
		})
	}
}

func TestProductHandler_CreateProduct(t *testing.T) {
	validBody := map[string]interface{}{
		"name":     "Armazón Aviador",
		"category": "armazones",
		"supplier": "Luxottica",
		"stock":    12,
		"price":    149.90,
	}

	tests := []struct {
		name           string
		body           interface{}
		rawBody        string
		setupMocks     func(*mocks.MockProductService, *mocks.MockCacheRepository)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name: "creates_product_and_invalidates_dashboard",
			body: validBody,
			setupMocks: func(s *mocks.MockProductService, c *mocks.MockCacheRepository) {
				s.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(nil)
				c.EXPECT().
					DeletePattern(gomock.Any(), "dash:*").
					Return(nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]interface{}
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, true, response["success"])
				assert.Equal(t, "Producto creado exitosamente", response["message"])
				assert.NotNil(t, response["product"])
			},
		},
		{
			name:           "rejects_malformed_json",
			rawBody:        "{not json",
			setupMocks:     func(s *mocks.MockProductService, c *mocks.MockCacheRepository) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]interface{}
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, false, response["success"])
				assert.Equal(t, "Invalid request body", response["message"])
			},
		},
		{
			name: "rejects_unknown_category",
			body: map[string]interface{}{
				"name":     "Reloj",
				"category": "relojes",
				"supplier": "Luxottica",
			},
			setupMocks:     func(s *mocks.MockProductService, c *mocks.MockCacheRepository) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]interface{}
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, false, response["success"])
				assert.Contains(t, response["message"], "unknown category")
			},
		},
		{
			name: "rejects_negative_stock",
			body: map[string]interface{}{
				"name":     "Armazón",
				"category": "armazones",
				"supplier": "Luxottica",
				"stock":    -3,
			},
			setupMocks:     func(s *mocks.MockProductService, c *mocks.MockCacheRepository) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]interface{}
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Contains(t, response["message"], "stock cannot be negative")
			},
		},
		{
			name: "service_error_returns_400_envelope",
			body: validBody,
			setupMocks: func(s *mocks.MockProductService, c *mocks.MockCacheRepository) {
				s.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(errors.New("failed to save product"))
			},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]interface{}
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, false, response["success"])
				assert.Contains(t, response["message"], "failed to save product")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockProductService(ctrl)
			mockCache := mocks.NewMockCacheRepository(ctrl)
			tt.setupMocks(mockService, mockCache)

			handler := handlers.NewProductHandler(mockService, mockCache, helpers.TestLogger())

			var buf bytes.Buffer
			if tt.rawBody != "" {
				buf.WriteString(tt.rawBody)
			} else {
				require.NoError(t, json.NewEncoder(&buf).Encode(tt.body))
			}

			req := httptest.NewRequest("POST", "/api/products/", &buf)
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.CreateProduct(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.validateBody(t, w.Body.Bytes())
		})
	}
}
