// test/benchmarks/helpers.go
package benchmarks

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/yanniacalzado/OptiGest/internal/core/domain"
	"github.com/yanniacalzado/OptiGest/internal/core/ports"
	"github.com/yanniacalzado/OptiGest/test/helpers"
)

// listingPayload builds the JSON body of one product listing page with n
// products, the shape the gateway decodes in production.
func listingPayload(n int) []byte {
	products := helpers.CreateTestProducts(n)

	categories := make([]string, 0, 4)
	for _, c := range domain.Categories() {
		categories = append(categories, string(c))
	}
	types := make([]string, 0, 2)
	for _, t := range domain.ProductTypes() {
		types = append(types, string(t))
	}

	list := ports.ProductList{
		Products:   products,
		Pagination: domain.NewPagination(1, n, int64(n)),
		Filters: domain.FilterOptions{
			Suppliers:  []string{"Luxottica", "Essilor", "Alcon"},
			Categories: categories,
			Types:      types,
		},
	}

	data, err := json.Marshal(list)
	if err != nil {
		panic(err)
	}
	return data
}

// newListingServer serves the same listing payload for every request.
func newListingServer(payload []byte) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(payload)
	}))
}
