// internal/core/domain/listing.go
package domain

// DefaultPageSize is the server-side page size for resource listings.
const DefaultPageSize = 10

// Pagination is the envelope metadata attached to every resource listing.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// NewPagination computes envelope metadata for a page of a result set.
func NewPagination(page, pageSize int, totalItems int64) Pagination {
	var totalPages int
	if pageSize > 0 {
		totalPages = int(totalItems) / pageSize
		if int(totalItems)%pageSize > 0 {
			totalPages++
		}
	}
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}

// FilterOptions carries the facet values a listing offers. Suppliers are
// distinct values present in the data; the rest are catalog codes. The
// same struct serves both resources, unused facets stay empty.
type FilterOptions struct {
	Suppliers  []string `json:"suppliers,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Types      []string `json:"types,omitempty"`
	Statuses   []string `json:"statuses,omitempty"`
}
