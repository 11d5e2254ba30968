// internal/console/query.go
package console

import (
	"net/url"
	"strconv"
)

// Filters is the constraint for a resource's facet set. Implementations are
// comparable value types; Encode must set EVERY facet key on the values,
// writing an empty string for unset facets so the server always receives
// the full facet vocabulary.
type Filters interface {
	comparable
	Encode(v url.Values)
}

// ProductFilters are the catalog listing facets.
type ProductFilters struct {
	Search   string
	Category string
	Supplier string
	Type     string
}

func (f ProductFilters) Encode(v url.Values) {
	v.Set("search", f.Search)
	v.Set("category", f.Category)
	v.Set("supplier", f.Supplier)
	v.Set("type", f.Type)
}

// PatientFilters are the patient listing facets.
type PatientFilters struct {
	Search string
	Status string
}

func (f PatientFilters) Encode(v url.Values) {
	v.Set("search", f.Search)
	v.Set("status", f.Status)
}

// Query is the canonical listing request state: one facet set plus a
// 1-based page. Editing any facet snaps the page back to 1 so a narrowed
// result set is never requested at a page that no longer exists.
type Query[F Filters] struct {
	Filters F
	Page    int
}

// NewQuery returns a query at page 1 with unset facets.
func NewQuery[F Filters]() Query[F] {
	return Query[F]{Page: 1}
}

// Update replaces the facet set. The page resets to 1 only when the facets
// actually change; a paging-only interaction goes through SetPage.
func (q *Query[F]) Update(f F) {
	if f == q.Filters {
		return
	}
	q.Filters = f
	q.Page = 1
}

// SetPage moves to the given page, ignoring values below 1.
func (q *Query[F]) SetPage(page int) {
	if page >= 1 {
		q.Page = page
	}
}

// Reset clears every facet and returns to page 1.
func (q *Query[F]) Reset() {
	var zero F
	q.Filters = zero
	q.Page = 1
}

// Values encodes the query for the wire. Every facet key is always present,
// empty string meaning unset, never omitted and never null.
func (q Query[F]) Values() url.Values {
	v := url.Values{}
	q.Filters.Encode(v)
	page := q.Page
	if page < 1 {
		page = 1
	}
	v.Set("page", strconv.Itoa(page))
	return v
}
