// internal/console/controller.go
package console

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/yanniacalzado/OptiGest/internal/core/domain"
)

// ErrClosed is returned by a controller that has been torn down.
var ErrClosed = errors.New("console: controller closed")

// Form is a create payload that can validate itself before submission.
type Form interface {
	Validate() error
}

// State is a point-in-time copy of a controller's listing state.
type State[R any] struct {
	Items      []R
	Pagination domain.Pagination
	Filters    domain.FilterOptions
	Loading    bool
}

// ListController owns the listing state for one resource: the current
// query, the fetched page and the in-flight request. Commits follow a
// last-request-wins policy: every refresh takes a sequence number and only
// the response matching the latest sequence may touch state; superseded
// responses, successful or failed, are discarded whole. There is no merging
// of stale data.
type ListController[F Filters, R any] struct {
	gw        *Gateway
	path      string
	itemsKey  string
	recordKey string
	logger    *slog.Logger

	mu         sync.Mutex
	query      Query[F]
	items      []R
	pagination domain.Pagination
	filters    domain.FilterOptions
	loading    bool
	seq        uint64
	cancel     context.CancelFunc
	closed     bool
}

// NewListController builds a controller for one resource endpoint.
// itemsKey and recordKey name the per-resource envelope members
// ("products"/"product", "patients"/"patient").
func NewListController[F Filters, R any](gw *Gateway, path, itemsKey, recordKey string, logger *slog.Logger) *ListController[F, R] {
	return &ListController[F, R]{
		gw:        gw,
		path:      path,
		itemsKey:  itemsKey,
		recordKey: recordKey,
		logger:    logger.With(slog.String("controller", itemsKey)),
		query:     NewQuery[F](),
		items:     []R{},
	}
}

// Refresh fetches the page described by the current query and commits the
// result unless a newer refresh has been issued meanwhile. On a committed
// failure the listing is cleared to an empty page; the error is logged and
// returned for inspection but the controller stays fully usable.
func (c *ListController[F, R]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.seq++
	seq := c.seq
	if c.cancel != nil {
		// A newer query supersedes the in-flight request.
		c.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.loading = true
	query := c.query
	c.mu.Unlock()

	page, err := FetchList[R](fetchCtx, c.gw, c.path, c.itemsKey, query.Values())
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq || c.closed {
		// Stale response: a newer request owns the state now.
		return nil
	}
	c.loading = false
	c.cancel = nil

	if err != nil {
		c.items = []R{}
		c.pagination = domain.Pagination{}
		c.logger.Error("listing fetch failed",
			slog.String("path", c.path),
			slog.Int("page", query.Page),
			slog.Any("error", err))
		return err
	}

	c.items = page.Items
	c.pagination = page.Pagination
	c.filters = page.Filters
	return nil
}

// SetFilters replaces the facet set and refreshes. The page resets to 1
// when the facets changed.
func (c *ListController[F, R]) SetFilters(ctx context.Context, f F) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.query.Update(f)
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// ResetFilters clears every facet, returns to page 1 and refreshes.
func (c *ListController[F, R]) ResetFilters(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.query.Reset()
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// SetPage moves to the given page and refreshes. Facets are untouched.
func (c *ListController[F, R]) SetPage(ctx context.Context, page int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.query.SetPage(page)
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// NextPage advances one page when the envelope says there is one.
func (c *ListController[F, R]) NextPage(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !c.pagination.HasNext {
		c.mu.Unlock()
		return nil
	}
	c.query.SetPage(c.query.Page + 1)
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// PrevPage goes back one page when the envelope says there is one.
func (c *ListController[F, R]) PrevPage(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !c.pagination.HasPrevious {
		c.mu.Unlock()
		return nil
	}
	c.query.SetPage(c.query.Page - 1)
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Create validates the form locally, submits it and, on success, refreshes
// the listing with the CURRENT query so the operator stays on their page
// and filters. Validation failures never produce a request; submission
// failures leave the listing state untouched.
func (c *ListController[F, R]) Create(ctx context.Context, form Form) (*R, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.mu.Unlock()

	if err := form.Validate(); err != nil {
		return nil, err
	}

	record, err := SubmitCreate[R](ctx, c.gw, c.path, c.recordKey, form)
	if err != nil {
		c.logger.Error("create failed",
			slog.String("path", c.path),
			slog.Any("error", err))
		return nil, err
	}

	if err := c.Refresh(ctx); err != nil && !errors.Is(err, ErrClosed) {
		c.logger.Warn("refresh after create failed", slog.Any("error", err))
	}
	return record, nil
}

// State returns a copy of the current listing state.
func (c *ListController[F, R]) State() State[R] {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]R, len(c.items))
	copy(items, c.items)
	return State[R]{
		Items:      items,
		Pagination: c.pagination,
		Filters:    c.filters,
		Loading:    c.loading,
	}
}

// Query returns a copy of the current query.
func (c *ListController[F, R]) Query() Query[F] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Close tears the controller down: the in-flight request is cancelled, any
// late response is discarded and the state is cleared. Further calls return
// ErrClosed.
func (c *ListController[F, R]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.seq++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.items = []R{}
	c.pagination = domain.Pagination{}
	c.filters = domain.FilterOptions{}
	c.loading = false
	c.query.Reset()
}
