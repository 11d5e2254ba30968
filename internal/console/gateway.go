// internal/console/gateway.go
package console

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yanniacalzado/OptiGest/internal/core/domain"
)

// FailureReason classifies why a fetch failed.
type FailureReason string

const (
	ReasonNetwork FailureReason = "network_error"
	ReasonHTTP    FailureReason = "http_error"
	ReasonParse   FailureReason = "parse_error"
	ReasonTimeout FailureReason = "timeout"
)

// FetchError is the single error type the gateway produces. Status is only
// meaningful for ReasonHTTP. Timeouts are a FailureReason of their own but
// callers treat them exactly like network errors.
type FetchError struct {
	Reason  FailureReason
	Status  int
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	switch e.Reason {
	case ReasonHTTP:
		if e.Message != "" {
			return fmt.Sprintf("%s (status %d): %s", e.Reason, e.Status, e.Message)
		}
		return fmt.Sprintf("%s (status %d)", e.Reason, e.Status)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Reason, e.Err)
		}
		return string(e.Reason)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// AsFetchError unwraps err to a *FetchError when there is one.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// ValidationError reports a form field that failed local validation.
// It is raised before any request leaves the process.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Gateway performs HTTP calls against the OptiGest API and maps every
// failure into the FetchError taxonomy.
type Gateway struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewGateway builds a gateway for the given API base URL. The timeout
// bounds every request; exceeding it surfaces as ReasonTimeout.
func NewGateway(baseURL string, timeout time.Duration, logger *slog.Logger) *Gateway {
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With(slog.String("component", "gateway")),
	}
}

func (g *Gateway) do(req *http.Request) ([]byte, error) {
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(req.Context(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(req.Context(), err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &FetchError{
			Reason:  ReasonHTTP,
			Status:  resp.StatusCode,
			Message: serverMessage(body),
		}
	}
	return body, nil
}

func (g *Gateway) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := g.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &FetchError{Reason: ReasonNetwork, Err: err}
	}
	return g.do(req)
}

func (g *Gateway) post(ctx context.Context, path string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, &FetchError{Reason: ReasonParse, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, &FetchError{Reason: ReasonNetwork, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return g.do(req)
}

// classifyTransportError separates deadline expiry from other transport
// failures. url.Error wrapping is unwrapped first.
func classifyTransportError(ctx context.Context, err error) *FetchError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &FetchError{Reason: ReasonTimeout, Err: err}
	}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return &FetchError{Reason: ReasonTimeout, Err: err}
	}
	return &FetchError{Reason: ReasonNetwork, Err: err}
}

// serverMessage pulls the message out of an error envelope, best effort.
func serverMessage(body []byte) string {
	var env struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &env); err == nil {
		return env.Message
	}
	return ""
}

// Page is one decoded listing response.
type Page[R any] struct {
	Items      []R
	Pagination domain.Pagination
	Filters    domain.FilterOptions
}

// FetchList retrieves and decodes one page of a resource listing. The
// response is treated as untrusted: a missing items container decodes to an
// empty slice and missing pagination or filters decode to zero values, so a
// sparse body never produces a nil dereference downstream. An unparseable
// body fails with ReasonParse.
func FetchList[R any](ctx context.Context, g *Gateway, path, itemsKey string, query url.Values) (Page[R], error) {
	var page Page[R]

	body, err := g.get(ctx, path, query)
	if err != nil {
		return page, err
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return page, &FetchError{Reason: ReasonParse, Err: err}
	}

	page.Items = []R{}
	if raw, ok := envelope[itemsKey]; ok {
		if err := json.Unmarshal(raw, &page.Items); err != nil {
			return Page[R]{Items: []R{}}, &FetchError{Reason: ReasonParse, Err: err}
		}
		if page.Items == nil {
			page.Items = []R{}
		}
	}
	if raw, ok := envelope["pagination"]; ok {
		if err := json.Unmarshal(raw, &page.Pagination); err != nil {
			return Page[R]{Items: []R{}}, &FetchError{Reason: ReasonParse, Err: err}
		}
	}
	if raw, ok := envelope["filters"]; ok {
		if err := json.Unmarshal(raw, &page.Filters); err != nil {
			return Page[R]{Items: []R{}}, &FetchError{Reason: ReasonParse, Err: err}
		}
	}
	return page, nil
}

// SubmitCreate posts a create payload and decodes the created record from
// the {success, message, <recordKey>} envelope. Server rejections arrive as
// ReasonHTTP carrying the server's message.
func SubmitCreate[R any](ctx context.Context, g *Gateway, path, recordKey string, payload any) (*R, error) {
	body, err := g.post(ctx, path, payload)
	if err != nil {
		return nil, err
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &FetchError{Reason: ReasonParse, Err: err}
	}

	record := new(R)
	if raw, ok := envelope[recordKey]; ok {
		if err := json.Unmarshal(raw, record); err != nil {
			return nil, &FetchError{Reason: ReasonParse, Err: err}
		}
	}
	return record, nil
}

// FetchDashboard retrieves the dashboard aggregation.
func (g *Gateway) FetchDashboard(ctx context.Context) (domain.DashboardSnapshot, error) {
	var snapshot domain.DashboardSnapshot

	body, err := g.get(ctx, "/api/dashboard/", nil)
	if err != nil {
		return snapshot, err
	}
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return domain.DashboardSnapshot{}, &FetchError{Reason: ReasonParse, Err: err}
	}
	return snapshot, nil
}

// ExportURL returns the browser-facing export location for a resource path.
func (g *Gateway) ExportURL(path string) string {
	return g.baseURL + path
}
