// Package directus is a client for the Directus items REST API.
package directus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"squadpage/internal/adapters/http/perf"
	"squadpage/internal/application/query"
	"squadpage/internal/metrics"
)

// DefaultBaseURL is the FDND Directus instance.
const DefaultBaseURL = "https://fdnd.directus.app"

// DefaultTimeout bounds every upstream call.
const DefaultTimeout = 10 * time.Second

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 8 << 20

const (
	opFetchCollection = "fetch_collection"
	opFetchByID       = "fetch_by_id"
	opInsert          = "insert"
)

// Client issues requests against {base}/items/{resource}.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	collector  *perf.Collector
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-call timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithCollector records every call in the perf ring buffer.
func WithCollector(pc *perf.Collector) Option {
	return func(c *Client) { c.collector = pc }
}

// NewClient creates a client for the API at baseURL.
// PRE: baseURL is an absolute URL; empty selects DefaultBaseURL
// POST: Returns a client with DefaultTimeout unless overridden
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the top-level shape of every Directus response.
type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []apiError      `json:"errors"`
}

type apiError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

// FetchCollection lists records of resource matching params and decodes the
// data array into out.
// PRE: out is a pointer to a slice
// POST: Returns *UpstreamError or *UpstreamTimeoutError on failure
func (c *Client) FetchCollection(ctx context.Context, resource string, params query.Params, out any) error {
	target := c.itemsURL(resource)
	if enc := params.Encode(); enc != "" {
		target += "?" + enc
	}
	data, err := c.do(ctx, opFetchCollection, resource, "", http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	if isNull(data) {
		return &UpstreamError{Op: opFetchCollection, Resource: resource, Err: errors.New("data is null, want an array")}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &UpstreamError{Op: opFetchCollection, Resource: resource, Err: fmt.Errorf("decode data: %w", err)}
	}
	return nil
}

// FetchByID loads a single record and decodes the data object into out.
// params usually only selects fields.
// Directus answers 403 FORBIDDEN rather than 404 for keys that do not exist,
// so both are reported as *NotFoundError.
// PRE: id is non-empty; out is a pointer to a struct
// POST: Returns *NotFoundError, *UpstreamError or *UpstreamTimeoutError on failure
func (c *Client) FetchByID(ctx context.Context, resource, id string, params query.Params, out any) error {
	target := c.itemsURL(resource) + "/" + url.PathEscape(id)
	if enc := params.Encode(); enc != "" {
		target += "?" + enc
	}
	data, err := c.do(ctx, opFetchByID, resource, id, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	if isNull(data) {
		return &NotFoundError{Resource: resource, ID: id}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &UpstreamError{Op: opFetchByID, Resource: resource, Err: fmt.Errorf("decode data: %w", err)}
	}
	return nil
}

// Insert creates a record from payload. The response body is not used;
// callers re-query to observe the new state.
// PRE: payload marshals to a JSON object
// POST: Returns nil once the API has accepted the record
func (c *Client) Insert(ctx context.Context, resource string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", resource, err)
	}
	_, err = c.do(ctx, opInsert, resource, "", http.MethodPost, c.itemsURL(resource), body)
	return err
}

func (c *Client) itemsURL(resource string) string {
	return c.baseURL + "/items/" + url.PathEscape(resource)
}

// do performs one call under the per-call timeout, classifies the outcome and
// records it. id is set only for single-record lookups.
func (c *Client) do(ctx context.Context, op, resource, id, method, target string, body []byte) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	status, raw, err := c.roundTrip(ctx, method, target, body)
	var data json.RawMessage
	if err == nil {
		data, err = decodeData(op, raw)
	}
	if err != nil {
		err = c.classify(op, resource, id, status, err)
	}
	c.observe(op, resource, method, status, start, err)
	return data, err
}

// roundTrip returns the raw body of a 2xx response, or a *statusError.
func (c *Client) roundTrip(ctx context.Context, method, target string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env envelope
		_ = json.Unmarshal(raw, &env)
		return resp.StatusCode, nil, &statusError{status: resp.StatusCode, errors: env.Errors}
	}

	return resp.StatusCode, raw, nil
}

// decodeData unwraps the data member of a success body. Only inserts may
// answer without one (204, or a body without the created record).
func decodeData(op string, raw []byte) (json.RawMessage, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		if op == opInsert {
			return nil, nil
		}
		return nil, errors.New("empty body")
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	if env.Data == nil && op != opInsert {
		return nil, errors.New("body has no data member")
	}
	return env.Data, nil
}

// statusError carries a non-success response until it is classified.
type statusError struct {
	status int
	errors []apiError
}

func (e *statusError) Error() string {
	if len(e.errors) > 0 && e.errors[0].Message != "" {
		return e.errors[0].Message
	}
	return http.StatusText(e.status)
}

func (c *Client) classify(op, resource, id string, status int, err error) error {
	if isTimeout(err) {
		return &UpstreamTimeoutError{Op: op, Resource: resource, Timeout: c.timeout, Err: err}
	}

	uerr := &UpstreamError{Op: op, Resource: resource, Status: status, Err: err}
	var se *statusError
	if errors.As(err, &se) {
		for _, e := range se.errors {
			if e.Extensions.Code != "" {
				uerr.Codes = append(uerr.Codes, e.Extensions.Code)
			}
		}
	}
	if op == opFetchByID && (status == http.StatusNotFound || (status == http.StatusForbidden && uerr.hasCode("FORBIDDEN"))) {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return uerr
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func isNull(data json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

func (c *Client) observe(op, resource, method string, status int, start time.Time, err error) {
	elapsed := time.Since(start)
	outcome := "ok"
	var nf *NotFoundError
	var te *UpstreamTimeoutError
	switch {
	case err == nil:
	case errors.As(err, &nf):
		outcome = "not_found"
	case errors.As(err, &te):
		outcome = "timeout"
	default:
		outcome = "error"
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(resource, method, outcome).Inc()
	metrics.UpstreamRequestDuration.WithLabelValues(resource, method).Observe(elapsed.Seconds())

	durationMs := float64(elapsed.Microseconds()) / 1000.0
	c.collector.Record(perf.Entry{
		Kind:       perf.KindUpstream,
		Label:      method + " " + resource,
		StatusCode: status,
		Failed:     err != nil && outcome != "not_found",
		DurationMs: durationMs,
		Timestamp:  start,
	})

	if err != nil && outcome != "not_found" {
		slog.Warn("upstream_failed", "op", op, "resource", resource, "status", status, "duration_ms", durationMs, "error", err.Error())
		return
	}
	slog.Debug("upstream", "op", op, "resource", resource, "status", status, "outcome", outcome, "duration_ms", durationMs)
}
