// Package backend is the HTTP gateway to the SAMARTH REST API.
package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/samarth/admin-console/internal/api/metrics"
	"github.com/samarth/admin-console/internal/core/domain"
	"github.com/samarth/admin-console/internal/core/ports"
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 4 << 10
)

// Config captures what the client needs to reach the API.
type Config struct {
	// BaseURL is prepended to every /api/v1 path.
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client implements ports.Backend over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

var _ ports.Backend = (*Client)(nil)

// New returns a Client for cfg.
func New(cfg Config, log zerolog.Logger) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    hc,
		log:     log,
	}
}

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Operation string
	Code      int
	Detail    string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: backend returned %d", e.Operation, e.Code)
	}
	return fmt.Sprintf("%s: backend returned %d: %s", e.Operation, e.Code, e.Detail)
}

// Unwrap maps well-known status codes onto domain errors so callers can use
// errors.Is without knowing about HTTP.
func (e *StatusError) Unwrap() error {
	switch e.Code {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.ErrInvalidInput
	}
	return nil
}

// request describes one API call.
type request struct {
	op     string
	method string
	path   string
	token  string

	// body is either url.Values-encoded form data or a JSON payload.
	form string
	json any
	out  any
}

func (c *Client) do(ctx context.Context, r request) error {
	var body io.Reader
	contentType := ""
	switch {
	case r.form != "":
		body = strings.NewReader(r.form)
		contentType = "application/x-www-form-urlencoded"
	case r.json != nil:
		raw, err := json.Marshal(r.json)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", r.op, err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", r.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.BackendRequestDuration.WithLabelValues(r.op, "error").Observe(time.Since(start).Seconds())
		return fmt.Errorf("%s: %w", r.op, err)
	}
	defer resp.Body.Close()
	metrics.BackendRequestDuration.WithLabelValues(r.op, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	c.log.Debug().
		Str("operation", r.op).
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Operation: r.op, Code: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	if r.out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(r.out); err != nil {
		return fmt.Errorf("%s: decode response: %w", r.op, err)
	}
	return nil
}

// readDetail extracts the API's {"detail": ...} message, which is a string
// for most errors and a list of field errors for validation failures.
func readDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Detail) == 0 {
		return strings.TrimSpace(string(raw))
	}
	var msg string
	if err := json.Unmarshal(envelope.Detail, &msg); err == nil {
		return msg
	}
	return string(envelope.Detail)
}

// UserDetail is the API's own explanation, suitable for showing to operators.
func (e *StatusError) UserDetail() string {
	return e.Detail
}
