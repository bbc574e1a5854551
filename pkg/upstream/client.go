// Package upstream provides the HTTP client for the third-party recipe
// API: locator construction, credential injection, and uniform error
// classification. Responses are opaque JSON passed through verbatim.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for upstream calls.
var (
	upstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipe_upstream_requests_total",
		Help: "Total upstream requests by operation and status",
	}, []string{"operation", "status"})

	upstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "recipe_upstream_request_duration_seconds",
		Help:    "Upstream request duration in seconds by operation",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"operation"})

	upstreamErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipe_upstream_errors_total",
		Help: "Total upstream errors by class",
	}, []string{"class"})
)

// Config holds the upstream client configuration.
type Config struct {
	// BaseURL is the upstream API root, e.g. "https://api.spoonacular.com".
	BaseURL string

	// APIKey is the upstream credential, appended to every call as the
	// apiKey query parameter. An empty key is not rejected here; the
	// upstream will answer 401 and that surfaces as a client-class Error.
	APIKey string

	// Timeout bounds each remote call at the connection level.
	Timeout time.Duration
}

// DefaultConfig returns a default client configuration.
func DefaultConfig(baseURL, apiKey string) Config {
	return Config{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Timeout: 30 * time.Second,
	}
}

// Client executes remote calls against the upstream recipe API.
// Each Fetch maps to exactly one HTTP request: no retries, so one
// inbound request never costs more than one upstream attempt.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     zerolog.Logger
}

// New creates an upstream client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		logger:  log.With().Str("component", "upstream-client").Logger(),
	}, nil
}

// Fetch executes the remote call described by the locator and returns
// the response body. Non-2xx statuses, network failures, and bodies
// that are not valid JSON all yield a typed *Error.
func (c *Client) Fetch(ctx context.Context, loc Locator) (json.RawMessage, error) {
	startTime := time.Now()
	defer func() {
		upstreamRequestDuration.WithLabelValues(loc.Operation).Observe(time.Since(startTime).Seconds())
	}()

	req, err := c.buildRequest(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	c.logger.Debug().
		Str("operation", loc.Operation).
		Str("method", loc.Method).
		Str("path", loc.Path).
		Msg("Executing upstream request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("operation", loc.Operation).Msg("Upstream request failed")
		upstreamErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		upstreamRequestsTotal.WithLabelValues(loc.Operation, "network_error").Inc()
		return nil, &Error{
			Class:   ErrorClassNetwork,
			Message: "upstream unreachable",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		upstreamErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		upstreamRequestsTotal.WithLabelValues(loc.Operation, "network_error").Inc()
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Class:      ErrorClassNetwork,
			Message:    "read response body",
			Err:        err,
		}
	}

	upstreamRequestsTotal.WithLabelValues(loc.Operation, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		class := classifyStatus(resp.StatusCode)
		upstreamErrorsTotal.WithLabelValues(string(class)).Inc()

		c.logger.Warn().
			Str("operation", loc.Operation).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("Upstream request error")

		return nil, &Error{
			StatusCode: resp.StatusCode,
			Class:      class,
			Message:    upstreamMessage(resp.Status, body),
		}
	}

	if !json.Valid(body) {
		upstreamErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Class:      ErrorClassDecode,
			Message:    "upstream returned unparseable body",
		}
	}

	return json.RawMessage(body), nil
}

// buildRequest assembles the HTTP request for a locator, appending the
// API key to the query.
func (c *Client) buildRequest(ctx context.Context, loc Locator) (*http.Request, error) {
	query := url.Values{}
	for name, values := range loc.Query {
		query[name] = values
	}
	if c.apiKey != "" {
		query.Set("apiKey", c.apiKey)
	}

	target := c.baseURL + loc.Path
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}

	var body io.Reader
	if loc.Body != nil {
		body = bytes.NewReader(loc.Body)
	}

	req, err := http.NewRequestWithContext(ctx, loc.Method, target, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if loc.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// classifyStatus categorizes a non-2xx status for observability and
// handling.
func classifyStatus(status int) ErrorClass {
	if status >= 400 && status < 500 {
		return ErrorClassClient
	}
	return ErrorClassServer
}

// upstreamMessage extracts a diagnostic message from an error response.
// The upstream answers errors as {"status":..,"code":..,"message":..};
// fall back to the HTTP status line when that shape is absent.
func upstreamMessage(statusLine string, body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return statusLine
}
