// Package backend is the typed HTTP client for the remote inventory and
// accounting API. Every per-user route is addressed by the identity passed to
// the call; the client holds no session state of its own.
package backend

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

	"github.com/erp/dashboard/internal/infrastructure/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const maxErrorBody = 4 << 10

// Config configures the backend client
type Config struct {
	BaseURL string
	Timeout time.Duration
	MePath  string
}

// Client calls the backend API. It does not retry; every failure is returned
// to the caller.
type Client struct {
	httpClient *http.Client
	baseURL    string
	mePath     string
	metrics    *telemetry.DashboardMetrics
	logger     *zap.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the default traced HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMetrics records every call on m
func WithMetrics(m *telemetry.DashboardMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the client's logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a backend client
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL must be absolute: %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MePath == "" {
		cfg.MePath = "/auth/me"
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 10
	transport.IdleConnTimeout = 90 * time.Second

	c := &Client{
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(transport),
			Timeout:   cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		mePath:  cfg.MePath,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// request is one backend call. Endpoint names the call for errors, spans and
// metrics; path segments must already be escaped.
type request struct {
	endpoint string
	method   string
	path     string
	body     interface{}
	cookies  []*http.Cookie
}

// response carries what callers may need beyond the decoded body
type response struct {
	statusCode int
	cookies    []*http.Cookie
}

// do executes req and decodes a 2xx JSON body into out (when out is non-nil)
func (c *Client) do(ctx context.Context, req request, out interface{}) (*response, error) {
	start := time.Now()
	resp, err := c.execute(ctx, req, out)
	c.metrics.RecordBackendCall(ctx, req.endpoint, time.Since(start), err)
	if err != nil {
		c.logger.Debug("backend call failed",
			zap.String("endpoint", req.endpoint),
			zap.String("method", req.method),
			zap.Error(err),
		)
	}
	return resp, err
}

func (c *Client) execute(ctx context.Context, req request, out interface{}) (*response, error) {
	var bodyReader io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("marshaling %s body: %w", req.endpoint, err)
		}
		bodyReader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.buildURL(req.path), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", req.endpoint, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range req.cookies {
		httpReq.AddCookie(ck)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", req.endpoint, err)
	}
	defer httpResp.Body.Close()

	resp := &response{statusCode: httpResp.StatusCode, cookies: httpResp.Cookies()}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(httpResp.Body, maxErrorBody))
		return resp, &APIError{
			StatusCode: httpResp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
			Endpoint:   req.endpoint,
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, httpResp.Body)
		return resp, nil
	}
	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil && err != io.EOF {
		return resp, fmt.Errorf("decoding %s response: %w", req.endpoint, err)
	}
	return resp, nil
}

func (c *Client) buildURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// userPath builds /user/{action}/{identity}[/{extra}...] with every dynamic
// segment path-escaped
func userPath(action, identity string, extra ...string) string {
	var b strings.Builder
	b.WriteString("/user/")
	b.WriteString(action)
	b.WriteString("/")
	b.WriteString(url.PathEscape(identity))
	for _, e := range extra {
		b.WriteString("/")
		b.WriteString(url.PathEscape(e))
	}
	return b.String()
}

// listEnvelope is the {data: [...]} wrapper of every list endpoint
type listEnvelope[T any] struct {
	Data []T `json:"data"`
}
