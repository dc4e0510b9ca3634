// Package hub is the Docker Hub adapter. Every operation performs exactly one
// GET against the Hub v2 API and reshapes the JSON body into the records in
// types.go. Nothing is cached and nothing is retried.
package hub

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	hubErrors "github.com/ajitpratap0/hubscout/pkg/errors"
	"github.com/ajitpratap0/hubscout/pkg/logging"
	"github.com/ajitpratap0/hubscout/pkg/observability"
)

const (
	// DefaultBaseURL is the public Docker Hub API
	DefaultBaseURL = "https://hub.docker.com"

	// DefaultTimeout bounds a single upstream request
	DefaultTimeout = 15 * time.Second

	// DefaultUserAgent is sent when Config.UserAgent is empty
	DefaultUserAgent = "hubscout"

	// maxBodySize caps how much of a response body is decoded
	maxBodySize = 8 << 20
	// maxErrorBody caps how much of an error body is kept for diagnostics
	maxErrorBody = 1 << 10
)

// Config configures a Client
type Config struct {
	BaseURL   string
	Token     string
	Timeout   time.Duration
	UserAgent string
}

// Client talks to the Docker Hub v2 API
type Client struct {
	baseURL    *url.URL
	token      string
	timeout    time.Duration
	userAgent  string
	httpClient *http.Client
	logger     logging.Logger
	telemetry  *observability.Telemetry
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger
func WithLogger(logger logging.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTelemetry sets the metrics and tracing providers
func WithTelemetry(t *observability.Telemetry) Option {
	return func(c *Client) {
		c.telemetry = t
	}
}

// NewClient creates a Docker Hub client. Zero config values take defaults.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", cfg.BaseURL)
	}

	c := &Client{
		baseURL:    base,
		token:      cfg.Token,
		timeout:    cfg.Timeout,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{},
		logger:     logging.Nop(),
		telemetry:  observability.Disabled(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithFields(logging.String("component", "hub"))

	return c, nil
}

// request describes one upstream GET
type request struct {
	// operation names the call in error messages, e.g. "search_images"
	operation string
	// endpoint is the low-cardinality label used for spans and metrics
	endpoint string
	path     []string
	// trailingSlash is required by some Hub endpoints to avoid a redirect
	trailingSlash bool
	query         url.Values
	// notFound builds the error returned on 404
	notFound func() error
}

func (c *Client) buildURL(r request) string {
	segments := make([]string, len(r.path))
	for i, s := range r.path {
		segments[i] = url.PathEscape(s)
	}

	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.Join(segments, "/")
	if r.trailingSlash {
		u.Path += "/"
	}
	u.RawPath = ""
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}
	return u.String()
}

// getJSON performs the request and decodes a 2xx body into out.
// The caller's cancellation is deliberately not forwarded: an aborted
// invocation lets the in-flight request finish and its result is dropped.
func (c *Client) getJSON(ctx context.Context, r request, out any) error {
	endpoint := c.buildURL(r)

	reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return hubErrors.RegistryUnavailable(r.operation, endpoint, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	spanCtx, span := c.telemetry.Tracing.StartUpstreamSpan(reqCtx, r.endpoint, req)
	defer span.End()
	req = req.WithContext(spanCtx)

	log := c.logger.WithContext(ctx).WithFields(
		logging.String("endpoint", r.endpoint),
		logging.String("operation", r.operation),
	)

	start := time.Now()
	status := "error"
	defer func() {
		c.telemetry.Metrics.RecordUpstreamRequest(ctx, r.endpoint, status, time.Since(start))
	}()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		herr := c.transportError(r.operation, endpoint, err)
		c.telemetry.Tracing.RecordError(spanCtx, herr)
		log.WithError(herr).Warn("Docker Hub request failed", logging.Duration("duration", time.Since(start)))
		return herr
	}
	defer resp.Body.Close()

	status = strconv.Itoa(resp.StatusCode)
	log.Debug("Docker Hub responded",
		logging.Int("status", resp.StatusCode),
		logging.Duration("duration", time.Since(start)),
	)

	if herr := c.statusError(r, endpoint, resp); herr != nil {
		c.telemetry.Tracing.RecordError(spanCtx, herr)
		return herr
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(out); err != nil {
		herr := hubErrors.ResponseParse(r.operation, endpoint, err)
		c.telemetry.Tracing.RecordError(spanCtx, herr)
		log.WithError(herr).Error("Could not decode Docker Hub response")
		return herr
	}
	return nil
}

func (c *Client) transportError(operation, endpoint string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return hubErrors.UpstreamTimeout(operation, endpoint, c.timeout, err)
	}
	var netErr interface{ Timeout() bool }
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return hubErrors.UpstreamTimeout(operation, endpoint, c.timeout, err)
	}
	return hubErrors.RegistryUnavailable(operation, endpoint, 0, err)
}

func (c *Client) statusError(r request, endpoint string, resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound && r.notFound != nil:
		return r.notFound()
	case code == http.StatusTooManyRequests:
		return hubErrors.RateLimited(r.operation, endpoint)
	case code >= 400 && code < 500:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return hubErrors.InvalidQuery(r.operation, endpoint, code, strings.TrimSpace(string(body)))
	default:
		return hubErrors.RegistryUnavailable(r.operation, endpoint, code, nil)
	}
}
