// Package transport provides the rate-limited, retrying HTTP client shared by
// the registry, metrics, reference-manager and collections clients.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sethgrid/pester"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds a single attempt.
	DefaultTimeout = 30 * time.Second

	// DefaultAttempts is one try plus one retry on transient failure.
	DefaultAttempts = 2

	// DefaultRateLimit is requests per second per client.
	DefaultRateLimit = 5.0

	// DefaultUserAgent identifies the pipeline to upstream APIs.
	DefaultUserAgent = "ala-metrics-and-impact"

	// MaxBodyBytes caps how much of a response body is read.
	MaxBodyBytes = 32 << 20
)

// Client is a rate-limited HTTP client that retries once on transient
// failure (network error, 5xx, 429).
type Client struct {
	name      string
	pester    *pester.Client
	limiter   *rate.Limiter
	timeout   time.Duration
	attempts  int
	backoff   pester.BackoffStrategy
	userAgent string
	logger    *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithAttempts sets the total number of attempts (first try included).
func WithAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.attempts = n
		}
	}
}

// WithRateLimit sets the sustained requests-per-second limit.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithBackoff sets the delay between attempts (for testing).
func WithBackoff(b pester.BackoffStrategy) Option {
	return func(c *Client) {
		c.backoff = b
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a client. name labels errors and log lines ("plumx", "gbif").
func New(name string, opts ...Option) *Client {
	c := &Client{
		name:      name,
		limiter:   rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		timeout:   DefaultTimeout,
		attempts:  DefaultAttempts,
		backoff:   pester.LinearJitterBackoff,
		userAgent: DefaultUserAgent,
		logger:    log.New(io.Discard),
	}

	for _, opt := range opts {
		opt(c)
	}

	p := pester.NewExtendedClient(&http.Client{Timeout: c.timeout})
	p.Concurrency = 1
	p.MaxRetries = c.attempts
	p.Backoff = c.backoff
	p.SetRetryOnHTTP429(true)
	p.LogHook = func(e pester.ErrEntry) {
		c.logger.Debug("request attempt failed", "client", c.name, "url", e.URL, "attempt", e.Attempt, "err", e.Err)
	}
	c.pester = p

	return c
}

// Name returns the label the client was created with.
func (c *Client) Name() string {
	return c.name
}

// Get issues a GET request. Redirects are followed; the final URL is
// available from resp.Request.URL. The caller must close the body.
func (c *Client) Get(ctx context.Context, url string, header http.Header) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.pester.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNetworkError, c.name, err)
	}
	return resp, nil
}

// GetBody issues a GET request and returns the body of a 200 response.
// Any other status is returned as an *APIError.
func (c *Client) GetBody(ctx context.Context, url string, header http.Header) ([]byte, error) {
	resp, err := c.Get(ctx, url, header)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := CheckStatus(c.name, resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: reading body: %v", ErrNetworkError, c.name, err)
	}
	return body, nil
}
