// Package transport provides the HTTP plumbing shared by every remote store
// call: authentication, quota-aware pacing and response decoding.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/tiendapocket/nubesync/pkg/constants"
	"github.com/tiendapocket/nubesync/pkg/errors"
	"github.com/tiendapocket/nubesync/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client provides HTTP client functionality with authentication and pacing.
type Client struct {
	http      *http.Client
	auth      Authenticator
	token     string
	userAgent string
	gate      *QuotaGate
	limiter   *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserAgent sets the User-Agent sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithRateLimit paces requests client-side. A non-positive rate disables
// pacing.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
	}
}

// WithQuotaGate replaces the quota gate.
func WithQuotaGate(g *QuotaGate) Option {
	return func(c *Client) {
		c.gate = g
	}
}

// New creates a new transport client.
func New(auth Authenticator, token string, opts ...Option) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	c := &Client{
		http:      &http.Client{Timeout: DefaultHTTPTimeout},
		auth:      auth,
		token:     token,
		userAgent: constants.DefaultUserAgent,
		gate:      NewQuotaGate(),
		limiter:   rate.NewLimiter(rate.Limit(constants.DefaultRequestsPerSecond), constants.DefaultRequestBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Gate returns the quota gate consulted before every request.
func (c *Client) Gate() *QuotaGate {
	return c.gate
}

// NewRequest builds a request with body encoded as JSON when non-nil.
func NewRequest(ctx context.Context, method, url string, body any) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.WrapParse("json", "request", err)
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, r)
	if err != nil {
		return nil, errors.WrapResource("create", "request", method+" "+url, err)
	}
	return req, nil
}

// Do waits for the pacing limiter and the quota gate, then sends req. Only
// the waits observe cancellation of ctx; once sent, the exchange runs to
// completion so a cancelled pass never leaves a mutation half-observed.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.Join(errors.ErrCanceled, err)
		}
	}
	if c.gate != nil {
		if err := c.gate.Wait(ctx); err != nil {
			return nil, errors.Join(errors.ErrCanceled, err)
		}
	}

	req = req.WithContext(context.WithoutCancel(ctx))
	c.auth.Apply(req, c.token)
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &errors.APIError{
			Operation: req.Method,
			Endpoint:  req.URL.Path,
			Message:   err.Error(),
			Kind:      errors.ErrProviderUnavailable,
			Err:       err,
		}
	}
	if c.gate != nil {
		c.gate.Observe(resp.Header)
	}

	logging.FromContext(ctx).Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Str("quota_remaining", resp.Header.Get(constants.HeaderRateLimitRemaining)).
		Msg("Remote request")

	return resp, nil
}

// Close releases idle keep-alive connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}
