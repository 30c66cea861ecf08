// Package tiendanube is the client for the remote store catalog API. It reads
// the full catalog with variants and applies product and variant mutations,
// mapping typed wire payloads to and from pkg/catalogs.
package tiendanube

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/tiendapocket/nubesync/internal/transport"
	"github.com/tiendapocket/nubesync/pkg/constants"
	"github.com/tiendapocket/nubesync/pkg/errors"
)

// Client talks to the products resource of one store.
type Client struct {
	http     *transport.Client
	apiRoot  string
	storeID  string
	pageSize int
	maxPages int
	backoff  transport.Backoff

	transportOpts []transport.Option
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root; the store ID is appended to it.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.apiRoot = strings.TrimRight(url, "/")
	}
}

// WithTransport replaces the HTTP transport.
func WithTransport(t *transport.Client) Option {
	return func(c *Client) {
		if t != nil {
			c.http = t
		}
	}
}

// WithTransportOptions configures the default transport (rate limits,
// timeouts, user agent). Ignored when WithTransport is used.
func WithTransportOptions(opts ...transport.Option) Option {
	return func(c *Client) {
		c.transportOpts = append(c.transportOpts, opts...)
	}
}

// WithPageSize sets the number of products requested per page.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithMaxPages bounds catalog pagination.
func WithMaxPages(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

// WithBackoff sets the retry policy for variant and page reads.
func WithBackoff(b transport.Backoff) Option {
	return func(c *Client) {
		c.backoff = b
	}
}

// NewClient returns a client for the given store authenticated with token.
func NewClient(storeID, token string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(storeID) == "" {
		return nil, errors.NewValidationError("store_id", storeID, "store ID is required")
	}
	if strings.TrimSpace(token) == "" {
		return nil, errors.ErrTokenRequired
	}

	c := &Client{
		apiRoot:  constants.DefaultAPIBaseURL,
		storeID:  strings.TrimSpace(storeID),
		pageSize: constants.DefaultPageSize,
		maxPages: constants.MaxPages,
		backoff:  transport.DefaultBackoff(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = transport.New(&transport.BearerAuth{}, token, c.transportOpts...)
	}
	return c, nil
}

func (c *Client) productsURL() string {
	return fmt.Sprintf("%s/%s/products", c.apiRoot, c.storeID)
}

func (c *Client) productURL(id int64) string {
	return fmt.Sprintf("%s/%d", c.productsURL(), id)
}

func (c *Client) variantsURL(productID int64) string {
	return fmt.Sprintf("%s/variants", c.productURL(productID))
}

func (c *Client) variantURL(productID, variantID int64) string {
	return fmt.Sprintf("%s/%d", c.variantsURL(productID), variantID)
}

// call sends one request and decodes the response into out when the status
// is one of ok. Failures come back classified.
func (c *Client) call(ctx context.Context, op, method, url string, body, out any, ok ...int) (http.Header, error) {
	req, err := transport.NewRequest(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, annotate(err, op)
	}
	header := resp.Header
	if err := transport.DecodeResponse(resp, out, ok...); err != nil {
		return header, annotate(err, op)
	}
	return header, nil
}

// annotate classifies API errors and tags them with the operation.
func annotate(err error, op string) error {
	var apiErr *errors.APIError
	if errors.As(err, &apiErr) {
		apiErr.Operation = op
		if apiErr.Kind == nil && apiErr.StatusCode != 0 {
			classify(apiErr)
		}
	}
	return err
}

// Close releases the idle connections of the underlying transport.
func (c *Client) Close() {
	c.http.Close()
}
