package tiendanube

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tiendapocket/nubesync/pkg/catalogs"
	"github.com/tiendapocket/nubesync/pkg/errors"
	"github.com/tiendapocket/nubesync/pkg/logging"
)

// hasNextPage reports whether a Link header advertises another page.
func hasNextPage(link string) bool {
	return strings.Contains(link, `rel="next"`)
}

// Products reads the whole catalog, following pagination until the Link
// header stops advertising a next page, a page comes back empty, or the
// page bound is reached. Each product's variants are then fetched; a product
// whose variants cannot be read is kept with an empty, unresolved list.
// A page that fails after retries aborts the read.
func (c *Client) Products(ctx context.Context) ([]catalogs.RemoteProduct, error) {
	logger := logging.FromContext(ctx)
	var products []catalogs.RemoteProduct

	for page := 1; page <= c.maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return products, errors.Join(errors.ErrCanceled, err)
		}

		items, next, err := c.listPage(ctx, page)
		if err != nil {
			return products, errors.WrapResource("list", "products", "page "+strconv.Itoa(page), err)
		}
		logger.Debug().Int("page", page).Int("products", len(items)).Msg("Fetched product page")
		if len(items) == 0 {
			break
		}

		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return products, errors.Join(errors.ErrCanceled, err)
			}
			p := fromProductResponse(item)
			variants, err := c.Variants(ctx, p.ID)
			if err != nil {
				logger.Warn().Err(err).Int64("product_id", p.ID).Msg("Variants unavailable, keeping product without variants")
				p.Variants = []catalogs.RemoteVariant{}
			} else {
				p.Variants = variants
				p.VariantsResolved = true
			}
			products = append(products, p)
		}

		if !next {
			break
		}
		if page == c.maxPages {
			logger.Warn().Int("max_pages", c.maxPages).Msg("Stopped at page limit with more pages available")
		}
	}

	logger.Info().Int("products", len(products)).Msg("Read remote catalog")
	return products, nil
}

// Ping performs one authenticated read of the first product page. It
// confirms the store ID and token are accepted without reading the catalog.
func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("page", "1")
	q.Set("per_page", "1")
	_, err := c.call(ctx, "check access", http.MethodGet, c.productsURL()+"?"+q.Encode(), nil, nil)
	return err
}

// retryable reports whether a read is worth repeating.
func retryable(err error) bool {
	return errors.IsProviderUnavailable(err) || errors.IsRateLimited(err)
}

// listPage fetches one page, retrying server errors and rate limiting.
func (c *Client) listPage(ctx context.Context, page int) ([]productResponse, bool, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(c.pageSize))
	u := c.productsURL() + "?" + q.Encode()

	var items []productResponse
	var next bool
	err := c.backoff.Retry(ctx, func(attempt int) (bool, error) {
		items = nil
		header, err := c.call(ctx, "list products", http.MethodGet, u, nil, &items)
		if err != nil {
			// Paging past the last page answers 404 on this API.
			if page > 1 && errors.IsNotFound(err) {
				items, next = nil, false
				return false, nil
			}
			return retryable(err), err
		}
		next = hasNextPage(header.Get("Link"))
		return false, nil
	})
	return items, next, err
}

// Variants reads the variants of one product, retrying server errors and
// rate limiting with exponential backoff. A missing product yields an ErrNotFound error.
func (c *Client) Variants(ctx context.Context, productID int64) ([]catalogs.RemoteVariant, error) {
	logger := logging.FromContext(ctx)

	var items []variantResponse
	err := c.backoff.Retry(ctx, func(attempt int) (bool, error) {
		items = nil
		_, err := c.call(ctx, "list variants", http.MethodGet, c.variantsURL(productID), nil, &items)
		if err != nil && retryable(err) {
			logger.Warn().
				Err(err).
				Int64("product_id", productID).
				Int("attempt", attempt+1).
				Int("attempts", c.backoff.Attempts).
				Msg("Variant fetch failed")
			return true, err
		}
		return false, err
	})
	if err != nil {
		return nil, err
	}

	variants := fromVariantResponses(items)
	for i := range variants {
		if variants[i].ProductID == 0 {
			variants[i].ProductID = productID
		}
	}
	return variants, nil
}
