package tiendanube

import (
	"context"
	"net/http"

	"github.com/tiendapocket/nubesync/pkg/catalogs"
)

// CreateProduct creates a product with all of its variants.
func (c *Client) CreateProduct(ctx context.Context, p catalogs.Product) (catalogs.RemoteProduct, error) {
	var out productResponse
	if _, err := c.call(ctx, "create product", http.MethodPost, c.productsURL(), toProductRequest(p), &out, http.StatusCreated); err != nil {
		return catalogs.RemoteProduct{}, err
	}
	created := fromProductResponse(out)
	created.Variants = fromVariantResponses(out.Variants)
	created.VariantsResolved = true
	return created, nil
}

// UpdateProduct updates product-level fields. Variants are left untouched.
func (c *Client) UpdateProduct(ctx context.Context, id int64, p catalogs.Product) error {
	_, err := c.call(ctx, "update product", http.MethodPut, c.productURL(id), toProductUpdate(p), nil, http.StatusOK)
	return err
}

// SetPublished shows or hides a product.
func (c *Client) SetPublished(ctx context.Context, id int64, published bool) error {
	_, err := c.call(ctx, "publish product", http.MethodPut, c.productURL(id), publishRequest{Published: published}, nil, http.StatusOK)
	return err
}

// DeleteProduct deletes a product. A missing product yields ErrNotFound and
// a refused one ErrPermission.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	_, err := c.call(ctx, "delete product", http.MethodDelete, c.productURL(id), nil, nil, http.StatusOK, http.StatusNoContent)
	return err
}

// CreateVariant adds a variant to an existing product, sending only the
// managed fields.
func (c *Client) CreateVariant(ctx context.Context, productID int64, v catalogs.Variant, fields catalogs.Fields) (catalogs.RemoteVariant, error) {
	var out variantResponse
	if _, err := c.call(ctx, "create variant", http.MethodPost, c.variantsURL(productID), toVariantRequest(v, fields), &out, http.StatusCreated); err != nil {
		return catalogs.RemoteVariant{}, err
	}
	created := fromVariantResponse(out)
	if created.ProductID == 0 {
		created.ProductID = productID
	}
	return created, nil
}

// UpdateVariant updates one variant, sending only the managed fields.
func (c *Client) UpdateVariant(ctx context.Context, productID, variantID int64, v catalogs.Variant, fields catalogs.Fields) error {
	_, err := c.call(ctx, "update variant", http.MethodPut, c.variantURL(productID, variantID), toVariantRequest(v, fields), nil, http.StatusOK)
	return err
}
