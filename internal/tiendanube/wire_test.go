package tiendanube

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendapocket/nubesync/pkg/catalogs"
	"github.com/tiendapocket/nubesync/pkg/errors"
)

func TestVariantResponseDecoding(t *testing.T) {
	raw := `[
		{"id": 1, "product_id": 9, "sku": "abc", "price": "1500.00", "cost": null, "stock": 3, "barcode": null, "values": [{"es": "M"}]},
		{"id": 2, "product_id": 9, "sku": null, "price": 12.5, "cost": "", "stock": null, "values": []},
		{"id": 3, "product_id": 9, "sku": {"es": "weird"}, "price": "n/a", "stock": -4},
		{"id": 4, "product_id": 9, "sku": 12345, "price": "7", "stock": "2.9"}
	]`

	var items []variantResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &items))
	variants := fromVariantResponses(items)
	require.Len(t, variants, 4)

	assert.Equal(t, "abc", variants[0].SKU)
	assert.Equal(t, catalogs.Float(1500), variants[0].Price)
	assert.Nil(t, variants[0].Cost)
	assert.Equal(t, 3, variants[0].Stock)
	assert.Equal(t, "M", variants[0].Values[0].Es())

	assert.Empty(t, variants[1].SKU)
	assert.Equal(t, catalogs.Float(12.5), variants[1].Price)
	assert.Nil(t, variants[1].Cost)
	assert.Equal(t, 0, variants[1].Stock)

	assert.Empty(t, variants[2].SKU)
	assert.Nil(t, variants[2].Price)
	assert.Equal(t, 0, variants[2].Stock)

	assert.Equal(t, "12345", variants[3].SKU)
	assert.Equal(t, 2, variants[3].Stock)
}

func TestProductRequestShape(t *testing.T) {
	p := catalogs.Product{
		Name:             catalogs.NewLocalized("Remera"),
		SKU:              "X1",
		Published:        true,
		RequiresShipping: true,
		StockManagement:  true,
		Attributes:       []string{"Talle"},
		Variants: []catalogs.Variant{{
			SKU:    "X1",
			Stock:  0,
			Values: []catalogs.Localized{catalogs.NewLocalized("S")},
		}},
	}

	data, err := json.Marshal(toProductRequest(p))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": {"es": "Remera"},
		"published": true,
		"requires_shipping": true,
		"stock_management": true,
		"attributes": [{"es": "Talle"}],
		"variants": [{"sku": "X1", "stock": 0, "values": [{"es": "S"}]}]
	}`, string(data))

	data, err = json.Marshal(toProductUpdate(p))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "variants")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
		msg    string
	}{
		{
			name:   "duplicate variant by description",
			status: http.StatusUnprocessableEntity,
			body:   `{"code":422,"message":"Unprocessable Entity","description":"Variants cannot be repeated"}`,
			want:   errors.ErrDuplicateVariant,
			msg:    "Unprocessable Entity: Variants cannot be repeated",
		},
		{
			name:   "duplicate variant plain text",
			status: http.StatusUnprocessableEntity,
			body:   `Variants cannot be repeated`,
			want:   errors.ErrDuplicateVariant,
			msg:    "Variants cannot be repeated",
		},
		{
			name:   "structured code",
			status: http.StatusUnprocessableEntity,
			body:   `{"code":422,"message":"variants_cannot_be_repeated"}`,
			want:   errors.ErrDuplicateVariant,
		},
		{
			name:   "invalid stock field",
			status: http.StatusUnprocessableEntity,
			body:   `{"variants.1.stock":["must be greater than or equal to 0"]}`,
			want:   errors.ErrInvalidStock,
			msg:    "variants.1.stock: must be greater than or equal to 0",
		},
		{
			name:   "other validation",
			status: http.StatusUnprocessableEntity,
			body:   `{"name":["can't be blank"]}`,
			want:   errors.ErrInvalidInput,
		},
		{name: "not found", status: http.StatusNotFound, body: `{"code":404,"message":"Not Found"}`, want: errors.ErrNotFound},
		{name: "forbidden", status: http.StatusForbidden, body: ``, want: errors.ErrPermission},
		{name: "rate limited", status: http.StatusTooManyRequests, body: ``, want: errors.ErrRateLimited},
		{name: "server", status: http.StatusInternalServerError, body: `oops`, want: errors.ErrProviderUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			apiErr := &errors.APIError{StatusCode: tc.status, Body: tc.body, Message: tc.body}
			classify(apiErr)
			assert.ErrorIs(t, apiErr, tc.want)
			if tc.msg != "" {
				assert.Equal(t, tc.msg, apiErr.Message)
			}
		})
	}
}

func TestHasNextPage(t *testing.T) {
	assert.True(t, hasNextPage(`<https://api/v1/1/products?page=2>; rel="next", <https://api/v1/1/products?page=9>; rel="last"`))
	assert.False(t, hasNextPage(`<https://api/v1/1/products?page=1>; rel="first"`))
	assert.False(t, hasNextPage(""))
}
