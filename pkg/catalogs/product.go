// Package catalogs holds the product and variant model shared by the local
// normalizer, the remote reader and the reconciler.
//
// Local products are built once per pass from row data. Remote products are
// read fresh at the start of each pass and carry the IDs assigned by the
// remote store; the local model never invents one.
package catalogs

import (
	"github.com/tiendapocket/nubesync/pkg/constants"
	"github.com/tiendapocket/nubesync/pkg/errors"
)

// Localized is text keyed by language code. Only "es" is used.
type Localized map[string]string

// NewLocalized returns a Localized holding text in the default language.
func NewLocalized(text string) Localized {
	return Localized{constants.DefaultLanguage: text}
}

// Es returns the text in the default language.
func (l Localized) Es() string {
	return l[constants.DefaultLanguage]
}

// Fields is the set of variant fields the reconciler is allowed to change on
// existing remote variants.
type Fields struct {
	Price bool `json:"price" yaml:"price"`
	Stock bool `json:"stock" yaml:"stock"`
}

// AllFields manages every field.
var AllFields = Fields{Price: true, Stock: true}

// Product is a local catalog entry.
type Product struct {
	Name             Localized `json:"name" yaml:"name"`                           // Display name
	SKU              string    `json:"sku" yaml:"sku"`                             // Business key (article code)
	Published        bool      `json:"published" yaml:"published"`                 // Visible in the store
	RequiresShipping bool      `json:"requires_shipping" yaml:"requires_shipping"` // Always true
	StockManagement  bool      `json:"stock_management" yaml:"stock_management"`   // Always true
	Attributes       []string  `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Variants         []Variant `json:"variants" yaml:"variants"`
}

// Variant is one sellable combination of a product.
type Variant struct {
	SKU     string      `json:"sku" yaml:"sku"`
	Price   *float64    `json:"price" yaml:"price"` // nil until resolved
	Cost    *float64    `json:"cost,omitempty" yaml:"cost,omitempty"`
	Stock   int         `json:"stock" yaml:"stock"` // never negative
	Barcode string      `json:"barcode,omitempty" yaml:"barcode,omitempty"`
	Values  []Localized `json:"values,omitempty" yaml:"values,omitempty"` // attribute values, in attribute order
}

// Key returns the identity of the variant within its product.
func (v Variant) Key() VariantKey {
	return NewVariantKey(v.SKU, v.Values)
}

// RemoteProduct is a product as read from the remote store.
type RemoteProduct struct {
	ID         int64           `json:"id" yaml:"id"`
	Name       Localized       `json:"name" yaml:"name"`
	Published  bool            `json:"published" yaml:"published"`
	Attributes []string        `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Variants   []RemoteVariant `json:"variants" yaml:"variants"`

	// VariantsResolved is false when the variant fetch failed and Variants
	// is a degraded empty list.
	VariantsResolved bool `json:"variants_resolved" yaml:"variants_resolved"`
}

// SKUs returns the normalized, non-empty SKUs of every variant.
func (p RemoteProduct) SKUs() []string {
	skus := make([]string, 0, len(p.Variants))
	for _, v := range p.Variants {
		if sku := NormalizeSKU(v.SKU); sku != "" {
			skus = append(skus, sku)
		}
	}
	return skus
}

// RemoteVariant is a variant as read from the remote store.
type RemoteVariant struct {
	ID        int64 `json:"id" yaml:"id"`
	ProductID int64 `json:"product_id" yaml:"product_id"`
	Variant   `yaml:",inline"`
}

// Validate checks the structural invariants of a local product: at least one
// variant, unique (sku, values) pairs and non-negative stock.
func (p Product) Validate() error {
	if len(p.Variants) == 0 {
		return errors.NewValidationError("variants", p.SKU, "product must have at least one variant")
	}
	seen := make(map[VariantKey]struct{}, len(p.Variants))
	for _, v := range p.Variants {
		if v.Stock < 0 {
			return errors.NewValidationError("stock", v.Stock, "stock must not be negative")
		}
		key := v.Key()
		if _, dup := seen[key]; dup {
			return errors.NewValidationError("variants", key.String(), "duplicate variant")
		}
		seen[key] = struct{}{}
	}
	return nil
}
