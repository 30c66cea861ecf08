package differ

import "github.com/tiendapocket/nubesync/pkg/catalogs"

// Comparable field names, usable with WithIgnoredFields.
const (
	FieldName      = "name"
	FieldPublished = "published"
	FieldVariants  = "variants"
	FieldSKU       = "sku"
	FieldPrice     = "price"
	FieldStock     = "stock"
	FieldCost      = "cost"
)

// Option is a functional option for configuring Differ.
type Option func(*differ)

// WithIgnoredFields sets fields to ignore during comparison.
func WithIgnoredFields(fields ...string) Option {
	return func(d *differ) {
		for _, field := range fields {
			d.ignoreFields[field] = true
		}
	}
}

// WithManagedFields ignores the variant fields the mask leaves unmanaged.
func WithManagedFields(mask catalogs.Fields) Option {
	return func(d *differ) {
		if !mask.Price {
			d.ignoreFields[FieldPrice] = true
		}
		if !mask.Stock {
			d.ignoreFields[FieldStock] = true
		}
	}
}

// WithComparePublished enables/disables comparing the published flag.
func WithComparePublished(enabled bool) Option {
	return func(d *differ) {
		d.ignoreFields[FieldPublished] = !enabled
	}
}
