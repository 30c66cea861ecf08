package catalogs

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// valuesSeparator joins attribute values in a key. It cannot appear in
// exported text columns.
const valuesSeparator = "\x1f"

// NormalizeSKU trims surrounding whitespace and upper-cases s. Every SKU
// comparison and lookup goes through it.
func NormalizeSKU(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NormalizeName collapses runs of whitespace and case-folds s.
func NormalizeName(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}

// ValuesKey returns the sorted, non-empty attribute values joined into a
// single comparable string. It is empty when no value carries text.
func ValuesKey(values []Localized) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if es := strings.TrimSpace(v.Es()); es != "" {
			parts = append(parts, es)
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, valuesSeparator)
}

// VariantKey identifies a variant within its product.
type VariantKey struct {
	SKU    string
	Values string
}

// NewVariantKey builds the key for a variant.
func NewVariantKey(sku string, values []Localized) VariantKey {
	return VariantKey{SKU: NormalizeSKU(sku), Values: ValuesKey(values)}
}

// String renders the key for logs.
func (k VariantKey) String() string {
	if k.Values == "" {
		return k.SKU
	}
	return k.SKU + " [" + strings.ReplaceAll(k.Values, valuesSeparator, ", ") + "]"
}
