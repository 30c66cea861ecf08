package differ

import (
	"context"

	"github.com/tiendapocket/nubesync/pkg/catalogs"
	"github.com/tiendapocket/nubesync/pkg/errors"
	"github.com/tiendapocket/nubesync/pkg/logging"
)

// RemoteIndex maps a normalized SKU to the remote product that owns a
// variant with that SKU. A product is reachable through any of its variants.
type RemoteIndex map[string]*catalogs.RemoteProduct

// IndexRemote indexes remote products by every variant's normalized SKU.
// When two distinct products share a SKU the first one keeps it.
func IndexRemote(ctx context.Context, remote []catalogs.RemoteProduct) RemoteIndex {
	logger := logging.FromContext(ctx)
	index := make(RemoteIndex, len(remote))
	for i := range remote {
		p := &remote[i]
		for _, sku := range p.SKUs() {
			existing, ok := index[sku]
			if !ok {
				index[sku] = p
				continue
			}
			if existing.ID != p.ID {
				logger.Warn().
					Str("sku", sku).
					Int64("kept_id", existing.ID).
					Int64("ignored_id", p.ID).
					Msg("SKU shared by several remote products")
			}
		}
	}
	return index
}

// LocalIndex maps normalized SKUs to local products.
type LocalIndex struct {
	products map[string]int
	skus     map[string]struct{}
	rejected map[int]*errors.CollisionError

	// Collisions lists the later products that claimed an indexed SKU.
	Collisions []*errors.CollisionError
}

// IndexLocal indexes local products by normalized product SKU. The first
// product to claim a SKU keeps it; every later one is rejected with a
// CollisionError. Products without a SKU are not indexed.
func IndexLocal(local []catalogs.Product) *LocalIndex {
	x := &LocalIndex{
		products: make(map[string]int, len(local)),
		skus:     make(map[string]struct{}, len(local)),
		rejected: make(map[int]*errors.CollisionError),
	}
	for i, p := range local {
		sku := catalogs.NormalizeSKU(p.SKU)
		if sku == "" {
			continue
		}
		if kept, ok := x.products[sku]; ok {
			collision := &errors.CollisionError{
				SKU:      sku,
				Kept:     local[kept].Name.Es(),
				Rejected: p.Name.Es(),
			}
			x.rejected[i] = collision
			x.Collisions = append(x.Collisions, collision)
			continue
		}
		x.products[sku] = i
		x.skus[sku] = struct{}{}
		for _, v := range p.Variants {
			if vsku := catalogs.NormalizeSKU(v.SKU); vsku != "" {
				x.skus[vsku] = struct{}{}
			}
		}
	}
	return x
}

// Lookup returns the position of the product owning sku.
func (x *LocalIndex) Lookup(sku string) (int, bool) {
	i, ok := x.products[catalogs.NormalizeSKU(sku)]
	return i, ok
}

// Has reports whether any indexed product or variant carries sku.
func (x *LocalIndex) Has(sku string) bool {
	_, ok := x.skus[catalogs.NormalizeSKU(sku)]
	return ok
}

// Rejected returns the collision that excluded the product at position i.
func (x *LocalIndex) Rejected(i int) (*errors.CollisionError, bool) {
	c, ok := x.rejected[i]
	return c, ok
}
