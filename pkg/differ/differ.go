package differ

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tiendapocket/nubesync/pkg/catalogs"
	"github.com/tiendapocket/nubesync/pkg/errors"
	"github.com/tiendapocket/nubesync/pkg/logging"
)

// Differ handles change detection between the local and remote catalogs.
type Differ interface {
	// Products matches local products against the remote catalog.
	Products(ctx context.Context, local []catalogs.Product, remote []catalogs.RemoteProduct) *Changeset

	// Product compares one matched pair and returns nil when they are equal.
	Product(remote catalogs.RemoteProduct, local catalogs.Product) []FieldChange

	// Variant compares two variants field by field and returns nil when
	// they are equal. Attribute values are not compared.
	Variant(remote, local catalogs.Variant) []FieldChange
}

// differ is the default implementation of Differ.
type differ struct {
	ignoreFields map[string]bool
}

// New creates a Differ with default settings.
func New(opts ...Option) Differ {
	d := &differ{
		ignoreFields: make(map[string]bool),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// ProductsEqual reports whether a matched pair is equal at product level.
func ProductsEqual(remote catalogs.RemoteProduct, local catalogs.Product) bool {
	return len(New().Product(remote, local)) == 0
}

// VariantsEqual reports whether two variants carry the same SKU, price,
// stock and cost.
func VariantsEqual(remote, local catalogs.Variant) bool {
	return len(New().Variant(remote, local)) == 0
}

// Products matches local products against the remote catalog.
func (diff *differ) Products(ctx context.Context, local []catalogs.Product, remote []catalogs.RemoteProduct) *Changeset {
	logger := logging.FromContext(ctx)

	remoteIndex := IndexRemote(ctx, remote)
	localIndex := IndexLocal(local)
	for _, c := range localIndex.Collisions {
		logger.Warn().Err(c).Str("sku", c.SKU).Msg("SKU collision, later product rejected")
	}

	changeset := &Changeset{
		Decisions:  make([]Decision, 0, len(local)),
		Collisions: localIndex.Collisions,
	}

	for i, p := range local {
		d := Decision{SKU: catalogs.NormalizeSKU(p.SKU), Local: p}
		switch {
		case d.SKU == "":
			d.Action = ActionSkip
			d.Err = errors.NewValidationError(FieldSKU, p.SKU, "product has no sku")
		default:
			if collision, rejected := localIndex.Rejected(i); rejected {
				d.Action = ActionSkip
				d.Err = collision
				break
			}
			if err := p.Validate(); err != nil {
				d.Action = ActionSkip
				d.Err = err
				break
			}
			match, ok := remoteIndex[d.SKU]
			if !ok {
				d.Action = ActionCreate
				break
			}
			d.Remote = match
			d.Changes = diff.Product(*match, p)
			if len(d.Changes) == 0 {
				d.Action = ActionVerify
			} else {
				d.Action = ActionUpdate
			}
		}
		logger.Debug().Str("sku", d.SKU).Str("action", string(d.Action)).Int("changes", len(d.Changes)).Msg("Classified product")
		changeset.Decisions = append(changeset.Decisions, d)
	}

	changeset.Orphaned = orphans(remote, localIndex)
	changeset.Summary = calculateSummary(changeset)

	logger.Info().
		Int("create", changeset.Summary.Create).
		Int("update", changeset.Summary.Update).
		Int("verify", changeset.Summary.Verify).
		Int("skip", changeset.Summary.Skip).
		Int("orphaned", changeset.Summary.Orphaned).
		Msg("Matched catalogs")

	return changeset
}

// orphans returns the remote products none of whose variant SKUs is known
// locally. Products whose variants could not be read, and products without
// any SKU, are never orphaned.
func orphans(remote []catalogs.RemoteProduct, local *LocalIndex) []catalogs.RemoteProduct {
	var out []catalogs.RemoteProduct
	seen := make(map[int64]struct{}, len(remote))
	for _, p := range remote {
		if !p.VariantsResolved {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}

		skus := p.SKUs()
		if len(skus) == 0 {
			continue
		}
		known := false
		for _, sku := range skus {
			if local.Has(sku) {
				known = true
				break
			}
		}
		if !known {
			out = append(out, p)
		}
	}
	return out
}

// Product compares a matched pair. Names are compared after whitespace
// normalization and case folding, variant counts must match, and every local
// variant must find an equal remote variant regardless of order.
func (diff *differ) Product(remote catalogs.RemoteProduct, local catalogs.Product) []FieldChange {
	var changes []FieldChange

	if !diff.ignoreFields[FieldName] &&
		catalogs.NormalizeName(remote.Name.Es()) != catalogs.NormalizeName(local.Name.Es()) {
		changes = append(changes, FieldChange{
			Path:     FieldName,
			OldValue: remote.Name.Es(),
			NewValue: local.Name.Es(),
			Type:     ChangeTypeUpdate,
		})
	}

	if !diff.ignoreFields[FieldPublished] && remote.Published != local.Published {
		changes = append(changes, FieldChange{
			Path:     FieldPublished,
			OldValue: strconv.FormatBool(remote.Published),
			NewValue: strconv.FormatBool(local.Published),
			Type:     ChangeTypeUpdate,
		})
	}

	if diff.ignoreFields[FieldVariants] {
		return changes
	}

	if len(remote.Variants) != len(local.Variants) {
		return append(changes, FieldChange{
			Path:     FieldVariants,
			OldValue: strconv.Itoa(len(remote.Variants)),
			NewValue: strconv.Itoa(len(local.Variants)),
			Type:     ChangeTypeUpdate,
		})
	}

	for _, lv := range local.Variants {
		matched := false
		for _, rv := range remote.Variants {
			if len(diff.Variant(rv.Variant, lv)) == 0 {
				matched = true
				break
			}
		}
		if !matched {
			changes = append(changes, FieldChange{
				Path: fmt.Sprintf("%s[%s]", FieldVariants, lv.Key()),
				Type: ChangeTypeAdd,
			})
		}
	}

	return changes
}

// Variant compares SKU, price, stock and cost. Missing prices and costs count
// as zero.
func (diff *differ) Variant(remote, local catalogs.Variant) []FieldChange {
	var changes []FieldChange

	if !diff.ignoreFields[FieldSKU] && catalogs.NormalizeSKU(remote.SKU) != catalogs.NormalizeSKU(local.SKU) {
		changes = append(changes, FieldChange{
			Path:     FieldSKU,
			OldValue: remote.SKU,
			NewValue: local.SKU,
			Type:     ChangeTypeUpdate,
		})
	}

	if !diff.ignoreFields[FieldPrice] {
		if old, updated := catalogs.FloatOrZero(remote.Price), catalogs.FloatOrZero(local.Price); old != updated {
			changes = append(changes, FieldChange{
				Path:     FieldPrice,
				OldValue: formatFloat(old),
				NewValue: formatFloat(updated),
				Type:     ChangeTypeUpdate,
			})
		}
	}

	if !diff.ignoreFields[FieldStock] && remote.Stock != local.Stock {
		changes = append(changes, FieldChange{
			Path:     FieldStock,
			OldValue: strconv.Itoa(remote.Stock),
			NewValue: strconv.Itoa(local.Stock),
			Type:     ChangeTypeUpdate,
		})
	}

	if !diff.ignoreFields[FieldCost] {
		if old, updated := catalogs.FloatOrZero(remote.Cost), catalogs.FloatOrZero(local.Cost); old != updated {
			changes = append(changes, FieldChange{
				Path:     FieldCost,
				OldValue: formatFloat(old),
				NewValue: formatFloat(updated),
				Type:     ChangeTypeUpdate,
			})
		}
	}

	return changes
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
