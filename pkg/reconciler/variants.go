package reconciler

import (
	"context"

	"github.com/tiendapocket/nubesync/pkg/catalogs"
	"github.com/tiendapocket/nubesync/pkg/errors"
	"github.com/tiendapocket/nubesync/pkg/logging"
)

// variants reconciles the variants of one matched product. Local variants
// are keyed by (sku, sorted values) against the remote ones: equal variants
// are left alone, differing ones are updated with the managed fields only and
// missing ones are created.
func (p *pass) variants(ctx context.Context, sku string, remote catalogs.RemoteProduct, local catalogs.Product, refetch bool) {
	logger := logging.FromContext(ctx)

	existing := remote.Variants
	if refetch {
		fetched, err := p.remote.Variants(ctx, remote.ID)
		if err != nil {
			if p.fail(sku, "list variants", err) {
				p.result.Stats.VariantsFailed++
				logger.Error().Err(err).Msg("Could not read variants for reconciliation")
			}
			return
		}
		existing = fetched
	}

	byKey := make(map[catalogs.VariantKey]catalogs.RemoteVariant, len(existing))
	counts := make(map[catalogs.VariantKey]int, len(existing))
	for _, rv := range existing {
		key := rv.Key()
		counts[key]++
		if _, ok := byKey[key]; !ok {
			byKey[key] = rv
		}
	}

	for _, v := range local.Variants {
		key := v.Key()
		match, found := byKey[key]

		// A variant without values is only safe to key when it is the only
		// variant on both sides.
		if key.Values == "" && (len(local.Variants) != 1 || counts[key] != 1) {
			logger.Warn().Str("variant", key.String()).Msg("Variant has no attribute values, skipped")
			continue
		}

		if found {
			p.updateVariant(ctx, sku, remote.ID, match, v)
			continue
		}
		p.createVariant(ctx, sku, remote.ID, v)
	}
}

func (p *pass) updateVariant(ctx context.Context, sku string, productID int64, existing catalogs.RemoteVariant, v catalogs.Variant) {
	logger := logging.FromContext(ctx).With().
		Int64("variant_id", existing.ID).
		Str("variant", v.Key().String()).
		Logger()

	changes := p.compare.Variant(existing.Variant, v)
	if len(changes) == 0 {
		p.result.Stats.VariantsUnchanged++
		logger.Debug().Msg("Variant unchanged")
		return
	}

	described := make([]string, 0, len(changes))
	for _, c := range changes {
		described = append(described, c.String())
	}

	if p.options.dryRun {
		p.result.Stats.VariantsUpdated++
		logger.Info().Strs("changes", described).Msg("Would update variant")
		return
	}

	if err := p.remote.UpdateVariant(ctx, productID, existing.ID, v, p.options.fields); err != nil {
		if p.fail(sku, "update variant", err) {
			p.result.Stats.VariantsFailed++
			logger.Error().Err(err).Msg("Failed to update variant")
		}
		return
	}

	p.touched[productID] = struct{}{}
	p.result.Stats.VariantsUpdated++
	logger.Info().Strs("changes", described).Msg("Updated variant")
}

// createVariant adds a variant missing remotely. A duplicate rejection means
// the variant is already present and is not a failure.
func (p *pass) createVariant(ctx context.Context, sku string, productID int64, v catalogs.Variant) {
	logger := logging.FromContext(ctx).With().Str("variant", v.Key().String()).Logger()

	if p.options.dryRun {
		p.result.Stats.VariantsCreated++
		logger.Info().Msg("Would create variant")
		return
	}

	created, err := p.remote.CreateVariant(ctx, productID, v, catalogs.AllFields)
	switch {
	case err == nil:
		p.touched[productID] = struct{}{}
		p.result.Stats.VariantsCreated++
		logger.Info().Int64("variant_id", created.ID).Msg("Created variant")
	case errors.IsDuplicateVariant(err):
		p.result.Stats.VariantsDuplicate++
		logger.Warn().Err(err).Msg("Variant already present remotely")
	case errors.IsInvalidStock(err):
		if p.fail(sku, "create variant", err) {
			p.result.Stats.VariantsFailed++
			logger.Error().Err(err).Msg("Remote rejected variant stock")
		}
	default:
		if p.fail(sku, "create variant", err) {
			p.result.Stats.VariantsFailed++
			logger.Error().Err(err).Msg("Failed to create variant")
		}
	}
}
