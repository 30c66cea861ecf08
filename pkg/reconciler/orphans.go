package reconciler

import (
	"context"
	"strconv"

	"github.com/tiendapocket/nubesync/pkg/catalogs"
	"github.com/tiendapocket/nubesync/pkg/errors"
	"github.com/tiendapocket/nubesync/pkg/logging"
)

// orphan applies the orphan policy to one remote product with no local SKU.
func (p *pass) orphan(ctx context.Context, rp catalogs.RemoteProduct) {
	ctx = logging.WithProductID(ctx, rp.ID)
	sku := ""
	if skus := rp.SKUs(); len(skus) > 0 {
		sku = skus[0]
		ctx = logging.WithSKU(ctx, sku)
	}

	switch p.options.orphans {
	case OrphanHide:
		p.hide(ctx, sku, rp)
	case OrphanDelete:
		p.remove(ctx, sku, rp)
	default:
		logging.FromContext(ctx).Debug().Msg("Orphaned product kept")
	}
}

// hide unpublishes an orphan. Products already hidden are left untouched.
func (p *pass) hide(ctx context.Context, sku string, rp catalogs.RemoteProduct) {
	logger := logging.FromContext(ctx)
	key := strconv.FormatInt(rp.ID, 10)

	if !rp.Published {
		logger.Debug().Msg("Orphaned product already hidden")
		return
	}
	if p.applied("hide", key) {
		return
	}
	if p.options.dryRun {
		p.result.Stats.Hidden++
		logger.Info().Msg("Would hide orphaned product")
		return
	}

	if err := p.remote.SetPublished(ctx, rp.ID, false); err != nil {
		if errors.IsNotFound(err) {
			p.mark("hide", key)
			logger.Info().Msg("Orphaned product already gone")
			return
		}
		if p.fail(sku, "hide", err) {
			p.result.Stats.Failed++
			logger.Error().Err(err).Msg("Failed to hide orphaned product")
		}
		return
	}

	p.mark("hide", key)
	p.result.Stats.Hidden++
	logger.Info().Msg("Hid orphaned product")
}

// remove deletes an orphan. A missing product is benign; a refusal or any
// other failure is terminal for that product.
func (p *pass) remove(ctx context.Context, sku string, rp catalogs.RemoteProduct) {
	logger := logging.FromContext(ctx)
	key := strconv.FormatInt(rp.ID, 10)

	if p.applied("delete", key) {
		return
	}
	if p.options.dryRun {
		p.result.Stats.Deleted++
		logger.Info().Msg("Would delete orphaned product")
		return
	}

	err := p.remote.DeleteProduct(ctx, rp.ID)
	switch {
	case err == nil:
		p.mark("delete", key)
		p.result.Stats.Deleted++
		logger.Info().Msg("Deleted orphaned product")
	case errors.IsNotFound(err):
		p.mark("delete", key)
		logger.Info().Msg("Orphaned product already gone")
	case errors.IsPermission(err):
		if p.fail(sku, "delete", err) {
			p.result.Stats.Failed++
			logger.Error().Err(err).Msg("Permission denied deleting product")
		}
	default:
		if p.fail(sku, "delete", err) {
			p.result.Stats.Failed++
			logger.Error().Err(err).Msg("Failed to delete product")
		}
	}
}
