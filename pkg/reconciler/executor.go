package reconciler

import (
	"context"
	"strconv"

	"github.com/tiendapocket/nubesync/pkg/differ"
	"github.com/tiendapocket/nubesync/pkg/errors"
	"github.com/tiendapocket/nubesync/pkg/logging"
)

// pass holds the state of one run of the executor.
type pass struct {
	remote  Remote
	options *options
	compare differ.Differ
	result  *Result

	// done holds one marker per action and entity applied in this pass.
	done map[string]struct{}
	// touched holds the remote products written in this pass.
	touched map[int64]struct{}
}

func newPass(r *reconciler, result *Result) *pass {
	return &pass{
		remote:  r.remote,
		options: r.options,
		compare: differ.New(differ.WithManagedFields(r.options.fields)),
		result:  result,
		done:    make(map[string]struct{}),
		touched: make(map[int64]struct{}),
	}
}

func marker(action, id string) string {
	return action + ":" + id
}

func (p *pass) applied(action, id string) bool {
	_, ok := p.done[marker(action, id)]
	return ok
}

func (p *pass) mark(action, id string) {
	p.done[marker(action, id)] = struct{}{}
}

// cancel stops the pass at a loop boundary.
func (p *pass) cancel(ctx context.Context, err error) (*Result, error) {
	p.result.Cancelled = true
	logging.FromContext(ctx).Warn().
		Int("processed", p.result.Stats.Processed).
		Msg("Reconciliation cancelled")
	return p.result, errors.Join(errors.ErrCanceled, err)
}

// fail records an error against a SKU. Errors caused by cancellation only
// mark the pass as cancelled.
func (p *pass) fail(sku, operation string, err error) bool {
	if errors.IsCanceled(err) {
		p.result.Cancelled = true
		return false
	}
	p.result.record(sku, operation, err)
	return true
}

// apply acts on one classified local product.
func (p *pass) apply(ctx context.Context, d differ.Decision) {
	ctx = logging.WithSKU(ctx, d.SKU)
	logger := logging.FromContext(ctx)

	switch d.Action {
	case differ.ActionSkip:
		p.result.Stats.Skipped++
		if d.SKU == "" {
			logger.Warn().Str("name", d.Local.Name.Es()).Msg("Product without SKU, ignored")
			return
		}
		logger.Warn().Err(d.Err).Msg("Product skipped")
		p.fail(d.SKU, "classify", d.Err)
	case differ.ActionCreate:
		p.create(ctx, d)
	case differ.ActionUpdate:
		// Differences confined to unmanaged fields are not worth a write.
		if len(p.compare.Product(*d.Remote, d.Local)) == 0 {
			p.verify(ctx, d)
			return
		}
		p.update(ctx, d)
	case differ.ActionVerify:
		p.verify(ctx, d)
	}
}

// create submits the full product, variants included.
func (p *pass) create(ctx context.Context, d differ.Decision) {
	logger := logging.FromContext(ctx)

	if !p.options.createMissing {
		p.result.Stats.Skipped++
		logger.Info().Msg("Product missing remotely, creation disabled")
		return
	}
	if p.applied("create", d.SKU) {
		logger.Debug().Msg("Product already created in this pass")
		return
	}
	if p.options.dryRun {
		p.result.Stats.Created++
		logger.Info().Int("variants", len(d.Local.Variants)).Msg("Would create product")
		return
	}

	created, err := p.remote.CreateProduct(ctx, d.Local)
	if err != nil {
		if !p.fail(d.SKU, "create", err) {
			return
		}
		p.result.Stats.Failed++
		if errors.IsInvalidStock(err) {
			logger.Error().Err(err).Msg("Remote rejected product stock")
			return
		}
		logger.Error().Err(err).Msg("Failed to create product")
		return
	}

	p.mark("create", d.SKU)
	p.touched[created.ID] = struct{}{}
	p.result.Stats.Created++
	logger.Info().Int64("product_id", created.ID).Int("variants", len(created.Variants)).Msg("Created product")
}

// update writes product-level fields, then reconciles variants against a
// fresh read of the product's variants.
func (p *pass) update(ctx context.Context, d differ.Decision) {
	id := d.Remote.ID
	ctx = logging.WithProductID(ctx, id)
	logger := logging.FromContext(ctx)
	key := strconv.FormatInt(id, 10)

	if p.applied("update", key) {
		logger.Debug().Msg("Product already updated in this pass")
		return
	}

	changes := make([]string, 0, len(d.Changes))
	for _, c := range d.Changes {
		changes = append(changes, c.String())
	}

	if p.options.dryRun {
		p.result.Stats.Updated++
		logger.Info().Strs("changes", changes).Msg("Would update product")
		p.variants(ctx, d.SKU, *d.Remote, d.Local, false)
		return
	}

	if err := p.remote.UpdateProduct(ctx, id, d.Local); err != nil {
		if p.fail(d.SKU, "update", err) {
			p.result.Stats.Failed++
			logger.Error().Err(err).Msg("Failed to update product")
		}
		return
	}

	p.mark("update", key)
	p.touched[id] = struct{}{}
	p.result.Stats.Updated++
	logger.Info().Strs("changes", changes).Msg("Updated product")

	p.variants(ctx, d.SKU, *d.Remote, d.Local, true)
}

// verify walks the variants of a product judged equal at product level.
// Variants are re-read only when the product was written earlier in the pass.
func (p *pass) verify(ctx context.Context, d differ.Decision) {
	id := d.Remote.ID
	ctx = logging.WithProductID(ctx, id)
	p.result.Stats.Verified++
	logging.FromContext(ctx).Debug().Msg("Product unchanged, checking variants")

	_, touched := p.touched[id]
	p.variants(ctx, d.SKU, *d.Remote, d.Local, touched && !p.options.dryRun)
}
