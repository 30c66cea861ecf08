// Package reconciler drives one reconciliation pass: it reads the remote
// catalog, matches it against the local products, and issues the create,
// update, hide and delete calls needed for the two to converge.
//
// A pass is strictly sequential. Cancellation is polled through the context
// at the top of every loop iteration; mutations already applied are never
// rolled back.
package reconciler

import (
	"context"

	"github.com/google/uuid"

	"github.com/tiendapocket/nubesync/pkg/catalogs"
	"github.com/tiendapocket/nubesync/pkg/differ"
	"github.com/tiendapocket/nubesync/pkg/errors"
	"github.com/tiendapocket/nubesync/pkg/logging"
)

// Remote is the remote catalog the reconciler reads and mutates.
type Remote interface {
	Products(ctx context.Context) ([]catalogs.RemoteProduct, error)
	Variants(ctx context.Context, productID int64) ([]catalogs.RemoteVariant, error)
	CreateProduct(ctx context.Context, p catalogs.Product) (catalogs.RemoteProduct, error)
	UpdateProduct(ctx context.Context, id int64, p catalogs.Product) error
	SetPublished(ctx context.Context, id int64, published bool) error
	DeleteProduct(ctx context.Context, id int64) error
	CreateVariant(ctx context.Context, productID int64, v catalogs.Variant, fields catalogs.Fields) (catalogs.RemoteVariant, error)
	UpdateVariant(ctx context.Context, productID, variantID int64, v catalogs.Variant, fields catalogs.Fields) error
}

// Reconciler is the main interface for reconciling the local catalog into
// the remote store.
type Reconciler interface {
	// Run executes one pass. The result is always returned, also when the
	// pass is cancelled or the remote catalog cannot be read.
	Run(ctx context.Context, products []catalogs.Product) (*Result, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	remote  Remote
	options *options
	differ  differ.Differ
}

// New creates a new Reconciler with options.
func New(remote Remote, opts ...Option) (Reconciler, error) {
	if remote == nil {
		return nil, &errors.ValidationError{
			Field:   "remote",
			Message: "cannot be nil",
		}
	}

	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	return &reconciler{
		remote:  remote,
		options: options,
		differ:  differ.New(),
	}, nil
}

// Run performs one pass: Reading-Remote, the per-SKU loop, the orphan loop,
// then the summary.
func (r *reconciler) Run(ctx context.Context, products []catalogs.Product) (*Result, error) {
	result := NewResult(uuid.NewString())
	result.DryRun = r.options.dryRun

	ctx = logging.WithPass(ctx, result.PassID)
	logger := logging.FromContext(ctx)
	logger.Info().
		Int("local_products", len(products)).
		Bool("dry_run", r.options.dryRun).
		Bool("manage_price", r.options.fields.Price).
		Bool("manage_stock", r.options.fields.Stock).
		Bool("create_missing", r.options.createMissing).
		Str("orphans", string(r.options.orphans)).
		Msg("Starting reconciliation pass")

	defer func() {
		result.Finalize()
		result.Log(logger)
	}()

	remote, err := r.remote.Products(ctx)
	if err != nil {
		if errors.IsCanceled(err) {
			result.Cancelled = true
		}
		logger.Error().Err(err).Msg("Could not read remote catalog")
		return result, errors.WrapResource("read", "catalog", "remote", err)
	}

	changeset := r.differ.Products(ctx, products, remote)
	result.Changeset = changeset
	logger.Info().Msg(changeset.String())

	p := newPass(r, result)

	for _, d := range changeset.Decisions {
		if err := ctx.Err(); err != nil {
			return p.cancel(ctx, err)
		}
		result.Stats.Processed++
		p.apply(ctx, d)
	}

	for _, orphan := range changeset.Orphaned {
		if err := ctx.Err(); err != nil {
			return p.cancel(ctx, err)
		}
		p.orphan(ctx, orphan)
	}

	return result, nil
}
