// Package sync implements the sync command: one reconciliation pass from
// the local table exports to the store.
package sync

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/tiendapocket/nubesync/internal/appcontext"
	"github.com/tiendapocket/nubesync/internal/cmd/catalog"
	"github.com/tiendapocket/nubesync/internal/cmd/cmdutil"
	"github.com/tiendapocket/nubesync/internal/cmd/output"
	"github.com/tiendapocket/nubesync/pkg/errors"
	"github.com/tiendapocket/nubesync/pkg/logging"
	"github.com/tiendapocket/nubesync/pkg/reconciler"
)

// NewCommand creates the sync command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		sourceFlags *cmdutil.SourceFlags
		syncFlags   *cmdutil.SyncFlags
	)

	cmd := &cobra.Command{
		Use:     "sync",
		GroupID: "core",
		Short:   "Reconcile the store catalog with the local exports",
		Long: `Sync runs one reconciliation pass:

• Load and normalize the F_*.csv table exports
• Read the whole remote catalog
• Create missing products, update changed ones and their variants
• Hide, delete or keep remote products absent from the exports

Running sync twice without local changes sends no change the second time.
An interrupt stops the pass at the next product.`,
		Example: `  nubesync sync                       # Reconcile using the configured directory
  nubesync sync --dir ./exports       # Read exports from ./exports
  nubesync sync --dry-run -o wide     # Show the plan without changing the store
  nubesync sync --orphans delete      # Delete products no longer exported
  nubesync sync --manage-stock=false  # Leave remote stock untouched`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := syncFlags.Options(cmd)
			if err != nil {
				return err
			}
			return Execute(cmd.Context(), app, cmd.OutOrStdout(), sourceFlags, opts...)
		},
	}

	sourceFlags = cmdutil.AddSourceFlags(cmd)
	syncFlags = cmdutil.AddSyncFlags(cmd)

	return cmd
}

// Execute runs one pass and prints its outcome. Options are applied after
// the configured ones.
func Execute(ctx context.Context, app appcontext.Interface, w io.Writer, source *cmdutil.SourceFlags, opts ...reconciler.Option) error {
	ctx = logging.WithLogger(ctx, app.Logger())

	products, _, err := catalog.Load(ctx, source.DirOr(app.DataDir()), source.NormalizerOptions()...)
	if err != nil {
		return err
	}

	remote, err := app.Remote()
	if err != nil {
		return err
	}

	base, err := app.ReconcilerOptions()
	if err != nil {
		return err
	}

	r, err := reconciler.New(remote, append(base, opts...)...)
	if err != nil {
		return err
	}

	result, runErr := r.Run(ctx, products)
	if result != nil {
		if err := output.Write(w, output.DetectFormat(app.OutputFormat()), output.NewOutcome(result)); err != nil {
			return err
		}
	}

	switch {
	case runErr != nil:
		return runErr
	case result.Cancelled:
		return errors.Join(errors.ErrCanceled, ctx.Err())
	case !result.IsSuccess():
		return errors.NewResourceError("sync", "catalog", result.PassID, errors.ErrIncompletePass)
	}
	return nil
}
