// Package export implements the export command, which prints the products
// normalized from the local table exports without contacting the store.
package export

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/tiendapocket/nubesync/internal/appcontext"
	"github.com/tiendapocket/nubesync/internal/cmd/catalog"
	"github.com/tiendapocket/nubesync/internal/cmd/cmdutil"
	"github.com/tiendapocket/nubesync/internal/cmd/output"
	"github.com/tiendapocket/nubesync/pkg/logging"
)

// NewCommand creates the export command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var sourceFlags *cmdutil.SourceFlags

	cmd := &cobra.Command{
		Use:     "export",
		GroupID: "core",
		Short:   "Print the products built from the local exports",
		Long: `Export loads the F_*.csv table exports, normalizes them into products
and prints the result. Use it to check what sync would send before running it.

In wide and structured formats the normalization warnings (malformed numbers,
dropped or duplicate combinations) are included.`,
		Example: `  nubesync export --dir ./exports
  nubesync export -o yaml > catalog.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), app, cmd.OutOrStdout(), sourceFlags)
		},
	}

	sourceFlags = cmdutil.AddSourceFlags(cmd)

	return cmd
}

// Execute loads the local catalog and writes it to w.
func Execute(ctx context.Context, app appcontext.Interface, w io.Writer, source *cmdutil.SourceFlags) error {
	ctx = logging.WithLogger(ctx, app.Logger())

	products, report, err := catalog.Load(ctx, source.DirOr(app.DataDir()), source.NormalizerOptions()...)
	if err != nil {
		return err
	}

	view := output.Export{Products: products, Report: report}
	return output.Write(w, output.DetectFormat(app.OutputFormat()), view)
}
