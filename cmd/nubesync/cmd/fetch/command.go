// Package fetch implements the fetch command, which prints the remote
// catalog of the configured store.
package fetch

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/tiendapocket/nubesync/internal/appcontext"
	"github.com/tiendapocket/nubesync/internal/cmd/output"
	"github.com/tiendapocket/nubesync/pkg/catalogs"
	"github.com/tiendapocket/nubesync/pkg/errors"
	"github.com/tiendapocket/nubesync/pkg/logging"
)

// Flags holds the fetch flags.
type Flags struct {
	SKU   string
	Limit int
}

// NewCommand creates the fetch command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "fetch",
		GroupID: "core",
		Short:   "Print the remote store catalog",
		Long: `Fetch reads every product of the configured store, with its variants,
and prints it. Products whose variants could not be read are flagged in
wide output; sync never treats those as orphaned.

Requires ACCESS_TOKEN and USER_ID (or NUBESYNC_ACCESS_TOKEN and
NUBESYNC_STORE_ID) in the environment or a .env file.`,
		Example: `  nubesync fetch
  nubesync fetch --sku A123 -o json
  nubesync fetch --limit 20 -o wide`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), app, cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.SKU, "sku", "", "Only print the product holding this SKU")
	cmd.Flags().IntVarP(&flags.Limit, "limit", "l", 0, "Limit number of products printed")

	return cmd
}

// Execute reads the remote catalog and writes it to w.
func Execute(ctx context.Context, app appcontext.Interface, w io.Writer, flags *Flags) error {
	ctx = logging.WithLogger(ctx, app.Logger())

	remote, err := app.Remote()
	if err != nil {
		return err
	}

	products, err := remote.Products(ctx)
	if err != nil {
		return errors.WrapResource("read", "catalog", "remote", err)
	}

	products = filter(products, flags)
	return output.Write(w, output.DetectFormat(app.OutputFormat()), output.RemoteProducts(products))
}

func filter(products []catalogs.RemoteProduct, flags *Flags) []catalogs.RemoteProduct {
	if flags.SKU != "" {
		want := catalogs.NormalizeSKU(flags.SKU)
		matched := []catalogs.RemoteProduct{}
		for _, p := range products {
			for _, sku := range p.SKUs() {
				if sku == want {
					matched = append(matched, p)
					break
				}
			}
		}
		products = matched
	}
	if flags.Limit > 0 && len(products) > flags.Limit {
		products = products[:flags.Limit]
	}
	return products
}
