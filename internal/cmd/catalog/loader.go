// Package catalog loads the local catalog for CLI commands.
package catalog

import (
	"context"

	"github.com/tiendapocket/nubesync/internal/csvsource"
	"github.com/tiendapocket/nubesync/pkg/catalogs"
	"github.com/tiendapocket/nubesync/pkg/errors"
	"github.com/tiendapocket/nubesync/pkg/normalizer"
)

// Load reads the table exports in dir and normalizes them into products.
func Load(ctx context.Context, dir string, opts ...normalizer.Option) ([]catalogs.Product, *normalizer.Report, error) {
	tables, err := csvsource.Load(ctx, dir)
	if err != nil {
		return nil, nil, errors.WrapResource("load", "tables", dir, err)
	}
	products, report := normalizer.Normalize(ctx, tables, opts...)
	return products, report, nil
}
