// Package cmdutil provides shared flags for nubesync commands.
package cmdutil

import (
	"github.com/spf13/cobra"

	"github.com/tiendapocket/nubesync/pkg/normalizer"
	"github.com/tiendapocket/nubesync/pkg/reconciler"
)

// SourceFlags select and shape the local table exports.
type SourceFlags struct {
	Dir         string
	AxisNames   []string
	PublishFlag string
}

// AddSourceFlags adds the local source flags to a command.
func AddSourceFlags(cmd *cobra.Command) *SourceFlags {
	flags := &SourceFlags{}

	cmd.Flags().StringVarP(&flags.Dir, "dir", "d", "",
		"Directory holding the F_*.csv exports (default from config)")
	cmd.Flags().StringSliceVar(&flags.AxisNames, "axes", nil,
		"Attribute names of the two combination axes (e.g. Talle,Color)")
	cmd.Flags().StringVar(&flags.PublishFlag, "publish-flag", "",
		"Value of the article publish column that keeps a row")

	return flags
}

// DirOr returns the directory flag or fallback when unset.
func (f *SourceFlags) DirOr(fallback string) string {
	if f.Dir != "" {
		return f.Dir
	}
	return fallback
}

// NormalizerOptions converts the flags to normalizer options.
func (f *SourceFlags) NormalizerOptions() []normalizer.Option {
	var opts []normalizer.Option
	if len(f.AxisNames) > 0 {
		axes := normalizer.Defaults()
		axes.FirstAxis = f.AxisNames[0]
		if len(f.AxisNames) > 1 {
			axes.SecondAxis = f.AxisNames[1]
		}
		opts = append(opts, normalizer.WithAxisNames(axes.FirstAxis, axes.SecondAxis))
	}
	if f.PublishFlag != "" {
		opts = append(opts, normalizer.WithPublishFlag(f.PublishFlag))
	}
	return opts
}

// SyncFlags hold the reconciliation flags.
type SyncFlags struct {
	DryRun        bool
	ManagePrice   bool
	ManageStock   bool
	CreateMissing bool
	Orphans       string
}

// AddSyncFlags adds the reconciliation flags to a command.
func AddSyncFlags(cmd *cobra.Command) *SyncFlags {
	flags := &SyncFlags{}

	cmd.Flags().BoolVarP(&flags.DryRun, "dry-run", "n", false,
		"Plan the pass without sending any change")
	cmd.Flags().BoolVar(&flags.ManagePrice, "manage-price", true,
		"Overwrite remote variant prices")
	cmd.Flags().BoolVar(&flags.ManageStock, "manage-stock", true,
		"Overwrite remote variant stock")
	cmd.Flags().BoolVar(&flags.CreateMissing, "create-missing", true,
		"Create products absent from the store")
	cmd.Flags().StringVar(&flags.Orphans, "orphans", "",
		"Orphaned product policy: hide, delete, keep (default from config)")

	return flags
}

// Options converts the flags the user set on cmd to reconciler options.
// Flags left at their default do not override the configuration.
func (f *SyncFlags) Options(cmd *cobra.Command) ([]reconciler.Option, error) {
	opts := []reconciler.Option{reconciler.WithDryRun(f.DryRun)}
	changed := cmd.Flags().Changed

	if changed("manage-price") {
		opts = append(opts, reconciler.WithManagePrice(f.ManagePrice))
	}
	if changed("manage-stock") {
		opts = append(opts, reconciler.WithManageStock(f.ManageStock))
	}
	if changed("create-missing") {
		opts = append(opts, reconciler.WithCreateMissing(f.CreateMissing))
	}
	if f.Orphans != "" {
		policy, err := reconciler.ParseOrphanPolicy(f.Orphans)
		if err != nil {
			return nil, err
		}
		opts = append(opts, reconciler.WithOrphanPolicy(policy))
	}
	return opts, nil
}
