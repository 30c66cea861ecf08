package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/tiendapocket/nubesync/pkg/constants"
	"github.com/tiendapocket/nubesync/pkg/errors"
	"github.com/tiendapocket/nubesync/pkg/logging"
)

// Execute runs the nubesync CLI application with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     constants.AppName,
		Short:   "Tienda Nube catalog synchronizer",
		Version: a.version,
		Long: `nubesync keeps a Tienda Nube store catalog in line with the table
exports of the local management system (F_ART, F_ARC, F_LTA, F_LTC,
F_STO and F_STC as ';'-separated CSV files).

Each sync run reads the exports and the remote catalog, creates and
updates products and variants matched by SKU, and hides, deletes or
keeps remote products that are no longer exported.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})

	rootCmd.PersistentFlags().String("config", "", "config file (default is $HOME/.nubesync.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format: table, json, yaml, wide")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate(constants.AppName + " {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if path := mustGetString(cmd, "config"); path != "" {
		config, err := loadConfig(path)
		if err != nil {
			return errors.WrapResource("load", "config", path, err)
		}
		a.config = config
	}

	a.config.UpdateFromFlags(
		mustGetBool(cmd, "verbose"),
		mustGetBool(cmd, "quiet"),
		mustGetBool(cmd, "no-color"),
		mustGetString(cmd, "output"),
		mustGetString(cmd, "log-level"),
	)

	if err := a.config.Validate(); err != nil {
		return err
	}

	logger := NewLogger(a.config)
	a.logger = &logger
	logging.SetDefault(logger)

	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(a.NewSyncCommand())
	rootCmd.AddCommand(a.NewExportCommand())
	rootCmd.AddCommand(a.NewFetchCommand())
	rootCmd.AddCommand(a.NewCheckCommand())
	rootCmd.AddCommand(a.NewVersionCommand())
}

// ExitOnError prints a non-nil error and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		//nolint:errcheck // exiting anyway
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// Only for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// Only for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
