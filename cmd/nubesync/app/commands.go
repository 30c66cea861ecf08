package app

import (
	"github.com/spf13/cobra"

	"github.com/tiendapocket/nubesync/cmd/nubesync/cmd/check"
	"github.com/tiendapocket/nubesync/cmd/nubesync/cmd/export"
	"github.com/tiendapocket/nubesync/cmd/nubesync/cmd/fetch"
	"github.com/tiendapocket/nubesync/cmd/nubesync/cmd/sync"
	"github.com/tiendapocket/nubesync/pkg/constants"
)

// NewSyncCommand creates the sync command with app dependencies.
func (a *App) NewSyncCommand() *cobra.Command {
	return sync.NewCommand(a)
}

// NewExportCommand creates the export command with app dependencies.
func (a *App) NewExportCommand() *cobra.Command {
	return export.NewCommand(a)
}

// NewFetchCommand creates the fetch command with app dependencies.
func (a *App) NewFetchCommand() *cobra.Command {
	return fetch.NewCommand(a)
}

// NewCheckCommand creates the check command with app dependencies.
func (a *App) NewCheckCommand() *cobra.Command {
	return check.NewCommand(a)
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", constants.AppName, a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
