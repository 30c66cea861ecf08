// Package check implements the check command, which verifies the store
// credentials with a single authenticated request.
package check

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tiendapocket/nubesync/internal/appcontext"
	"github.com/tiendapocket/nubesync/pkg/errors"
	"github.com/tiendapocket/nubesync/pkg/logging"
)

// Pinger is implemented by remotes that can verify access cheaply.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewCommand creates the check command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "check",
		GroupID: "core",
		Short:   "Verify the store credentials",
		Long: `Check validates the configured credentials and performs one authenticated
read against the store. Nothing is modified.`,
		Example: `  nubesync check`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), app, cmd.OutOrStdout())
		},
	}
}

// Execute runs the access check and reports the outcome on w.
func Execute(ctx context.Context, app appcontext.Interface, w io.Writer) error {
	logger := app.Logger()
	ctx = logging.WithLogger(ctx, logger)

	remote, err := app.Remote()
	if err != nil {
		return err
	}
	pinger, ok := remote.(Pinger)
	if !ok {
		return &errors.ConfigError{Component: "check", Message: "remote does not support access checks"}
	}

	if err := pinger.Ping(ctx); err != nil {
		return errors.WrapResource("check", "store", "access", err)
	}

	logger.Debug().Msg("Store accepted credentials")
	_, err = fmt.Fprintln(w, "ok: store credentials accepted")
	return err
}
