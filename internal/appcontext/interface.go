// Package appcontext provides the shared application context interface
// used by all commands. Commands accept this interface instead of the
// concrete App so they can be tested against a Mock.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/tiendapocket/nubesync/pkg/reconciler"
)

// Interface defines what commands need from the application.
type Interface interface {
	// Remote returns the client for the configured store, creating it lazily.
	// It fails when the store credentials are missing.
	Remote() (reconciler.Remote, error)

	// ReconcilerOptions returns the reconciler options derived from the
	// loaded configuration. Command flags are appended after these.
	ReconcilerOptions() ([]reconciler.Option, error)

	// DataDir returns the directory holding the local table exports.
	DataDir() string

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	Version() string
	Commit() string
	Date() string
	BuiltBy() string
}
