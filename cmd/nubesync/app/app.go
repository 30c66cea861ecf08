// Package app provides the application context and dependency management
// for the nubesync CLI: configuration, logging, the store client and the
// command tree.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tiendapocket/nubesync/internal/appcontext"
	"github.com/tiendapocket/nubesync/internal/tiendanube"
	"github.com/tiendapocket/nubesync/internal/transport"
	"github.com/tiendapocket/nubesync/pkg/errors"
	"github.com/tiendapocket/nubesync/pkg/reconciler"
)

// App represents the nubesync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Store client (lazy-initialized, singleton)
	mu     sync.Mutex
	remote reconciler.Remote
}

var _ appcontext.Interface = (*App)(nil)

// New creates a new App instance with the given version information.
// Configuration is loaded from the environment and can be replaced
// with functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// DataDir returns the directory holding the local table exports.
func (a *App) DataDir() string {
	return a.config.DataDir
}

// Remote returns the store client, creating it on first use.
func (a *App) Remote() (reconciler.Remote, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.remote != nil {
		return a.remote, nil
	}

	if err := a.config.ValidateCredentials(); err != nil {
		return nil, err
	}

	client, err := tiendanube.NewClient(a.config.Credentials.StoreID, a.config.Credentials.AccessToken,
		tiendanube.WithBaseURL(a.config.BaseURL),
		tiendanube.WithTransportOptions(
			transport.WithTimeout(a.config.Timeout),
			transport.WithRateLimit(a.config.RequestsPerSecond, a.config.RequestBurst),
		),
	)
	if err != nil {
		return nil, errors.WrapResource("create", "client", a.config.Credentials.StoreID, err)
	}

	a.remote = client
	return client, nil
}

// ReconcilerOptions returns the reconciler options set by the configuration.
func (a *App) ReconcilerOptions() ([]reconciler.Option, error) {
	policy, err := reconciler.ParseOrphanPolicy(a.config.Orphans)
	if err != nil {
		return nil, err
	}
	return []reconciler.Option{
		reconciler.WithManagePrice(a.config.ManagePrice),
		reconciler.WithManageStock(a.config.ManageStock),
		reconciler.WithCreateMissing(a.config.CreateMissing),
		reconciler.WithOrphanPolicy(policy),
	}, nil
}

// Shutdown releases the idle connections of the store client. In-flight
// requests finish on their own detached contexts.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if closer, ok := a.remote.(interface{ Close() }); ok {
		closer.Close()
		a.logger.Debug().Msg("Closed store client connections")
	}
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewValidationError("config", nil, "config is required")
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithRemote sets the store client (useful for testing).
func WithRemote(remote reconciler.Remote) Option {
	return func(a *App) error {
		a.remote = remote
		return nil
	}
}
