package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/tiendapocket/nubesync/pkg/reconciler"
)

// Mock provides a mock implementation of Interface for testing.
// A nil function field makes the method return a default value.
type Mock struct {
	RemoteFunc            func() (reconciler.Remote, error)
	ReconcilerOptionsFunc func() ([]reconciler.Option, error)
	LoggerFunc            func() *zerolog.Logger
	DataDirValue          string
	Format                string
}

var _ Interface = (*Mock)(nil)

// Remote returns a remote using the mock function or nil.
func (m *Mock) Remote() (reconciler.Remote, error) {
	if m.RemoteFunc != nil {
		return m.RemoteFunc()
	}
	return nil, nil
}

// ReconcilerOptions returns options using the mock function or none.
func (m *Mock) ReconcilerOptions() ([]reconciler.Option, error) {
	if m.ReconcilerOptionsFunc != nil {
		return m.ReconcilerOptionsFunc()
	}
	return nil, nil
}

// DataDir returns DataDirValue or the working directory.
func (m *Mock) DataDir() string {
	if m.DataDirValue != "" {
		return m.DataDirValue
	}
	return "."
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns Format or json.
func (m *Mock) OutputFormat() string {
	if m.Format != "" {
		return m.Format
	}
	return "json"
}

// Version returns "dev".
func (m *Mock) Version() string { return "dev" }

// Commit returns "unknown".
func (m *Mock) Commit() string { return "unknown" }

// Date returns "unknown".
func (m *Mock) Date() string { return "unknown" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }
