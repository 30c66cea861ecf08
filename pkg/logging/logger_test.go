package logging_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendapocket/nubesync/pkg/logging"
)

func TestDefaultLogger(t *testing.T) {
	original := *logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	buf := &bytes.Buffer{}
	logging.SetDefault(zerolog.New(buf).Level(zerolog.InfoLevel))

	logger := logging.FromContext(context.Background())
	logger.Debug().Msg("debug message")
	logger.Info().Msg("info message")
	logger.Warn().Msg("warning message")

	assert.NotContains(t, buf.String(), "debug message")
	assert.Contains(t, buf.String(), "info message")
	assert.Contains(t, buf.String(), "warning message")
}

func TestContextLogger(t *testing.T) {
	tl := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), tl.Logger)
	ctx = logging.WithPass(ctx, "pass-1")
	ctx = logging.WithSKU(ctx, "ABC123")
	ctx = logging.WithProductID(ctx, 42)

	logging.FromContext(ctx).Info().Msg("creating product")

	tl.AssertContains(t, `"pass_id":"pass-1"`)
	tl.AssertContains(t, `"sku":"ABC123"`)
	tl.AssertContains(t, `"product_id":42`)
	tl.AssertContains(t, "creating product")
	assert.Equal(t, "pass-1", logging.PassID(ctx))
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	assert.Empty(t, logging.PassID(context.Background()))
}

func TestWithField(t *testing.T) {
	tl := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), tl.Logger)
	ctx = logging.WithField(ctx, "table", "ART")
	ctx = logging.WithField(ctx, "rows", 12)

	logging.FromContext(ctx).Info().Msg("loaded")

	assert.True(t, tl.ContainsAll(`"table":"ART"`, `"rows":12`))
}

func TestNewLoggerFromConfig(t *testing.T) {
	original := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(original) })

	tests := []struct {
		name    string
		level   string
		want    []string
		notWant []string
	}{
		{name: "debug level", level: "debug", want: []string{`"level":"debug"`, `"level":"error"`}},
		{name: "error level only", level: "error", want: []string{`"level":"error"`}, notWant: []string{`"level":"info"`}},
		{name: "warning alias", level: "warning", want: []string{`"level":"error"`}, notWant: []string{`"level":"info"`}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := logging.NewLoggerFromConfig(&logging.Config{Level: tc.level, Format: "json"}).Output(buf)

			logger.Debug().Msg("debug")
			logger.Info().Msg("info")
			logger.Error().Msg("error")

			for _, s := range tc.want {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tc.notWant {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

func TestConfigWritesToFile(t *testing.T) {
	original := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(original) })

	path := filepath.Join(t.TempDir(), "nubesync.log")
	logger := logging.NewLoggerFromConfig(&logging.Config{
		Level:  "info",
		Format: "json",
		Output: path,
		Fields: map[string]any{"component": "test"},
	})
	logger.Info().Msg("to file")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "to file")
	assert.Contains(t, string(content), `"component":"test"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, logging.ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, logging.ParseLevel("bogus"))
	assert.Equal(t, zerolog.DebugLevel, logging.ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, logging.ParseLevel("warning"))
	assert.Equal(t, zerolog.Disabled, logging.ParseLevel("off"))
}

func TestTestLogger(t *testing.T) {
	tl := logging.NewTestLogger(t)

	tl.Logger.Info().Msg("message 1")
	tl.Logger.Error().Msg("message 2")

	tl.AssertContains(t, "message 1")
	tl.AssertNotContains(t, "message 3")
	tl.AssertCount(t, 2)

	tl.Clear()
	assert.Equal(t, 0, tl.Count())
}
