package registrylog_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.deviceregistry.dev/registry/registrylog"
)

func TestGetLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input       string
		expected    slog.Level
		expectError bool
	}{
		"error level":     {input: "error", expected: slog.LevelError},
		"warn level":      {input: "warn", expected: slog.LevelWarn},
		"warning level":   {input: "warning", expected: slog.LevelWarn},
		"info level":      {input: "info", expected: slog.LevelInfo},
		"debug level":     {input: "debug", expected: slog.LevelDebug},
		"case insensitive": {input: "INFO", expected: slog.LevelInfo},
		"unknown level":   {input: "unknown", expectError: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			lvl, err := registrylog.GetLevel(tc.input)
			if tc.expectError {
				require.Error(t, err)
				require.ErrorIs(t, err, registrylog.ErrUnknownLogLevel)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, lvl)
		})
	}
}

func TestGetFormat(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input       string
		expected    registrylog.Format
		expectError bool
	}{
		"json format":      {input: "json", expected: registrylog.FormatJSON},
		"logfmt format":    {input: "logfmt", expected: registrylog.FormatLogfmt},
		"case insensitive": {input: "JSON", expected: registrylog.FormatJSON},
		"unknown format":   {input: "unknown", expectError: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f, err := registrylog.GetFormat(tc.input)
			if tc.expectError {
				require.Error(t, err)
				require.ErrorIs(t, err, registrylog.ErrUnknownLogFormat)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, f)
		})
	}
}

func TestCreateHandler(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		checkFunc func(*testing.T, []byte)
		format    registrylog.Format
	}{
		"json handler": {
			format: registrylog.FormatJSON,
			checkFunc: func(t *testing.T, output []byte) {
				t.Helper()

				var logEntry map[string]any
				require.NoError(t, json.Unmarshal(output, &logEntry))
				assert.Equal(t, "test message", logEntry["msg"])
				assert.Equal(t, "INFO", logEntry["level"])
			},
		},
		"logfmt handler": {
			format: registrylog.FormatLogfmt,
			checkFunc: func(t *testing.T, output []byte) {
				t.Helper()

				s := string(output)
				assert.Contains(t, s, "level=INFO")
				assert.Contains(t, s, `msg="test message"`)
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			handler := registrylog.CreateHandler(&buf, slog.LevelInfo, tc.format)
			require.NotNil(t, handler)

			slog.New(handler).Info("test message")
			tc.checkFunc(t, buf.Bytes())
		})
	}
}

func TestCreateHandlerWithStringsInvalidArguments(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	_, err := registrylog.CreateHandlerWithStrings(&buf, "invalid", "json")
	require.ErrorIs(t, err, registrylog.ErrInvalidArgument)
	require.ErrorIs(t, err, registrylog.ErrUnknownLogLevel)

	_, err = registrylog.CreateHandlerWithStrings(&buf, "info", "invalid")
	require.ErrorIs(t, err, registrylog.ErrInvalidArgument)
	require.ErrorIs(t, err, registrylog.ErrUnknownLogFormat)
}

func TestConfigRegisterCompletions(t *testing.T) {
	t.Parallel()

	cfg := registrylog.NewConfig()
	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.Flags())

	require.NoError(t, cfg.RegisterCompletions(cmd))

	tcs := map[string]struct {
		flag string
		want []string
	}{
		"log-level completions":  {flag: cfg.Flags.Level, want: registrylog.AllLevelStrings()},
		"log-format completions": {flag: cfg.Flags.Format, want: registrylog.AllFormatStrings()},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			fn, ok := cmd.GetFlagCompletionFunc(tc.flag)
			require.True(t, ok)

			values, directive := fn(cmd, nil, "")
			assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
			assert.Equal(t, tc.want, values)
		})
	}
}

func TestConfigLoadFileOverlaysLevelAndFormat(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "log.yaml")
	require.NoError(t, os.WriteFile(path, []byte("level: debug\nformat: json\n"), 0o644))

	cfg := registrylog.NewConfig()
	require.NoError(t, cfg.LoadFile(path))

	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
}

func TestConfigLoadFileMissingFileIsNotAnError(t *testing.T) {
	t.Parallel()

	cfg := registrylog.NewConfig()
	require.NoError(t, cfg.LoadFile(filepath.Join(t.TempDir(), "does-not-exist.yaml")))

	assert.Equal(t, "info", cfg.Level, "a missing config file must leave defaults untouched")
}

func TestConfigNewLogger(t *testing.T) {
	t.Parallel()

	cfg := registrylog.NewConfig()
	cfg.Level = "debug"
	cfg.Format = string(registrylog.FormatJSON)

	var buf bytes.Buffer

	logger, err := cfg.NewLogger(&buf)
	require.NoError(t, err)

	logger.Debug("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}
