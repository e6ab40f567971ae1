package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/sentinel/internal/config"
	"codeberg.org/mutker/sentinel/internal/errors"
	"codeberg.org/mutker/sentinel/internal/logger"
	"codeberg.org/mutker/sentinel/internal/supervisor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sentinel.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SENTINEL_CONFIG", "")

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultCollectionFrequencyMs, cfg.CollectionFrequencyMs)
	assert.Equal(t, config.DefaultCollectionFrequencyMs, cfg.KeyboardIntervalMs)
	assert.Equal(t, config.DefaultCollectionFrequencyMs, cfg.PointerIntervalMs)
	assert.Equal(t, config.DefaultCollectionFrequencyMs, cfg.WindowIntervalMs)
	assert.Equal(t, config.DefaultAggregationIntervalMs, cfg.AggregationIntervalMs)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, config.DefaultLogFormat, cfg.LogFormat)
	assert.Equal(t, config.DefaultExportFormat, cfg.ExportFormat)
	assert.NotEmpty(t, cfg.PIDFile)
	assert.False(t, cfg.PrintConfig)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
collection_frequency_ms = 40
window_interval_ms = 1000
aggregation_interval_ms = 2000
log_level = "debug"
export_format = "json"
`)
	t.Setenv("SENTINEL_CONFIG", path)

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.KeyboardIntervalMs, "inherits collection_frequency_ms")
	assert.Equal(t, 40, cfg.PointerIntervalMs, "inherits collection_frequency_ms")
	assert.Equal(t, 1000, cfg.WindowIntervalMs)
	assert.Equal(t, 2000, cfg.AggregationIntervalMs)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, logger.DebugLevel, cfg.Level())
	assert.Equal(t, "json", cfg.ExportFormat)
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestFlagsOverrideFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
keyboard_interval_ms = 30
pointer_interval_ms = 30
`)
	t.Setenv("SENTINEL_POINTER_INTERVAL_MS", "60")

	cfg, err := config.Load([]string{"--keyboard-interval", "10", "--print-config"}, config.WithConfigFile(path))
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.KeyboardIntervalMs, "flag wins over file")
	assert.Equal(t, 60, cfg.PointerIntervalMs, "env wins over file")
	assert.True(t, cfg.PrintConfig)
}

func TestConfigFlag(t *testing.T) {
	path := writeConfig(t, `aggregation_interval_ms = 750`)

	cfg, err := config.Load([]string{"--config", path})
	require.NoError(t, err)
	assert.Equal(t, 750, cfg.AggregationIntervalMs)
}

func TestEnvPrefix(t *testing.T) {
	t.Setenv("AGENT_CONFIG", "")
	t.Setenv("AGENT_EXPORT_FORMAT", "none")

	cfg, err := config.Load(nil, config.WithEnvPrefix("AGENT"))
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.ExportFormat)
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	path := writeConfig(t, `This is not a valid TOML file`)

	_, err := config.Load(nil, config.WithConfigFile(path))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := config.Load(nil, config.WithConfigFile(filepath.Join(t.TempDir(), "missing.toml")))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
}

func TestNonPositiveIntervalIsInvalid(t *testing.T) {
	t.Setenv("SENTINEL_CONFIG", "")

	for _, args := range [][]string{
		{"--window-interval", "0"},
		{"--aggregation-interval", "-5"},
		{"--collection-frequency", "0"},
	} {
		_, err := config.Load(args)
		require.Error(t, err, args)
		assert.True(t, errors.HasCode(err, errors.ErrInvalidConfig), args)
		assert.True(t, errors.HasCode(err, errors.ErrInvalidInterval), args)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	path := writeConfig(t, `log_level = "invalid"`)

	_, err := config.Load(nil, config.WithConfigFile(path))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid log level")
	assert.True(t, errors.HasCode(err, errors.ErrInvalidLogLevel))
}

func TestInvalidFormats(t *testing.T) {
	t.Setenv("SENTINEL_CONFIG", "")

	_, err := config.Load([]string{"--export-format", "xml"})
	assert.True(t, errors.HasCode(err, errors.ErrInvalidFormat))

	_, err = config.Load([]string{"--log-format", "pretty"})
	assert.True(t, errors.HasCode(err, errors.ErrInvalidFormat))
}

func TestUnknownFlag(t *testing.T) {
	_, err := config.Load([]string{"--nope"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrBindFlags))
}

func TestHelp(t *testing.T) {
	_, err := config.Load([]string{"--help"})
	assert.ErrorIs(t, err, config.ErrHelp)
}

func TestSupervisorConfig(t *testing.T) {
	cfg := &config.Config{
		KeyboardIntervalMs:    50,
		PointerIntervalMs:     100,
		WindowIntervalMs:      1000,
		AggregationIntervalMs: 1500,
	}

	assert.Equal(t, supervisor.Config{
		KeyboardInterval:    50 * time.Millisecond,
		PointerInterval:     100 * time.Millisecond,
		WindowInterval:      time.Second,
		AggregationInterval: 1500 * time.Millisecond,
	}, cfg.Supervisor())
}

func TestDump(t *testing.T) {
	t.Setenv("SENTINEL_CONFIG", "")

	cfg, err := config.Load([]string{"--window-interval", "500"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, cfg.Dump(&buf))

	var out map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, 500, out["window_interval_ms"])
	assert.Equal(t, "info", out["log_level"])
	assert.NotContains(t, out, "printconfig")
}

func TestLogLevelValidity(t *testing.T) {
	assert.True(t, config.LogLevelWarning.IsValid())
	assert.False(t, config.LogLevel("warn").IsValid())
	assert.Equal(t, logger.WarnLevel, config.LogLevelWarning.Level())
	assert.Equal(t, logger.InfoLevel, config.LogLevel("bogus").Level())
}
