package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "codeberg.org/mutker/sentinel/internal/errors"
	"codeberg.org/mutker/sentinel/internal/export"
	"codeberg.org/mutker/sentinel/internal/logger"
	"codeberg.org/mutker/sentinel/internal/supervisor"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultEnvPrefix             = "SENTINEL"
	DefaultCollectionFrequencyMs = 100
	DefaultAggregationIntervalMs = 1000
	DefaultLogLevel              = "info"
	DefaultLogFormat             = logger.FormatAuto
	DefaultExportFormat          = export.SinkLog
	configName                   = "sentinel"
	pidFileName                  = "sentinel.pid"
)

// ErrHelp is returned by Load when usage was requested.
var ErrHelp = pflag.ErrHelp

type Config struct {
	CollectionFrequencyMs int    `mapstructure:"collection_frequency_ms" yaml:"collection_frequency_ms"`
	KeyboardIntervalMs    int    `mapstructure:"keyboard_interval_ms" yaml:"keyboard_interval_ms"`
	PointerIntervalMs     int    `mapstructure:"pointer_interval_ms" yaml:"pointer_interval_ms"`
	WindowIntervalMs      int    `mapstructure:"window_interval_ms" yaml:"window_interval_ms"`
	AggregationIntervalMs int    `mapstructure:"aggregation_interval_ms" yaml:"aggregation_interval_ms"`
	LogLevel              string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat             string `mapstructure:"log_format" yaml:"log_format"`
	ExportFormat          string `mapstructure:"export_format" yaml:"export_format"`
	PIDFile               string `mapstructure:"pid_file" yaml:"pid_file"`

	PrintConfig bool   `mapstructure:"-" yaml:"-"`
	ConfigFile  string `mapstructure:"-" yaml:"-"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"collection-frequency": "collection_frequency_ms",
	"keyboard-interval":    "keyboard_interval_ms",
	"pointer-interval":     "pointer_interval_ms",
	"window-interval":      "window_interval_ms",
	"aggregation-interval": "aggregation_interval_ms",
	"log-level":            "log_level",
	"log-format":           "log_format",
	"export-format":        "export_format",
	"pid-file":             "pid_file",
}

// samplerKeys inherit collection_frequency_ms unless set explicitly.
var samplerKeys = []string{"keyboard_interval_ms", "pointer_interval_ms", "window_interval_ms"}

// Load reads configuration from defaults, the config file, the environment
// and args, in increasing order of precedence, and validates the result.
func Load(args []string, opts ...Option) (*Config, error) {
	errFactory := apperrors.New()

	o := options{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(&o)
	}

	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, ErrHelp
		}
		return nil, errFactory.Wrap(apperrors.ErrBindFlags, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(o.envPrefix)
	v.AutomaticEnv()

	for name, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return nil, errFactory.Wrap(apperrors.ErrBindFlags, err)
		}
	}

	configPath := o.configPath
	if f := fs.Lookup("config"); f.Changed {
		configPath = f.Value.String()
	}
	if configPath == "" {
		configPath = os.Getenv(o.envPrefix + "_CONFIG")
	}

	if err := readConfigFile(v, configPath); err != nil {
		return nil, err
	}

	collection := v.GetInt("collection_frequency_ms")
	for _, key := range samplerKeys {
		if !v.IsSet(key) {
			v.Set(key, collection)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(apperrors.ErrUnmarshalConfig, err)
	}

	cfg.ConfigFile = v.ConfigFileUsed()
	cfg.PrintConfig, _ = fs.GetBool("print-config")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet(configName, pflag.ContinueOnError)

	fs.String("config", "", "Path to the configuration file")
	fs.Int("collection-frequency", DefaultCollectionFrequencyMs, "Default sampler cadence in milliseconds")
	fs.Int("keyboard-interval", DefaultCollectionFrequencyMs, "Keyboard sampler cadence in milliseconds")
	fs.Int("pointer-interval", DefaultCollectionFrequencyMs, "Pointer sampler cadence in milliseconds")
	fs.Int("window-interval", DefaultCollectionFrequencyMs, "Window sampler cadence in milliseconds")
	fs.Int("aggregation-interval", DefaultAggregationIntervalMs, "How often the consolidated snapshot is exported, in milliseconds")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	fs.String("log-format", DefaultLogFormat, "Log format (auto, console, json)")
	fs.String("export-format", DefaultExportFormat, "Snapshot export format (log, json, none)")
	fs.String("pid-file", defaultPIDFile(), "PID file path, empty to disable")
	fs.Bool("print-config", false, "Print the effective configuration as YAML and exit")

	return fs
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("collection_frequency_ms", DefaultCollectionFrequencyMs)
	v.SetDefault("aggregation_interval_ms", DefaultAggregationIntervalMs)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_format", DefaultLogFormat)
	v.SetDefault("export_format", DefaultExportFormat)
	v.SetDefault("pid_file", defaultPIDFile())
}

func readConfigFile(v *viper.Viper, path string) error {
	errFactory := apperrors.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/sentinel")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "sentinel"))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errFactory.Wrap(apperrors.ErrReadConfig, err)
	}

	return nil
}

func defaultPIDFile() string {
	return filepath.Join(os.TempDir(), pidFileName)
}

// Validate checks every setting, returning an invalid_configuration error
// for the first bad one.
func (c *Config) Validate() error {
	errFactory := apperrors.New()
	invalid := func(code apperrors.ErrorCode, data string) error {
		return errFactory.Wrap(apperrors.ErrInvalidConfig, errFactory.WithData(code, data))
	}

	intervals := []struct {
		key   string
		value int
	}{
		{"collection_frequency_ms", c.CollectionFrequencyMs},
		{"keyboard_interval_ms", c.KeyboardIntervalMs},
		{"pointer_interval_ms", c.PointerIntervalMs},
		{"window_interval_ms", c.WindowIntervalMs},
		{"aggregation_interval_ms", c.AggregationIntervalMs},
	}
	for _, iv := range intervals {
		if iv.value <= 0 {
			return invalid(apperrors.ErrInvalidInterval, fmt.Sprintf("%s=%d", iv.key, iv.value))
		}
	}

	if !LogLevel(strings.ToLower(c.LogLevel)).IsValid() {
		return invalid(apperrors.ErrInvalidLogLevel, "log_level="+c.LogLevel)
	}

	switch c.LogFormat {
	case logger.FormatAuto, logger.FormatConsole, logger.FormatJSON:
	default:
		return invalid(apperrors.ErrInvalidFormat, "log_format="+c.LogFormat)
	}

	switch c.ExportFormat {
	case export.SinkLog, export.SinkJSON, export.SinkNone:
	default:
		return invalid(apperrors.ErrInvalidFormat, "export_format="+c.ExportFormat)
	}

	return nil
}

// Level returns the configured log level.
func (c *Config) Level() logger.LogLevel {
	return LogLevel(strings.ToLower(c.LogLevel)).Level()
}

// Supervisor converts the millisecond settings into supervisor cadences.
func (c *Config) Supervisor() supervisor.Config {
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }

	return supervisor.Config{
		KeyboardInterval:    ms(c.KeyboardIntervalMs),
		PointerInterval:     ms(c.PointerIntervalMs),
		WindowInterval:      ms(c.WindowIntervalMs),
		AggregationInterval: ms(c.AggregationIntervalMs),
	}
}

// Dump writes the effective configuration as YAML.
func (c *Config) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return apperrors.New().Wrap(apperrors.ErrInternal, err)
	}

	return enc.Close()
}
