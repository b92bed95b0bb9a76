package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Convert  ConvertConfig `mapstructure:"convert"`
	LogLevel string        `mapstructure:"log_level"`
}

type ConvertConfig struct {
	BufferSize int  `mapstructure:"buffer_size"`
	Strict     bool `mapstructure:"strict"`
	BackPatch  bool `mapstructure:"back_patch"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

// flagKeys maps config keys to the flag names registered by RegisterFlags.
var flagKeys = map[string]string{
	"convert.buffer_size": "convert-buffer-size",
	"convert.strict":      "convert-strict",
	"convert.back_patch":  "convert-back-patch",
	"log_level":           "log-level",
}

func DefaultConfig() Config {
	return Config{
		Convert: ConvertConfig{
			BufferSize: 1024,
			Strict:     false,
			BackPatch:  false,
		},
		LogLevel: "info",
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.Int("convert-buffer-size", defaults.Convert.BufferSize, "Payload copy chunk size in bytes")
	fs.Bool("convert-strict", defaults.Convert.Strict, "Reject zero parameters and bit depths that are not a multiple of 8")
	fs.Bool("convert-back-patch", defaults.Convert.BackPatch, "Write size fields after copying the payload instead of up front")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix("PCM2WAV")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("pcm2wav")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports settings no conversion can run with.
func (c Config) Validate() error {
	if c.Convert.BufferSize < 1 {
		return fmt.Errorf("convert.buffer_size must be at least 1, got %d", c.Convert.BufferSize)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("convert.buffer_size", c.Convert.BufferSize)
	v.SetDefault("convert.strict", c.Convert.Strict)
	v.SetDefault("convert.back_patch", c.Convert.BackPatch)
	v.SetDefault("log_level", c.LogLevel)
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for key, name := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}
