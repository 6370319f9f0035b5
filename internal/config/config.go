// Package config loads restatute settings from a config file, the
// environment, and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all tunable settings.
type Config struct {
	// OutputDir is where rendered documents land.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// Format is the output encoding: xml, json, or yaml.
	Format string `mapstructure:"format" yaml:"format"`

	// DataDir holds fetched PDFs and the run manifest.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`

	// Tool overrides the pdftohtml binary path.
	Tool string `mapstructure:"tool" yaml:"tool"`

	// UserAgent is sent when fetching source PDFs.
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`

	// MaxRetries bounds fetch attempts per URL.
	MaxRetries uint `mapstructure:"max_retries" yaml:"max_retries"`

	// FetchTimeout bounds a single fetch attempt.
	FetchTimeout time.Duration `mapstructure:"fetch_timeout" yaml:"fetch_timeout"`

	// WatchDebounce delays handling of freshly dropped files.
	WatchDebounce time.Duration `mapstructure:"watch_debounce" yaml:"watch_debounce"`

	// LogLevel is debug, info, warn, or error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		OutputDir:     "output",
		Format:        "xml",
		DataDir:       "data",
		UserAgent:     "restatute/1.0",
		MaxRetries:    3,
		FetchTimeout:  2 * time.Minute,
		WatchDebounce: 2 * time.Second,
		LogLevel:      "info",
	}
}

// Load reads configuration from the given file (or the default search
// path when empty), layering environment variables with a RESTATUTE_
// prefix over file values over defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("format", defaults.Format)
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("tool", defaults.Tool)
	v.SetDefault("user_agent", defaults.UserAgent)
	v.SetDefault("max_retries", defaults.MaxRetries)
	v.SetDefault("fetch_timeout", defaults.FetchTimeout)
	v.SetDefault("watch_debounce", defaults.WatchDebounce)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix("RESTATUTE")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.restatute")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
