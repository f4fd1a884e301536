// Package config loads the v8cov configuration file.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the tool-wide settings. Command-line flags override
// every field.
type Config struct {
	// SourceType is the goal symbol sources were evaluated as:
	// "script" or "module".
	SourceType string `mapstructure:"source_type"`

	// WrapperPrefix and WrapperSuffix are the byte lengths of an
	// engine-added module wrapper to strip before matching.
	WrapperPrefix int `mapstructure:"wrapper_prefix"`
	WrapperSuffix int `mapstructure:"wrapper_suffix"`

	// Output is the report file to write.
	Output string `mapstructure:"output"`

	// LogLevel is the logger verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		SourceType: "script",
		Output:     "coverage-final.json",
		LogLevel:   "info",
	}
}

// Load reads a configuration file into a struct. The configName
// parameter is the base name of the file without the extension
// (e.g., "v8cov"). Several search paths are tried so tests running
// inside package directories still find the project config.
func Load(configName string, result interface{}) error {
	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.AddConfigPath("../..")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := v.Unmarshal(result); err != nil {
		return fmt.Errorf("failed to unmarshal config data: %w", err)
	}

	return nil
}

// LoadConfig loads the standard "v8cov" config file, falling back to
// defaults when the file is absent.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()
	if err := Load("v8cov", cfg); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return cfg, nil
		}
		return nil, err
	}
	if cfg.SourceType != "script" && cfg.SourceType != "module" {
		return nil, fmt.Errorf("invalid source_type %q", cfg.SourceType)
	}
	return cfg, nil
}
