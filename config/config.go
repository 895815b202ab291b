// Package config loads codeanchor CLI defaults from a project config file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the CLI defaults. Flags given on the command line override it.
type Config struct {
	// Jobs is the number of parallel workers for directory searches.
	Jobs int `mapstructure:"jobs"`

	// MaxBytes skips files larger than this size during directory searches.
	MaxBytes int64 `mapstructure:"max_bytes"`

	// Include and Exclude are slash-separated globs relative to the search root.
	Include []string `mapstructure:"include"`
	Exclude []string `mapstructure:"exclude"`

	// Languages restricts lookups to these languages, in dispatch order.
	// Empty means every built-in language.
	Languages []string `mapstructure:"languages"`

	// Gitignore honours .gitignore at the search root.
	Gitignore bool `mapstructure:"gitignore"`

	// Compact disables indentation of JSON output.
	Compact bool `mapstructure:"compact"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Jobs:      runtime.NumCPU(),
		MaxBytes:  2 * 1024 * 1024,
		Gitignore: true,
	}
}

// Dir is the project directory holding config.yaml.
const Dir = ".codeanchor"

// EnvPrefix prefixes environment overrides, e.g. CODEANCHOR_JOBS.
const EnvPrefix = "CODEANCHOR"

// Load reads configuration with the following priority (highest to lowest):
// 1. Environment variables (CODEANCHOR_*)
// 2. Config file (<rootDir>/.codeanchor/config.yaml)
// 3. Default values
func Load(rootDir string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(rootDir, Dir))

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadFromWorkingDir loads configuration rooted at the current directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return Load(wd)
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("jobs", d.Jobs)
	v.SetDefault("max_bytes", d.MaxBytes)
	// Slice keys need a non-nil default so environment overrides resolve.
	v.SetDefault("include", []string{})
	v.SetDefault("exclude", []string{})
	v.SetDefault("languages", []string{})
	v.SetDefault("gitignore", d.Gitignore)
	v.SetDefault("compact", d.Compact)
}

// Validate checks value ranges.
func Validate(cfg *Config) error {
	if cfg.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", cfg.Jobs)
	}
	if cfg.MaxBytes < 0 {
		return fmt.Errorf("max_bytes must not be negative, got %d", cfg.MaxBytes)
	}
	return nil
}
