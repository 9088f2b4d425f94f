package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/ekaya-inc/pgformat/pkg/sql"
)

// Config holds all configuration for pgformat.
// Configuration can come from a YAML file or environment variables.
// Environment variables always override YAML values.
type Config struct {
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	LogLevel string `yaml:"log_level" env:"PGFORMAT_LOG_LEVEL" env-default:"info"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// ReservedWordsFile replaces the built-in keyword list when set.
	// One keyword per line.
	ReservedWordsFile string `yaml:"reserved_words_file" env:"PGFORMAT_RESERVED_WORDS_FILE" env-default:""`

	// TemplateCacheSize is how many compiled templates are kept. 0 disables the cache.
	TemplateCacheSize int `yaml:"template_cache_size" env:"PGFORMAT_TEMPLATE_CACHE_SIZE" env-default:"256"`

	// RawCheck screens %s arguments with libinjection: off, warn or reject.
	RawCheck string `yaml:"raw_check" env:"PGFORMAT_RAW_CHECK" env-default:"off"`
}

// Load reads configuration from path with environment variable overrides.
// A missing file is not an error; configuration then comes from the
// environment alone. The version parameter is injected at build time.
func Load(path, version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if path != "" && fileExists(path) {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks field values that cleanenv cannot.
func (c *Config) Validate() error {
	if c.TemplateCacheSize < 0 {
		return fmt.Errorf("template_cache_size must not be negative, got %d", c.TemplateCacheSize)
	}
	if _, err := sql.ParseRawCheck(c.RawCheck); err != nil {
		return fmt.Errorf("raw_check: %w", err)
	}
	return nil
}

// ReservedWords loads the configured keyword list, or the built-in list when
// no file is configured.
func (c *Config) ReservedWords() (*sql.ReservedWords, error) {
	if c.ReservedWordsFile == "" {
		return sql.DefaultReservedWords(), nil
	}
	return sql.LoadReservedWordsFile(c.ReservedWordsFile)
}

// FormatterOptions translates the configuration into formatter options.
func (c *Config) FormatterOptions() ([]sql.Option, error) {
	check, err := sql.ParseRawCheck(c.RawCheck)
	if err != nil {
		return nil, err
	}
	return []sql.Option{
		sql.WithTemplateCache(c.TemplateCacheSize),
		sql.WithRawCheck(check),
	}, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}
