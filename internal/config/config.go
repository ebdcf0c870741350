// Package config loads the goseasonal configuration file.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration. Files may be YAML or TOML.
type Config struct {
	Log      LogConfig      `yaml:"log" toml:"log"`
	Analysis AnalysisConfig `yaml:"analysis" toml:"analysis"`
	Server   ServerConfig   `yaml:"server" toml:"server"`
	Store    StoreConfig    `yaml:"store" toml:"store"`
	Metrics  MetricsConfig  `yaml:"metrics" toml:"metrics"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" toml:"format" default:"console" validate:"oneof=json console"`
	Output string `yaml:"output" toml:"output" default:"stderr" validate:"required"`
}

// AnalysisConfig maps the default pipeline options.
type AnalysisConfig struct {
	Mode      string `yaml:"mode" toml:"mode" default:"multiplicative" validate:"oneof=additive multiplicative"`
	Trend     string `yaml:"trend" toml:"trend" default:"least-squares" validate:"oneof=least-squares semi-average"`
	Alignment string `yaml:"alignment" toml:"alignment" default:"forward" validate:"oneof=forward backward"`
	Horizon   int    `yaml:"horizon" toml:"horizon" default:"4" validate:"gte=0,lte=40"`
}

// ServerConfig maps HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr" toml:"addr" default:":8080" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout" toml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" toml:"write_timeout" default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout" default:"5s"`
	MaxObservations int           `yaml:"max_observations" toml:"max_observations" default:"1000" validate:"gte=3"`
}

// StoreConfig maps SQLite settings.
type StoreConfig struct {
	Path string `yaml:"path" toml:"path" default:"goseasonal.db" validate:"required"`
}

// MetricsConfig maps Prometheus settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Path    string `yaml:"path" toml:"path" default:"/metrics" validate:"required,startswith=/"`
}

var validate = validator.New()

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg, err := parse(nil, "")
	if err != nil {
		// Struct tags are static; failing here is a programming error.
		panic(err)
	}
	return cfg
}

// Load reads a configuration file. The format follows the extension:
// .toml for TOML, anything else for YAML. A missing file is not an error and
// yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return parse(data, strings.ToLower(filepath.Ext(path)))
}

func parse(data []byte, ext string) (*Config, error) {
	var cfg Config
	if len(bytes.TrimSpace(data)) > 0 {
		switch ext {
		case ".toml":
			if _, err := toml.Decode(string(data), &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("apply config defaults: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}
