// Package config loads personagen configuration from YAML with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all personagen configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Provider configuration
	Provider ProviderConfig `yaml:"provider"`

	// Generation defaults
	Generation GenerationConfig `yaml:"generation"`

	// Storage
	Storage StorageConfig `yaml:"storage"`

	// HTTP server
	Server ServerConfig `yaml:"server"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ProviderConfig configures the generation backend.
type ProviderConfig struct {
	Model       string `yaml:"model"`
	APIKey      string `yaml:"api_key"`
	MaxParallel int64  `yaml:"max_parallel"`
}

// GenerationConfig holds default generation parameters. Per-request
// values override these.
type GenerationConfig struct {
	NumArtifacts int      `yaml:"num_artifacts"`
	Temperature  float64  `yaml:"temperature"`
	MaxTokens    int      `yaml:"max_tokens"`
	Categories   []string `yaml:"categories"`
}

// StorageConfig configures the SQLite store.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "personagen",
		Version: "1.0.0",

		Provider: ProviderConfig{
			Model:       "gemini-2.5-flash",
			MaxParallel: 3,
		},

		Generation: GenerationConfig{
			NumArtifacts: 25,
			Temperature:  0.75,
			MaxTokens:    20000,
			Categories:   []string{"code", "documents", "notes", "scripts"},
		},

		Storage: StorageConfig{
			DatabasePath: "data/personagen.db",
		},

		Server: ServerConfig{
			Addr: ":8080",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment variables override either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Provider.APIKey = key
	}
	if model := os.Getenv("PERSONAGEN_MODEL"); model != "" {
		c.Provider.Model = model
	}
	if path := os.Getenv("PERSONAGEN_DB"); path != "" {
		c.Storage.DatabasePath = path
	}
	if addr := os.Getenv("PERSONAGEN_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if level := os.Getenv("PERSONAGEN_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if par := os.Getenv("PERSONAGEN_MAX_PARALLEL"); par != "" {
		if n, err := strconv.ParseInt(par, 10, 64); err == nil && n > 0 {
			c.Provider.MaxParallel = n
		}
	}
}
