// Package config loads and validates RAB configuration.
//
// Configuration lives in .rab/config.json under the workspace root. All
// analyzer settings are carried in an explicit Config passed to session
// construction; the RUST_ANALYZER_PATH and RAB_FULL_ANALYSIS environment
// variables survive only as overrides, resolved here with
// flag > env > file precedence.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// Config represents the complete RAB configuration
type Config struct {
	Version       int            `json:"version" mapstructure:"version"`
	WorkspaceRoot string         `json:"workspaceRoot" mapstructure:"workspaceRoot"`
	Analyzer      AnalyzerConfig `json:"analyzer" mapstructure:"analyzer"`
	Cache         CacheConfig    `json:"cache" mapstructure:"cache"`
	Logging       LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// AnalyzerConfig contains rust-analyzer process configuration
type AnalyzerConfig struct {
	// Path is the rust-analyzer binary to spawn
	Path string `json:"path" mapstructure:"path"`
	// Args are extra arguments passed to the binary
	Args []string `json:"args" mapstructure:"args"`
	// FullAnalysis toggles cargo.loadOutDirsFromCheck and procMacro.enable
	// in the initialize request
	FullAnalysis bool `json:"fullAnalysis" mapstructure:"fullAnalysis"`
	// RequestTimeoutSeconds bounds each request to the analyzer.
	// 0 waits indefinitely, which rust-analyzer needs while it is
	// still indexing a large workspace.
	RequestTimeoutSeconds int `json:"requestTimeoutSeconds" mapstructure:"requestTimeoutSeconds"`
}

// CacheConfig contains the workspace-symbol cache configuration
type CacheConfig struct {
	Enabled    bool   `json:"enabled" mapstructure:"enabled"`
	Path       string `json:"path" mapstructure:"path"`
	TtlSeconds int    `json:"ttlSeconds" mapstructure:"ttlSeconds"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:       1,
		WorkspaceRoot: ".",
		Analyzer: AnalyzerConfig{
			Path:                  defaultAnalyzerPath(),
			Args:                  []string{},
			FullAnalysis:          true,
			RequestTimeoutSeconds: 0,
		},
		Cache: CacheConfig{
			Enabled:    true,
			Path:       ".rab/cache.db",
			TtlSeconds: 300,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

func defaultAnalyzerPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "rust-analyzer"
	}
	return filepath.Join(home, ".cargo", "bin", "rust-analyzer")
}

// LoadConfig loads configuration from .rab/config.json under workspaceRoot,
// falling back to defaults when no file exists.
func LoadConfig(workspaceRoot string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("version", defaults.Version)
	v.SetDefault("workspaceRoot", workspaceRoot)
	v.SetDefault("analyzer.path", defaults.Analyzer.Path)
	v.SetDefault("analyzer.fullAnalysis", defaults.Analyzer.FullAnalysis)
	v.SetDefault("analyzer.requestTimeoutSeconds", defaults.Analyzer.RequestTimeoutSeconds)
	v.SetDefault("cache.enabled", defaults.Cache.Enabled)
	v.SetDefault("cache.path", defaults.Cache.Path)
	v.SetDefault("cache.ttlSeconds", defaults.Cache.TtlSeconds)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.level", defaults.Logging.Level)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(workspaceRoot, ".rab"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			cfg := DefaultConfig()
			cfg.WorkspaceRoot = workspaceRoot
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.WorkspaceRoot == "" {
		cfg.WorkspaceRoot = workspaceRoot
	}

	return &cfg, nil
}

// Save writes the configuration to .rab/config.json
func (c *Config) Save(workspaceRoot string) error {
	dir := filepath.Join(workspaceRoot, ".rab")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0o644)
}

// ResolveAnalyzerPath determines the effective rust-analyzer binary.
// Precedence: CLI flag > RUST_ANALYZER_PATH env var > config file > default.
func ResolveAnalyzerPath(flagValue string, cfg *Config) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("RUST_ANALYZER_PATH"); env != "" {
		return env
	}
	if cfg != nil && cfg.Analyzer.Path != "" {
		return cfg.Analyzer.Path
	}
	return defaultAnalyzerPath()
}

// ResolveFullAnalysis determines the effective analysis mode.
// Precedence: RAB_FULL_ANALYSIS env var > config file.
func ResolveFullAnalysis(cfg *Config) bool {
	if env := os.Getenv("RAB_FULL_ANALYSIS"); env != "" {
		if parsed, err := strconv.ParseBool(env); err == nil {
			return parsed
		}
	}
	if cfg != nil {
		return cfg.Analyzer.FullAnalysis
	}
	return true
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Analyzer.Path == "" {
		return &ConfigError{Field: "analyzer.path", Message: "analyzer path must not be empty"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
