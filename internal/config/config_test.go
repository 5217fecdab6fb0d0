package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("expected version 1, got %d", cfg.Version)
	}
	if !cfg.Analyzer.FullAnalysis {
		t.Error("full analysis should default to true")
	}
	if cfg.Analyzer.Path == "" {
		t.Error("analyzer path should have a default")
	}
	if cfg.Analyzer.RequestTimeoutSeconds != 0 {
		t.Errorf("request timeout should default to unbounded, got %d", cfg.Analyzer.RequestTimeoutSeconds)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfigMissingFileFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.WorkspaceRoot != dir {
		t.Errorf("expected workspace root %q, got %q", dir, cfg.WorkspaceRoot)
	}
	if cfg.Cache.TtlSeconds != 300 {
		t.Errorf("expected default TTL 300, got %d", cfg.Cache.TtlSeconds)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.WorkspaceRoot = dir
	cfg.Analyzer.Path = "/opt/rust-analyzer"
	cfg.Analyzer.FullAnalysis = false
	cfg.Analyzer.RequestTimeoutSeconds = 120
	cfg.Logging.Level = "debug"

	if err := cfg.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".rab", "config.json")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Analyzer.Path != "/opt/rust-analyzer" {
		t.Errorf("expected analyzer path to round-trip, got %q", loaded.Analyzer.Path)
	}
	if loaded.Analyzer.FullAnalysis {
		t.Error("fullAnalysis=false should round-trip")
	}
	if loaded.Analyzer.RequestTimeoutSeconds != 120 {
		t.Errorf("expected request timeout to round-trip, got %d", loaded.Analyzer.RequestTimeoutSeconds)
	}
	if loaded.Logging.Level != "debug" {
		t.Errorf("expected logging level debug, got %q", loaded.Logging.Level)
	}
}

func TestResolveAnalyzerPathPrecedence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Analyzer.Path = "/from/config"

	t.Setenv("RUST_ANALYZER_PATH", "/from/env")

	if got := ResolveAnalyzerPath("/from/flag", cfg); got != "/from/flag" {
		t.Errorf("flag should win, got %q", got)
	}
	if got := ResolveAnalyzerPath("", cfg); got != "/from/env" {
		t.Errorf("env should beat config, got %q", got)
	}

	t.Setenv("RUST_ANALYZER_PATH", "")
	if got := ResolveAnalyzerPath("", cfg); got != "/from/config" {
		t.Errorf("config should be used when flag and env are empty, got %q", got)
	}
}

func TestResolveFullAnalysis(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Analyzer.FullAnalysis = true

	t.Setenv("RAB_FULL_ANALYSIS", "false")
	if ResolveFullAnalysis(cfg) {
		t.Error("env override false should win over config true")
	}

	t.Setenv("RAB_FULL_ANALYSIS", "not-a-bool")
	if !ResolveFullAnalysis(cfg) {
		t.Error("unparseable env value should fall back to config")
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Version = 2
	if err := cfg.Validate(); err == nil {
		t.Error("unsupported version should fail validation")
	}

	cfg = DefaultConfig()
	cfg.Analyzer.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Error("empty analyzer path should fail validation")
	}
}
