package main

import (
	"os"
	"path/filepath"

	"rab/internal/config"
	"rab/internal/logging"
	"rab/internal/version"

	"github.com/spf13/cobra"
)

var (
	// workspaceFlag is the CLI --workspace flag value
	workspaceFlag string
	// analyzerPathFlag overrides the rust-analyzer binary
	analyzerPathFlag string
)

var rootCmd = &cobra.Command{
	Use:   "rab",
	Short: "RAB - Rust Analyzer Bridge",
	Long: `RAB (Rust Analyzer Bridge) fronts a rust-analyzer instance for a Cargo
workspace and exposes its code intelligence as CLI commands and as an MCP
server for LLM clients. Symbols are located by code snippet rather than by
raw coordinates, so callers never need to count lines or columns.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("RAB version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVarP(&workspaceFlag, "workspace", "w", ".",
		"Path to the Cargo workspace root")
	rootCmd.PersistentFlags().StringVar(&analyzerPathFlag, "analyzer-path", "",
		"Path to the rust-analyzer binary (overrides RUST_ANALYZER_PATH and config)")
}

// loadWorkspaceConfig resolves the workspace root and loads its config,
// applying the --analyzer-path flag on top.
func loadWorkspaceConfig() (*config.Config, error) {
	root, err := filepath.Abs(workspaceFlag)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(root)
	if err != nil {
		return nil, err
	}
	cfg.WorkspaceRoot = root
	cfg.Analyzer.Path = config.ResolveAnalyzerPath(analyzerPathFlag, cfg)

	return cfg, nil
}

// newCLILogger builds a logger from the loaded config. Output goes to
// stderr so command results on stdout stay clean.
func newCLILogger(cfg *config.Config) *logging.Logger {
	return logging.NewSessionLogger(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.LogLevel(cfg.Logging.Level),
		Output: os.Stderr,
	})
}
