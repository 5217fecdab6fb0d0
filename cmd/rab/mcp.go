package main

import (
	"os"

	"rab/internal/analyzer"
	"rab/internal/errors"
	"rab/internal/logging"
	"rab/internal/mcp"
	"rab/internal/storage"
	"rab/internal/version"

	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for LLM client integration",
	Long: `Start the Model Context Protocol (MCP) server.

The server spawns rust-analyzer for the workspace and exposes its code
intelligence as MCP tools over stdio using JSON-RPC 2.0. Symbol-oriented
tools locate their target by code snippet (find_definition, get_hover,
rename_symbol, ...), so clients never pass raw line/character coordinates.

Example usage:
  rab mcp --workspace /path/to/cargo/project

This command is typically invoked by MCP clients and not directly by users.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadWorkspaceConfig()
	if err != nil {
		return err
	}

	// Logs go to stderr, stdout carries the protocol
	logger := logging.NewSessionLogger(logging.Config{
		Format: logging.JSONFormat,
		Level:  logging.LogLevel(cfg.Logging.Level),
		Output: os.Stderr,
	})

	logger.Info("Starting MCP server", map[string]interface{}{
		"version":   version.Version,
		"workspace": cfg.WorkspaceRoot,
	})

	session := analyzer.NewSession(cfg, logger)
	if err := session.Start(); err != nil {
		return errors.Wrap(errors.AnalyzerUnavailable, "failed to start analyzer session", err)
	}
	defer session.Shutdown()

	var cache *storage.SymbolCache
	if cfg.Cache.Enabled {
		db, err := storage.Open(cfg.WorkspaceRoot, logger)
		if err != nil {
			logger.Warn("Symbol cache unavailable", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer db.Close()
			cache = storage.NewSymbolCache(db, cfg.Cache.TtlSeconds)
		}
	}

	server := mcp.NewServer(version.Version, session, cache, cfg.WorkspaceRoot, logger)

	if err := server.Start(); err != nil {
		logger.Error("MCP server error", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}

	return nil
}
