package main

import (
	"fmt"
	"strings"

	"rab/internal/analyzer"
	"rab/internal/storage"
	"rab/internal/symbols"

	"github.com/spf13/cobra"
)

var searchNoCacheFlag bool

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for symbols in the workspace",
	Long: `Search workspace symbols by name. Results are reduced to stable symbol
identities (crate, module path, item, kind) and cached in the workspace
database so repeated queries skip the analyzer.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().BoolVar(&searchNoCacheFlag, "no-cache", false,
		"Bypass the symbol cache and query the analyzer directly")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	cfg, err := loadWorkspaceConfig()
	if err != nil {
		return err
	}
	logger := newCLILogger(cfg)

	var cache *storage.SymbolCache
	if cfg.Cache.Enabled && !searchNoCacheFlag {
		db, err := storage.Open(cfg.WorkspaceRoot, logger)
		if err == nil {
			defer db.Close()
			cache = storage.NewSymbolCache(db, cfg.Cache.TtlSeconds)
		}
	}

	if cache != nil {
		if ids, ok, err := cache.Get(query); err == nil && ok {
			fmt.Println(formatIdentities(query, ids))
			return nil
		}
	}

	return withSession(func(session *analyzer.Session) (string, error) {
		infos, err := session.WorkspaceSymbols(query)
		if err != nil {
			return "", err
		}

		ids := symbols.FromWorkspaceSymbols(infos)
		if cache != nil {
			_ = cache.Put(query, ids)
		}
		return formatIdentities(query, ids), nil
	})
}

func formatIdentities(query string, ids []symbols.Identity) string {
	if len(ids) == 0 {
		return fmt.Sprintf("No symbols found matching %q.", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Workspace symbols for %q (%d match(es)):\n\n", query, len(ids))
	for _, id := range ids {
		fmt.Fprintf(&b, "  - %s [%s]\n", id.Key(), id.Kind)
	}
	return strings.TrimRight(b.String(), "\n")
}
