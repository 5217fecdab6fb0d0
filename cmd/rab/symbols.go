package main

import (
	"rab/internal/analyzer"

	"github.com/spf13/cobra"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols <file>",
	Short: "Show the symbol outline of a file",
	Long: `Show the hierarchical symbol structure of a file as reported by the
analyzer. Use 'rab outline' for a tree-sitter based outline that works
without spawning rust-analyzer.`,
	Args: cobra.ExactArgs(1),
	RunE: runSymbols,
}

func init() {
	rootCmd.AddCommand(symbolsCmd)
}

func runSymbols(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	return withSession(func(session *analyzer.Session) (string, error) {
		return session.DocumentSymbols(filePath)
	})
}
