package main

import (
	"context"
	"fmt"

	"rab/internal/outline"

	"github.com/spf13/cobra"
)

var outlineCmd = &cobra.Command{
	Use:   "outline <file>",
	Short: "Show a tree-sitter outline of a Rust file",
	Long: `Show the structure of a Rust file using a local tree-sitter parse.
Unlike 'rab symbols' this needs no rust-analyzer session, so it works
instantly on any file, indexed or not. Requires a cgo-enabled build.`,
	Args: cobra.ExactArgs(1),
	RunE: runOutline,
}

func init() {
	rootCmd.AddCommand(outlineCmd)
}

func runOutline(cmd *cobra.Command, args []string) error {
	if !outline.IsAvailable() {
		return fmt.Errorf("outline extraction is not available in this build (compiled without cgo)")
	}

	extractor := outline.NewExtractor()
	syms, err := extractor.ExtractFile(context.Background(), args[0])
	if err != nil {
		return err
	}

	if len(syms) == 0 {
		fmt.Println("No symbols found.")
		return nil
	}

	for _, sym := range syms {
		indent := ""
		if sym.Container != "" {
			indent = "  "
		}
		detail := sym.Signature
		if detail == "" {
			detail = sym.Name
		}
		fmt.Printf("%s%-8s %s  (line %d)\n", indent, sym.Kind, detail, sym.Line)
	}

	return nil
}
