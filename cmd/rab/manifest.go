package main

import (
	"fmt"
	"path/filepath"

	"rab/internal/cargo"

	"github.com/spf13/cobra"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest [Cargo.toml]",
	Short: "Summarize a Cargo.toml manifest",
	Long: `Summarize a Cargo manifest: package metadata, dependencies and
workspace members. Defaults to the Cargo.toml of the current workspace.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runManifest,
}

func init() {
	rootCmd.AddCommand(manifestCmd)
}

func runManifest(cmd *cobra.Command, args []string) error {
	manifestPath := filepath.Join(workspaceFlag, "Cargo.toml")
	if len(args) == 1 {
		manifestPath = args[0]
	}

	manifest, err := cargo.LoadManifest(manifestPath)
	if err != nil {
		return err
	}

	fmt.Println(manifest.Summary(manifestPath))
	return nil
}
