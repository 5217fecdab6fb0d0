package main

import (
	"context"
	"fmt"
	"path/filepath"

	"rab/internal/cargo"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [workspace]",
	Short: "Run cargo check and summarize the findings",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	workspacePath := workspaceFlag
	if len(args) == 1 {
		workspacePath = args[0]
	}
	workspacePath, err := filepath.Abs(workspacePath)
	if err != nil {
		return err
	}

	report, err := cargo.Check(context.Background(), workspacePath)
	if err != nil {
		return err
	}

	fmt.Println(report.Render(workspacePath))
	return nil
}
