package main

import (
	"rab/internal/analyzer"

	"github.com/spf13/cobra"
)

var diagnosticsCmd = &cobra.Command{
	Use:   "diagnostics <file>",
	Short: "Show compiler diagnostics for a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDiagnostics,
}

func init() {
	rootCmd.AddCommand(diagnosticsCmd)
}

func runDiagnostics(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	return withSession(func(session *analyzer.Session) (string, error) {
		return session.GetDiagnostics(filePath)
	})
}
