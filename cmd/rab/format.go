package main

import (
	"rab/internal/analyzer"

	"github.com/spf13/cobra"
)

var formatCmd = &cobra.Command{
	Use:   "format <file>",
	Short: "Format a file with the analyzer's formatting provider",
	Args:  cobra.ExactArgs(1),
	RunE:  runFormat,
}

func init() {
	rootCmd.AddCommand(formatCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	return withSession(func(session *analyzer.Session) (string, error) {
		return session.FormatCode(filePath)
	})
}
