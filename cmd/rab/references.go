package main

import (
	"rab/internal/analyzer"

	"github.com/spf13/cobra"
)

var referencesCmd = &cobra.Command{
	Use:   "references <file> <symbol>",
	Short: "Find all references to a symbol",
	Args:  cobra.ExactArgs(2),
	RunE:  runReferences,
}

func init() {
	rootCmd.AddCommand(referencesCmd)
	addSnippetFlags(referencesCmd)
}

func runReferences(cmd *cobra.Command, args []string) error {
	filePath, symbol := args[0], args[1]

	pos, err := locateInFile(filePath, symbol)
	if err != nil {
		return err
	}

	return withSession(func(session *analyzer.Session) (string, error) {
		return session.FindReferences(filePath, pos.Line, pos.Character)
	})
}
