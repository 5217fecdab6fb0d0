package main

import (
	"rab/internal/analyzer"

	"github.com/spf13/cobra"
)

var hoverCmd = &cobra.Command{
	Use:   "hover <file> <symbol>",
	Short: "Show hover information (signature, docs) for a symbol",
	Args:  cobra.ExactArgs(2),
	RunE:  runHover,
}

func init() {
	rootCmd.AddCommand(hoverCmd)
	addSnippetFlags(hoverCmd)
}

func runHover(cmd *cobra.Command, args []string) error {
	filePath, symbol := args[0], args[1]

	pos, err := locateInFile(filePath, symbol)
	if err != nil {
		return err
	}

	return withSession(func(session *analyzer.Session) (string, error) {
		return session.Hover(filePath, pos.Line, pos.Character)
	})
}
