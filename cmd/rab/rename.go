package main

import (
	"rab/internal/analyzer"

	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename <file> <symbol> <new-name>",
	Short: "Rename a symbol across the workspace",
	Args:  cobra.ExactArgs(3),
	RunE:  runRename,
}

func init() {
	rootCmd.AddCommand(renameCmd)
	addSnippetFlags(renameCmd)
}

func runRename(cmd *cobra.Command, args []string) error {
	filePath, symbol, newName := args[0], args[1], args[2]

	pos, err := locateInFile(filePath, symbol)
	if err != nil {
		return err
	}

	return withSession(func(session *analyzer.Session) (string, error) {
		return session.RenameSymbol(filePath, pos.Line, pos.Character, newName)
	})
}
