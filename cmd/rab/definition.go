package main

import (
	"rab/internal/analyzer"

	"github.com/spf13/cobra"
)

var definitionCmd = &cobra.Command{
	Use:   "definition <file> <symbol>",
	Short: "Find the definition of a symbol",
	Long: `Find the definition of a symbol located by a code snippet.

The snippet passed with --code-block is matched against the file and the
symbol's occurrence inside it becomes the query position.

Example:
  rab definition src/main.rs handle --code-block 'server.handle(req)'`,
	Args: cobra.ExactArgs(2),
	RunE: runDefinition,
}

func init() {
	rootCmd.AddCommand(definitionCmd)
	addSnippetFlags(definitionCmd)
}

func runDefinition(cmd *cobra.Command, args []string) error {
	filePath, symbol := args[0], args[1]

	pos, err := locateInFile(filePath, symbol)
	if err != nil {
		return err
	}

	return withSession(func(session *analyzer.Session) (string, error) {
		return session.FindDefinition(filePath, pos.Line, pos.Character)
	})
}
