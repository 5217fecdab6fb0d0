package main

import (
	"rab/internal/analyzer"

	"github.com/spf13/cobra"
)

var hierarchyCmd = &cobra.Command{
	Use:   "hierarchy <file> <symbol>",
	Short: "Show the type hierarchy for a symbol",
	Long: `Show supertypes (traits implemented) and subtypes (implementations)
for the symbol located by the snippet.`,
	Args: cobra.ExactArgs(2),
	RunE: runHierarchy,
}

func init() {
	rootCmd.AddCommand(hierarchyCmd)
	addSnippetFlags(hierarchyCmd)
}

func runHierarchy(cmd *cobra.Command, args []string) error {
	filePath, symbol := args[0], args[1]

	pos, err := locateInFile(filePath, symbol)
	if err != nil {
		return err
	}

	return withSession(func(session *analyzer.Session) (string, error) {
		return session.GetTypeHierarchy(filePath, pos.Line, pos.Character)
	})
}
