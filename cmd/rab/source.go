package main

import (
	"fmt"

	"rab/internal/analyzer"

	"github.com/spf13/cobra"
)

var sourceCmd = &cobra.Command{
	Use:   "source <file> <symbol>",
	Short: "Print the source code of a symbol",
	Long: `Print the full source text of the symbol located by the snippet. The
definition is resolved first, so pointing at a call site prints the body
of the called item, wherever it lives.`,
	Args: cobra.ExactArgs(2),
	RunE: runSource,
}

func init() {
	rootCmd.AddCommand(sourceCmd)
	addSnippetFlags(sourceCmd)
}

func runSource(cmd *cobra.Command, args []string) error {
	filePath, symbol := args[0], args[1]

	pos, err := locateInFile(filePath, symbol)
	if err != nil {
		return err
	}

	return withSession(func(session *analyzer.Session) (string, error) {
		src, err := session.GetSymbolSource(filePath, pos.Line, pos.Character)
		if err != nil {
			return "", err
		}
		header := fmt.Sprintf("%s:%d-%d\n", src.Path, src.Range.Start.Line+1, src.Range.End.Line+1)
		return header + src.Source, nil
	})
}
