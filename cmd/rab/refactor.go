package main

import (
	"os"

	"rab/internal/analyzer"
	"rab/internal/errors"
	"rab/internal/locate"

	"github.com/spf13/cobra"
)

var extractFunctionName string

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Request extract-function code actions for a code block",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var inlineCmd = &cobra.Command{
	Use:   "inline <file> <symbol>",
	Short: "Request inline-function code actions at a call site",
	Args:  cobra.ExactArgs(2),
	RunE:  runInline,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&codeBlockFlag, "code-block", "c", "",
		"The exact code snippet to extract (required)")
	extractCmd.Flags().IntVarP(&occurrenceFlag, "occurrence", "n", 1,
		"1-based index of the snippet's occurrence in the file")
	extractCmd.Flags().StringVar(&extractFunctionName, "name", "extracted",
		"Name for the new function")
	_ = extractCmd.MarkFlagRequired("code-block")

	rootCmd.AddCommand(inlineCmd)
	addSnippetFlags(inlineCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	content, err := os.ReadFile(filePath)
	if err != nil {
		return errors.Wrap(errors.SubprocessIO, "failed to read file "+filePath, err)
	}

	start, end, err := locate.BlockRange(string(content), codeBlockFlag, occurrenceFlag)
	if err != nil {
		return err
	}

	return withSession(func(session *analyzer.Session) (string, error) {
		return session.ExtractFunction(filePath, start, end, extractFunctionName)
	})
}

func runInline(cmd *cobra.Command, args []string) error {
	filePath, symbol := args[0], args[1]

	pos, err := locateInFile(filePath, symbol)
	if err != nil {
		return err
	}

	return withSession(func(session *analyzer.Session) (string, error) {
		return session.InlineFunction(filePath, pos.Line, pos.Character)
	})
}
