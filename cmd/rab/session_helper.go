package main

import (
	"fmt"
	"os"

	"rab/internal/analyzer"
	"rab/internal/errors"
	"rab/internal/locate"
	"rab/internal/protocol"

	"github.com/spf13/cobra"
)

var (
	codeBlockFlag  string
	occurrenceFlag int
)

// addSnippetFlags registers the snippet locator flags shared by the
// symbol-oriented commands.
func addSnippetFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&codeBlockFlag, "code-block", "c", "",
		"A unique code snippet containing the target symbol (required)")
	cmd.Flags().IntVarP(&occurrenceFlag, "occurrence", "n", 1,
		"1-based index of the symbol's occurrence within the snippet")
	_ = cmd.MarkFlagRequired("code-block")
}

// withSession runs fn against a freshly started analyzer session and
// prints its result. The session is shut down on return.
func withSession(fn func(*analyzer.Session) (string, error)) error {
	cfg, err := loadWorkspaceConfig()
	if err != nil {
		return err
	}

	logger := newCLILogger(cfg)
	session := analyzer.NewSession(cfg, logger)
	if err := session.Start(); err != nil {
		return errors.Wrap(errors.AnalyzerUnavailable, "failed to start analyzer session", err)
	}
	defer session.Shutdown()

	result, err := fn(session)
	if err != nil {
		return err
	}

	fmt.Println(result)
	return nil
}

// locateInFile resolves a symbol to its position using the snippet flags.
func locateInFile(filePath, symbol string) (protocol.Position, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return protocol.Position{}, errors.Wrap(errors.SubprocessIO, "failed to read file "+filePath, err)
	}
	return locate.Symbol(string(content), symbol, codeBlockFlag, occurrenceFlag)
}
