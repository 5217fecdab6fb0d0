package main

import (
	"fmt"
	"strings"

	"rab/internal/analyzer"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Start a session and report analyzer health",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	return withSession(func(session *analyzer.Session) (string, error) {
		return formatStatus(session.Status()), nil
	})
}

func formatStatus(status analyzer.Status) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Workspace:    %s\n", status.WorkspaceRoot)
	fmt.Fprintf(&b, "State:        %s\n", status.State)
	fmt.Fprintf(&b, "Healthy:      %t\n", status.Healthy)
	fmt.Fprintf(&b, "Initialized:  %t\n", status.Initialized)
	if len(status.Capabilities) > 0 {
		fmt.Fprintf(&b, "Capabilities: %s\n", strings.Join(status.Capabilities, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}
