// Package cargo reads Cargo manifests and runs cargo check, turning both
// into the summaries the tool surface returns.
package cargo

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"rab/internal/errors"
)

// Manifest is the subset of a Cargo.toml this tool reports on.
type Manifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
		Edition string `toml:"edition"`
	} `toml:"package"`
	// Dependency values are either a bare version string or a table; both
	// are kept raw and normalized by DependencyVersion.
	Dependencies    map[string]interface{} `toml:"dependencies"`
	DevDependencies map[string]interface{} `toml:"dev-dependencies"`
	Workspace       *Workspace             `toml:"workspace"`
}

// Workspace is the [workspace] section of a virtual manifest.
type Workspace struct {
	Members []string `toml:"members"`
}

// LoadManifest parses the Cargo.toml at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.SubprocessIO, "failed to read manifest", err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.InvalidParams, "failed to parse manifest", err)
	}
	return &m, nil
}

// DependencyVersion extracts the version requirement from a dependency
// value, which TOML gives us as either a string or a table with a
// "version" key. Path and git dependencies without a version yield "*".
func DependencyVersion(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case map[string]interface{}:
		if version, ok := v["version"].(string); ok {
			return version
		}
	}
	return "*"
}

// Summary renders the manifest as a short human-readable report.
func (m *Manifest) Summary(path string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Manifest analysis for: %s\n\n", path)

	if m.Workspace != nil && m.Package.Name == "" {
		fmt.Fprintf(&b, "Workspace with %d member(s):\n", len(m.Workspace.Members))
		for _, member := range m.Workspace.Members {
			fmt.Fprintf(&b, "  - %s\n", member)
		}
		return b.String()
	}

	fmt.Fprintf(&b, "Package: %s %s", m.Package.Name, m.Package.Version)
	if m.Package.Edition != "" {
		fmt.Fprintf(&b, " (edition %s)", m.Package.Edition)
	}
	b.WriteString("\n")

	writeDeps := func(title string, deps map[string]interface{}) {
		if len(deps) == 0 {
			return
		}
		names := make([]string, 0, len(deps))
		for name := range deps {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintf(&b, "\n%s (%d):\n", title, len(names))
		for _, name := range names {
			fmt.Fprintf(&b, "  - %s %s\n", name, DependencyVersion(deps[name]))
		}
	}
	writeDeps("Dependencies", m.Dependencies)
	writeDeps("Dev-dependencies", m.DevDependencies)

	return b.String()
}

// checkMessage is one line of cargo's JSON message stream.
type checkMessage struct {
	Reason  string `json:"reason"`
	Message *struct {
		Level    string `json:"level"`
		Message  string `json:"message"`
		Rendered string `json:"rendered"`
		Spans    []struct {
			FileName    string `json:"file_name"`
			LineStart   int    `json:"line_start"`
			ColumnStart int    `json:"column_start"`
			IsPrimary   bool   `json:"is_primary"`
		} `json:"spans"`
	} `json:"message"`
}

// CheckReport summarizes one cargo check run.
type CheckReport struct {
	Errors   int
	Warnings int
	Findings []string
}

// Check runs cargo check in workspacePath and summarizes the compiler
// messages. A non-zero exit with parseable messages is not an error; the
// findings are the result.
func Check(ctx context.Context, workspacePath string) (*CheckReport, error) {
	cmd := exec.CommandContext(ctx, "cargo", "check", "--message-format=json")
	cmd.Dir = workspacePath

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	report, parseErr := parseCheckOutput(stdout.Bytes())
	if parseErr != nil {
		return nil, parseErr
	}

	if runErr != nil && report.Errors == 0 && len(report.Findings) == 0 {
		// cargo itself failed before producing messages.
		return nil, errors.Wrap(errors.SubprocessIO,
			"cargo check failed: "+strings.TrimSpace(stderr.String()), runErr)
	}
	return report, nil
}

func parseCheckOutput(output []byte) (*CheckReport, error) {
	report := &CheckReport{}

	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] != '{' {
			continue
		}

		var msg checkMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			continue // non-diagnostic output interleaved in the stream
		}
		if msg.Reason != "compiler-message" || msg.Message == nil {
			continue
		}

		switch msg.Message.Level {
		case "error":
			report.Errors++
		case "warning":
			report.Warnings++
		default:
			continue
		}

		finding := fmt.Sprintf("[%s] %s", strings.ToUpper(msg.Message.Level), msg.Message.Message)
		for _, span := range msg.Message.Spans {
			if span.IsPrimary {
				finding = fmt.Sprintf("[%s] %s:%d:%d: %s",
					strings.ToUpper(msg.Message.Level),
					span.FileName, span.LineStart, span.ColumnStart, msg.Message.Message)
				break
			}
		}
		report.Findings = append(report.Findings, finding)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.InternalError, "failed to scan cargo output", err)
	}

	return report, nil
}

// Render formats a check report for display.
func (r *CheckReport) Render(workspacePath string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cargo check results for: %s\n", workspacePath)
	fmt.Fprintf(&b, "%d error(s), %d warning(s)\n", r.Errors, r.Warnings)
	if len(r.Findings) > 0 {
		b.WriteString("\n")
		for _, finding := range r.Findings {
			b.WriteString(finding)
			b.WriteString("\n")
		}
	}
	return b.String()
}
