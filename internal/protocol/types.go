// Package protocol defines the LSP wire types RAB exchanges with
// rust-analyzer, and the projection from polymorphic response shapes into the
// canonical forms the rest of the system consumes.
//
// Positions are zero-based; the character field counts UTF-16 code units, not
// bytes or runes. That is a wire-format invariant of the protocol, not a
// choice RAB gets to make.
package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Position is a zero-based (line, UTF-16 character) pair.
type Position struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

// Range is an ordered pair of positions, start <= end.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Location is a file URI plus a range within that file.
type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

// LocationLink is the linkSupport variant of a definition target.
type LocationLink struct {
	OriginSelectionRange *Range `json:"originSelectionRange,omitempty"`
	TargetURI            string `json:"targetUri"`
	TargetRange          Range  `json:"targetRange"`
	TargetSelectionRange Range  `json:"targetSelectionRange"`
}

// Diagnostic severity levels per the protocol.
const (
	SeverityError   = 1
	SeverityWarning = 2
	SeverityInfo    = 3
	SeverityHint    = 4
)

// Diagnostic is a severity-tagged, range-anchored message.
type Diagnostic struct {
	Range    Range  `json:"range"`
	Severity *int   `json:"severity,omitempty"`
	Source   string `json:"source,omitempty"`
	Message  string `json:"message"`
}

// SeverityLabel renders a diagnostic's severity for display. A missing
// severity is treated as an error, matching analyzer behavior.
func (d Diagnostic) SeverityLabel() string {
	sev := SeverityError
	if d.Severity != nil {
		sev = *d.Severity
	}
	switch sev {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	case SeverityHint:
		return "HINT"
	default:
		return "UNKNOWN"
	}
}

// PublishDiagnosticsParams is the payload of textDocument/publishDiagnostics.
type PublishDiagnosticsParams struct {
	URI         string       `json:"uri"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// TextDocumentIdentifier names a document by URI.
type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

// TextDocumentPositionParams is the common (document, position) request shape.
type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// DocumentSymbol is a node in the hierarchical outline shape.
type DocumentSymbol struct {
	Name           string           `json:"name"`
	Detail         string           `json:"detail,omitempty"`
	Kind           int              `json:"kind"`
	Range          Range            `json:"range"`
	SelectionRange Range            `json:"selectionRange"`
	Children       []DocumentSymbol `json:"children,omitempty"`
}

// SymbolInformation is an entry in the flat outline shape.
type SymbolInformation struct {
	Name          string   `json:"name"`
	Kind          int      `json:"kind"`
	Location      Location `json:"location"`
	ContainerName string   `json:"containerName,omitempty"`
}

// SymbolPathSegment is one (name, kind) step of nested containment.
type SymbolPathSegment struct {
	Name string `json:"name"`
	Kind int    `json:"kind"`
}

// SymbolPath orders segments from outermost to innermost.
type SymbolPath []SymbolPathSegment

// Format joins segment names with "::"; empty paths render as "".
func (p SymbolPath) Format() string {
	if len(p) == 0 {
		return ""
	}
	names := make([]string, len(p))
	for i, seg := range p {
		names[i] = seg.Name
	}
	return strings.Join(names, "::")
}

// Hover is the reply to textDocument/hover.
type Hover struct {
	Contents HoverContents `json:"contents"`
	Range    *Range        `json:"range,omitempty"`
}

// HoverContents tolerates the two shapes rust-analyzer emits: a MarkupContent
// object and a bare markdown string.
type HoverContents struct {
	Kind  string `json:"kind,omitempty"`
	Value string `json:"value"`
}

// UnmarshalJSON accepts either {"kind": ..., "value": ...} or a plain string.
func (c *HoverContents) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		return json.Unmarshal(trimmed, &c.Value)
	}

	type alias HoverContents
	var a alias
	if err := json.Unmarshal(trimmed, &a); err != nil {
		return fmt.Errorf("hover contents: %w", err)
	}
	*c = HoverContents(a)
	return nil
}

// TypeHierarchyItem is one node of a type hierarchy.
type TypeHierarchyItem struct {
	Name           string `json:"name"`
	Kind           int    `json:"kind"`
	Detail         string `json:"detail,omitempty"`
	URI            string `json:"uri"`
	Range          Range  `json:"range"`
	SelectionRange Range  `json:"selectionRange"`
}

// FileURIPrefix is the scheme prefix for file identifiers.
const FileURIPrefix = "file://"

// URIFromPath builds a file:// URI from an absolute filesystem path.
func URIFromPath(path string) string {
	if strings.HasPrefix(path, FileURIPrefix) {
		return path
	}
	return FileURIPrefix + path
}

// PathFromURI strips the file:// scheme, returning the input unchanged when
// it carries no scheme.
func PathFromURI(uri string) string {
	return strings.TrimPrefix(uri, FileURIPrefix)
}
