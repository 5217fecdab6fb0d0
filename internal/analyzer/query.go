package analyzer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"rab/internal/errors"
	"rab/internal/protocol"
	"rab/internal/symbols"
)

// DefinitionDetails pairs a definition location with the outline path of
// the symbol that encloses it. Identity is the derived canonical name,
// nil when the outline gave no path to derive it from.
type DefinitionDetails struct {
	Location   protocol.Location   `json:"location"`
	SymbolPath protocol.SymbolPath `json:"symbolPath"`
	Identity   *symbols.Identity   `json:"identity,omitempty"`
}

// SymbolSource is the source text of a symbol plus where it came from.
type SymbolSource struct {
	Source string         `json:"source"`
	Range  protocol.Range `json:"range"`
	Path   string         `json:"path"`
}

func isNullResult(result json.RawMessage) bool {
	trimmed := bytes.TrimSpace(result)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func decodeResult(result json.RawMessage, v interface{}) error {
	if isNullResult(result) {
		return errors.New(errors.UpstreamNull, "analyzer returned no result")
	}
	if err := json.Unmarshal(result, v); err != nil {
		return errors.Wrap(errors.InternalError, "failed to decode analyzer result", err)
	}
	return nil
}

func positionParams(filePath string, line, character uint32) protocol.TextDocumentPositionParams {
	return protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: protocol.URIFromPath(filePath)},
		Position:     protocol.Position{Line: line, Character: character},
	}
}

// requestDocumentSymbols fetches the outline for a document in whichever
// shape the analyzer chooses.
func (s *Session) requestDocumentSymbols(uri string) (protocol.DocumentSymbolResponse, error) {
	var out protocol.DocumentSymbolResponse

	params := map[string]interface{}{
		"textDocument": protocol.TextDocumentIdentifier{URI: uri},
	}
	result, err := s.proc.sendRequest("textDocument/documentSymbol", params)
	if err != nil {
		return out, err
	}
	if err := decodeResult(result, &out); err != nil {
		return out, err
	}
	return out, nil
}

// DefinitionDetails resolves the definition under (line, character) and
// annotates it with the enclosing outline path. The path is best-effort:
// outline failures leave it empty rather than failing the lookup. Returns
// nil when the analyzer finds no definition.
func (s *Session) DefinitionDetails(filePath string, line, character uint32) (*DefinitionDetails, error) {
	if err := s.EnsureInitialized(); err != nil {
		return nil, err
	}

	result, err := s.proc.sendRequest("textDocument/definition", positionParams(filePath, line, character))
	if err != nil {
		return nil, err
	}

	var def protocol.DefinitionResponse
	if isNullResult(result) {
		return nil, nil
	}
	if err := json.Unmarshal(result, &def); err != nil {
		return nil, errors.Wrap(errors.InternalError, "failed to decode definition response", err)
	}

	location, ok := def.SelectLocation()
	if !ok {
		return nil, nil
	}

	var symbolPath protocol.SymbolPath
	if outline, err := s.requestDocumentSymbols(location.URI); err == nil {
		symbolPath = outline.SymbolPathAt(location.Range.Start)
	}

	details := &DefinitionDetails{Location: location, SymbolPath: symbolPath}
	if identity, ok := symbols.FromDefinition(location.URI, symbolPath); ok {
		details.Identity = &identity
	}
	return details, nil
}

// FindDefinition renders the definition under (line, character) as a
// one-line human-readable string with 1-based coordinates.
func (s *Session) FindDefinition(filePath string, line, character uint32) (string, error) {
	details, err := s.DefinitionDetails(filePath, line, character)
	if err != nil {
		return "", err
	}
	if details == nil {
		return "", errors.New(errors.SymbolNotFound, "no definition found")
	}

	pathDisplay := details.SymbolPath.Format()
	if pathDisplay == "" {
		pathDisplay = "<unnamed>"
	}
	start := details.Location.Range.Start
	return fmt.Sprintf("Definition at %s:%d:%d (%s)",
		details.Location.URI, start.Line+1, start.Character+1, pathDisplay), nil
}

// FindReferences returns the raw references response, stringified.
func (s *Session) FindReferences(filePath string, line, character uint32) (string, error) {
	if err := s.EnsureInitialized(); err != nil {
		return "", err
	}

	params := map[string]interface{}{
		"textDocument": protocol.TextDocumentIdentifier{URI: protocol.URIFromPath(filePath)},
		"position":     protocol.Position{Line: line, Character: character},
		"context":      map[string]interface{}{"includeDeclaration": true},
	}
	result, err := s.proc.sendRequest("textDocument/references", params)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("References response: %s", string(result)), nil
}

// Hover returns the hover text for the symbol under (line, character).
func (s *Session) Hover(filePath string, line, character uint32) (string, error) {
	if err := s.EnsureInitialized(); err != nil {
		return "", err
	}

	result, err := s.proc.sendRequest("textDocument/hover", positionParams(filePath, line, character))
	if err != nil {
		return "", err
	}
	if isNullResult(result) {
		return "No hover information found", nil
	}

	var hover protocol.Hover
	if err := json.Unmarshal(result, &hover); err != nil {
		return "", errors.Wrap(errors.InternalError, "failed to decode hover response", err)
	}
	return hover.Contents.Value, nil
}

// DocumentSymbols returns the outline of a file as pretty-printed JSON.
func (s *Session) DocumentSymbols(filePath string) (string, error) {
	if err := s.EnsureInitialized(); err != nil {
		return "", err
	}

	outline, err := s.requestDocumentSymbols(protocol.URIFromPath(filePath))
	if err != nil {
		return "", err
	}

	var payload interface{}
	if outline.Flat {
		payload = outline.List
	} else {
		payload = outline.Tree
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.InternalError, "failed to render outline", err)
	}
	return string(data), nil
}

// WorkspaceSymbols runs a workspace/symbol query and returns both the
// decoded entries and the raw stringified response.
func (s *Session) WorkspaceSymbols(query string) ([]protocol.SymbolInformation, error) {
	if err := s.EnsureInitialized(); err != nil {
		return nil, err
	}

	params := map[string]interface{}{"query": query}
	result, err := s.proc.sendRequest("workspace/symbol", params)
	if err != nil {
		return nil, err
	}
	if isNullResult(result) {
		return nil, nil
	}

	var infos []protocol.SymbolInformation
	if err := json.Unmarshal(result, &infos); err != nil {
		return nil, errors.Wrap(errors.InternalError, "failed to decode workspace symbols", err)
	}
	return infos, nil
}

// RenameSymbol returns the raw rename workspace edit, stringified.
func (s *Session) RenameSymbol(filePath string, line, character uint32, newName string) (string, error) {
	if err := s.EnsureInitialized(); err != nil {
		return "", err
	}

	params := map[string]interface{}{
		"textDocument": protocol.TextDocumentIdentifier{URI: protocol.URIFromPath(filePath)},
		"position":     protocol.Position{Line: line, Character: character},
		"newName":      newName,
	}
	result, err := s.proc.sendRequest("textDocument/rename", params)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Rename response: %s", string(result)), nil
}

// FormatCode returns the raw formatting edits, stringified.
func (s *Session) FormatCode(filePath string) (string, error) {
	if err := s.EnsureInitialized(); err != nil {
		return "", err
	}

	params := map[string]interface{}{
		"textDocument": protocol.TextDocumentIdentifier{URI: protocol.URIFromPath(filePath)},
		"options": map[string]interface{}{
			"tabSize":      4,
			"insertSpaces": true,
		},
	}
	result, err := s.proc.sendRequest("textDocument/formatting", params)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Formatting response: %s", string(result)), nil
}

// ExtractFunction asks the analyzer for extract code actions over the range.
func (s *Session) ExtractFunction(filePath string, start, end protocol.Position, functionName string) (string, error) {
	if err := s.EnsureInitialized(); err != nil {
		return "", err
	}

	params := map[string]interface{}{
		"textDocument": protocol.TextDocumentIdentifier{URI: protocol.URIFromPath(filePath)},
		"range":        protocol.Range{Start: start, End: end},
		"context": map[string]interface{}{
			"diagnostics": []interface{}{},
			"only":        []string{"refactor.extract"},
		},
	}
	result, err := s.proc.sendRequest("textDocument/codeAction", params)
	if err != nil {
		return "", err
	}
	if isNullResult(result) {
		return fmt.Sprintf("No extract actions available for %q.", functionName), nil
	}
	return fmt.Sprintf("Extract function %q actions: %s", functionName, string(result)), nil
}

// InlineFunction asks the analyzer for inline code actions at the position.
func (s *Session) InlineFunction(filePath string, line, character uint32) (string, error) {
	if err := s.EnsureInitialized(); err != nil {
		return "", err
	}

	pos := protocol.Position{Line: line, Character: character}
	params := map[string]interface{}{
		"textDocument": protocol.TextDocumentIdentifier{URI: protocol.URIFromPath(filePath)},
		"range":        protocol.Range{Start: pos, End: pos},
		"context": map[string]interface{}{
			"diagnostics": []interface{}{},
			"only":        []string{"refactor.inline"},
		},
	}
	result, err := s.proc.sendRequest("textDocument/codeAction", params)
	if err != nil {
		return "", err
	}
	if isNullResult(result) {
		return "No inline actions available at this position.", nil
	}
	return fmt.Sprintf("Inline function actions: %s", string(result)), nil
}

// GetDiagnostics opens the file so the analyzer re-checks it, pumps the
// connection with an outline request so pushed diagnostics get absorbed,
// then renders whatever the store holds for the document.
func (s *Session) GetDiagnostics(filePath string) (string, error) {
	if err := s.EnsureInitialized(); err != nil {
		return "", err
	}

	uri := protocol.URIFromPath(filePath)

	text, err := os.ReadFile(filePath)
	if err != nil {
		return "", errors.Wrap(errors.SubprocessIO, "failed to read file for diagnostics", err)
	}

	didOpen := map[string]interface{}{
		"textDocument": map[string]interface{}{
			"uri":        uri,
			"languageId": "rust",
			"version":    1,
			"text":       string(text),
		},
	}
	if err := s.proc.sendNotification("textDocument/didOpen", didOpen); err != nil {
		return "", errors.Wrap(errors.SubprocessIO, "didOpen failed", err)
	}

	// The outline result is discarded; the request exists to give the read
	// loop a round trip during which publishDiagnostics arrives.
	_, _ = s.requestDocumentSymbols(uri)

	diags, ok := s.Diagnostics().Get(uri)
	if !ok {
		return "No diagnostics found (yet).", nil
	}
	if len(diags) == 0 {
		return "No diagnostics found.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Diagnostics for %s:\n\n", filePath)
	for _, diag := range diags {
		start := diag.Range.Start
		fmt.Fprintf(&b, "[%s] %d:%d: %s\n",
			diag.SeverityLabel(), start.Line+1, start.Character+1, diag.Message)
	}
	return b.String(), nil
}

// PrepareTypeHierarchy resolves the hierarchy items for the symbol under
// (line, character). A null result is an empty list, not an error.
func (s *Session) PrepareTypeHierarchy(filePath string, line, character uint32) ([]protocol.TypeHierarchyItem, error) {
	if err := s.EnsureInitialized(); err != nil {
		return nil, err
	}

	result, err := s.proc.sendRequest("textDocument/prepareTypeHierarchy", positionParams(filePath, line, character))
	if err != nil {
		return nil, err
	}
	return protocol.DecodeTypeHierarchyItems(result)
}

func (s *Session) typeHierarchyRelated(method string, item protocol.TypeHierarchyItem) ([]protocol.TypeHierarchyItem, error) {
	params := map[string]interface{}{"item": item}
	result, err := s.proc.sendRequest(method, params)
	if err != nil {
		return nil, err
	}
	return protocol.DecodeTypeHierarchyItems(result)
}

// TypeHierarchySupertypes lists the parents of a hierarchy item.
func (s *Session) TypeHierarchySupertypes(item protocol.TypeHierarchyItem) ([]protocol.TypeHierarchyItem, error) {
	if err := s.EnsureInitialized(); err != nil {
		return nil, err
	}
	return s.typeHierarchyRelated("typeHierarchy/supertypes", item)
}

// TypeHierarchySubtypes lists the children of a hierarchy item.
func (s *Session) TypeHierarchySubtypes(item protocol.TypeHierarchyItem) ([]protocol.TypeHierarchyItem, error) {
	if err := s.EnsureInitialized(); err != nil {
		return nil, err
	}
	return s.typeHierarchyRelated("typeHierarchy/subtypes", item)
}

// GetTypeHierarchy renders a combined supertype/subtype report for the
// symbol under (line, character). Entries whose name matches the root are
// skipped from display.
func (s *Session) GetTypeHierarchy(filePath string, line, character uint32) (string, error) {
	items, err := s.PrepareTypeHierarchy(filePath, line, character)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "No type hierarchy found for this symbol.", nil
	}

	root := items[0]
	var b strings.Builder
	fmt.Fprintf(&b, "Type Hierarchy for `%s`:\n\n", root.Name)

	supertypes, err := s.TypeHierarchySupertypes(root)
	if err != nil {
		return "", err
	}
	if len(supertypes) > 0 {
		b.WriteString("Supertypes (Implements):\n")
		for _, parent := range supertypes {
			if parent.Name != root.Name {
				fmt.Fprintf(&b, "  - %s %s\n", parent.Name, parent.Detail)
			}
		}
		b.WriteString("\n")
	}

	subtypes, err := s.TypeHierarchySubtypes(root)
	if err != nil {
		return "", err
	}
	if len(subtypes) > 0 {
		b.WriteString("Subtypes (Implemented by):\n")
		for _, child := range subtypes {
			if child.Name != root.Name {
				fmt.Fprintf(&b, "  - %s %s\n", child.Name, child.Detail)
			}
		}
	}

	report := b.String()
	if strings.TrimSpace(report) == fmt.Sprintf("Type Hierarchy for `%s`:", root.Name) {
		report += "(No supertypes or subtypes found)"
	}
	return report, nil
}

// GetSymbolSource returns the source text of the symbol under (line,
// character). It resolves the definition first so references work; when
// the definition lookup fails or comes back null, it assumes the caller
// pointed directly at a definition and uses the given position.
func (s *Session) GetSymbolSource(filePath string, line, character uint32) (*SymbolSource, error) {
	if err := s.EnsureInitialized(); err != nil {
		return nil, err
	}

	targetURI := protocol.URIFromPath(filePath)
	targetPoint := protocol.Position{Line: line, Character: character}

	if result, err := s.proc.sendRequest("textDocument/definition", positionParams(filePath, line, character)); err == nil && !isNullResult(result) {
		var def protocol.DefinitionResponse
		if err := json.Unmarshal(result, &def); err == nil {
			if loc, ok := def.SelectLocation(); ok {
				targetURI = loc.URI
				targetPoint = loc.Range.Start
			}
		}
	}

	targetPath := protocol.PathFromURI(targetURI)

	outline, err := s.requestDocumentSymbols(targetURI)
	if err != nil {
		return nil, err
	}

	symbolRange, ok := outline.EnclosingRangeAt(targetPoint)
	if !ok {
		return nil, errors.Newf(errors.SymbolNotFound,
			"no symbol found covering definition at %s:%d:%d",
			targetPath, targetPoint.Line, targetPoint.Character)
	}

	content, err := os.ReadFile(targetPath)
	if err != nil {
		return nil, errors.Wrap(errors.SubprocessIO, "failed to read file "+targetPath, err)
	}

	lines := strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
	startLine := int(symbolRange.Start.Line)
	endLine := int(symbolRange.End.Line)

	if startLine >= len(lines) {
		return nil, errors.Newf(errors.InternalError,
			"symbol range start line %d is out of bounds", startLine)
	}
	if endLine > len(lines)-1 {
		endLine = len(lines) - 1
	}
	if startLine > endLine {
		return &SymbolSource{Range: symbolRange, Path: targetPath}, nil
	}

	return &SymbolSource{
		Source: strings.Join(lines[startLine:endLine+1], "\n"),
		Range:  symbolRange,
		Path:   targetPath,
	}, nil
}
