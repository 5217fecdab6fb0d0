package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"rab/internal/cargo"
	"rab/internal/errors"
	"rab/internal/locate"
	"rab/internal/protocol"
	"rab/internal/symbols"
)

func requireString(params map[string]interface{}, key string) (string, error) {
	value, ok := params[key].(string)
	if !ok || value == "" {
		return "", errors.Newf(errors.InvalidParams, "missing %s parameter", key)
	}
	return value, nil
}

func occurrenceParam(params map[string]interface{}) int {
	if v, ok := params["occurrence"].(float64); ok && v >= 1 {
		return int(v)
	}
	return 1
}

// resolveSymbol reads the file and locates the requested symbol occurrence
// inside the provided code block, returning its position and the file text.
func resolveSymbol(params map[string]interface{}) (string, string, protocol.Position, error) {
	filePath, err := requireString(params, "file_path")
	if err != nil {
		return "", "", protocol.Position{}, err
	}
	symbol, err := requireString(params, "symbol")
	if err != nil {
		return "", "", protocol.Position{}, err
	}
	codeBlock, err := requireString(params, "code_block")
	if err != nil {
		return "", "", protocol.Position{}, err
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", "", protocol.Position{}, errors.Wrap(errors.SubprocessIO, "failed to read file "+filePath, err)
	}

	pos, err := locate.Symbol(string(content), symbol, codeBlock, occurrenceParam(params))
	if err != nil {
		return "", "", protocol.Position{}, err
	}
	return filePath, string(content), pos, nil
}

func (s *Server) handleFindDefinition(params map[string]interface{}) (string, error) {
	filePath, _, pos, err := resolveSymbol(params)
	if err != nil {
		return "", err
	}
	return s.session.FindDefinition(filePath, pos.Line, pos.Character)
}

func (s *Server) handleFindReferences(params map[string]interface{}) (string, error) {
	filePath, _, pos, err := resolveSymbol(params)
	if err != nil {
		return "", err
	}
	return s.session.FindReferences(filePath, pos.Line, pos.Character)
}

func (s *Server) handleGetHover(params map[string]interface{}) (string, error) {
	filePath, _, pos, err := resolveSymbol(params)
	if err != nil {
		return "", err
	}
	return s.session.Hover(filePath, pos.Line, pos.Character)
}

func (s *Server) handleGetDiagnostics(params map[string]interface{}) (string, error) {
	filePath, err := requireString(params, "file_path")
	if err != nil {
		return "", err
	}
	return s.session.GetDiagnostics(filePath)
}

func (s *Server) handleDocumentSymbols(params map[string]interface{}) (string, error) {
	filePath, err := requireString(params, "file_path")
	if err != nil {
		return "", err
	}
	return s.session.DocumentSymbols(filePath)
}

func (s *Server) handleGetSymbolSource(params map[string]interface{}) (string, error) {
	filePath, fileText, pos, err := resolveSymbol(params)
	if err != nil {
		return "", err
	}

	contextLine := "<line out of bounds>"
	lines := strings.Split(fileText, "\n")
	if int(pos.Line) < len(lines) {
		contextLine = lines[pos.Line]
	}

	src, err := s.session.GetSymbolSource(filePath, pos.Line, pos.Character)
	if err != nil {
		return "", err
	}

	result := map[string]interface{}{
		"request": map[string]interface{}{
			"file_path":      filePath,
			"line":           pos.Line,
			"character":      pos.Character,
			"context_line":   contextLine,
			"context_marker": locate.PositionMarker(contextLine, pos.Character),
		},
		"result": map[string]interface{}{
			"file_path": src.Path,
			"range":     src.Range,
			"source":    src.Source,
		},
	}

	pretty, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.InternalError, "failed to render symbol source", err)
	}
	return string(pretty), nil
}

func (s *Server) handleWorkspaceSymbols(params map[string]interface{}) (string, error) {
	query, err := requireString(params, "query")
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		ids, ok, err := s.cache.Get(query)
		if err != nil {
			s.logger.Warn("Symbol cache read failed", map[string]interface{}{
				"error": err.Error(),
			})
		} else if ok {
			return renderIdentities(query, ids), nil
		}
	}

	infos, err := s.session.WorkspaceSymbols(query)
	if err != nil {
		return "", err
	}

	ids := symbols.FromWorkspaceSymbols(infos)
	if s.cache != nil {
		if err := s.cache.Put(query, ids); err != nil {
			s.logger.Warn("Symbol cache write failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return renderIdentities(query, ids), nil
}

func renderIdentities(query string, ids []symbols.Identity) string {
	if len(ids) == 0 {
		return fmt.Sprintf("No symbols found matching %q.", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Workspace symbols for %q (%d match(es)):\n\n", query, len(ids))
	for _, id := range ids {
		fmt.Fprintf(&b, "  - %s [%s]\n", id.Key(), id.Kind)
	}
	return b.String()
}

func (s *Server) handleRenameSymbol(params map[string]interface{}) (string, error) {
	newName, err := requireString(params, "new_name")
	if err != nil {
		return "", err
	}
	filePath, _, pos, err := resolveSymbol(params)
	if err != nil {
		return "", err
	}
	return s.session.RenameSymbol(filePath, pos.Line, pos.Character, newName)
}

func (s *Server) handleFormatCode(params map[string]interface{}) (string, error) {
	filePath, err := requireString(params, "file_path")
	if err != nil {
		return "", err
	}
	return s.session.FormatCode(filePath)
}

func (s *Server) handleExtractFunction(params map[string]interface{}) (string, error) {
	filePath, err := requireString(params, "file_path")
	if err != nil {
		return "", err
	}
	codeBlock, err := requireString(params, "code_block")
	if err != nil {
		return "", err
	}
	functionName, err := requireString(params, "function_name")
	if err != nil {
		return "", err
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", errors.Wrap(errors.SubprocessIO, "failed to read file "+filePath, err)
	}

	start, end, err := locate.BlockRange(string(content), codeBlock, occurrenceParam(params))
	if err != nil {
		return "", err
	}
	return s.session.ExtractFunction(filePath, start, end, functionName)
}

func (s *Server) handleInlineFunction(params map[string]interface{}) (string, error) {
	filePath, _, pos, err := resolveSymbol(params)
	if err != nil {
		return "", err
	}
	return s.session.InlineFunction(filePath, pos.Line, pos.Character)
}

func (s *Server) handleGetTypeHierarchy(params map[string]interface{}) (string, error) {
	filePath, _, pos, err := resolveSymbol(params)
	if err != nil {
		return "", err
	}
	return s.session.GetTypeHierarchy(filePath, pos.Line, pos.Character)
}

func (s *Server) handleRunCargoCheck(params map[string]interface{}) (string, error) {
	workspacePath, err := requireString(params, "workspace_path")
	if err != nil {
		return "", err
	}

	report, err := cargo.Check(context.Background(), workspacePath)
	if err != nil {
		return "", err
	}
	return report.Render(workspacePath), nil
}

func (s *Server) handleAnalyzeManifest(params map[string]interface{}) (string, error) {
	manifestPath, err := requireString(params, "manifest_path")
	if err != nil {
		return "", err
	}

	manifest, err := cargo.LoadManifest(manifestPath)
	if err != nil {
		return "", err
	}
	return manifest.Summary(manifestPath), nil
}
