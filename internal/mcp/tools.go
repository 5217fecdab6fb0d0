package mcp

// Tool represents an analyzer tool exposed via MCP
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// ToolHandler handles a tool call and returns the text payload for the client.
type ToolHandler func(params map[string]interface{}) (string, error)

// RegisterTools wires every tool name to its handler
func (s *Server) RegisterTools() {
	s.tools["find_definition"] = s.handleFindDefinition
	s.tools["find_references"] = s.handleFindReferences
	s.tools["get_hover"] = s.handleGetHover
	s.tools["get_diagnostics"] = s.handleGetDiagnostics
	s.tools["document_symbols"] = s.handleDocumentSymbols
	s.tools["get_symbol_source"] = s.handleGetSymbolSource
	s.tools["workspace_symbols"] = s.handleWorkspaceSymbols
	s.tools["rename_symbol"] = s.handleRenameSymbol
	s.tools["format_code"] = s.handleFormatCode
	s.tools["extract_function"] = s.handleExtractFunction
	s.tools["inline_function"] = s.handleInlineFunction
	s.tools["get_type_hierarchy"] = s.handleGetTypeHierarchy
	s.tools["run_cargo_check"] = s.handleRunCargoCheck
	s.tools["analyze_manifest"] = s.handleAnalyzeManifest
}

func snippetSchema(symbolDescription string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"file_path": map[string]interface{}{
				"type":        "string",
				"description": "Absolute path to the file",
			},
			"symbol": map[string]interface{}{
				"type":        "string",
				"description": symbolDescription,
			},
			"code_block": map[string]interface{}{
				"type":        "string",
				"description": "A unique multi-line code snippet containing the target symbol",
			},
			"occurrence": map[string]interface{}{
				"type":        "integer",
				"description": "The 1-based index of the symbol's occurrence within the code_block",
				"default":     1,
			},
		},
		"required": []string{"file_path", "symbol", "code_block"},
	}
}

func filePathSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"file_path": map[string]interface{}{
				"type": "string",
			},
		},
		"required": []string{"file_path"},
	}
}

// GetToolDefinitions returns all tool definitions
func (s *Server) GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "find_definition",
			Description: "Locates the definition of a specific symbol by searching within a provided code block. More reliable than using raw coordinates.",
			InputSchema: snippetSchema("The exact symbol name to find"),
		},
		{
			Name:        "find_references",
			Description: "Finds all references to a specific symbol by searching within a provided code block. Useful for refactoring and understanding usage patterns.",
			InputSchema: snippetSchema("The exact symbol name to find references for"),
		},
		{
			Name:        "get_hover",
			Description: "Retrieves hover information (signature, documentation) for a specific symbol by locating it within a provided code block. This method is more robust than using line/character coordinates.",
			InputSchema: snippetSchema("The exact symbol name to hover over"),
		},
		{
			Name:        "get_diagnostics",
			Description: "Get compiler diagnostics for a file",
			InputSchema: filePathSchema(),
		},
		{
			Name:        "document_symbols",
			Description: "Retrieves the hierarchical structure (symbols) of a file. PREFERRED over `read_file` for large files to understand code organization without consuming massive context tokens. Returns an outline of functions, structs, and impls.",
			InputSchema: filePathSchema(),
		},
		{
			Name:        "get_symbol_source",
			Description: "Retrieves the source code of a symbol by locating it within a provided code block. Useful for reading implementations.",
			InputSchema: snippetSchema("The exact symbol name"),
		},
		{
			Name:        "workspace_symbols",
			Description: "Search for symbols in the workspace",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type": "string",
					},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        "rename_symbol",
			Description: "Renames a symbol with scope awareness by locating it within a provided code block. This method is more robust than using raw line/character coordinates.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"file_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the file",
					},
					"symbol": map[string]interface{}{
						"type":        "string",
						"description": "The exact symbol name to rename",
					},
					"code_block": map[string]interface{}{
						"type":        "string",
						"description": "A unique multi-line code snippet containing the target symbol",
					},
					"occurrence": map[string]interface{}{
						"type":        "integer",
						"description": "The 1-based index of the symbol's occurrence within the code_block",
						"default":     1,
					},
					"new_name": map[string]interface{}{
						"type":        "string",
						"description": "The new name for the symbol",
					},
				},
				"required": []string{"file_path", "symbol", "code_block", "new_name"},
			},
		},
		{
			Name:        "format_code",
			Description: "Format a file with the analyzer's formatting provider",
			InputSchema: filePathSchema(),
		},
		{
			Name:        "extract_function",
			Description: "Extracts a block of code into a new function. Locates the code by matching the provided code_block snippet. More robust than using raw line/character ranges.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"file_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the file",
					},
					"code_block": map[string]interface{}{
						"type":        "string",
						"description": "The exact multi-line code snippet to be extracted into a new function",
					},
					"occurrence": map[string]interface{}{
						"type":        "integer",
						"description": "The 1-based index of the code_block's occurrence. Defaults to 1.",
						"default":     1,
					},
					"function_name": map[string]interface{}{
						"type":        "string",
						"description": "The name of the new function",
					},
				},
				"required": []string{"file_path", "code_block", "function_name"},
			},
		},
		{
			Name:        "inline_function",
			Description: "Inlines a function call by locating it within a provided code block. More robust than using raw line/character coordinates.",
			InputSchema: snippetSchema("The name of the function to inline"),
		},
		{
			Name:        "get_type_hierarchy",
			Description: "Retrieves the type hierarchy (supertypes/traits implemented, subtypes/implementations) for a symbol. Useful for understanding trait relationships and implementations.",
			InputSchema: snippetSchema("The exact symbol name"),
		},
		{
			Name:        "run_cargo_check",
			Description: "Execute cargo check and parse errors",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"workspace_path": map[string]interface{}{
						"type": "string",
					},
				},
				"required": []string{"workspace_path"},
			},
		},
		{
			Name:        "analyze_manifest",
			Description: "Summarize a Cargo.toml manifest: package metadata, dependencies, workspace members",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"manifest_path": map[string]interface{}{
						"type": "string",
					},
				},
				"required": []string{"manifest_path"},
			},
		},
	}
}
