//go:build cgo

// Package outline extracts a document outline from Rust source with
// tree-sitter. It is the fallback when no analyzer session is available:
// lower fidelity than textDocument/documentSymbol, but it needs nothing
// beyond the file bytes.
package outline

import (
	"context"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

// Symbol is one extracted outline entry.
type Symbol struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"` // "function", "method", "struct", "enum", "trait", "impl"
	Line      int    `json:"line"` // 1-indexed
	EndLine   int    `json:"endLine"`
	Container string `json:"container"` // enclosing impl/trait name for methods
	Signature string `json:"signature"`
}

// Extractor parses Rust files into outline symbols.
type Extractor struct {
	parser *sitter.Parser
}

// NewExtractor creates an extractor with a Rust grammar loaded.
func NewExtractor() *Extractor {
	parser := sitter.NewParser()
	parser.SetLanguage(rust.GetLanguage())
	return &Extractor{parser: parser}
}

// ExtractFile extracts all outline symbols from a file.
func (e *Extractor) ExtractFile(ctx context.Context, path string) ([]Symbol, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return e.ExtractSource(ctx, source)
}

// ExtractSource extracts outline symbols from source bytes.
func (e *Extractor) ExtractSource(ctx context.Context, source []byte) ([]Symbol, error) {
	tree, err := e.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var symbols []Symbol
	root := tree.RootNode()

	// Free functions are direct children of the source file; functions
	// inside impl and trait blocks are collected as methods below.
	for _, fn := range findNodes(root, []string{"function_item"}, []string{"impl_item", "trait_item"}) {
		if sym := extractNamed(fn, source, "function", ""); sym != nil {
			symbols = append(symbols, *sym)
		}
	}

	for _, node := range findNodes(root, []string{"struct_item", "enum_item", "trait_item", "impl_item"}, nil) {
		sym := extractContainer(node, source)
		if sym == nil {
			continue
		}
		symbols = append(symbols, *sym)

		if node.Type() == "impl_item" || node.Type() == "trait_item" {
			for _, m := range findNodes(node, []string{"function_item"}, nil) {
				if method := extractNamed(m, source, "method", sym.Name); method != nil {
					symbols = append(symbols, *method)
				}
			}
		}
	}

	return symbols, nil
}

func extractNamed(node *sitter.Node, source []byte, kind, container string) *Symbol {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	return &Symbol{
		Name:      string(source[nameNode.StartByte():nameNode.EndByte()]),
		Kind:      kind,
		Line:      int(node.StartPoint().Row) + 1,
		EndLine:   int(node.EndPoint().Row) + 1,
		Container: container,
		Signature: extractSignature(node, source),
	}
}

func extractContainer(node *sitter.Node, source []byte) *Symbol {
	kind := map[string]string{
		"struct_item": "struct",
		"enum_item":   "enum",
		"trait_item":  "trait",
		"impl_item":   "impl",
	}[node.Type()]

	nameNode := node.ChildByFieldName("name")
	if nameNode == nil && node.Type() == "impl_item" {
		// impl blocks name the type they extend via a type_identifier child.
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if child != nil && child.Type() == "type_identifier" {
				nameNode = child
				break
			}
		}
	}
	if nameNode == nil {
		return nil
	}

	return &Symbol{
		Name:      string(source[nameNode.StartByte():nameNode.EndByte()]),
		Kind:      kind,
		Line:      int(node.StartPoint().Row) + 1,
		EndLine:   int(node.EndPoint().Row) + 1,
		Signature: extractSignature(node, source),
	}
}

// extractSignature takes the declaration up to the first newline or brace.
func extractSignature(node *sitter.Node, source []byte) string {
	text := source[node.StartByte():node.EndByte()]
	for i, b := range text {
		if b == '\n' || b == '{' {
			return strings.TrimSpace(string(text[:i]))
		}
	}
	if len(text) < 200 {
		return strings.TrimSpace(string(text))
	}
	return strings.TrimSpace(string(text[:200])) + "..."
}

// findNodes collects nodes of the given types, without descending into
// nodes whose type is listed in stopInside.
func findNodes(root *sitter.Node, types, stopInside []string) []*sitter.Node {
	var result []*sitter.Node

	var walk func(*sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}
		if node != root && contains(stopInside, node.Type()) {
			return
		}
		if contains(types, node.Type()) {
			result = append(result, node)
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
	}

	walk(root)
	return result
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// IsAvailable reports whether the fallback outline can run.
func IsAvailable() bool {
	return true
}
