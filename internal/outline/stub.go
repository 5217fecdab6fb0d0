//go:build !cgo

// Package outline extracts a document outline from Rust source with
// tree-sitter. This stub is used when CGO is not available.
package outline

import "context"

// Symbol is one extracted outline entry.
type Symbol struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Line      int    `json:"line"`
	EndLine   int    `json:"endLine"`
	Container string `json:"container"`
	Signature string `json:"signature"`
}

// Extractor parses Rust files into outline symbols.
// This is a stub implementation when CGO is not available.
type Extractor struct{}

// NewExtractor returns nil when CGO is not available.
func NewExtractor() *Extractor {
	return nil
}

// ExtractFile returns empty when CGO is not available.
func (e *Extractor) ExtractFile(ctx context.Context, path string) ([]Symbol, error) {
	return nil, nil
}

// ExtractSource returns empty when CGO is not available.
func (e *Extractor) ExtractSource(ctx context.Context, source []byte) ([]Symbol, error) {
	return nil, nil
}

// IsAvailable reports whether the fallback outline can run.
func IsAvailable() bool {
	return false
}
