package analyzer

import (
	"sync"

	"rab/internal/protocol"
)

// DiagnosticsStore holds the latest published diagnostics per document.
// Each publish replaces the previous set for its URI; an empty publish
// clears the document.
type DiagnosticsStore struct {
	mu    sync.Mutex
	byURI map[string][]protocol.Diagnostic
}

// NewDiagnosticsStore returns an empty store.
func NewDiagnosticsStore() *DiagnosticsStore {
	return &DiagnosticsStore{
		byURI: make(map[string][]protocol.Diagnostic),
	}
}

// Replace installs diags as the full set for uri, discarding whatever was
// there before.
func (s *DiagnosticsStore) Replace(uri string, diags []protocol.Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byURI[uri] = diags
}

// Get returns the current diagnostics for uri and whether the analyzer has
// ever published for it. The distinction matters: an empty slice means the
// document is clean, absence means no analysis has arrived yet.
func (s *DiagnosticsStore) Get(uri string) ([]protocol.Diagnostic, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	diags, ok := s.byURI[uri]
	if !ok {
		return nil, false
	}
	out := make([]protocol.Diagnostic, len(diags))
	copy(out, diags)
	return out, true
}
