package analyzer

import (
	"io"
	"sort"
	"sync"
	"time"

	"rab/internal/config"
	"rab/internal/errors"
	"rab/internal/logging"
	"rab/internal/protocol"
)

// clientName and clientVersion identify this client to the analyzer.
const (
	clientName    = "rab"
	clientVersion = "0.3.0"
)

// Session owns one analyzer process and exposes the query operations.
// All operations fail with SESSION_UNINITIALIZED until Start has completed
// the initialize handshake.
type Session struct {
	proc *Process

	workspaceRoot  string
	analyzerPath   string
	analyzerArgs   []string
	fullAnalysis   bool
	requestTimeout time.Duration

	initialized bool
	initMu      sync.RWMutex

	capabilities map[string]interface{}

	logger *logging.Logger
}

// NewSession builds a session from resolved configuration. Nothing is
// spawned until Start.
func NewSession(cfg *config.Config, logger *logging.Logger) *Session {
	return &Session{
		workspaceRoot:  cfg.WorkspaceRoot,
		analyzerPath:   config.ResolveAnalyzerPath("", cfg),
		analyzerArgs:   cfg.Analyzer.Args,
		fullAnalysis:   config.ResolveFullAnalysis(cfg),
		requestTimeout: time.Duration(cfg.Analyzer.RequestTimeoutSeconds) * time.Second,
		logger:         logger,
	}
}

// newPipeSession wires a session to in-memory streams for tests.
func newPipeSession(stdin io.WriteCloser, stdout io.ReadCloser, workspaceRoot string, logger *logging.Logger) *Session {
	return &Session{
		proc:          newPipeProcess(stdin, stdout, workspaceRoot, logger),
		workspaceRoot: workspaceRoot,
		fullAnalysis:  true,
		logger:        logger,
	}
}

// Start spawns the analyzer and runs the initialize handshake.
func (s *Session) Start() error {
	proc, err := Spawn(s.analyzerPath, s.analyzerArgs, s.workspaceRoot, s.requestTimeout, s.logger)
	if err != nil {
		return err
	}
	s.proc = proc

	if err := s.initialize(); err != nil {
		proc.Shutdown()
		return err
	}

	s.logger.Info("analyzer session ready", map[string]interface{}{
		"workspaceRoot": s.workspaceRoot,
		"fullAnalysis":  s.fullAnalysis,
	})
	return nil
}

// initialize runs the LSP handshake: the initialize request followed by
// the initialized notification.
func (s *Session) initialize() error {
	s.proc.SetState(StateInitializing)

	initOptions := map[string]interface{}{
		"cargo": map[string]interface{}{
			"loadOutDirsFromCheck": s.fullAnalysis,
		},
		"procMacro": map[string]interface{}{
			"enable": s.fullAnalysis,
		},
	}

	params := map[string]interface{}{
		"processId": nil,
		"clientInfo": map[string]interface{}{
			"name":    clientName,
			"version": clientVersion,
		},
		"rootUri":               protocol.URIFromPath(s.workspaceRoot),
		"initializationOptions": initOptions,
		"capabilities": map[string]interface{}{
			"textDocument": map[string]interface{}{
				"definition": map[string]interface{}{
					"dynamicRegistration": false,
				},
				"references": map[string]interface{}{
					"dynamicRegistration": false,
				},
				"publishDiagnostics": map[string]interface{}{
					"relatedInformation": true,
				},
				"documentSymbol": map[string]interface{}{
					"hierarchicalDocumentSymbolSupport": true,
				},
			},
			"workspace": map[string]interface{}{
				"symbol": map[string]interface{}{
					"dynamicRegistration": false,
				},
			},
		},
	}

	result, err := s.proc.sendRequest("initialize", params)
	if err != nil {
		return errors.Wrap(errors.AnalyzerUnavailable, "initialize request failed", err)
	}

	var initResult struct {
		Capabilities map[string]interface{} `json:"capabilities"`
	}
	if err := decodeResult(result, &initResult); err == nil {
		s.capabilities = initResult.Capabilities
	}

	if err := s.proc.sendNotification("initialized", map[string]interface{}{}); err != nil {
		return errors.Wrap(errors.AnalyzerUnavailable, "initialized notification failed", err)
	}

	s.initMu.Lock()
	s.initialized = true
	s.initMu.Unlock()
	s.proc.SetState(StateReady)

	return nil
}

// EnsureInitialized fails fast when the handshake has not completed.
func (s *Session) EnsureInitialized() error {
	s.initMu.RLock()
	defer s.initMu.RUnlock()
	if !s.initialized {
		return errors.New(errors.SessionUninitialized, "analyzer session not initialized")
	}
	return nil
}

// Capabilities returns the server capabilities from the handshake.
func (s *Session) Capabilities() map[string]interface{} {
	return s.capabilities
}

// Status is a point-in-time snapshot of a session and its process.
type Status struct {
	State         State    `json:"state"`
	Healthy       bool     `json:"healthy"`
	Initialized   bool     `json:"initialized"`
	WorkspaceRoot string   `json:"workspaceRoot"`
	Capabilities  []string `json:"capabilities,omitempty"`
}

// Status reports the session's current state. Capabilities lists the
// capability groups the server advertised during the handshake, sorted.
// A session that was never started reports StateDead.
func (s *Session) Status() Status {
	s.initMu.RLock()
	initialized := s.initialized
	s.initMu.RUnlock()

	var capNames []string
	for name := range s.Capabilities() {
		capNames = append(capNames, name)
	}
	sort.Strings(capNames)

	status := Status{
		State:         StateDead,
		Initialized:   initialized,
		WorkspaceRoot: s.workspaceRoot,
		Capabilities:  capNames,
	}
	if s.proc != nil {
		status.State = s.proc.GetState()
		status.Healthy = s.proc.IsHealthy()
	}
	return status
}

// Diagnostics exposes the store fed by server pushes.
func (s *Session) Diagnostics() *DiagnosticsStore {
	return s.proc.Diagnostics()
}

// Shutdown terminates the analyzer process.
func (s *Session) Shutdown() error {
	s.initMu.Lock()
	s.initialized = false
	s.initMu.Unlock()

	if s.proc == nil {
		return nil
	}
	return s.proc.Shutdown()
}
