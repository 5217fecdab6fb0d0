package mcp

import (
	"bufio"
	"io"
	"os"

	"rab/internal/analyzer"
	"rab/internal/logging"
	"rab/internal/storage"
)

// Server speaks MCP over newline-delimited JSON-RPC on stdio and fronts a
// single analyzer session for the workspace.
type Server struct {
	stdin   io.Reader
	stdout  io.Writer
	scanner *bufio.Scanner
	logger  *logging.Logger
	version string

	workspaceRoot string
	session       *analyzer.Session
	cache         *storage.SymbolCache

	tools map[string]ToolHandler
}

// NewServer creates a new MCP server. The cache may be nil, in which case
// workspace symbol lookups always go to the analyzer.
func NewServer(version string, session *analyzer.Session, cache *storage.SymbolCache, workspaceRoot string, logger *logging.Logger) *Server {
	server := &Server{
		stdin:         os.Stdin,
		stdout:        os.Stdout,
		logger:        logger,
		version:       version,
		workspaceRoot: workspaceRoot,
		session:       session,
		cache:         cache,
		tools:         make(map[string]ToolHandler),
	}

	server.RegisterTools()

	return server
}

// Start starts the MCP server and begins processing messages
func (s *Server) Start() error {
	s.logger.Info("MCP server starting", map[string]interface{}{
		"version":   s.version,
		"workspace": s.workspaceRoot,
	})

	for {
		msg, err := s.readMessage()
		if err != nil {
			if err == io.EOF {
				s.logger.Info("MCP server shutting down (EOF)", nil)
				return nil
			}
			s.logger.Error("Error reading message", map[string]interface{}{
				"error": err.Error(),
			})

			if msg != nil && msg.Id != nil {
				_ = s.writeError(msg.Id, ParseError, "Failed to parse message: "+err.Error())
			}
			continue
		}

		response := s.handleMessage(msg)

		// Notifications don't generate responses
		if response != nil {
			if err := s.writeMessage(response); err != nil {
				s.logger.Error("Error writing response", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
}

// SetStdin sets the input stream (for testing)
func (s *Server) SetStdin(r io.Reader) {
	s.stdin = r
	s.scanner = nil
}

// SetStdout sets the output stream (for testing)
func (s *Server) SetStdout(w io.Writer) {
	s.stdout = w
}
