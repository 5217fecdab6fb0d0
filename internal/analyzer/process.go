// Package analyzer runs and talks to a rust-analyzer subprocess over
// JSON-RPC with Content-Length framing on stdio.
package analyzer

import (
	"io"
	"os/exec"
	"sync"
	"time"

	"rab/internal/errors"
	"rab/internal/logging"
)

// State represents the lifecycle state of the analyzer process.
type State string

const (
	// StateStarting indicates the process is being spawned
	StateStarting State = "starting"
	// StateInitializing indicates the initialize handshake is in flight
	StateInitializing State = "initializing"
	// StateReady indicates the process is ready to handle requests
	StateReady State = "ready"
	// StateUnhealthy indicates the process is not responding properly
	StateUnhealthy State = "unhealthy"
	// StateDead indicates the process has terminated
	StateDead State = "dead"
)

// DefaultRequestTimeout bounds how long a single request may wait when
// no explicit timeout is configured. A timeout of zero waits forever;
// rust-analyzer holds replies while it is still indexing, so spawned
// sessions get their timeout from configuration instead.
const DefaultRequestTimeout = 30 * time.Second

// Process is a running analyzer subprocess plus its wire plumbing: the
// monotonic request-id counter, the pending-request table the read loop
// uses to route replies, and the diagnostics store fed by server pushes.
type Process struct {
	// WorkspaceRoot is the workspace directory the analyzer was started for
	WorkspaceRoot string

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser

	state State
	mu    sync.RWMutex

	// nextID is the next request id; ids start at 1 and only grow
	nextID  int
	pending map[int]chan *rpcMessage
	// pendingMu also serializes writes to stdin so frames never interleave
	pendingMu sync.Mutex

	// fatalErr records the error that killed the read loop, if any
	fatalErr error
	fatalMu  sync.Mutex

	done      chan struct{}
	closeOnce sync.Once

	diagnostics    *DiagnosticsStore
	logger         *logging.Logger
	requestTimeout time.Duration
}

func newProcess(workspaceRoot string, logger *logging.Logger) *Process {
	return &Process{
		WorkspaceRoot:  workspaceRoot,
		state:          StateStarting,
		nextID:         1,
		pending:        make(map[int]chan *rpcMessage),
		done:           make(chan struct{}),
		diagnostics:    NewDiagnosticsStore(),
		logger:         logger,
		requestTimeout: DefaultRequestTimeout,
	}
}

// Spawn starts the analyzer binary with piped stdio and begins the read
// loops. The caller still has to run the initialize handshake. A zero
// requestTimeout means requests block until the analyzer answers.
func Spawn(path string, args []string, workspaceRoot string, requestTimeout time.Duration, logger *logging.Logger) (*Process, error) {
	p := newProcess(workspaceRoot, logger)
	p.requestTimeout = requestTimeout

	cmd := exec.Command(path, args...)
	cmd.Dir = workspaceRoot

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(errors.SubprocessIO, "failed to create stdin pipe", err)
	}
	p.stdin = stdin

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(errors.SubprocessIO, "failed to create stdout pipe", err)
	}
	p.stdout = stdout

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, errors.Wrap(errors.SubprocessIO, "failed to create stderr pipe", err)
	}
	p.stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, errors.Wrap(errors.AnalyzerUnavailable, "failed to start rust-analyzer", err)
	}
	p.cmd = cmd

	go p.readLoop()
	go p.stderrLoop()

	return p, nil
}

// newPipeProcess wires a Process to caller-supplied streams instead of a
// real subprocess. Tests drive the other end.
func newPipeProcess(stdin io.WriteCloser, stdout io.ReadCloser, workspaceRoot string, logger *logging.Logger) *Process {
	p := newProcess(workspaceRoot, logger)
	p.stdin = stdin
	p.stdout = stdout
	go p.readLoop()
	return p
}

// GetState returns the current state (thread-safe)
func (p *Process) GetState() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// SetState sets the current state (thread-safe)
func (p *Process) SetState(state State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = state
}

// IsHealthy returns true if the process is ready to handle requests
func (p *Process) IsHealthy() bool {
	return p.GetState() == StateReady
}

// Diagnostics returns the store the read loop publishes into.
func (p *Process) Diagnostics() *DiagnosticsStore {
	return p.diagnostics
}

func (p *Process) setFatal(err error) {
	p.fatalMu.Lock()
	defer p.fatalMu.Unlock()
	if p.fatalErr == nil {
		p.fatalErr = err
	}
}

// FatalError returns the error that terminated the read loop, or nil.
func (p *Process) FatalError() error {
	p.fatalMu.Lock()
	defer p.fatalMu.Unlock()
	return p.fatalErr
}

// Shutdown gracefully shuts down the analyzer process. It is safe to call
// more than once.
func (p *Process) Shutdown() error {
	p.closeOnce.Do(func() {
		close(p.done)
	})

	if p.stdin != nil {
		_ = p.sendNotification("shutdown", nil)
		_ = p.sendNotification("exit", nil)
		p.stdin.Close()
	}
	if p.stdout != nil {
		p.stdout.Close()
	}
	if p.stderr != nil {
		p.stderr.Close()
	}
	if p.cmd != nil && p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}

	p.SetState(StateDead)
	return nil
}

// stderrLoop drains stderr so the subprocess never blocks on a full pipe.
func (p *Process) stderrLoop() {
	if p.stderr == nil {
		return
	}

	buf := make([]byte, 4096)
	for {
		select {
		case <-p.done:
			return
		default:
			n, err := p.stderr.Read(buf)
			if err != nil {
				return
			}
			if n > 0 && p.logger != nil {
				p.logger.Debug("rust-analyzer stderr", map[string]interface{}{
					"output": string(buf[:n]),
				})
			}
		}
	}
}
