package analyzer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"rab/internal/errors"
	"rab/internal/protocol"
)

// rpcMessage is a JSON-RPC 2.0 message in either direction. Incoming
// params and result stay raw until a caller decodes them.
type rpcMessage struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      *int            `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// rpcError is the error member of a JSON-RPC response.
type rpcError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func marshalParams(params interface{}) (json.RawMessage, error) {
	if params == nil {
		return nil, nil
	}
	data, err := json.Marshal(params)
	if err != nil {
		return nil, errors.Wrap(errors.InternalError, "failed to marshal params", err)
	}
	return data, nil
}

// sendRequest sends a JSON-RPC request and waits for the matching reply.
// The returned bytes are the raw result member.
func (p *Process) sendRequest(method string, params interface{}) (json.RawMessage, error) {
	raw, err := marshalParams(params)
	if err != nil {
		return nil, err
	}

	p.pendingMu.Lock()
	id := p.nextID
	p.nextID++
	respChan := make(chan *rpcMessage, 1)
	p.pending[id] = respChan

	msg := rpcMessage{
		Jsonrpc: "2.0",
		ID:      &id,
		Method:  method,
		Params:  raw,
	}
	err = p.writeMessage(&msg)
	if err != nil {
		delete(p.pending, id)
	}
	p.pendingMu.Unlock()
	if err != nil {
		return nil, errors.Wrap(errors.SubprocessIO, "failed to send "+method, err)
	}

	// A zero timeout leaves the channel nil so the select blocks until
	// the analyzer answers or the session dies.
	var timeout <-chan time.Time
	if p.requestTimeout > 0 {
		timer := time.NewTimer(p.requestTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case resp := <-respChan:
		if resp == nil {
			// Channel closed: the read loop died underneath us.
			if fatal := p.FatalError(); fatal != nil {
				return nil, fatal
			}
			return nil, errors.New(errors.SubprocessIO, "analyzer connection closed")
		}
		if resp.Error != nil {
			return nil, errors.Newf(errors.SubprocessIO,
				"analyzer error [%d] on %s: %s", resp.Error.Code, method, resp.Error.Message)
		}
		return resp.Result, nil
	case <-timeout:
		p.pendingMu.Lock()
		delete(p.pending, id)
		p.pendingMu.Unlock()
		return nil, errors.Newf(errors.SubprocessIO, "request timeout on %s", method)
	case <-p.done:
		return nil, errors.New(errors.SubprocessIO, "analyzer shutting down")
	}
}

// sendNotification sends a JSON-RPC notification (no response expected)
func (p *Process) sendNotification(method string, params interface{}) error {
	raw, err := marshalParams(params)
	if err != nil {
		return err
	}

	msg := rpcMessage{
		Jsonrpc: "2.0",
		Method:  method,
		Params:  raw,
	}

	p.pendingMu.Lock()
	defer p.pendingMu.Unlock()
	return p.writeMessage(&msg)
}

// writeMessage frames and writes one message to the subprocess stdin.
// Callers must hold pendingMu.
func (p *Process) writeMessage(msg *rpcMessage) error {
	if p.stdin == nil {
		return fmt.Errorf("stdin not available")
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(data))

	if _, err := p.stdin.Write([]byte(header)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := p.stdin.Write(data); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}

	return nil
}

// readLoop reads frames from the subprocess until EOF, shutdown, or a
// malformed frame. A malformed frame is fatal: once framing is lost there
// is no way to resynchronize the byte stream, so the loop records the
// error and dies, failing every pending request.
func (p *Process) readLoop() {
	defer func() {
		p.SetState(StateDead)

		p.pendingMu.Lock()
		for _, ch := range p.pending {
			close(ch)
		}
		p.pending = make(map[int]chan *rpcMessage)
		p.pendingMu.Unlock()
	}()

	reader := bufio.NewReader(p.stdout)

	for {
		select {
		case <-p.done:
			return
		default:
		}

		msg, err := p.readMessage(reader)
		if err != nil {
			if err == io.EOF {
				return
			}
			select {
			case <-p.done:
				// Errors during shutdown are just the pipes closing.
				return
			default:
			}
			fatal := errors.Wrap(errors.MalformedFrame, "malformed frame from analyzer", err)
			p.setFatal(fatal)
			if p.logger != nil {
				p.logger.Error("analyzer session lost", map[string]interface{}{
					"error": fatal.Error(),
				})
			}
			return
		}

		p.handleMessage(msg)
	}
}

// readMessage reads one Content-Length framed message.
func (p *Process) readMessage(reader *bufio.Reader) (*rpcMessage, error) {
	headers := make(map[string]string)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			break
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) == 2 {
			headers[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}

	contentLengthStr, ok := headers["Content-Length"]
	if !ok {
		return nil, fmt.Errorf("missing Content-Length header")
	}

	contentLength, err := strconv.Atoi(contentLengthStr)
	if err != nil || contentLength < 0 {
		return nil, fmt.Errorf("invalid Content-Length %q", contentLengthStr)
	}

	content := make([]byte, contentLength)
	if _, err := io.ReadFull(reader, content); err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	var msg rpcMessage
	if err := json.Unmarshal(content, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}

	return &msg, nil
}

// handleMessage routes one incoming message: replies go to the pending
// table, server-initiated traffic to handleServerMessage.
func (p *Process) handleMessage(msg *rpcMessage) {
	if msg.ID != nil && msg.Method == "" {
		p.pendingMu.Lock()
		respChan, ok := p.pending[*msg.ID]
		if ok {
			delete(p.pending, *msg.ID)
		}
		p.pendingMu.Unlock()

		if ok {
			select {
			case respChan <- msg:
			default:
			}
		}
		return
	}

	if msg.Method != "" {
		p.handleServerMessage(msg)
	}
}

// handleServerMessage handles server-initiated notifications and requests.
func (p *Process) handleServerMessage(msg *rpcMessage) {
	switch msg.Method {
	case "textDocument/publishDiagnostics":
		var params protocol.PublishDiagnosticsParams
		if err := json.Unmarshal(msg.Params, &params); err == nil {
			p.diagnostics.Replace(params.URI, params.Diagnostics)
		}
	case "window/logMessage", "$/progress":
		// Ignored.
	}

	// Server requests get an empty reply so the analyzer never stalls
	// waiting on us.
	if msg.ID != nil {
		resp := rpcMessage{
			Jsonrpc: "2.0",
			ID:      msg.ID,
			Result:  json.RawMessage("null"),
		}
		p.pendingMu.Lock()
		_ = p.writeMessage(&resp)
		p.pendingMu.Unlock()
	}
}
