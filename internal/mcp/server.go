// Package mcp is the line-delimited JSON-RPC 2.0 front end over stdio. Each
// request is one JSON object per line; each response is one object on its
// own line. Requests are served serially per stream, so a blocking
// wait_for_message call stalls the stream by design.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/agentboard/agentboard/internal/board"
	"github.com/agentboard/agentboard/internal/config"
)

const protocolVersion = "2024-11-05"

// Scanner buffer bound; message content can be large.
const maxLineBytes = 4 << 20

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

const (
	codeParse         = -32700
	codeMethodUnknown = -32601
	codeInvalidParams = -32602
	codeInternal      = -32603
)

// Server dispatches JSON-RPC requests to the board services.
type Server struct {
	name    string
	version string
	svc     *board.Service
	cfg     *config.Config
	log     *slog.Logger
}

// NewServer creates a dispatcher over an initialized Service.
func NewServer(version string, svc *board.Service, cfg *config.Config, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{name: "agentboard", version: version, svc: svc, cfg: cfg, log: log}
}

// Run reads requests from in until EOF, a shutdown request, or ctx
// cancellation, writing one response line per request. Notifications (no id)
// get no response.
func (s *Server) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	writer := bufio.NewWriter(out)
	encoder := json.NewEncoder(writer)

	write := func(resp rpcResponse) {
		resp.JSONRPC = "2.0"
		if err := encoder.Encode(resp); err != nil {
			s.log.Error("encode response", "error", err)
			return
		}
		if err := writer.Flush(); err != nil {
			s.log.Error("flush response", "error", err)
		}
	}

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req rpcRequest
		if err := json.Unmarshal(line, &req); err != nil {
			// The request id is unknowable, so the response carries id null.
			write(rpcResponse{
				ID:    json.RawMessage("null"),
				Error: &rpcError{Code: codeParse, Message: "Parse error"},
			})
			continue
		}
		if req.Method == "" {
			continue
		}

		isNotification := len(req.ID) == 0 || string(req.ID) == "null"
		if isNotification {
			if req.Method == "shutdown" {
				return nil
			}
			continue
		}

		result, rpcErr := s.handleRequest(ctx, req)
		resp := rpcResponse{ID: req.ID}
		if rpcErr != nil {
			resp.Error = rpcErr
		} else {
			resp.Result = result
		}
		write(resp)

		if req.Method == "shutdown" {
			return nil
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read requests: %w", err)
	}
	return nil
}

func (s *Server) handleRequest(ctx context.Context, req rpcRequest) (any, *rpcError) {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req.Params), nil
	case "ping":
		return map[string]any{}, nil
	case "shutdown":
		return map[string]any{}, nil
	case "tools/list":
		return map[string]any{"tools": s.toolDefinitions()}, nil
	case "tools/call":
		return s.handleToolCall(ctx, req.Params)
	case "resources/list":
		return map[string]any{"resources": s.resourceDefinitions()}, nil
	case "resources/read":
		return s.handleResourceRead(req.Params)
	default:
		return nil, &rpcError{Code: codeMethodUnknown, Message: fmt.Sprintf("Method not found: %s", req.Method)}
	}
}

func (s *Server) handleInitialize(raw json.RawMessage) any {
	version := protocolVersion
	if len(raw) > 0 {
		var params struct {
			ProtocolVersion string `json:"protocolVersion"`
		}
		if err := json.Unmarshal(raw, &params); err == nil && params.ProtocolVersion != "" {
			version = params.ProtocolVersion
		}
	}
	return map[string]any{
		"protocolVersion": version,
		"serverInfo": map[string]any{
			"name":    s.name,
			"version": s.version,
		},
		"capabilities": map[string]any{
			"tools":     map[string]any{},
			"resources": map[string]any{},
		},
	}
}

func (s *Server) handleToolCall(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, &rpcError{Code: codeInvalidParams, Message: "Invalid params"}
	}
	if params.Name == "" {
		return nil, &rpcError{Code: codeInvalidParams, Message: "Missing tool name"}
	}

	tool, ok := s.tools()[params.Name]
	if !ok {
		return nil, &rpcError{Code: codeMethodUnknown, Message: fmt.Sprintf("Unknown tool: %s", params.Name)}
	}

	result, err := tool.handler(ctx, params.Arguments)
	if err != nil {
		switch {
		case errors.Is(err, board.ErrValidation):
			return nil, &rpcError{Code: codeInvalidParams, Message: err.Error()}
		case errors.Is(err, board.ErrNotFound):
			// Missing entities are an application outcome, not a protocol
			// failure.
			result = map[string]any{"success": false, "error": err.Error()}
		default:
			s.log.Error("tool call failed", "tool", params.Name, "error", err)
			return nil, &rpcError{Code: codeInternal, Message: err.Error()}
		}
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return nil, &rpcError{Code: codeInternal, Message: err.Error()}
	}
	return map[string]any{
		"content": []map[string]any{
			{"type": "text", "text": string(encoded)},
		},
	}, nil
}
