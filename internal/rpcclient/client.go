// Package rpcclient drives an agentboard-mcp process over its stdio pipes.
// The CLI wrapper uses it instead of touching the store directly, so every
// front end goes through the same dispatcher.
package rpcclient

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
)

// Client owns one spawned server process. Calls are serialized; the server
// answers one line per request.
type Client struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader

	mu     sync.Mutex
	nextID int
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

// RPCError is a JSON-RPC error object returned by the server.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Spawn starts the server binary and performs the initialize handshake.
func Spawn(binary string, args ...string) (*Client, error) {
	cmd := exec.Command(binary, args...)
	cmd.Stderr = os.Stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", binary, err)
	}

	c := &Client{cmd: cmd, stdin: stdin, stdout: bufio.NewReader(stdout), nextID: 1}
	if _, err := c.Call("initialize", map[string]any{}); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("initialize: %w", err)
	}
	return c, nil
}

// Call sends one request and reads its response line.
func (c *Client) Call(method string, params any) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	line, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params})
	if err != nil {
		return nil, err
	}
	line = append(line, '\n')
	if _, err := c.stdin.Write(line); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}

	raw, err := c.stdout.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	var resp rpcResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.Result, nil
}

// CallTool invokes a tool and unwraps the text content element back into the
// tool's JSON result.
func (c *Client) CallTool(name string, arguments any) (json.RawMessage, error) {
	result, err := c.Call("tools/call", map[string]any{
		"name":      name,
		"arguments": arguments,
	})
	if err != nil {
		return nil, err
	}
	var wrapper struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(result, &wrapper); err != nil {
		return nil, fmt.Errorf("decode tool result: %w", err)
	}
	if len(wrapper.Content) == 0 {
		return nil, fmt.Errorf("tool %s: empty result", name)
	}
	return json.RawMessage(wrapper.Content[0].Text), nil
}

// Close shuts the server down and reaps the process.
func (c *Client) Close() error {
	c.mu.Lock()
	line, _ := json.Marshal(rpcRequest{JSONRPC: "2.0", Method: "shutdown"})
	_, _ = c.stdin.Write(append(line, '\n'))
	_ = c.stdin.Close()
	c.mu.Unlock()
	return c.cmd.Wait()
}
