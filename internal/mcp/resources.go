package mcp

import (
	_ "embed"
	"encoding/json"
	"os"

	"github.com/agentboard/agentboard/internal/core"
)

//go:embed protocol.md
var defaultProtocol string

const protocolURI = "protocol://current"

// protocolText returns the protocol document. Operators can override the
// embedded copy by dropping a PROTOCOL.md into the state directory.
func (s *Server) protocolText() (string, error) {
	data, err := os.ReadFile(core.ProtocolPath(s.cfg.StateDir))
	if err == nil {
		return string(data), nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}
	return defaultProtocol, nil
}

func (s *Server) resourceDefinitions() []map[string]any {
	return []map[string]any{
		{
			"uri":         protocolURI,
			"name":        "Coordination protocol",
			"description": "The message and task protocol agents on this board follow.",
			"mimeType":    "text/markdown",
		},
	}
}

func (s *Server) handleResourceRead(raw json.RawMessage) (any, *rpcError) {
	var params struct {
		URI string `json:"uri"`
	}
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, &rpcError{Code: codeInvalidParams, Message: "Invalid params"}
	}
	if params.URI != protocolURI {
		return nil, &rpcError{Code: codeInvalidParams, Message: "Unknown resource: " + params.URI}
	}
	text, err := s.protocolText()
	if err != nil {
		return nil, &rpcError{Code: codeInternal, Message: err.Error()}
	}
	return map[string]any{
		"contents": []map[string]any{
			{"uri": protocolURI, "mimeType": "text/markdown", "text": text},
		},
	}, nil
}
