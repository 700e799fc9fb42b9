package core

import (
	"os"
	"regexp"
)

var agentTypeRe = regexp.MustCompile(`^[a-z-]+`)

// DeriveAgentType extracts the agent category from a client identity by
// taking the leading lower-case/hyphen run, so "qwen3" becomes "qwen" and
// "pvf-analyzer2" becomes "pvf-analyzer". Identities with no such run fall
// back to "generic".
func DeriveAgentType(clientID string) string {
	if m := agentTypeRe.FindString(clientID); m != "" {
		return m
	}
	return "generic"
}

// DefaultClientID returns the agent identity wrappers should assume:
// MESSAGE_CLIENT_ID from the environment, or "unknown".
func DefaultClientID() string {
	if id := os.Getenv("MESSAGE_CLIENT_ID"); id != "" {
		return id
	}
	return "unknown"
}
