package core

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// sessionPrefix is the legacy on-the-wire encoding of a session tag inside
// message content: "[session:<tag>] ". New rows carry the tag in the
// session_id column instead, but the decoder stays so rows written by older
// producers keep routing.
const sessionPrefix = "[session:"

const tagAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewSessionTag returns a fresh opaque session tag.
func NewSessionTag() string {
	tag, err := gonanoid.Generate(tagAlphabet, 21)
	if err != nil {
		panic(fmt.Sprintf("generate session tag: %v", err))
	}
	return tag
}

// EncodeSession prepends the legacy session prefix to content.
func EncodeSession(content, tag string) string {
	return sessionPrefix + tag + "] " + content
}

// DecodeSession splits a legacy-encoded content string into the clean
// content and the session tag. Content without the prefix is returned
// unchanged with an empty tag.
func DecodeSession(content string) (clean, tag string) {
	if !strings.HasPrefix(content, sessionPrefix) {
		return content, ""
	}
	end := strings.Index(content[len(sessionPrefix):], "]")
	if end < 0 {
		return content, ""
	}
	end += len(sessionPrefix)
	tag = content[len(sessionPrefix):end]
	return strings.TrimSpace(content[end+1:]), tag
}

// SessionPattern is the LIKE pattern matching legacy rows for a tag.
func SessionPattern(tag string) string {
	return "%" + sessionPrefix + tag + "]%"
}
