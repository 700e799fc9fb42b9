package core

import (
	"fmt"
	"os"
	"path/filepath"
)

// StateDir resolves the per-user state directory: MESSAGE_BOARD_DIR if set,
// otherwise ~/.message_board.
func StateDir() string {
	if dir := os.Getenv("MESSAGE_BOARD_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".message_board"
	}
	return filepath.Join(home, ".message_board")
}

// EnsureStateDir creates the state directory if absent.
func EnsureStateDir(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	return nil
}

// DBPath returns the path of the board database inside a state directory.
func DBPath(stateDir string) string {
	return filepath.Join(stateDir, "board.db")
}

// ProtocolPath returns the path of the on-disk protocol document.
func ProtocolPath(stateDir string) string {
	return filepath.Join(stateDir, "PROTOCOL.md")
}
