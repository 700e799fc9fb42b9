package db

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := Open(filepath.Join(t.TempDir(), "board.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

func requireSchema(t *testing.T, conn *sql.DB) {
	t.Helper()
	if err := InitSchema(conn); err != nil {
		t.Fatalf("init schema: %v", err)
	}
}

func strPtr(value string) *string {
	return &value
}
