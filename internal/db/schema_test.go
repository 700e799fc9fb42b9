package db

import (
	"testing"
)

func TestInitSchemaCreatesTables(t *testing.T) {
	conn := openTestDB(t)
	requireSchema(t, conn)

	for _, table := range []string{"messages", "tasks", "waiting_agents", "clients"} {
		columns, err := getTableInfo(conn, table)
		if err != nil {
			t.Fatalf("table info %s: %v", table, err)
		}
		if len(columns) == 0 {
			t.Fatalf("table %s missing", table)
		}
	}
}

func TestInitSchemaIsIdempotent(t *testing.T) {
	conn := openTestDB(t)
	requireSchema(t, conn)
	requireSchema(t, conn)
}

func TestMigrateAddsMissingColumns(t *testing.T) {
	conn := openTestDB(t)

	// An older board file: messages without the later columns.
	_, err := conn.Exec(`
		CREATE TABLE messages (
			id TEXT PRIMARY KEY,
			sender TEXT NOT NULL,
			content TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			read INTEGER NOT NULL DEFAULT 0,
			reply_to TEXT,
			priority TEXT NOT NULL DEFAULT 'normal'
		)
	`)
	if err != nil {
		t.Fatalf("create legacy table: %v", err)
	}
	_, err = conn.Exec(`INSERT INTO messages (id, sender, content, timestamp) VALUES ('m1', 'alice', 'hi', 100)`)
	if err != nil {
		t.Fatalf("insert legacy row: %v", err)
	}

	requireSchema(t, conn)

	columns, err := getTableInfo(conn, "messages")
	if err != nil {
		t.Fatalf("table info: %v", err)
	}
	for _, want := range []string{"metadata", "session_id", "delivery_status"} {
		if !hasColumn(columns, want) {
			t.Fatalf("column %s not added", want)
		}
	}

	// The pre-existing row survives with defaults.
	m, err := GetMessage(conn, "m1")
	if err != nil {
		t.Fatalf("get message: %v", err)
	}
	if m == nil || m.Content != "hi" {
		t.Fatalf("legacy row lost: %+v", m)
	}
	if m.DeliveryStatus != "pending" {
		t.Fatalf("unexpected delivery status: %q", m.DeliveryStatus)
	}
}
