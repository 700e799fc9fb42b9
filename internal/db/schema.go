package db

import (
	"database/sql"
	"fmt"
)

const schemaSQL = `
-- Board messages
CREATE TABLE IF NOT EXISTS messages (
  id TEXT PRIMARY KEY,                  -- v4 UUID
  sender TEXT NOT NULL,                 -- agent identity
  content TEXT NOT NULL,                -- opaque payload
  timestamp INTEGER NOT NULL,           -- unix seconds at insertion
  read INTEGER NOT NULL DEFAULT 0,
  reply_to TEXT,                        -- advisory; may dangle after retention
  priority TEXT NOT NULL DEFAULT 'normal',
  metadata TEXT,                        -- JSON blob
  session_id TEXT,                      -- per-instance routing tag
  delivery_status TEXT NOT NULL DEFAULT 'pending'
);

CREATE INDEX IF NOT EXISTS idx_messages_read ON messages(read);
CREATE INDEX IF NOT EXISTS idx_messages_timestamp ON messages(timestamp);
CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender);
CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id);

-- Tasks
CREATE TABLE IF NOT EXISTS tasks (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  assigned_to TEXT NOT NULL,
  created_by TEXT NOT NULL,
  priority TEXT NOT NULL DEFAULT 'normal',
  progress INTEGER NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL,
  started_at INTEGER,
  completed_at INTEGER,
  error_message TEXT,
  result TEXT
);

CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_assigned_to ON tasks(assigned_to);
CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at);

-- Waiting agents (one row per agent_id, upsert semantics)
CREATE TABLE IF NOT EXISTS waiting_agents (
  id TEXT PRIMARY KEY,                  -- deterministic: "wait_<agent_id>"
  agent_id TEXT NOT NULL UNIQUE,
  agent_type TEXT NOT NULL,
  waiting_since INTEGER NOT NULL,
  capabilities TEXT,
  status TEXT NOT NULL DEFAULT 'idle',
  current_task_id TEXT,
  heartbeat INTEGER NOT NULL DEFAULT 0,
  is_online INTEGER NOT NULL DEFAULT 1,
  last_disconnect INTEGER
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_waiting_agents_agent_id ON waiting_agents(agent_id);

-- Registered wrapper clients
CREATE TABLE IF NOT EXISTS clients (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  last_seen INTEGER,
  config TEXT
);
`

// InitSchema creates all tables and indexes if absent, then applies
// forward-only column additions for database files created by older
// versions.
func InitSchema(conn *sql.DB) error {
	if _, err := conn.Exec(schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if err := migrateSchema(conn); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

type tableColumn struct {
	Name string
	Type string
}

func getTableInfo(conn DBTX, table string) ([]tableColumn, error) {
	rows, err := conn.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []tableColumn
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return nil, err
		}
		columns = append(columns, tableColumn{Name: name, Type: typ})
	}
	return columns, rows.Err()
}

func hasColumn(columns []tableColumn, name string) bool {
	for _, c := range columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// migrateSchema probes column presence and adds anything missing with a
// default. Older board files predate metadata/session_id on messages, the
// progress and completion bookkeeping on tasks, and the whole liveness
// surface on waiting_agents.
func migrateSchema(conn DBTX) error {
	additions := []struct {
		table  string
		column string
		ddl    string
	}{
		{"messages", "metadata", "ALTER TABLE messages ADD COLUMN metadata TEXT"},
		{"messages", "session_id", "ALTER TABLE messages ADD COLUMN session_id TEXT"},
		{"messages", "delivery_status", "ALTER TABLE messages ADD COLUMN delivery_status TEXT NOT NULL DEFAULT 'pending'"},
		{"tasks", "progress", "ALTER TABLE tasks ADD COLUMN progress INTEGER NOT NULL DEFAULT 0"},
		{"tasks", "started_at", "ALTER TABLE tasks ADD COLUMN started_at INTEGER"},
		{"tasks", "completed_at", "ALTER TABLE tasks ADD COLUMN completed_at INTEGER"},
		{"tasks", "error_message", "ALTER TABLE tasks ADD COLUMN error_message TEXT"},
		{"waiting_agents", "status", "ALTER TABLE waiting_agents ADD COLUMN status TEXT NOT NULL DEFAULT 'idle'"},
		{"waiting_agents", "current_task_id", "ALTER TABLE waiting_agents ADD COLUMN current_task_id TEXT"},
		{"waiting_agents", "heartbeat", "ALTER TABLE waiting_agents ADD COLUMN heartbeat INTEGER NOT NULL DEFAULT 0"},
		{"waiting_agents", "is_online", "ALTER TABLE waiting_agents ADD COLUMN is_online INTEGER NOT NULL DEFAULT 1"},
		{"waiting_agents", "last_disconnect", "ALTER TABLE waiting_agents ADD COLUMN last_disconnect INTEGER"},
	}

	infos := map[string][]tableColumn{}
	for _, a := range additions {
		columns, ok := infos[a.table]
		if !ok {
			var err error
			columns, err = getTableInfo(conn, a.table)
			if err != nil {
				return err
			}
			infos[a.table] = columns
		}
		if hasColumn(columns, a.column) {
			continue
		}
		if _, err := conn.Exec(a.ddl); err != nil {
			return fmt.Errorf("add %s.%s: %w", a.table, a.column, err)
		}
	}
	return nil
}
