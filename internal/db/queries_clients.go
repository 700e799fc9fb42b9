package db

import (
	"database/sql"

	"github.com/agentboard/agentboard/internal/types"
)

// UpsertClient registers a wrapper client or refreshes its record.
func UpsertClient(conn DBTX, c types.Client) error {
	_, err := conn.Exec(`
		INSERT INTO clients (id, name, last_seen, config)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			last_seen = excluded.last_seen,
			config = COALESCE(excluded.config, config)
	`, c.ID, c.Name, c.LastSeen, c.Config)
	return err
}

// GetClient returns one client record, or nil.
func GetClient(conn DBTX, id string) (*types.Client, error) {
	rows, err := conn.Query(`SELECT id, name, last_seen, config FROM clients WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	clients, err := scanClients(rows)
	if err != nil {
		return nil, err
	}
	if len(clients) == 0 {
		return nil, nil
	}
	return &clients[0], nil
}

// ListClients returns all registered clients, most recently seen first.
func ListClients(conn DBTX) ([]types.Client, error) {
	rows, err := conn.Query(`SELECT id, name, last_seen, config FROM clients ORDER BY last_seen DESC`)
	if err != nil {
		return nil, err
	}
	return scanClients(rows)
}

// TouchClient bumps a client's last_seen; unknown ids are ignored.
func TouchClient(conn DBTX, id string, now int64) error {
	_, err := conn.Exec(`UPDATE clients SET last_seen = ? WHERE id = ?`, now, id)
	return err
}

func scanClients(rows *sql.Rows) ([]types.Client, error) {
	defer rows.Close()
	var clients []types.Client
	for rows.Next() {
		var (
			c    types.Client
			seen sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &c.Name, &seen, &c.Config); err != nil {
			return nil, err
		}
		c.LastSeen = seen.Int64
		clients = append(clients, c)
	}
	return clients, rows.Err()
}
