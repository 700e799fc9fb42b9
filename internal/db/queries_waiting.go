package db

import (
	"database/sql"

	"github.com/agentboard/agentboard/internal/types"
)

const waitingColumns = `id, agent_id, agent_type, waiting_since, capabilities, status, current_task_id, heartbeat, is_online, last_disconnect`

// UpsertWaiting registers an agent as waiting, or refreshes its existing row.
// The row id is deterministic ("wait_<agent_id>") and agent_id is unique, so
// repeated registrations never accumulate rows. The heartbeat only moves
// forward.
func UpsertWaiting(conn DBTX, a types.WaitingAgent) error {
	_, err := conn.Exec(`
		INSERT INTO waiting_agents (`+waitingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(agent_id) DO UPDATE SET
			agent_type = excluded.agent_type,
			waiting_since = excluded.waiting_since,
			capabilities = COALESCE(excluded.capabilities, capabilities),
			status = excluded.status,
			current_task_id = excluded.current_task_id,
			heartbeat = MAX(heartbeat, excluded.heartbeat),
			is_online = 1,
			last_disconnect = NULL
	`, "wait_"+a.AgentID, a.AgentID, a.AgentType, a.WaitingSince, a.Capabilities,
		a.Status, a.CurrentTaskID, a.Heartbeat, boolToInt(a.IsOnline), a.LastDisconnect)
	return err
}

// DeleteWaiting removes an agent's registry row; reports whether one existed.
func DeleteWaiting(conn DBTX, agentID string) (bool, error) {
	res, err := conn.Exec(`DELETE FROM waiting_agents WHERE agent_id = ?`, agentID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// UpdateHeartbeat advances an agent's heartbeat, never moving it backwards,
// and marks the agent online again if a sweep had flagged it.
func UpdateHeartbeat(conn DBTX, agentID string, now int64) (bool, error) {
	res, err := conn.Exec(`
		UPDATE waiting_agents
		SET heartbeat = MAX(heartbeat, ?), is_online = 1, last_disconnect = NULL
		WHERE agent_id = ?
	`, now, agentID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// UpdateWaitingStatus sets an agent's reported status and current task,
// restarting the waiting clock and refreshing the heartbeat.
func UpdateWaitingStatus(conn DBTX, agentID, status string, taskID *string, now int64) (bool, error) {
	res, err := conn.Exec(`
		UPDATE waiting_agents
		SET status = ?, current_task_id = ?, waiting_since = ?, heartbeat = MAX(heartbeat, ?), is_online = 1
		WHERE agent_id = ?
	`, status, taskID, now, now, agentID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// GetWaiting returns one agent's registry row, or nil.
func GetWaiting(conn DBTX, agentID string) (*types.WaitingAgent, error) {
	rows, err := conn.Query(`SELECT `+waitingColumns+` FROM waiting_agents WHERE agent_id = ?`, agentID)
	if err != nil {
		return nil, err
	}
	agents, err := scanWaiting(rows)
	if err != nil {
		return nil, err
	}
	if len(agents) == 0 {
		return nil, nil
	}
	return &agents[0], nil
}

// ListWaiting returns registry rows ordered by how long each agent has been
// waiting, longest first. agentType narrows the result when non-empty.
func ListWaiting(conn DBTX, agentType string) ([]types.WaitingAgent, error) {
	query := `SELECT ` + waitingColumns + ` FROM waiting_agents`
	var params []any
	if agentType != "" {
		query += " WHERE agent_type = ?"
		params = append(params, agentType)
	}
	query += " ORDER BY waiting_since ASC"

	rows, err := conn.Query(query, params...)
	if err != nil {
		return nil, err
	}
	return scanWaiting(rows)
}

// StaleWaiters returns online agents whose heartbeat is at or before cutoff.
func StaleWaiters(conn DBTX, cutoff int64) ([]types.WaitingAgent, error) {
	rows, err := conn.Query(`
		SELECT `+waitingColumns+` FROM waiting_agents
		WHERE is_online = 1 AND heartbeat <= ?
		ORDER BY heartbeat ASC
	`, cutoff)
	if err != nil {
		return nil, err
	}
	return scanWaiting(rows)
}

// MarkOffline flags an agent as disconnected without deleting its row, so the
// registry keeps the disconnect time for status reporting.
func MarkOffline(conn DBTX, agentID string, now int64) error {
	_, err := conn.Exec(`
		UPDATE waiting_agents SET is_online = 0, last_disconnect = ? WHERE agent_id = ?
	`, now, agentID)
	return err
}

func scanWaiting(rows *sql.Rows) ([]types.WaitingAgent, error) {
	defer rows.Close()
	var agents []types.WaitingAgent
	for rows.Next() {
		var (
			a      types.WaitingAgent
			online int
		)
		if err := rows.Scan(&a.ID, &a.AgentID, &a.AgentType, &a.WaitingSince,
			&a.Capabilities, &a.Status, &a.CurrentTaskID, &a.Heartbeat,
			&online, &a.LastDisconnect); err != nil {
			return nil, err
		}
		a.IsOnline = online != 0
		agents = append(agents, a)
	}
	return agents, rows.Err()
}
