package db

import (
	"database/sql"
	"strings"

	"github.com/agentboard/agentboard/internal/core"
	"github.com/agentboard/agentboard/internal/types"
)

// messageColumns is the explicit column list for SELECT queries. Explicit
// ordering keeps scans stable when migrations append columns.
const messageColumns = `id, sender, content, timestamp, read, reply_to, priority, metadata, session_id, delivery_status`

// InsertMessage inserts one message row.
func InsertMessage(conn DBTX, m types.Message) error {
	_, err := conn.Exec(`
		INSERT INTO messages (`+messageColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.Sender, m.Content, m.Timestamp, boolToInt(m.Read), m.ReplyTo,
		m.Priority, m.Metadata, m.SessionID, m.DeliveryStatus)
	return err
}

// GetMessage returns one message by id, or nil.
func GetMessage(conn DBTX, id string) (*types.Message, error) {
	rows, err := conn.Query(`SELECT `+messageColumns+` FROM messages WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	messages, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, nil
	}
	return &messages[0], nil
}

// sessionClause matches either the first-class session_id column or the
// legacy content prefix, so rows written by older producers keep routing.
func sessionClause(tag string) (string, []any) {
	return "(session_id = ? OR content LIKE ?)", []any{tag, core.SessionPattern(tag)}
}

// ListMessages returns messages newest-first, honoring the filter.
func ListMessages(conn DBTX, f types.MessageFilter) ([]types.Message, error) {
	var conditions []string
	var params []any

	if f.UnreadOnly {
		conditions = append(conditions, "read = 0")
	}
	if f.Sender != "" {
		conditions = append(conditions, "sender = ?")
		params = append(params, f.Sender)
	}
	if f.ClientID != "" {
		conditions = append(conditions, "sender != ?")
		params = append(params, f.ClientID)
	}
	if f.SessionID != "" {
		clause, args := sessionClause(f.SessionID)
		conditions = append(conditions, clause)
		params = append(params, args...)
	}

	query := `SELECT ` + messageColumns + ` FROM messages`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY timestamp DESC"

	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	query += " LIMIT ?"
	params = append(params, limit)

	rows, err := conn.Query(query, params...)
	if err != nil {
		return nil, err
	}
	return scanMessages(rows)
}

// NextUnread returns the oldest unread delivery candidate for a waiter: not
// sent by clientID, newer than lastSeen (when positive), not in the excluded
// set, and matching the session filter when given. Returns nil when nothing
// qualifies.
func NextUnread(conn DBTX, clientID, sessionID string, lastSeen int64, excluded map[string]struct{}) (*types.Message, error) {
	conditions := []string{"read = 0"}
	var params []any

	if clientID != "" {
		conditions = append(conditions, "sender != ?")
		params = append(params, clientID)
	}
	if sessionID != "" {
		clause, args := sessionClause(sessionID)
		conditions = append(conditions, clause)
		params = append(params, args...)
	}
	if lastSeen > 0 {
		conditions = append(conditions, "timestamp > ?")
		params = append(params, lastSeen)
	}
	if len(excluded) > 0 {
		placeholders := make([]string, 0, len(excluded))
		for id := range excluded {
			placeholders = append(placeholders, "?")
			params = append(params, id)
		}
		conditions = append(conditions, "id NOT IN ("+strings.Join(placeholders, ",")+")")
	}

	query := `SELECT ` + messageColumns + ` FROM messages WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY timestamp ASC LIMIT 1`

	rows, err := conn.Query(query, params...)
	if err != nil {
		return nil, err
	}
	messages, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, nil
	}
	return &messages[0], nil
}

// MarkRead flips read=1 for the given ids and returns the number of rows
// actually updated. Unknown ids are ignored.
func MarkRead(conn DBTX, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := make([]string, len(ids))
	params := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		params[i] = id
	}
	res, err := conn.Exec(`UPDATE messages SET read = 1 WHERE id IN (`+strings.Join(placeholders, ",")+`)`, params...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// MarkAllRead marks every message read, or only one sender's when given.
func MarkAllRead(conn DBTX, sender string) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if sender != "" {
		res, err = conn.Exec(`UPDATE messages SET read = 1 WHERE sender = ?`, sender)
	} else {
		res, err = conn.Exec(`UPDATE messages SET read = 1`)
	}
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SearchMessages does a substring match over content with optional sender
// and time-range narrowing.
func SearchMessages(conn DBTX, f types.SearchFilter) ([]types.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE content LIKE ?`
	params := []any{"%" + f.Keyword + "%"}

	if f.Sender != "" {
		query += " AND sender = ?"
		params = append(params, f.Sender)
	}
	if f.Start > 0 {
		query += " AND timestamp >= ?"
		params = append(params, f.Start)
	}
	if f.End > 0 {
		query += " AND timestamp <= ?"
		params = append(params, f.End)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	query += " ORDER BY timestamp DESC LIMIT ?"
	params = append(params, limit)

	rows, err := conn.Query(query, params...)
	if err != nil {
		return nil, err
	}
	return scanMessages(rows)
}

// DeleteMessage removes one message; reports whether a row was deleted.
func DeleteMessage(conn DBTX, id string) (bool, error) {
	res, err := conn.Exec(`DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteOlderThan removes messages with timestamp before cutoff.
func DeleteOlderThan(conn DBTX, cutoff int64) (int64, error) {
	res, err := conn.Exec(`DELETE FROM messages WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// GetMessageStats returns the board-wide counters.
func GetMessageStats(conn DBTX) (types.MessageStats, error) {
	var stats types.MessageStats
	if err := conn.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&stats.Total); err != nil {
		return stats, err
	}
	if err := conn.QueryRow(`SELECT COUNT(*) FROM messages WHERE read = 0`).Scan(&stats.Unread); err != nil {
		return stats, err
	}
	var latest sql.NullInt64
	if err := conn.QueryRow(`SELECT MAX(timestamp) FROM messages`).Scan(&latest); err != nil {
		return stats, err
	}
	if latest.Valid {
		stats.Latest = &latest.Int64
	}
	return stats, nil
}

func scanMessages(rows *sql.Rows) ([]types.Message, error) {
	defer rows.Close()
	var messages []types.Message
	for rows.Next() {
		var (
			m        types.Message
			read     int
			status   sql.NullString
			priority sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.Sender, &m.Content, &m.Timestamp, &read,
			&m.ReplyTo, &priority, &m.Metadata, &m.SessionID, &status); err != nil {
			return nil, err
		}
		m.Read = read != 0
		m.Priority = priority.String
		if m.Priority == "" {
			m.Priority = types.PriorityNormal
		}
		m.DeliveryStatus = status.String
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
