package db

import (
	"database/sql"
	"time"
)

// RetentionPolicy bounds the lazy pruning pass that runs before message
// reads. Zero values disable the corresponding rule.
type RetentionPolicy struct {
	MinContentLen int           // delete messages shorter than this
	Dedup         bool          // delete duplicate (content, sender) pairs, keep newest
	MaxAge        time.Duration // delete messages older than this
}

// RetentionResult reports how many rows each rule removed.
type RetentionResult struct {
	Short      int64 `json:"short"`
	Duplicates int64 `json:"duplicates"`
	Stale      int64 `json:"stale"`
}

// ApplyRetention prunes in one transaction: short messages, duplicate
// (content, sender) pairs, and messages past the age window. Short-message
// pruning destroys one-word replies; it is off unless configured.
func ApplyRetention(conn *sql.DB, pol RetentionPolicy, now time.Time) (RetentionResult, error) {
	var result RetentionResult
	if pol.MinContentLen <= 0 && !pol.Dedup && pol.MaxAge <= 0 {
		return result, nil
	}

	tx, err := conn.Begin()
	if err != nil {
		return result, err
	}
	defer func() { _ = tx.Rollback() }()

	if pol.MinContentLen > 0 {
		res, err := tx.Exec(`DELETE FROM messages WHERE length(content) < ?`, pol.MinContentLen)
		if err != nil {
			return result, err
		}
		result.Short, _ = res.RowsAffected()
	}

	if pol.Dedup {
		res, err := tx.Exec(`
			DELETE FROM messages
			WHERE rowid NOT IN (
				SELECT MAX(rowid) FROM messages GROUP BY content, sender
			)
		`)
		if err != nil {
			return result, err
		}
		result.Duplicates, _ = res.RowsAffected()
	}

	if pol.MaxAge > 0 {
		cutoff := now.Add(-pol.MaxAge).Unix()
		res, err := tx.Exec(`DELETE FROM messages WHERE timestamp < ?`, cutoff)
		if err != nil {
			return result, err
		}
		result.Stale, _ = res.RowsAffected()
	}

	return result, tx.Commit()
}
