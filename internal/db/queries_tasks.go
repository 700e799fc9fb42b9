package db

import (
	"database/sql"
	"strings"

	"github.com/agentboard/agentboard/internal/types"
)

const taskColumns = `id, title, description, status, assigned_to, created_by, priority, progress, created_at, updated_at, started_at, completed_at, error_message, result`

// InsertTask inserts a new pending task.
func InsertTask(conn DBTX, t types.Task) error {
	_, err := conn.Exec(`
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Title, nullIfEmpty(t.Description), t.Status, t.AssignedTo, t.CreatedBy,
		t.Priority, t.Progress, t.CreatedAt, t.UpdatedAt, t.StartedAt, t.CompletedAt,
		t.ErrorMessage, t.Result)
	return err
}

// GetTask returns one task by id, or nil.
func GetTask(conn DBTX, id string) (*types.Task, error) {
	rows, err := conn.Query(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, nil
	}
	return &tasks[0], nil
}

// ListTasks returns tasks newest-first, honoring the filter.
func ListTasks(conn DBTX, f types.TaskFilter) ([]types.Task, error) {
	var conditions []string
	var params []any

	if f.AssignedTo != "" {
		conditions = append(conditions, "assigned_to = ?")
		params = append(params, f.AssignedTo)
	}
	if f.Status != "" {
		conditions = append(conditions, "status = ?")
		params = append(params, f.Status)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	params = append(params, limit)

	rows, err := conn.Query(query, params...)
	if err != nil {
		return nil, err
	}
	return scanTasks(rows)
}

// UpdateTask applies a partial update at time now. Completed and failed are
// terminal: updates against a terminal task change nothing and report false.
// Entering running stamps started_at; entering a terminal state stamps
// completed_at.
func UpdateTask(conn DBTX, id string, u types.TaskUpdates, now int64) (bool, error) {
	var sets []string
	var params []any

	if u.Status != nil {
		sets = append(sets, "status = ?")
		params = append(params, *u.Status)
		switch *u.Status {
		case types.TaskRunning:
			sets = append(sets, "started_at = COALESCE(started_at, ?)")
			params = append(params, now)
		case types.TaskCompleted, types.TaskFailed:
			sets = append(sets, "completed_at = ?")
			params = append(params, now)
		}
	}
	if u.Result != nil {
		sets = append(sets, "result = ?")
		params = append(params, *u.Result)
	}
	if len(sets) == 0 {
		return false, nil
	}

	sets = append(sets, "updated_at = ?")
	params = append(params, now, id)

	res, err := conn.Exec(`
		UPDATE tasks SET `+strings.Join(sets, ", ")+`
		WHERE id = ? AND status NOT IN ('completed', 'failed')
	`, params...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// CancelTask fails a non-terminal task with a cancellation marker. Reports
// false when the task is unknown or already finished.
func CancelTask(conn DBTX, id string, now int64) (bool, error) {
	res, err := conn.Exec(`
		UPDATE tasks
		SET status = 'failed', error_message = 'cancelled', completed_at = ?, updated_at = ?
		WHERE id = ? AND status NOT IN ('completed', 'failed')
	`, now, now, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// UpdateTaskProgress raises a running task's progress. Progress never
// decreases.
func UpdateTaskProgress(conn DBTX, id string, progress int, now int64) error {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	_, err := conn.Exec(`
		UPDATE tasks SET progress = MAX(progress, ?), updated_at = ? WHERE id = ?
	`, progress, now, id)
	return err
}

// SyncTaskStatus force-sets a task's lifecycle status from an agent status
// report (working -> running, otherwise pending). Terminal tasks are left
// alone.
func SyncTaskStatus(conn DBTX, id, status string, now int64) error {
	_, err := conn.Exec(`
		UPDATE tasks SET status = ?, updated_at = ?
		WHERE id = ? AND status NOT IN ('completed', 'failed')
	`, status, now, id)
	return err
}

// FailRunningTask marks a running task failed with the given reason; used by
// the liveness sweeper when the owning agent goes dark.
func FailRunningTask(conn DBTX, id, reason string, now int64) (bool, error) {
	res, err := conn.Exec(`
		UPDATE tasks
		SET status = 'failed', error_message = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND status = 'running'
	`, reason, now, now, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ReassignableTasks lists pending and failed tasks oldest-first; these are
// the candidates an orchestrator re-creates after a sweep.
func ReassignableTasks(conn DBTX) ([]types.ReassignableTask, error) {
	rows, err := conn.Query(`
		SELECT id, title, assigned_to FROM tasks
		WHERE status IN ('pending', 'failed')
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []types.ReassignableTask
	for rows.Next() {
		var t types.ReassignableTask
		if err := rows.Scan(&t.TaskID, &t.Title, &t.AssignedTo); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// CountTasksByStatus returns the number of tasks in one status.
func CountTasksByStatus(conn DBTX, status string) (int64, error) {
	var n int64
	err := conn.QueryRow(`SELECT COUNT(*) FROM tasks WHERE status = ?`, status).Scan(&n)
	return n, err
}

// ActiveTasksFor returns an agent's pending and running tasks newest-first.
func ActiveTasksFor(conn DBTX, agentID string) ([]types.Task, error) {
	rows, err := conn.Query(`
		SELECT `+taskColumns+` FROM tasks
		WHERE assigned_to = ? AND status IN ('pending', 'running')
		ORDER BY created_at DESC
	`, agentID)
	if err != nil {
		return nil, err
	}
	return scanTasks(rows)
}

func scanTasks(rows *sql.Rows) ([]types.Task, error) {
	defer rows.Close()
	var tasks []types.Task
	for rows.Next() {
		var (
			t    types.Task
			desc sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Title, &desc, &t.Status, &t.AssignedTo,
			&t.CreatedBy, &t.Priority, &t.Progress, &t.CreatedAt, &t.UpdatedAt,
			&t.StartedAt, &t.CompletedAt, &t.ErrorMessage, &t.Result); err != nil {
			return nil, err
		}
		t.Description = desc.String
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
