package board

import (
	"context"
	"database/sql"

	"github.com/agentboard/agentboard/internal/db"
	"github.com/agentboard/agentboard/internal/types"
)

// SystemStats is the broker-wide health snapshot.
type SystemStats struct {
	Messages       types.MessageStats `json:"messages"`
	TasksPending   int64              `json:"tasks_pending"`
	TasksRunning   int64              `json:"tasks_running"`
	TasksCompleted int64              `json:"tasks_completed"`
	TasksFailed    int64              `json:"tasks_failed"`
	WaitingAgents  int                `json:"waiting_agents"`
	OnlineAgents   int                `json:"online_agents"`
	TimedOutAgents int                `json:"timed_out_agents"`
}

// Stats gathers the system-wide counters in one pool lease.
func (s *Service) Stats(ctx context.Context) (SystemStats, error) {
	var stats SystemStats
	err := s.pool.With(ctx, func(conn *sql.DB) error {
		var err error
		if stats.Messages, err = db.GetMessageStats(conn); err != nil {
			return err
		}
		counts := []struct {
			status string
			dst    *int64
		}{
			{types.TaskPending, &stats.TasksPending},
			{types.TaskRunning, &stats.TasksRunning},
			{types.TaskCompleted, &stats.TasksCompleted},
			{types.TaskFailed, &stats.TasksFailed},
		}
		for _, c := range counts {
			if *c.dst, err = db.CountTasksByStatus(conn, c.status); err != nil {
				return err
			}
		}
		agents, err := db.ListWaiting(conn, "")
		if err != nil {
			return err
		}
		now := s.now().Unix()
		stats.WaitingAgents = len(agents)
		for _, a := range agents {
			if a.IsOnline {
				stats.OnlineAgents++
			}
			if now-a.Heartbeat > int64(s.cfg.Liveness.TimeoutAfter.Seconds()) {
				stats.TimedOutAgents++
			}
		}
		return nil
	})
	return stats, err
}
