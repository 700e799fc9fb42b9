package board

import (
	"context"
	"database/sql"
	"time"

	"github.com/agentboard/agentboard/internal/db"
	"github.com/agentboard/agentboard/internal/types"
)

// SweepResult reports one liveness sweep: the agents just taken offline and
// the tasks an orchestrator may now reassign. The sweeper never reassigns.
type SweepResult struct {
	OfflineAgents []types.OfflineAgent     `json:"offline_agents"`
	Reassignable  []types.ReassignableTask `json:"reassignable_tasks"`
	CheckedAt     int64                    `json:"checked_at"`
}

// CheckOffline detaches agents whose heartbeat is older than the timeout:
// each goes offline with a disconnect stamp, and a running task it held fails
// with "agent offline". The call is idempotent; already-offline agents are
// skipped. There is no internal timer, callers drive the sweep.
func (s *Service) CheckOffline(ctx context.Context, timeout time.Duration) (SweepResult, error) {
	if timeout <= 0 {
		timeout = s.cfg.Liveness.OfflineAfter
	}
	now := s.now().Unix()
	result := SweepResult{
		OfflineAgents: []types.OfflineAgent{},
		Reassignable:  []types.ReassignableTask{},
		CheckedAt:     now,
	}
	cutoff := now - int64(timeout.Seconds())

	err := s.pool.With(ctx, func(conn *sql.DB) error {
		stale, err := db.StaleWaiters(conn, cutoff)
		if err != nil {
			return err
		}
		for _, a := range stale {
			if err := db.MarkOffline(conn, a.AgentID, now); err != nil {
				return err
			}
			if a.CurrentTaskID != nil && *a.CurrentTaskID != "" {
				failed, err := db.FailRunningTask(conn, *a.CurrentTaskID, "agent offline", now)
				if err != nil {
					return err
				}
				if failed {
					s.log.Info("failed task of offline agent",
						"agent_id", a.AgentID, "task_id", *a.CurrentTaskID)
				}
			}
			result.OfflineAgents = append(result.OfflineAgents, types.OfflineAgent{
				AgentID:         a.AgentID,
				CurrentTaskID:   a.CurrentTaskID,
				Status:          a.Status,
				LastHeartbeat:   a.Heartbeat,
				OfflineDuration: now - a.Heartbeat,
			})
		}

		result.Reassignable, err = db.ReassignableTasks(conn)
		return err
	})
	if err != nil {
		return SweepResult{}, err
	}
	if result.Reassignable == nil {
		result.Reassignable = []types.ReassignableTask{}
	}
	return result, nil
}
