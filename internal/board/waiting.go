package board

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agentboard/agentboard/internal/core"
	"github.com/agentboard/agentboard/internal/db"
	"github.com/agentboard/agentboard/internal/types"
)

// RegisterRequest registers an agent in the waiting registry.
type RegisterRequest struct {
	AgentID      string
	AgentType    string
	Capabilities *string
	Status       string
	TaskID       *string
}

// AgentStatusReport is what get_agent_status returns: the registry row plus
// the agent's open tasks.
type AgentStatusReport struct {
	Agent       *types.WaitingAgentView `json:"agent,omitempty"`
	Registered  bool                    `json:"registered"`
	ActiveTasks []types.Task            `json:"active_tasks"`
}

// RegisterWaiting upserts the registry row for an agent. The registry holds
// at most one row per agent_id; repeated calls refresh it.
func (s *Service) RegisterWaiting(ctx context.Context, req RegisterRequest) (types.WaitingAgent, error) {
	if req.AgentID == "" {
		return types.WaitingAgent{}, fmt.Errorf("%w: agent_id is required", ErrValidation)
	}
	agentType := req.AgentType
	if agentType == "" {
		agentType = core.DeriveAgentType(req.AgentID)
	}
	status := req.Status
	if status == "" {
		status = types.AgentIdle
	}
	switch status {
	case types.AgentIdle, types.AgentWorking, types.AgentWaiting:
	default:
		return types.WaitingAgent{}, fmt.Errorf("%w: status %q", ErrValidation, status)
	}
	now := s.now().Unix()
	a := types.WaitingAgent{
		ID:            "wait_" + req.AgentID,
		AgentID:       req.AgentID,
		AgentType:     agentType,
		WaitingSince:  now,
		Capabilities:  req.Capabilities,
		Status:        status,
		CurrentTaskID: req.TaskID,
		Heartbeat:     now,
		IsOnline:      true,
	}
	err := s.pool.With(ctx, func(conn *sql.DB) error {
		return db.UpsertWaiting(conn, a)
	})
	if err != nil {
		return types.WaitingAgent{}, err
	}
	return a, nil
}

// UnregisterWaiting removes an agent's registry row. Unregistering an absent
// agent is not an error.
func (s *Service) UnregisterWaiting(ctx context.Context, agentID string) (bool, error) {
	if agentID == "" {
		return false, fmt.Errorf("%w: agent_id is required", ErrValidation)
	}
	var removed bool
	err := s.pool.With(ctx, func(conn *sql.DB) error {
		var err error
		removed, err = db.DeleteWaiting(conn, agentID)
		return err
	})
	return removed, err
}

// Heartbeat advances an agent's liveness clock, optionally raising the linked
// task's progress. The heartbeat never moves backwards.
func (s *Service) Heartbeat(ctx context.Context, agentID string, taskID *string, progress *int) (bool, error) {
	if agentID == "" {
		return false, fmt.Errorf("%w: agent_id is required", ErrValidation)
	}
	now := s.now().Unix()
	var known bool
	err := s.pool.With(ctx, func(conn *sql.DB) error {
		var err error
		known, err = db.UpdateHeartbeat(conn, agentID, now)
		if err != nil {
			return err
		}
		if taskID != nil && progress != nil {
			return db.UpdateTaskProgress(conn, *taskID, *progress, now)
		}
		return nil
	})
	return known, err
}

// ReportStatus updates an agent's reported status, restarting its waiting
// clock, and syncs the linked task: a working agent's task goes to running,
// any other status parks it back at pending. Finished tasks are untouched.
func (s *Service) ReportStatus(ctx context.Context, agentID, status string, taskID *string, progress *int) (bool, error) {
	if agentID == "" {
		return false, fmt.Errorf("%w: agent_id is required", ErrValidation)
	}
	switch status {
	case types.AgentIdle, types.AgentWorking, types.AgentWaiting:
	default:
		return false, fmt.Errorf("%w: status %q", ErrValidation, status)
	}
	now := s.now().Unix()
	var known bool
	err := s.pool.With(ctx, func(conn *sql.DB) error {
		var err error
		known, err = db.UpdateWaitingStatus(conn, agentID, status, taskID, now)
		if err != nil {
			return err
		}
		if taskID == nil {
			return nil
		}
		taskStatus := types.TaskPending
		if status == types.AgentWorking {
			taskStatus = types.TaskRunning
		}
		if err := db.SyncTaskStatus(conn, *taskID, taskStatus, now); err != nil {
			return err
		}
		if progress != nil {
			return db.UpdateTaskProgress(conn, *taskID, *progress, now)
		}
		return nil
	})
	return known, err
}

func (s *Service) agentView(a types.WaitingAgent, now int64) types.WaitingAgentView {
	v := types.WaitingAgentView{WaitingAgent: a}
	v.WaitingDuration = now - a.WaitingSince
	v.HeartbeatAge = now - a.Heartbeat
	v.IsTimeout = v.HeartbeatAge > int64(s.cfg.Liveness.TimeoutAfter.Seconds())
	return v
}

// WaitingAgents lists the registry longest-waiting first, with the derived
// liveness fields filled in.
func (s *Service) WaitingAgents(ctx context.Context, agentType string) ([]types.WaitingAgentView, error) {
	var agents []types.WaitingAgent
	err := s.pool.With(ctx, func(conn *sql.DB) error {
		var err error
		agents, err = db.ListWaiting(conn, agentType)
		return err
	})
	if err != nil {
		return nil, err
	}
	now := s.now().Unix()
	views := make([]types.WaitingAgentView, len(agents))
	for i, a := range agents {
		views[i] = s.agentView(a, now)
	}
	return views, nil
}

// AgentStatus reports one agent's registry row and open tasks. An agent with
// no registry row still gets its task list; Registered distinguishes the two.
func (s *Service) AgentStatus(ctx context.Context, agentID string) (AgentStatusReport, error) {
	if agentID == "" {
		return AgentStatusReport{}, fmt.Errorf("%w: agent_id is required", ErrValidation)
	}
	var report AgentStatusReport
	err := s.pool.With(ctx, func(conn *sql.DB) error {
		agent, err := db.GetWaiting(conn, agentID)
		if err != nil {
			return err
		}
		if agent != nil {
			view := s.agentView(*agent, s.now().Unix())
			report.Agent = &view
			report.Registered = true
		}
		report.ActiveTasks, err = db.ActiveTasksFor(conn, agentID)
		return err
	})
	return report, err
}
