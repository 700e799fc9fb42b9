package board

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/agentboard/agentboard/internal/db"
	"github.com/agentboard/agentboard/internal/types"
)

// WaitRequest parameterizes one blocking wait.
type WaitRequest struct {
	ClientID     string
	SessionID    string
	Timeout      time.Duration
	LastSeen     int64
	AgentType    string
	Capabilities *string
	Status       string
	TaskID       *string
	Progress     *int
}

// WaitResult is the outcome of a wait. On timeout, Message is nil and
// WaitTime equals the configured timeout in seconds.
type WaitResult struct {
	Success  bool           `json:"success"`
	Timeout  bool           `json:"timeout,omitempty"`
	Message  *types.Message `json:"message,omitempty"`
	WaitTime float64        `json:"wait_time"`
}

// WaitForMessage blocks until a message from another sender arrives or the
// timeout elapses. The caller is registered in the waiting registry for the
// duration of the call and unregistered on every exit path, including
// cancellation. The delivered message is not marked read; the caller
// acknowledges via MarkRead.
func (s *Service) WaitForMessage(ctx context.Context, req WaitRequest) (WaitResult, error) {
	if req.ClientID == "" {
		return WaitResult{}, fmt.Errorf("%w: client_id is required", ErrValidation)
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = s.cfg.Wait.DefaultTimeout
	}

	reg := RegisterRequest{
		AgentID:      req.ClientID,
		AgentType:    req.AgentType,
		Capabilities: req.Capabilities,
		Status:       req.Status,
		TaskID:       req.TaskID,
	}
	if _, err := s.RegisterWaiting(ctx, reg); err != nil {
		return WaitResult{}, err
	}
	defer func() {
		// Unregistration brackets the wait even when ctx is already done.
		cleanup, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if _, err := s.UnregisterWaiting(cleanup, req.ClientID); err != nil {
			s.log.Warn("unregister waiting agent failed", "agent_id", req.ClientID, "error", err)
		}
	}()

	if req.TaskID != nil && req.Progress != nil {
		err := s.pool.With(ctx, func(conn *sql.DB) error {
			return db.UpdateTaskProgress(conn, *req.TaskID, *req.Progress, s.now().Unix())
		})
		if err != nil {
			s.log.Warn("task progress update failed", "task_id", *req.TaskID, "error", err)
		}
	}

	start := s.now()
	deadline := start.Add(timeout)
	inspected := make(map[string]struct{})

	for {
		msg, err := s.pollOnce(ctx, req, inspected)
		if err != nil {
			if ctx.Err() != nil {
				return WaitResult{}, ctx.Err()
			}
			// Transient store errors (pool contention, busy database) should
			// not abort a long wait.
			s.log.Warn("wait poll failed", "agent_id", req.ClientID, "error", err)
		}
		if msg != nil {
			// The LIKE match can false-positive on content that merely
			// mentions the tag; verify after decoding and never look at the
			// same row twice.
			decodeMessage(msg)
			if req.SessionID != "" && (msg.SessionID == nil || *msg.SessionID != req.SessionID) {
				inspected[msg.ID] = struct{}{}
				continue
			}
			return WaitResult{
				Success:  true,
				Message:  msg,
				WaitTime: s.now().Sub(start).Seconds(),
			}, nil
		}

		now := s.now()
		if !now.Before(deadline) {
			return WaitResult{Timeout: true, WaitTime: timeout.Seconds()}, nil
		}

		interval := s.cfg.Wait.SlowInterval
		if now.Sub(start) < s.cfg.Wait.FastWindow {
			interval = s.cfg.Wait.FastInterval
		}
		if remaining := deadline.Sub(now); interval > remaining {
			interval = remaining
		}
		select {
		case <-ctx.Done():
			return WaitResult{}, ctx.Err()
		case <-time.After(interval):
		}
	}
}

func (s *Service) pollOnce(ctx context.Context, req WaitRequest, inspected map[string]struct{}) (*types.Message, error) {
	var msg *types.Message
	err := s.pool.With(ctx, func(conn *sql.DB) error {
		var err error
		msg, err = db.NextUnread(conn, req.ClientID, req.SessionID, req.LastSeen, inspected)
		return err
	})
	return msg, err
}
