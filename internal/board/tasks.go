package board

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/agentboard/agentboard/internal/db"
	"github.com/agentboard/agentboard/internal/types"
)

// CreateTaskRequest describes a new task.
type CreateTaskRequest struct {
	Title       string
	Description string
	AssignedTo  string
	CreatedBy   string
	Priority    string
}

func validateTaskPriority(p string) (string, error) {
	switch p {
	case "":
		return types.PriorityNormal, nil
	case types.PriorityLow, types.PriorityNormal, types.PriorityHigh, types.PriorityUrgent:
		return p, nil
	}
	return "", fmt.Errorf("%w: priority %q", ErrValidation, p)
}

func validateTaskStatus(status string) error {
	switch status {
	case types.TaskPending, types.TaskRunning, types.TaskCompleted, types.TaskFailed:
		return nil
	}
	return fmt.Errorf("%w: status %q", ErrValidation, status)
}

// CreateTask stores a new pending task.
func (s *Service) CreateTask(ctx context.Context, req CreateTaskRequest) (types.Task, error) {
	if req.Title == "" {
		return types.Task{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if req.AssignedTo == "" {
		return types.Task{}, fmt.Errorf("%w: assigned_to is required", ErrValidation)
	}
	priority, err := validateTaskPriority(req.Priority)
	if err != nil {
		return types.Task{}, err
	}
	now := s.now().Unix()
	t := types.Task{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Status:      types.TaskPending,
		AssignedTo:  req.AssignedTo,
		CreatedBy:   req.CreatedBy,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = s.pool.With(ctx, func(conn *sql.DB) error {
		return db.InsertTask(conn, t)
	})
	if err != nil {
		return types.Task{}, err
	}
	return t, nil
}

// GetTask returns one task, or ErrNotFound.
func (s *Service) GetTask(ctx context.Context, id string) (types.Task, error) {
	if id == "" {
		return types.Task{}, fmt.Errorf("%w: task id is required", ErrValidation)
	}
	var task *types.Task
	err := s.pool.With(ctx, func(conn *sql.DB) error {
		var err error
		task, err = db.GetTask(conn, id)
		return err
	})
	if err != nil {
		return types.Task{}, err
	}
	if task == nil {
		return types.Task{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return *task, nil
}

// ListTasks returns tasks matching the filter, newest-first.
func (s *Service) ListTasks(ctx context.Context, f types.TaskFilter) ([]types.Task, error) {
	if f.Status != "" {
		if err := validateTaskStatus(f.Status); err != nil {
			return nil, err
		}
	}
	var tasks []types.Task
	err := s.pool.With(ctx, func(conn *sql.DB) error {
		var err error
		tasks, err = db.ListTasks(conn, f)
		return err
	})
	return tasks, err
}

// UpdateTask applies a partial update. Completed and failed tasks are
// immutable: the update is a no-op and the returned flag is false.
func (s *Service) UpdateTask(ctx context.Context, id string, u types.TaskUpdates) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("%w: task id is required", ErrValidation)
	}
	if u.Status != nil {
		if err := validateTaskStatus(*u.Status); err != nil {
			return false, err
		}
	}
	var updated bool
	err := s.pool.With(ctx, func(conn *sql.DB) error {
		task, err := db.GetTask(conn, id)
		if err != nil {
			return err
		}
		if task == nil {
			return fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		updated, err = db.UpdateTask(conn, id, u, s.now().Unix())
		return err
	})
	return updated, err
}

// CancelTask moves a task to failed with a cancellation marker. Cancelling a
// finished task changes nothing; the returned flag reports whether a
// transition happened.
func (s *Service) CancelTask(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("%w: task id is required", ErrValidation)
	}
	var cancelled bool
	err := s.pool.With(ctx, func(conn *sql.DB) error {
		task, err := db.GetTask(conn, id)
		if err != nil {
			return err
		}
		if task == nil {
			return fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		cancelled, err = db.CancelTask(conn, id, s.now().Unix())
		return err
	})
	return cancelled, err
}
