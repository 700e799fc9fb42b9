package board

import (
	"context"
	"errors"
	"testing"

	"github.com/agentboard/agentboard/internal/types"
)

func TestTaskLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, CreateTaskRequest{
		Title: "index the repo", AssignedTo: "worker-1", CreatedBy: "orchestrator",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.Status != types.TaskPending || task.Progress != 0 {
		t.Fatalf("unexpected initial state: %+v", task)
	}

	running := types.TaskRunning
	updated, err := svc.UpdateTask(ctx, task.ID, types.TaskUpdates{Status: &running})
	if err != nil || !updated {
		t.Fatalf("run: updated=%v err=%v", updated, err)
	}

	completed := types.TaskCompleted
	updated, err = svc.UpdateTask(ctx, task.ID, types.TaskUpdates{Status: &completed, Result: strPtr("ok")})
	if err != nil || !updated {
		t.Fatalf("complete: updated=%v err=%v", updated, err)
	}

	// Terminal states are sticky.
	pending := types.TaskPending
	updated, err = svc.UpdateTask(ctx, task.ID, types.TaskUpdates{Status: &pending})
	if err != nil {
		t.Fatalf("reopen attempt: %v", err)
	}
	if updated {
		t.Fatal("completed task must not reopen")
	}

	got, err := svc.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != types.TaskCompleted || got.StartedAt == nil || got.CompletedAt == nil {
		t.Fatalf("lifecycle stamps missing: %+v", got)
	}
}

func TestTaskValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateTask(ctx, CreateTaskRequest{AssignedTo: "w"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing title: %v", err)
	}
	if _, err := svc.CreateTask(ctx, CreateTaskRequest{Title: "t"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing assignee: %v", err)
	}

	bad := "paused"
	if _, err := svc.UpdateTask(ctx, "any", types.TaskUpdates{Status: &bad}); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad status: %v", err)
	}
}

func TestTaskNotFound(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.GetTask(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get: %v", err)
	}
	running := types.TaskRunning
	if _, err := svc.UpdateTask(ctx, "missing", types.TaskUpdates{Status: &running}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update: %v", err)
	}
	if _, err := svc.CancelTask(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cancel: %v", err)
	}
}

func TestCancelTask(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, CreateTaskRequest{Title: "doomed", AssignedTo: "worker-1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	cancelled, err := svc.CancelTask(ctx, task.ID)
	if err != nil || !cancelled {
		t.Fatalf("cancel: cancelled=%v err=%v", cancelled, err)
	}

	got, _ := svc.GetTask(ctx, task.ID)
	if got.Status != types.TaskFailed || got.ErrorMessage == nil || *got.ErrorMessage != "cancelled" {
		t.Fatalf("unexpected cancelled state: %+v", got)
	}

	// Idempotent: a second cancel changes nothing and reports false.
	cancelled, err = svc.CancelTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if cancelled {
		t.Fatal("second cancel should be a no-op")
	}
}
