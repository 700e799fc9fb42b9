package db

import (
	"testing"

	"github.com/agentboard/agentboard/internal/types"
)

func insertTestTask(t *testing.T, conn DBTX, id, status string) {
	t.Helper()
	task := types.Task{
		ID: id, Title: "task " + id, Status: status,
		AssignedTo: "worker", CreatedBy: "orchestrator",
		Priority: types.PriorityNormal, CreatedAt: 100, UpdatedAt: 100,
	}
	if err := InsertTask(conn, task); err != nil {
		t.Fatalf("insert task %s: %v", id, err)
	}
}

func TestUpdateTaskStampsLifecycle(t *testing.T) {
	conn := openTestDB(t)
	requireSchema(t, conn)
	insertTestTask(t, conn, "t1", types.TaskPending)

	running := types.TaskRunning
	updated, err := UpdateTask(conn, "t1", types.TaskUpdates{Status: &running}, 200)
	if err != nil {
		t.Fatalf("update to running: %v", err)
	}
	if !updated {
		t.Fatal("expected update to land")
	}
	task, _ := GetTask(conn, "t1")
	if task.Status != types.TaskRunning {
		t.Fatalf("unexpected status: %s", task.Status)
	}
	if task.StartedAt == nil || *task.StartedAt != 200 {
		t.Fatalf("started_at not stamped: %+v", task.StartedAt)
	}

	completed := types.TaskCompleted
	if _, err := UpdateTask(conn, "t1", types.TaskUpdates{Status: &completed, Result: strPtr("done")}, 300); err != nil {
		t.Fatalf("update to completed: %v", err)
	}
	task, _ = GetTask(conn, "t1")
	if task.CompletedAt == nil || *task.CompletedAt != 300 {
		t.Fatalf("completed_at not stamped: %+v", task.CompletedAt)
	}
	if task.Result == nil || *task.Result != "done" {
		t.Fatalf("result not stored: %+v", task.Result)
	}
}

func TestTerminalTasksAreImmutable(t *testing.T) {
	conn := openTestDB(t)
	requireSchema(t, conn)
	insertTestTask(t, conn, "t1", types.TaskCompleted)

	running := types.TaskRunning
	updated, err := UpdateTask(conn, "t1", types.TaskUpdates{Status: &running}, 200)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated {
		t.Fatal("completed task must not change")
	}

	cancelled, err := CancelTask(conn, "t1", 200)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled {
		t.Fatal("cancel of a finished task must be a no-op")
	}

	task, _ := GetTask(conn, "t1")
	if task.Status != types.TaskCompleted {
		t.Fatalf("terminal status changed: %s", task.Status)
	}
}

func TestCancelTaskSetsMarker(t *testing.T) {
	conn := openTestDB(t)
	requireSchema(t, conn)
	insertTestTask(t, conn, "t1", types.TaskRunning)

	cancelled, err := CancelTask(conn, "t1", 200)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if !cancelled {
		t.Fatal("expected cancellation")
	}
	task, _ := GetTask(conn, "t1")
	if task.Status != types.TaskFailed {
		t.Fatalf("unexpected status: %s", task.Status)
	}
	if task.ErrorMessage == nil || *task.ErrorMessage != "cancelled" {
		t.Fatalf("unexpected error message: %+v", task.ErrorMessage)
	}
}

func TestProgressNeverDecreases(t *testing.T) {
	conn := openTestDB(t)
	requireSchema(t, conn)
	insertTestTask(t, conn, "t1", types.TaskRunning)

	if err := UpdateTaskProgress(conn, "t1", 60, 200); err != nil {
		t.Fatalf("progress 60: %v", err)
	}
	if err := UpdateTaskProgress(conn, "t1", 40, 300); err != nil {
		t.Fatalf("progress 40: %v", err)
	}
	task, _ := GetTask(conn, "t1")
	if task.Progress != 60 {
		t.Fatalf("progress went backwards: %d", task.Progress)
	}
	if task.UpdatedAt != 300 {
		t.Fatalf("updated_at not advanced: %d", task.UpdatedAt)
	}
}

func TestReassignableTasks(t *testing.T) {
	conn := openTestDB(t)
	requireSchema(t, conn)
	insertTestTask(t, conn, "p", types.TaskPending)
	insertTestTask(t, conn, "r", types.TaskRunning)
	insertTestTask(t, conn, "f", types.TaskFailed)
	insertTestTask(t, conn, "c", types.TaskCompleted)

	got, err := ReassignableTasks(conn)
	if err != nil {
		t.Fatalf("reassignable: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected pending and failed only, got %+v", got)
	}
}

func TestListTasksFilter(t *testing.T) {
	conn := openTestDB(t)
	requireSchema(t, conn)
	insertTestTask(t, conn, "t1", types.TaskPending)
	insertTestTask(t, conn, "t2", types.TaskRunning)

	got, err := ListTasks(conn, types.TaskFilter{AssignedTo: "worker", Status: types.TaskRunning})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != "t2" {
		t.Fatalf("unexpected tasks: %+v", got)
	}
}
