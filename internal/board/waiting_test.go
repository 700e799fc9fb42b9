package board

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agentboard/agentboard/internal/types"
)

func TestRegisterWaitingRefreshes(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.RegisterWaiting(ctx, RegisterRequest{AgentID: "worker-1"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.RegisterWaiting(ctx, RegisterRequest{AgentID: "worker-1", Status: types.AgentWorking}); err != nil {
		t.Fatalf("re-register: %v", err)
	}

	agents, err := svc.WaitingAgents(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(agents) != 1 {
		t.Fatalf("expected a single registry row, got %d", len(agents))
	}
	if agents[0].Status != types.AgentWorking {
		t.Fatalf("refresh lost: %+v", agents[0])
	}
	if agents[0].AgentType != "worker" {
		t.Fatalf("agent type not derived: %q", agents[0].AgentType)
	}
}

func TestRegisterWaitingRejectsUnknownStatus(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.RegisterWaiting(ctx, RegisterRequest{AgentID: "worker-1", Status: "napping"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	agents, err := svc.WaitingAgents(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(agents) != 0 {
		t.Fatalf("invalid status persisted: %+v", agents)
	}
}

func TestHeartbeatUpdatesTaskProgress(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, CreateTaskRequest{Title: "long job", AssignedTo: "worker-1"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err := svc.RegisterWaiting(ctx, RegisterRequest{AgentID: "worker-1", TaskID: &task.ID}); err != nil {
		t.Fatalf("register: %v", err)
	}

	known, err := svc.Heartbeat(ctx, "worker-1", &task.ID, intPtr(40))
	if err != nil || !known {
		t.Fatalf("heartbeat: known=%v err=%v", known, err)
	}

	got, _ := svc.GetTask(ctx, task.ID)
	if got.Progress != 40 {
		t.Fatalf("progress not recorded: %d", got.Progress)
	}

	// Unknown agents heartbeat into the void.
	known, err = svc.Heartbeat(ctx, "ghost", nil, nil)
	if err != nil {
		t.Fatalf("ghost heartbeat: %v", err)
	}
	if known {
		t.Fatal("unknown agent reported as known")
	}
}

func TestReportStatusSyncsLinkedTask(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, CreateTaskRequest{Title: "job", AssignedTo: "worker-1"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err := svc.RegisterWaiting(ctx, RegisterRequest{AgentID: "worker-1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.ReportStatus(ctx, "worker-1", types.AgentWorking, &task.ID, intPtr(10)); err != nil {
		t.Fatalf("report working: %v", err)
	}
	got, _ := svc.GetTask(ctx, task.ID)
	if got.Status != types.TaskRunning || got.Progress != 10 {
		t.Fatalf("task not synced to running: %+v", got)
	}

	if _, err := svc.ReportStatus(ctx, "worker-1", types.AgentIdle, &task.ID, nil); err != nil {
		t.Fatalf("report idle: %v", err)
	}
	got, _ = svc.GetTask(ctx, task.ID)
	if got.Status != types.TaskPending {
		t.Fatalf("task not parked back to pending: %+v", got)
	}
}

func TestWaitingAgentsDerivedFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	base := time.Unix(1000, 0)
	svc.now = func() time.Time { return base }
	if _, err := svc.RegisterWaiting(ctx, RegisterRequest{AgentID: "worker-1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	// 90 seconds later the heartbeat is past the 60s timeout threshold.
	svc.now = func() time.Time { return base.Add(90 * time.Second) }
	agents, err := svc.WaitingAgents(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	a := agents[0]
	if a.WaitingDuration != 90 || a.HeartbeatAge != 90 {
		t.Fatalf("derived durations wrong: %+v", a)
	}
	if !a.IsTimeout {
		t.Fatal("agent should be flagged as timed out")
	}
}

func TestAgentStatus(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, CreateTaskRequest{Title: "open job", AssignedTo: "worker-1"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	report, err := svc.AgentStatus(ctx, "worker-1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if report.Registered {
		t.Fatal("unregistered agent reported as registered")
	}
	if len(report.ActiveTasks) != 1 || report.ActiveTasks[0].ID != task.ID {
		t.Fatalf("open tasks missing: %+v", report.ActiveTasks)
	}

	if _, err := svc.RegisterWaiting(ctx, RegisterRequest{AgentID: "worker-1"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	report, err = svc.AgentStatus(ctx, "worker-1")
	if err != nil {
		t.Fatalf("status after register: %v", err)
	}
	if !report.Registered || report.Agent == nil {
		t.Fatalf("registry row missing: %+v", report)
	}
}
