package db

import (
	"testing"

	"github.com/agentboard/agentboard/internal/types"
)

func registerTestAgent(t *testing.T, conn DBTX, agentID string, since int64) {
	t.Helper()
	err := UpsertWaiting(conn, types.WaitingAgent{
		ID: "wait_" + agentID, AgentID: agentID, AgentType: "worker",
		WaitingSince: since, Status: types.AgentIdle, Heartbeat: since, IsOnline: true,
	})
	if err != nil {
		t.Fatalf("register %s: %v", agentID, err)
	}
}

func TestUpsertWaitingKeepsSingleRow(t *testing.T) {
	conn := openTestDB(t)
	requireSchema(t, conn)

	registerTestAgent(t, conn, "worker-1", 100)
	registerTestAgent(t, conn, "worker-1", 200)

	agents, err := ListWaiting(conn, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(agents) != 1 {
		t.Fatalf("expected one row per agent, got %d", len(agents))
	}
	if agents[0].WaitingSince != 200 {
		t.Fatalf("re-registration did not refresh: %+v", agents[0])
	}
}

func TestHeartbeatIsMonotonic(t *testing.T) {
	conn := openTestDB(t)
	requireSchema(t, conn)
	registerTestAgent(t, conn, "worker-1", 100)

	if _, err := UpdateHeartbeat(conn, "worker-1", 500); err != nil {
		t.Fatalf("heartbeat 500: %v", err)
	}
	if _, err := UpdateHeartbeat(conn, "worker-1", 300); err != nil {
		t.Fatalf("heartbeat 300: %v", err)
	}

	a, err := GetWaiting(conn, "worker-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if a.Heartbeat != 500 {
		t.Fatalf("heartbeat went backwards: %d", a.Heartbeat)
	}
}

func TestHeartbeatRevivesOfflineAgent(t *testing.T) {
	conn := openTestDB(t)
	requireSchema(t, conn)
	registerTestAgent(t, conn, "worker-1", 100)

	if err := MarkOffline(conn, "worker-1", 200); err != nil {
		t.Fatalf("mark offline: %v", err)
	}
	a, _ := GetWaiting(conn, "worker-1")
	if a.IsOnline || a.LastDisconnect == nil {
		t.Fatalf("offline state not recorded: %+v", a)
	}

	if _, err := UpdateHeartbeat(conn, "worker-1", 300); err != nil {
		t.Fatalf("heartbeat: %v", err)
	}
	a, _ = GetWaiting(conn, "worker-1")
	if !a.IsOnline || a.LastDisconnect != nil {
		t.Fatalf("heartbeat did not revive agent: %+v", a)
	}
}

func TestListWaitingOrdersLongestFirst(t *testing.T) {
	conn := openTestDB(t)
	requireSchema(t, conn)
	registerTestAgent(t, conn, "newer", 300)
	registerTestAgent(t, conn, "older", 100)

	agents, err := ListWaiting(conn, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(agents) != 2 || agents[0].AgentID != "older" {
		t.Fatalf("expected longest-waiting first: %+v", agents)
	}
}

func TestStaleWaiters(t *testing.T) {
	conn := openTestDB(t)
	requireSchema(t, conn)
	registerTestAgent(t, conn, "fresh", 1000)
	registerTestAgent(t, conn, "stale", 100)

	got, err := StaleWaiters(conn, 500)
	if err != nil {
		t.Fatalf("stale: %v", err)
	}
	if len(got) != 1 || got[0].AgentID != "stale" {
		t.Fatalf("unexpected stale set: %+v", got)
	}

	// Already-offline agents are not reported again.
	if err := MarkOffline(conn, "stale", 600); err != nil {
		t.Fatalf("mark offline: %v", err)
	}
	got, err = StaleWaiters(conn, 500)
	if err != nil {
		t.Fatalf("stale after offline: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("offline agent reported again: %+v", got)
	}
}

func TestDeleteWaitingIsIdempotent(t *testing.T) {
	conn := openTestDB(t)
	requireSchema(t, conn)
	registerTestAgent(t, conn, "worker-1", 100)

	removed, err := DeleteWaiting(conn, "worker-1")
	if err != nil || !removed {
		t.Fatalf("delete: removed=%v err=%v", removed, err)
	}
	removed, err = DeleteWaiting(conn, "worker-1")
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if removed {
		t.Fatal("second delete should find nothing")
	}
}
