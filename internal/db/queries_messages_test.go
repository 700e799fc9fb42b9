package db

import (
	"testing"

	"github.com/agentboard/agentboard/internal/core"
	"github.com/agentboard/agentboard/internal/types"
)

func insertTestMessage(t *testing.T, conn DBTX, m types.Message) {
	t.Helper()
	if m.Priority == "" {
		m.Priority = types.PriorityNormal
	}
	if m.DeliveryStatus == "" {
		m.DeliveryStatus = "pending"
	}
	if err := InsertMessage(conn, m); err != nil {
		t.Fatalf("insert message %s: %v", m.ID, err)
	}
}

func TestInsertAndGetMessage(t *testing.T) {
	conn := openTestDB(t)
	requireSchema(t, conn)

	insertTestMessage(t, conn, types.Message{
		ID: "m1", Sender: "alice", Content: "hello", Timestamp: 100,
		ReplyTo: strPtr("m0"),
	})

	m, err := GetMessage(conn, "m1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if m == nil || m.Content != "hello" || m.Sender != "alice" {
		t.Fatalf("unexpected message: %+v", m)
	}
	if m.ReplyTo == nil || *m.ReplyTo != "m0" {
		t.Fatalf("reply_to lost: %+v", m.ReplyTo)
	}
	if m.Read {
		t.Fatal("new message should be unread")
	}
}

func TestListMessagesFilters(t *testing.T) {
	conn := openTestDB(t)
	requireSchema(t, conn)

	insertTestMessage(t, conn, types.Message{ID: "m1", Sender: "alice", Content: "one", Timestamp: 100})
	insertTestMessage(t, conn, types.Message{ID: "m2", Sender: "bob", Content: "two", Timestamp: 200})
	insertTestMessage(t, conn, types.Message{ID: "m3", Sender: "alice", Content: "three", Timestamp: 300, Read: true})

	all, err := ListMessages(conn, types.MessageFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != "m3" {
		t.Fatalf("expected newest-first, got %+v", all)
	}

	unread, err := ListMessages(conn, types.MessageFilter{UnreadOnly: true})
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(unread) != 2 {
		t.Fatalf("expected 2 unread, got %d", len(unread))
	}

	// A reader never sees their own messages.
	others, err := ListMessages(conn, types.MessageFilter{ClientID: "alice"})
	if err != nil {
		t.Fatalf("list others: %v", err)
	}
	if len(others) != 1 || others[0].Sender != "bob" {
		t.Fatalf("own messages not excluded: %+v", others)
	}

	limited, err := ListMessages(conn, types.MessageFilter{Limit: 1})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "m3" {
		t.Fatalf("limit broken: %+v", limited)
	}
}

func TestSessionClauseMatchesColumnAndLegacyPrefix(t *testing.T) {
	conn := openTestDB(t)
	requireSchema(t, conn)

	insertTestMessage(t, conn, types.Message{
		ID: "new", Sender: "alice", Content: "column row", Timestamp: 100,
		SessionID: strPtr("abc123"),
	})
	insertTestMessage(t, conn, types.Message{
		ID: "old", Sender: "bob", Content: core.EncodeSession("legacy row", "abc123"), Timestamp: 200,
	})
	insertTestMessage(t, conn, types.Message{
		ID: "other", Sender: "carol", Content: "unrelated", Timestamp: 300,
	})

	got, err := ListMessages(conn, types.MessageFilter{SessionID: "abc123"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 session rows, got %d", len(got))
	}
	for _, m := range got {
		if m.ID == "other" {
			t.Fatal("unrelated row leaked into session")
		}
	}
}

func TestNextUnreadOrderingAndExclusion(t *testing.T) {
	conn := openTestDB(t)
	requireSchema(t, conn)

	insertTestMessage(t, conn, types.Message{ID: "mine", Sender: "me", Content: "self", Timestamp: 50})
	insertTestMessage(t, conn, types.Message{ID: "old", Sender: "alice", Content: "old", Timestamp: 100})
	insertTestMessage(t, conn, types.Message{ID: "new", Sender: "bob", Content: "new", Timestamp: 200})

	m, err := NextUnread(conn, "me", "", 0, nil)
	if err != nil {
		t.Fatalf("next unread: %v", err)
	}
	if m == nil || m.ID != "old" {
		t.Fatalf("expected oldest foreign unread, got %+v", m)
	}

	// last_seen moves the cursor.
	m, err = NextUnread(conn, "me", "", 100, nil)
	if err != nil {
		t.Fatalf("next unread after cursor: %v", err)
	}
	if m == nil || m.ID != "new" {
		t.Fatalf("expected newer message, got %+v", m)
	}

	// Excluded ids are skipped.
	m, err = NextUnread(conn, "me", "", 0, map[string]struct{}{"old": {}, "new": {}})
	if err != nil {
		t.Fatalf("next unread excluded: %v", err)
	}
	if m != nil {
		t.Fatalf("expected no candidate, got %+v", m)
	}
}

func TestMarkReadCountsOnlyKnownIDs(t *testing.T) {
	conn := openTestDB(t)
	requireSchema(t, conn)

	insertTestMessage(t, conn, types.Message{ID: "m1", Sender: "alice", Content: "one", Timestamp: 100})
	insertTestMessage(t, conn, types.Message{ID: "m2", Sender: "alice", Content: "two", Timestamp: 200})

	n, err := MarkRead(conn, []string{"m1", "missing"})
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row marked, got %d", n)
	}

	m, _ := GetMessage(conn, "m1")
	if !m.Read {
		t.Fatal("m1 not marked read")
	}
	m, _ = GetMessage(conn, "m2")
	if m.Read {
		t.Fatal("m2 should stay unread")
	}
}

func TestSearchMessages(t *testing.T) {
	conn := openTestDB(t)
	requireSchema(t, conn)

	insertTestMessage(t, conn, types.Message{ID: "m1", Sender: "alice", Content: "deploy finished", Timestamp: 100})
	insertTestMessage(t, conn, types.Message{ID: "m2", Sender: "bob", Content: "deploy started", Timestamp: 200})
	insertTestMessage(t, conn, types.Message{ID: "m3", Sender: "alice", Content: "lunch?", Timestamp: 300})

	got, err := SearchMessages(conn, types.SearchFilter{Keyword: "deploy"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 || got[0].ID != "m2" {
		t.Fatalf("unexpected search result: %+v", got)
	}

	got, err = SearchMessages(conn, types.SearchFilter{Keyword: "deploy", Sender: "alice", Start: 50, End: 150})
	if err != nil {
		t.Fatalf("narrow search: %v", err)
	}
	if len(got) != 1 || got[0].ID != "m1" {
		t.Fatalf("unexpected narrowed result: %+v", got)
	}
}

func TestMessageStats(t *testing.T) {
	conn := openTestDB(t)
	requireSchema(t, conn)

	stats, err := GetMessageStats(conn)
	if err != nil {
		t.Fatalf("stats on empty board: %v", err)
	}
	if stats.Total != 0 || stats.Latest != nil {
		t.Fatalf("unexpected empty stats: %+v", stats)
	}

	insertTestMessage(t, conn, types.Message{ID: "m1", Sender: "alice", Content: "one", Timestamp: 100, Read: true})
	insertTestMessage(t, conn, types.Message{ID: "m2", Sender: "bob", Content: "two", Timestamp: 200})

	stats, err = GetMessageStats(conn)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 2 || stats.Unread != 1 {
		t.Fatalf("unexpected counters: %+v", stats)
	}
	if stats.Latest == nil || *stats.Latest != 200 {
		t.Fatalf("unexpected latest: %+v", stats.Latest)
	}
}
