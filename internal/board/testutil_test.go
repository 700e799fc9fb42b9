package board

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/agentboard/agentboard/internal/config"
	"github.com/agentboard/agentboard/internal/core"
	"github.com/agentboard/agentboard/internal/db"
)

// newTestService builds a Service over a fresh board with second-scale wait
// cadences so blocking tests stay fast.
func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg := &config.Config{
		StateDir: t.TempDir(),
		ClientID: "tester",
		Pool:     config.Pool{MaxConns: 5, AcquireTimeout: 5 * time.Second},
		Retention: config.Retention{
			MaxAge: 720 * time.Hour,
		},
		Wait: config.Wait{
			DefaultTimeout: 2 * time.Second,
			FastInterval:   20 * time.Millisecond,
			SlowInterval:   50 * time.Millisecond,
			FastWindow:     time.Second,
		},
		Liveness: config.Liveness{
			OfflineAfter: 120 * time.Second,
			TimeoutAfter: 60 * time.Second,
		},
	}

	pool := db.NewPool(core.DBPath(cfg.StateDir), cfg.Pool.MaxConns, cfg.Pool.AcquireTimeout)
	t.Cleanup(func() {
		_ = pool.Close()
	})
	err := pool.With(context.Background(), func(conn *sql.DB) error {
		return db.InitSchema(conn)
	})
	if err != nil {
		t.Fatalf("init schema: %v", err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(pool, cfg, log)
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}
