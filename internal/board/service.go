// Package board implements the broker's services over the store: messages,
// tasks, the waiting-agent registry, the blocking wait loop, and the liveness
// sweeper. All methods are safe for concurrent use; they share nothing but
// the connection pool.
package board

import (
	"log/slog"
	"time"

	"github.com/agentboard/agentboard/internal/config"
	"github.com/agentboard/agentboard/internal/db"
)

// Service bundles the broker services. The clock is injectable for tests.
type Service struct {
	pool *db.Pool
	cfg  *config.Config
	log  *slog.Logger
	now  func() time.Time
}

// New creates a Service over an initialized pool.
func New(pool *db.Pool, cfg *config.Config, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{pool: pool, cfg: cfg, log: log, now: time.Now}
}

func (s *Service) retentionPolicy() db.RetentionPolicy {
	return db.RetentionPolicy{
		MinContentLen: s.cfg.Retention.MinContentLen,
		Dedup:         s.cfg.Retention.Dedup,
		MaxAge:        s.cfg.Retention.MaxAge,
	}
}
