package board

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agentboard/agentboard/internal/db"
	"github.com/agentboard/agentboard/internal/types"
)

// RegisterClient records a wrapper process in the clients table. Repeated
// registrations refresh name and last_seen.
func (s *Service) RegisterClient(ctx context.Context, id, name string, configJSON *string) (types.Client, error) {
	if id == "" {
		return types.Client{}, fmt.Errorf("%w: client id is required", ErrValidation)
	}
	if name == "" {
		name = id
	}
	c := types.Client{ID: id, Name: name, LastSeen: s.now().Unix(), Config: configJSON}
	err := s.pool.With(ctx, func(conn *sql.DB) error {
		return db.UpsertClient(conn, c)
	})
	if err != nil {
		return types.Client{}, err
	}
	return c, nil
}

// ListClients returns registered clients, most recently seen first.
func (s *Service) ListClients(ctx context.Context) ([]types.Client, error) {
	var clients []types.Client
	err := s.pool.With(ctx, func(conn *sql.DB) error {
		var err error
		clients, err = db.ListClients(conn)
		return err
	})
	return clients, err
}
