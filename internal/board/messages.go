package board

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agentboard/agentboard/internal/core"
	"github.com/agentboard/agentboard/internal/db"
	"github.com/agentboard/agentboard/internal/types"
)

// SendRequest is one outbound message.
type SendRequest struct {
	Sender    string
	Content   string
	ReplyTo   *string
	Priority  string
	Metadata  *string
	SessionID string
}

// SendResult identifies a stored message.
type SendResult struct {
	ID        string `json:"message_id"`
	Timestamp int64  `json:"timestamp"`
	SessionID string `json:"session_id,omitempty"`
}

// ReadOptions controls Read. ClientID, when set, excludes the reader's own
// messages.
type ReadOptions struct {
	UnreadOnly bool
	Sender     string
	SessionID  string
	ClientID   string
	Limit      int
}

// SearchOptions controls Search.
type SearchOptions struct {
	Keyword string
	Sender  string
	Start   int64
	End     int64
	Limit   int
}

func validatePriority(p string) (string, error) {
	switch p {
	case "":
		return types.PriorityNormal, nil
	case types.PriorityNormal, types.PriorityHigh, types.PriorityUrgent:
		return p, nil
	}
	return "", fmt.Errorf("%w: priority %q", ErrValidation, p)
}

func (s *Service) buildMessage(req SendRequest) (types.Message, error) {
	if req.Sender == "" {
		return types.Message{}, fmt.Errorf("%w: sender is required", ErrValidation)
	}
	if req.Content == "" {
		return types.Message{}, fmt.Errorf("%w: content is required", ErrValidation)
	}
	priority, err := validatePriority(req.Priority)
	if err != nil {
		return types.Message{}, err
	}
	// A send without a session starts a new conversation thread; synthesize
	// a tag so the caller can keep filtering on it.
	tag := req.SessionID
	if tag == "" {
		tag = core.NewSessionTag()
	}
	m := types.Message{
		ID:             uuid.NewString(),
		Sender:         req.Sender,
		Content:        req.Content,
		Timestamp:      s.now().Unix(),
		ReplyTo:        req.ReplyTo,
		Priority:       priority,
		Metadata:       req.Metadata,
		SessionID:      &tag,
		DeliveryStatus: "pending",
	}
	return m, nil
}

// Send stores one message.
func (s *Service) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	m, err := s.buildMessage(req)
	if err != nil {
		return SendResult{}, err
	}
	err = s.pool.With(ctx, func(conn *sql.DB) error {
		return db.InsertMessage(conn, m)
	})
	if err != nil {
		return SendResult{}, err
	}
	return SendResult{ID: m.ID, Timestamp: m.Timestamp, SessionID: *m.SessionID}, nil
}

// SendBatch stores several messages in one transaction. Either every message
// lands or none do.
func (s *Service) SendBatch(ctx context.Context, reqs []SendRequest) ([]SendResult, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrValidation)
	}
	messages := make([]types.Message, len(reqs))
	results := make([]SendResult, len(reqs))
	for i, req := range reqs {
		m, err := s.buildMessage(req)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		messages[i] = m
		results[i] = SendResult{ID: m.ID, Timestamp: m.Timestamp, SessionID: *m.SessionID}
	}
	err := s.pool.WithTx(ctx, func(tx *sql.Tx) error {
		for _, m := range messages {
			if err := db.InsertMessage(tx, m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Read lists messages newest-first. A retention pass runs first; retention
// failures are logged and do not fail the read. Legacy session prefixes are
// decoded out of the content on the way back.
func (s *Service) Read(ctx context.Context, opts ReadOptions) ([]types.Message, error) {
	var messages []types.Message
	err := s.pool.With(ctx, func(conn *sql.DB) error {
		if res, err := db.ApplyRetention(conn, s.retentionPolicy(), s.now()); err != nil {
			s.log.Warn("retention pass failed", "error", err)
		} else if res.Short+res.Duplicates+res.Stale > 0 {
			s.log.Debug("retention pruned messages",
				"short", res.Short, "duplicates", res.Duplicates, "stale", res.Stale)
		}
		var err error
		messages, err = db.ListMessages(conn, types.MessageFilter{
			UnreadOnly: opts.UnreadOnly,
			Sender:     opts.Sender,
			SessionID:  opts.SessionID,
			ClientID:   opts.ClientID,
			Limit:      opts.Limit,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	for i := range messages {
		decodeMessage(&messages[i])
	}
	return messages, nil
}

// decodeMessage strips a legacy session prefix from content and promotes the
// tag into SessionID when the column is empty.
func decodeMessage(m *types.Message) {
	clean, tag := core.DecodeSession(m.Content)
	if tag == "" {
		return
	}
	m.Content = clean
	if m.SessionID == nil || *m.SessionID == "" {
		m.SessionID = &tag
	}
}

// MarkRead acknowledges delivered messages. Unknown ids are ignored; the
// count of rows actually flipped is returned.
func (s *Service) MarkRead(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: no message ids", ErrValidation)
	}
	var n int64
	err := s.pool.With(ctx, func(conn *sql.DB) error {
		var err error
		n, err = db.MarkRead(conn, ids)
		return err
	})
	return n, err
}

// MarkAllRead marks every message read, or only one sender's when given.
func (s *Service) MarkAllRead(ctx context.Context, sender string) (int64, error) {
	var n int64
	err := s.pool.With(ctx, func(conn *sql.DB) error {
		var err error
		n, err = db.MarkAllRead(conn, sender)
		return err
	})
	return n, err
}

// Search finds messages by content substring.
func (s *Service) Search(ctx context.Context, opts SearchOptions) ([]types.Message, error) {
	if opts.Keyword == "" {
		return nil, fmt.Errorf("%w: keyword is required", ErrValidation)
	}
	var messages []types.Message
	err := s.pool.With(ctx, func(conn *sql.DB) error {
		var err error
		messages, err = db.SearchMessages(conn, types.SearchFilter{
			Keyword: opts.Keyword,
			Sender:  opts.Sender,
			Start:   opts.Start,
			End:     opts.End,
			Limit:   opts.Limit,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	for i := range messages {
		decodeMessage(&messages[i])
	}
	return messages, nil
}

// Delete removes one message; reports whether it existed.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("%w: message id is required", ErrValidation)
	}
	var deleted bool
	err := s.pool.With(ctx, func(conn *sql.DB) error {
		var err error
		deleted, err = db.DeleteMessage(conn, id)
		return err
	})
	return deleted, err
}

// ClearOld deletes messages older than the given window.
func (s *Service) ClearOld(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("%w: window must be positive", ErrValidation)
	}
	cutoff := s.now().Add(-olderThan).Unix()
	var n int64
	err := s.pool.With(ctx, func(conn *sql.DB) error {
		var err error
		n, err = db.DeleteOlderThan(conn, cutoff)
		return err
	})
	return n, err
}

// MessageStats returns the board-wide message counters.
func (s *Service) MessageStats(ctx context.Context) (types.MessageStats, error) {
	var stats types.MessageStats
	err := s.pool.With(ctx, func(conn *sql.DB) error {
		var err error
		stats, err = db.GetMessageStats(conn)
		return err
	})
	return stats, err
}
