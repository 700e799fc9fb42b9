package db

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"
)

// ErrPoolExhausted is returned when no connection frees up within the
// acquire timeout.
var ErrPoolExhausted = errors.New("db: connection pool exhausted")

// ErrPoolClosed is returned by Get after Close.
var ErrPoolClosed = errors.New("db: connection pool closed")

// Pool is a bounded set of reusable database handles guarded by a mutex and
// condition variable. Get blocks until a handle is free or the acquire
// timeout expires; Put probes the handle and discards it if the probe fails.
type Pool struct {
	path    string
	max     int
	timeout time.Duration

	mu     sync.Mutex
	cond   *sync.Cond
	idle   []*sql.DB
	inUse  int
	closed bool
}

// NewPool creates a pool over the database at path. maxConns defaults to 5
// and acquireTimeout to 30s when non-positive.
func NewPool(path string, maxConns int, acquireTimeout time.Duration) *Pool {
	if maxConns <= 0 {
		maxConns = 5
	}
	if acquireTimeout <= 0 {
		acquireTimeout = 30 * time.Second
	}
	p := &Pool{path: path, max: maxConns, timeout: acquireTimeout}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Get acquires a connection, opening a new one while the pool is below its
// bound. It blocks until a connection frees, the acquire timeout expires
// (ErrPoolExhausted), or ctx is done.
func (p *Pool) Get(ctx context.Context) (*sql.DB, error) {
	deadline := time.Now().Add(p.timeout)
	// The condition variable has no timed wait; a timer broadcast bounds it.
	wake := time.AfterFunc(p.timeout, func() { p.cond.Broadcast() })
	defer wake.Stop()
	stop := context.AfterFunc(ctx, func() { p.cond.Broadcast() })
	defer stop()

	p.mu.Lock()
	defer p.mu.Unlock()
	for {
		if p.closed {
			return nil, ErrPoolClosed
		}
		if n := len(p.idle); n > 0 {
			conn := p.idle[n-1]
			p.idle = p.idle[:n-1]
			p.inUse++
			return conn, nil
		}
		if p.inUse < p.max {
			conn, err := Open(p.path)
			if err != nil {
				return nil, err
			}
			p.inUse++
			return conn, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !time.Now().Before(deadline) {
			return nil, ErrPoolExhausted
		}
		p.cond.Wait()
	}
}

// Put returns a connection to the pool. The connection is probed first and
// closed instead of pooled if the probe fails.
func (p *Pool) Put(conn *sql.DB) {
	if conn == nil {
		return
	}
	var one int
	healthy := conn.QueryRow("SELECT 1").Scan(&one) == nil

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inUse--
	if !healthy || p.closed {
		_ = conn.Close()
	} else {
		p.idle = append(p.idle, conn)
	}
	p.cond.Signal()
}

// With runs fn with a pooled connection for the duration of one logical
// operation.
func (p *Pool) With(ctx context.Context, fn func(conn *sql.DB) error) error {
	conn, err := p.Get(ctx)
	if err != nil {
		return err
	}
	defer p.Put(conn)
	return fn(conn)
}

// WithTx runs fn inside a transaction on a pooled connection, committing on
// success and rolling back on error.
func (p *Pool) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return p.With(ctx, func(conn *sql.DB) error {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if err := fn(tx); err != nil {
			_ = tx.Rollback()
			return err
		}
		return tx.Commit()
	})
}

// Close closes all idle connections and fails subsequent Gets. Connections
// currently leased are closed when returned.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	for _, conn := range p.idle {
		_ = conn.Close()
	}
	p.idle = nil
	p.cond.Broadcast()
	return nil
}
