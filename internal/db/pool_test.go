package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestPool(t *testing.T, maxConns int, timeout time.Duration) *Pool {
	t.Helper()
	p := NewPool(filepath.Join(t.TempDir(), "board.db"), maxConns, timeout)
	t.Cleanup(func() {
		_ = p.Close()
	})
	return p
}

func TestPoolGetAndPut(t *testing.T) {
	p := newTestPool(t, 2, time.Second)
	ctx := context.Background()

	conn, err := p.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := conn.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	p.Put(conn)

	// The handle is reused rather than reopened.
	again, err := p.Get(ctx)
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if again != conn {
		t.Fatal("expected pooled connection to be reused")
	}
	p.Put(again)
}

func TestPoolExhaustion(t *testing.T) {
	p := newTestPool(t, 1, 100*time.Millisecond)
	ctx := context.Background()

	conn, err := p.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	start := time.Now()
	_, err = p.Get(ctx)
	if !errors.Is(err, ErrPoolExhausted) {
		t.Fatalf("expected ErrPoolExhausted, got %v", err)
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Fatalf("gave up too early: %v", elapsed)
	}
	p.Put(conn)
}

func TestPoolUnblocksOnPut(t *testing.T) {
	p := newTestPool(t, 1, 5*time.Second)
	ctx := context.Background()

	conn, err := p.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	got := make(chan error, 1)
	go func() {
		c, err := p.Get(ctx)
		if err == nil {
			p.Put(c)
		}
		got <- err
	}()

	time.Sleep(50 * time.Millisecond)
	p.Put(conn)

	select {
	case err := <-got:
		if err != nil {
			t.Fatalf("waiter failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("waiter never woke up")
	}
}

func TestPoolHonorsContext(t *testing.T) {
	p := newTestPool(t, 1, 5*time.Second)

	conn, err := p.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer p.Put(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = p.Get(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline, got %v", err)
	}
}

func TestPoolClosedGetFails(t *testing.T) {
	p := newTestPool(t, 1, time.Second)
	_ = p.Close()
	if _, err := p.Get(context.Background()); !errors.Is(err, ErrPoolClosed) {
		t.Fatalf("expected ErrPoolClosed, got %v", err)
	}
}
