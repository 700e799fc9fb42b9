package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/agentboard/agentboard/internal/board"
	"github.com/agentboard/agentboard/internal/config"
	"github.com/agentboard/agentboard/internal/core"
	"github.com/agentboard/agentboard/internal/db"
	"github.com/agentboard/agentboard/internal/logging"
	"github.com/agentboard/agentboard/internal/mcp"
)

// Version is overwritten at build time using -ldflags.
var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "agentboard-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.SetLevel(cfg.LogLevel)
	log := slog.Default()

	if err := core.EnsureStateDir(cfg.StateDir); err != nil {
		return err
	}

	pool := db.NewPool(core.DBPath(cfg.StateDir), cfg.Pool.MaxConns, cfg.Pool.AcquireTimeout)
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := pool.With(ctx, func(conn *sql.DB) error {
		return db.InitSchema(conn)
	}); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	log.Info("board opened", "state_dir", cfg.StateDir, "client_id", cfg.ClientID)

	signals := make(chan os.Signal, 2)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		log.Info("shutting down")
		cancel()
		// The scanner blocks on stdin; closing it ends the loop.
		_ = os.Stdin.Close()
	}()

	svc := board.New(pool, cfg, log)
	server := mcp.NewServer(Version, svc, cfg, log)
	return server.Run(ctx, os.Stdin, os.Stdout)
}
