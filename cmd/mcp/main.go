package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgallion1/docchunk/internal/chunker"
	"github.com/dgallion1/docchunk/internal/config"
	"github.com/dgallion1/docchunk/internal/mcpserver"
	"github.com/dgallion1/docchunk/internal/stats"
)

var version = "dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("docchunk MCP server %s\n", version)
		os.Exit(0)
	}

	// stdout is reserved for the MCP protocol.
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg, err := config.Load("")
	if err != nil {
		log.Error("load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.ValidateChunking(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	engine := chunker.New(log, chunker.WithWorkers(cfg.EngineWorkers))
	srv := mcpserver.NewServer(engine, stats.NewLatency(cfg.StatsWindow), log, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
	log.Info("mcp server stopped")
}
