// Command reindex recomputes stale feature records from their raw files
// and re-upserts their vectors.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/trackrec/records-backend-go/internal/app"
	"github.com/trackrec/records-backend-go/internal/config"
	"github.com/trackrec/records-backend-go/internal/logging"
)

func main() {
	all := flag.Bool("all", false, "recompute every record, not only outdated ones")
	flag.Parse()

	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logger := logging.Component("reindex")

	if cfg.IndexBackend == app.IndexMemory {
		logger.Warn().Msg("memory index selected, vectors will not outlive this run")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to start")
	}
	defer a.Close()

	res, err := a.Services.Ingest.Reindex(ctx, *all)
	if err != nil {
		logger.Error().Err(err).Msg("reindex aborted")
		a.Close()
		os.Exit(1)
	}
	if res.Failed > 0 {
		a.Close()
		os.Exit(2)
	}
}
