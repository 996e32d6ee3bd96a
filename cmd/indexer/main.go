package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/bootstrap"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/config"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/observability/logging"
)

const serviceName = "corpus-indexer"

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger(serviceName, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bootstrap.RunIndexer(ctx, cfg); err != nil {
		slog.Error("indexing_failed", "error", err)
		os.Exit(1)
	}
}
