package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/bootstrap"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/config"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/observability/logging"
)

const serviceName = "feedback-archiver"

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger(serviceName, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewWorker(ctx, cfg, serviceName)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", app.Metrics.Handler())
		slog.Info("worker_metrics_listening", "port", cfg.WorkerMetricsPort)
		if err := http.ListenAndServe(":"+cfg.WorkerMetricsPort, mux); err != nil {
			slog.Error("worker_metrics_server_failed", "error", err)
		}
	}()

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeFeedbackRecorded(ctx, func(handlerCtx context.Context, feedbackID string) error {
		archiveCtx, cancel := context.WithTimeout(handlerCtx, 30*time.Second)
		defer cancel()

		app.Metrics.StartArchive()
		start := time.Now()

		fb, err := app.Repo.GetByID(archiveCtx, feedbackID)
		if err == nil {
			app.Metrics.ObserveQueueLag(serviceName, time.Since(fb.CreatedAt))
			err = app.Archive.Append(archiveCtx, fb)
		}

		app.Metrics.FinishArchive(serviceName, time.Since(start), err)
		if err != nil {
			return err
		}
		slog.Info("feedback_archived", "feedback_id", feedbackID)
		return nil
	})
	if err != nil {
		slog.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}
