package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/config"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/ports"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/usecase"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/infrastructure/checklist"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/infrastructure/llm/ollama"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/infrastructure/queue/nats"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/infrastructure/repository/postgres"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/infrastructure/resilience"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/infrastructure/storage/localfs"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/infrastructure/vector/localindex"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/infrastructure/vector/qdrant"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/observability/metrics"
)

// App wires the query-path service. The worker and indexer binaries use
// narrower constructors below.
type App struct {
	Config config.Config

	TroubleshootUC ports.TroubleshootService
	FeedbackUC     ports.FeedbackRecorder
	FeedbackRepo   ports.FeedbackStore
	Metrics        *metrics.HTTPServerMetrics

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, serviceName string) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewFeedbackRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	exec := resilience.NewExecutor(resilience.DefaultConfig())
	ollamaClient := ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, exec)
	embedder := ollama.NewEmbedder(ollamaClient)
	generator := ollama.NewGenerator(ollamaClient)

	remote := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection, cfg.QdrantAPIKey)
	local := loadLocalIndex(cfg.SnapshotPath)

	steps, err := checklist.Load(cfg.ChecklistPath)
	if err != nil {
		return nil, fmt.Errorf("load checklist: %w", err)
	}

	m := metrics.NewHTTPServerMetrics(serviceName)
	observer := &metricsObserver{metrics: m, service: serviceName}

	retriever := usecase.NewRetriever(embedder, remote, local, time.Duration(cfg.RetrievalTimeoutSeconds)*time.Second)
	retriever.SetObserver(observer)
	composer := usecase.NewComposer(steps, generator, time.Duration(cfg.GenTimeoutSeconds)*time.Second)
	composer.SetObserver(observer)

	return &App{
		Config:         cfg,
		TroubleshootUC: usecase.NewTroubleshootUseCase(retriever, composer, cfg.RetrievalTopK),
		FeedbackUC:     usecase.NewFeedbackUseCase(repo, queue),
		FeedbackRepo:   repo,
		Metrics:        m,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// loadLocalIndex loads the degraded-path snapshot. A missing or corrupt
// snapshot is not fatal: the service runs remote-only until the indexer
// writes a fresh one.
func loadLocalIndex(path string) ports.RecordSearcher {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		slog.Warn("local_index_snapshot_missing", "path", path)
		return nil
	}
	idx, err := localindex.Load(path)
	if err != nil {
		slog.Warn("local_index_snapshot_unreadable", "path", path, "error", err)
		return nil
	}
	slog.Info("local_index_loaded", "path", path, "records", idx.Len(), "dimension", idx.Dimension())
	return idx
}

// WorkerApp wires the feedback archiving worker.
type WorkerApp struct {
	Config config.Config

	Queue   *nats.Queue
	Repo    ports.FeedbackStore
	Archive ports.FeedbackArchive
	Metrics *metrics.WorkerMetrics

	closeFn func()
}

func NewWorker(ctx context.Context, cfg config.Config, serviceName string) (*WorkerApp, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewFeedbackRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	archive, err := localfs.New(cfg.ArchivePath)
	if err != nil {
		return nil, fmt.Errorf("init feedback archive: %w", err)
	}

	return &WorkerApp{
		Config:  cfg,
		Queue:   queue,
		Repo:    repo,
		Archive: archive,
		Metrics: metrics.NewWorkerMetrics(serviceName),

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *WorkerApp) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

type metricsObserver struct {
	metrics *metrics.HTTPServerMetrics
	service string
}

func (o *metricsObserver) DegradedRetrieval() { o.metrics.RecordDegradedRetrieval(o.service) }

func (o *metricsObserver) RetrievalError() { o.metrics.RecordRetrievalError(o.service) }

func (o *metricsObserver) GenerationFallback() { o.metrics.RecordGenerationFallback(o.service) }
