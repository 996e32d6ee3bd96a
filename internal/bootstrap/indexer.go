package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/config"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/usecase"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/infrastructure/chunking"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/infrastructure/corpus"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/infrastructure/llm/ollama"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/infrastructure/resilience"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/infrastructure/vector/localindex"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/infrastructure/vector/qdrant"
)

// verificationProbe is the query used to smoke-test the collection
// after an indexing run.
const verificationProbe = "network connectivity issue"

// RunIndexer executes one offline indexing run: corpus files in, Qdrant
// collection plus local snapshot out, followed by a verification search
// against the fresh collection.
func RunIndexer(ctx context.Context, cfg config.Config) error {
	exec := resilience.NewExecutor(resilience.DefaultConfig())
	ollamaClient := ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, exec)
	embedder := ollama.NewEmbedder(ollamaClient)

	remote := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection, cfg.QdrantAPIKey)
	snapshot := localindex.NewSnapshotBuilder(cfg.SnapshotPath)
	splitter := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	source := corpus.NewDirSource(cfg.CorpusDir)

	uc := usecase.NewIndexCorpusUseCase(source, splitter, embedder, remote, snapshot)
	report, err := uc.IndexCorpus(ctx)
	if err != nil {
		return err
	}

	if err := snapshot.Flush(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	slog.Info("indexing_complete",
		"rows_loaded", report.RowsLoaded,
		"rows_dropped", report.RowsDropped,
		"records", report.Records,
		"segments", report.Segments,
		"indexed", report.Indexed,
		"snapshot", cfg.SnapshotPath,
	)

	return verifyCollection(ctx, cfg, embedder, remote, report)
}

// verifyCollection confirms the fresh collection answers a probe search
// and the snapshot on disk round-trips with the indexed count.
func verifyCollection(
	ctx context.Context,
	cfg config.Config,
	embedder *ollama.Embedder,
	remote *qdrant.Client,
	report usecase.IndexReport,
) error {
	reloaded, err := localindex.Load(cfg.SnapshotPath)
	if err != nil {
		return fmt.Errorf("verify snapshot: %w", err)
	}
	if reloaded.Len() != report.Indexed {
		return fmt.Errorf("verify snapshot: %d records on disk, indexed %d", reloaded.Len(), report.Indexed)
	}

	probeVector, err := embedder.EmbedQuery(ctx, verificationProbe)
	if err != nil {
		return fmt.Errorf("verify search: embed probe: %w", err)
	}
	hits, err := remote.Search(ctx, probeVector, 1)
	if err != nil {
		return fmt.Errorf("verify search: %w", err)
	}
	if len(hits) == 0 {
		return fmt.Errorf("verify search: collection returned no hits after indexing %d segments", report.Indexed)
	}

	slog.Info("verification_passed", "probe_top_score", hits[0].Score, "snapshot_records", reloaded.Len())
	return nil
}
