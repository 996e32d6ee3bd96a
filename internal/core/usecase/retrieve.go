package usecase

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/domain"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/ports"
)

// DefaultRetrievalLimit bounds a result list when the caller passes no limit.
const DefaultRetrievalLimit = 5

// Retriever produces a ranked similarity outcome for a query. The remote
// searcher is the primary path; the local searcher is the degraded path
// used when the remote one is unconfigured or unreachable. Either may be
// nil. Retrieve never fails: every failure collapses into a sentinel hit.
type Retriever struct {
	embedder ports.Embedder
	remote   ports.RecordSearcher
	local    ports.RecordSearcher
	timeout  time.Duration
	observer Observer
}

// SetObserver attaches an optional metrics observer. Must be called
// before the retriever serves queries.
func (r *Retriever) SetObserver(obs Observer) {
	r.observer = obs
}

func NewRetriever(embedder ports.Embedder, remote, local ports.RecordSearcher, timeout time.Duration) *Retriever {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Retriever{
		embedder: embedder,
		remote:   remote,
		local:    local,
		timeout:  timeout,
	}
}

func (r *Retriever) Retrieve(ctx context.Context, query string, limit int) domain.RetrievalOutcome {
	if limit <= 0 {
		limit = DefaultRetrievalLimit
	}
	if r.embedder == nil || (r.remote == nil && r.local == nil) {
		slog.Warn("retrieval_unconfigured", "query_len", len(query))
		return outcomeOf(domain.NoMatchHit())
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	queryVector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		slog.Warn("embed_query_failed", "error", err)
		r.observeRetrievalError()
		return outcomeOf(domain.ErrorHit(err))
	}

	scored, err := r.search(ctx, queryVector, limit)
	if err != nil {
		r.observeRetrievalError()
		return outcomeOf(domain.ErrorHit(err))
	}
	if len(scored) == 0 {
		return outcomeOf(domain.NoMatchHit())
	}
	return rankHits(scored, limit)
}

func (r *Retriever) search(ctx context.Context, queryVector []float32, limit int) ([]ports.ScoredRecord, error) {
	if r.remote == nil {
		return r.local.Search(ctx, queryVector, limit)
	}

	scored, err := r.remote.Search(ctx, queryVector, limit)
	if err == nil {
		return scored, nil
	}
	if r.local == nil {
		slog.Warn("remote_search_failed", "error", err)
		return nil, err
	}

	slog.Warn("remote_search_failed_degrading_to_local", "error", err)
	if r.observer != nil {
		r.observer.DegradedRetrieval()
	}
	return r.local.Search(ctx, queryVector, limit)
}

func (r *Retriever) observeRetrievalError() {
	if r.observer != nil {
		r.observer.RetrievalError()
	}
}

// rankHits orders by non-increasing score and assigns dense 1-based ranks.
// Backends return sorted results already; the sort here keeps the ordering
// invariant independent of backend behavior.
func rankHits(scored []ports.ScoredRecord, limit int) domain.RetrievalOutcome {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}

	hits := make([]domain.RetrievalHit, 0, len(scored))
	for i, s := range scored {
		hits = append(hits, domain.RetrievalHit{
			Rank:   i + 1,
			Score:  s.Score,
			Record: s.Record,
		})
	}
	return domain.RetrievalOutcome{Hits: hits}
}

func outcomeOf(hit domain.RetrievalHit) domain.RetrievalOutcome {
	return domain.RetrievalOutcome{Hits: []domain.RetrievalHit{hit}}
}
