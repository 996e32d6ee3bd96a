package ports

import (
	"context"

	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/domain"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/normalize"
)

// Embedder builds fixed-dimension vectors for queries and corpus texts.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// ScoredRecord is a raw nearest-neighbor result before ranking.
type ScoredRecord struct {
	Score  float64
	Record domain.UniformRecord
}

// RecordSearcher performs cosine nearest-neighbor search over the indexed
// corpus, remote or local. Results come back ordered by descending score.
type RecordSearcher interface {
	Search(ctx context.Context, queryVector []float32, limit int) ([]ScoredRecord, error)
}

// RecordIndexer upserts normalized records with their vectors. Used only by
// the offline indexing pipeline, never on the query path.
type RecordIndexer interface {
	IndexRecords(ctx context.Context, records []domain.UniformRecord, vectors [][]float32) error
}

// AnswerGenerator produces free text from a prompt. A nil generator is a
// valid configuration; the composer degrades to raw checklist text.
type AnswerGenerator interface {
	GenerateFromPrompt(ctx context.Context, prompt string) (string, error)
}

// CorpusSource loads raw rows from one or more record sources, already
// merged but not yet normalized.
type CorpusSource interface {
	LoadRows(ctx context.Context) ([]normalize.RawRow, error)
}

// FeedbackStore persists answer feedback.
type FeedbackStore interface {
	Create(ctx context.Context, fb *domain.Feedback) error
	GetByID(ctx context.Context, id string) (*domain.Feedback, error)
}

// FeedbackQueue publishes/consumes feedback-recorded events for the
// archiving worker.
type FeedbackQueue interface {
	PublishFeedbackRecorded(ctx context.Context, feedbackID string) error
	SubscribeFeedbackRecorded(ctx context.Context, handler func(context.Context, string) error) error
}

// FeedbackArchive appends exported feedback rows to the archive medium
// (blob storage stand-in).
type FeedbackArchive interface {
	Append(ctx context.Context, fb *domain.Feedback) error
}
