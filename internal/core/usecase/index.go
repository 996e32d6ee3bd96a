package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/domain"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/normalize"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/ports"
)

// embedBatchSize bounds one embedding request; corpora are embedded in
// chunks this big to keep request payloads reasonable.
const embedBatchSize = 64

// RecordSegmenter splits oversized records before embedding.
type RecordSegmenter interface {
	SplitRecords(records []domain.UniformRecord) []domain.UniformRecord
}

// IndexReport summarizes one offline indexing run.
type IndexReport struct {
	RowsLoaded  int
	RowsDropped int
	Records     int
	Segments    int
	Indexed     int
}

// IndexCorpusUseCase drives the offline pipeline: load raw rows,
// normalize them, segment long solutions, embed, and push the result to
// every configured index (remote collection, local snapshot).
type IndexCorpusUseCase struct {
	source    ports.CorpusSource
	segmenter RecordSegmenter
	embedder  ports.Embedder
	indexers  []ports.RecordIndexer
}

func NewIndexCorpusUseCase(
	source ports.CorpusSource,
	segmenter RecordSegmenter,
	embedder ports.Embedder,
	indexers ...ports.RecordIndexer,
) *IndexCorpusUseCase {
	return &IndexCorpusUseCase{
		source:    source,
		segmenter: segmenter,
		embedder:  embedder,
		indexers:  indexers,
	}
}

func (uc *IndexCorpusUseCase) IndexCorpus(ctx context.Context) (IndexReport, error) {
	var report IndexReport

	rows, err := uc.source.LoadRows(ctx)
	if err != nil {
		return report, domain.WrapError(domain.ErrRetrievalFailed, "load corpus", err)
	}
	report.RowsLoaded = len(rows)

	records, dropped := normalize.Rows(rows)
	report.RowsDropped = dropped
	report.Records = len(records)
	if len(records) == 0 {
		return report, domain.WrapError(domain.ErrEmptyCorpus, "index corpus", errors.New("no usable rows after normalization"))
	}
	if dropped > 0 {
		slog.Warn("corpus_rows_dropped", "dropped", dropped, "kept", len(records))
	}

	segments := records
	if uc.segmenter != nil {
		segments = uc.segmenter.SplitRecords(records)
	}
	report.Segments = len(segments)

	for start := 0; start < len(segments); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(segments) {
			end = len(segments)
		}
		batch := segments[start:end]

		vectors, err := uc.embedder.Embed(ctx, embeddingTexts(batch))
		if err != nil {
			return report, domain.WrapError(domain.ErrBackendUnavailable, "embed corpus batch", err)
		}
		if len(vectors) != len(batch) {
			return report, domain.WrapError(domain.ErrBackendUnavailable, "embed corpus batch",
				errors.New("vector count does not match batch size"))
		}

		for _, indexer := range uc.indexers {
			if err := indexer.IndexRecords(ctx, batch, vectors); err != nil {
				return report, domain.WrapError(domain.ErrBackendUnavailable, "index corpus batch", err)
			}
		}
		report.Indexed += len(batch)
	}

	return report, nil
}

// embeddingTexts builds the text embedded per segment: the problem side
// when present, else the solution. Matching the query side, which embeds
// free-form problem descriptions, keeps the similarity space coherent.
func embeddingTexts(records []domain.UniformRecord) []string {
	texts := make([]string, len(records))
	for i, rec := range records {
		if rec.ProblemText != "" {
			texts[i] = rec.ProblemText
			continue
		}
		texts[i] = rec.SolutionText
	}
	return texts
}
