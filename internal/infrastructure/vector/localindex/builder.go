package localindex

import (
	"context"
	"fmt"

	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/domain"
)

// SnapshotBuilder accumulates records during an indexing run and writes
// the snapshot once at the end. It implements the same indexer port as
// the Qdrant client so the indexing pipeline feeds both uniformly.
type SnapshotBuilder struct {
	index *Index
	path  string
}

func NewSnapshotBuilder(path string) *SnapshotBuilder {
	return &SnapshotBuilder{
		index: New(0),
		path:  path,
	}
}

func (b *SnapshotBuilder) IndexRecords(ctx context.Context, records []domain.UniformRecord, vectors [][]float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(records) != len(vectors) {
		return fmt.Errorf("records/vectors mismatch: %d vs %d", len(records), len(vectors))
	}
	for i := range records {
		if err := b.index.Add(records[i], vectors[i]); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes the accumulated snapshot to disk.
func (b *SnapshotBuilder) Flush() error {
	return b.index.Save(b.path)
}

func (b *SnapshotBuilder) Len() int { return b.index.Len() }
