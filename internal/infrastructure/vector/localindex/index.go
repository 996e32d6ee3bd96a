package localindex

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/domain"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/ports"
)

const cosineEpsilon = 1e-12

// Index is the degraded retrieval path: a full in-memory copy of the
// corpus vectors, scanned linearly with cosine similarity. It is loaded
// from a snapshot the indexer writes next to the Qdrant upsert, so the
// service still answers when Qdrant is unreachable.
type Index struct {
	dimension int
	vectors   [][]float32
	records   []domain.UniformRecord
}

// snapshot is the on-disk JSON form. Vectors and payloads are parallel
// slices; the file is written once by the indexer and read-only after.
type snapshot struct {
	Dimension int                    `json:"dimension"`
	Vectors   [][]float32            `json:"vectors"`
	Payloads  []domain.UniformRecord `json:"payloads"`
}

func New(dimension int) *Index {
	return &Index{dimension: dimension}
}

func (idx *Index) Len() int { return len(idx.records) }

func (idx *Index) Dimension() int { return idx.dimension }

// Add appends one record with its vector. Returns an error on dimension
// mismatch so a bad embedding batch is caught at index time, not at query
// time.
func (idx *Index) Add(record domain.UniformRecord, vector []float32) error {
	if idx.dimension == 0 {
		idx.dimension = len(vector)
	}
	if len(vector) != idx.dimension {
		return fmt.Errorf("vector dimension %d, index dimension %d", len(vector), idx.dimension)
	}
	idx.vectors = append(idx.vectors, vector)
	idx.records = append(idx.records, record)
	return nil
}

func (idx *Index) Search(ctx context.Context, queryVector []float32, limit int) ([]ports.ScoredRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(idx.records) == 0 {
		return nil, nil
	}
	if len(queryVector) != idx.dimension {
		return nil, fmt.Errorf("query dimension %d, index dimension %d", len(queryVector), idx.dimension)
	}

	scored := make([]ports.ScoredRecord, len(idx.records))
	for i := range idx.records {
		scored[i] = ports.ScoredRecord{
			Score:  Cosine(queryVector, idx.vectors[i]),
			Record: idx.records[i],
		}
	}

	// Stable sort keeps insertion order among equal scores, so results
	// are deterministic across runs on the same snapshot.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// Cosine returns the cosine similarity of two vectors. The epsilon in the
// denominator keeps a zero vector from dividing by zero; its similarity
// to anything is 0.
func Cosine(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	return dot / (math.Sqrt(normA)*math.Sqrt(normB) + cosineEpsilon)
}

// Save writes the index as a JSON snapshot, replacing any existing file
// atomically via a temp file in the same directory.
func (idx *Index) Save(path string) error {
	snap := snapshot{
		Dimension: idx.dimension,
		Vectors:   idx.vectors,
		Payloads:  idx.records,
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot written by Save.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if len(snap.Vectors) != len(snap.Payloads) {
		return nil, fmt.Errorf("snapshot corrupt: %d vectors, %d payloads", len(snap.Vectors), len(snap.Payloads))
	}
	for i, v := range snap.Vectors {
		if len(v) != snap.Dimension {
			return nil, fmt.Errorf("snapshot corrupt: vector %d has dimension %d, want %d", i, len(v), snap.Dimension)
		}
	}

	return &Index{
		dimension: snap.Dimension,
		vectors:   snap.Vectors,
		records:   snap.Payloads,
	}, nil
}
