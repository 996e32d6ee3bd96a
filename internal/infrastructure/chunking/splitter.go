package chunking

import (
	"strings"

	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/domain"
)

type Splitter struct {
	ChunkSize int
	Overlap   int
}

func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &Splitter{
		ChunkSize: chunkSize,
		Overlap:   overlap,
	}
}

func (s *Splitter) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := s.ChunkSize - s.Overlap
	if step <= 0 {
		step = s.ChunkSize
	}

	out := make([]string, 0, len(runes)/step+1)
	for start := 0; start < len(runes); start += step {
		end := start + s.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			out = append(out, chunk)
		}
		if end == len(runes) {
			break
		}
	}
	return out
}

// SplitRecord segments a record whose solution text exceeds the chunk
// size. Each segment keeps the full problem text and identifiers so a
// search hit on any segment still surfaces the whole context. Records
// that fit return unchanged as a single-element slice.
func (s *Splitter) SplitRecord(rec domain.UniformRecord) []domain.UniformRecord {
	if len([]rune(rec.SolutionText)) <= s.ChunkSize {
		return []domain.UniformRecord{rec}
	}

	segments := s.Split(rec.SolutionText)
	out := make([]domain.UniformRecord, 0, len(segments))
	for _, seg := range segments {
		segRec := rec
		segRec.SolutionText = seg
		out = append(out, segRec)
	}
	return out
}

// SplitRecords applies SplitRecord across a batch.
func (s *Splitter) SplitRecords(records []domain.UniformRecord) []domain.UniformRecord {
	out := make([]domain.UniformRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, s.SplitRecord(rec)...)
	}
	return out
}
