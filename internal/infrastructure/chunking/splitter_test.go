package chunking

import (
	"strings"
	"testing"

	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/domain"
)

func TestSplitShortTextSingleChunk(t *testing.T) {
	s := NewSplitter(1000, 0)
	chunks := s.Split("reboot the ONT")
	if len(chunks) != 1 || chunks[0] != "reboot the ONT" {
		t.Fatalf("chunks = %v", chunks)
	}
}

func TestSplitLongTextNoOverlap(t *testing.T) {
	s := NewSplitter(10, 0)
	chunks := s.Split(strings.Repeat("a", 25))
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if len(chunks[0]) != 10 || len(chunks[2]) != 5 {
		t.Fatalf("chunk sizes = %d, %d, %d", len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}
}

func TestSplitEmptyText(t *testing.T) {
	if chunks := NewSplitter(1000, 0).Split(""); chunks != nil {
		t.Fatalf("chunks = %v", chunks)
	}
}

func TestSplitRecordKeepsContextPerSegment(t *testing.T) {
	s := NewSplitter(10, 0)
	rec := domain.UniformRecord{
		ProblemText:  "long procedure",
		SolutionText: strings.Repeat("x", 22),
		Source:       domain.SourceMetadataTech,
		DocID:        "D-4",
	}

	segments := s.SplitRecord(rec)
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	for i, seg := range segments {
		if seg.ProblemText != "long procedure" || seg.DocID != "D-4" || seg.Source != domain.SourceMetadataTech {
			t.Fatalf("segment %d lost context: %+v", i, seg)
		}
	}
}

func TestSplitRecordShortSolutionUnchanged(t *testing.T) {
	s := NewSplitter(1000, 0)
	rec := domain.UniformRecord{SolutionText: "reseat card", Source: domain.SourceTechRecord}
	segments := s.SplitRecord(rec)
	if len(segments) != 1 || segments[0] != rec {
		t.Fatalf("segments = %v", segments)
	}
}

func TestSplitRecordsBatch(t *testing.T) {
	s := NewSplitter(10, 0)
	records := []domain.UniformRecord{
		{SolutionText: "short", Source: domain.SourceTechRecord},
		{SolutionText: strings.Repeat("y", 15), Source: domain.SourceTechRecord},
	}
	out := s.SplitRecords(records)
	if len(out) != 3 {
		t.Fatalf("expected 3 records after split, got %d", len(out))
	}
}
