package localfs

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/domain"
)

var archiveHeader = []string{"id", "query", "mode", "best_score", "status", "answer", "created_at"}

// Archive appends exported feedback to a CSV file on local disk. It
// stands in for blob storage; one worker process owns the file, the
// mutex covers concurrent message handlers within it.
type Archive struct {
	path string

	mu sync.Mutex
}

func New(path string) (*Archive, error) {
	if path == "" {
		path = "./data/feedback_archive.csv"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	return &Archive{path: path}, nil
}

func (a *Archive) Append(ctx context.Context, fb *domain.Feedback) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	info, err := os.Stat(a.path)
	writeHeader := err != nil || info.Size() == 0

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(archiveHeader); err != nil {
			return fmt.Errorf("write archive header: %w", err)
		}
	}
	record := []string{
		fb.ID,
		fb.Query,
		string(fb.Mode),
		strconv.FormatFloat(fb.BestScore, 'f', -1, 64),
		fb.Status,
		fb.Answer,
		fb.CreatedAt.UTC().Format(time.RFC3339),
	}
	if err := w.Write(record); err != nil {
		return fmt.Errorf("write archive row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush archive: %w", err)
	}
	return nil
}
