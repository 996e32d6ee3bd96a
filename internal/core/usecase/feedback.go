package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/domain"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/ports"
)

// Feedback statuses accepted from clients.
const (
	FeedbackHelpful    = "helpful"
	FeedbackNotHelpful = "not_helpful"
)

// FeedbackUseCase stores answer feedback and notifies the archiving
// worker. Persistence is the source of truth; a failed publish only
// delays archiving and is logged, not surfaced.
type FeedbackUseCase struct {
	store ports.FeedbackStore
	queue ports.FeedbackQueue
}

func NewFeedbackUseCase(store ports.FeedbackStore, queue ports.FeedbackQueue) *FeedbackUseCase {
	return &FeedbackUseCase{store: store, queue: queue}
}

func (uc *FeedbackUseCase) Record(ctx context.Context, fb *domain.Feedback) error {
	if fb == nil {
		return domain.WrapError(domain.ErrInvalidInput, "record feedback", errors.New("nil feedback"))
	}
	fb.Query = strings.TrimSpace(fb.Query)
	if fb.Query == "" {
		return domain.WrapError(domain.ErrInvalidInput, "record feedback", errors.New("empty query"))
	}
	switch fb.Status {
	case FeedbackHelpful, FeedbackNotHelpful:
	default:
		return domain.WrapError(domain.ErrInvalidInput, "record feedback", errors.New("unknown status "+fb.Status))
	}

	if fb.ID == "" {
		fb.ID = uuid.NewString()
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now().UTC()
	}

	if err := uc.store.Create(ctx, fb); err != nil {
		return err
	}

	if uc.queue != nil {
		if err := uc.queue.PublishFeedbackRecorded(ctx, fb.ID); err != nil {
			slog.Warn("feedback_publish_failed", "feedback_id", fb.ID, "error", err)
		}
	}
	return nil
}
