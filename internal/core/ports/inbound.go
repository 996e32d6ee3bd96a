package ports

import (
	"context"

	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/domain"
)

// TroubleshootService is the inbound contract for one query cycle.
type TroubleshootService interface {
	AnswerQuery(ctx context.Context, query string) (*domain.Response, error)
}

// FeedbackRecorder is the inbound contract for capturing answer feedback.
type FeedbackRecorder interface {
	Record(ctx context.Context, fb *domain.Feedback) error
}
