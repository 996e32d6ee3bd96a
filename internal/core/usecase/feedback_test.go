package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/domain"
)

type feedbackStoreFake struct {
	created *domain.Feedback
	err     error
}

func (f *feedbackStoreFake) Create(_ context.Context, fb *domain.Feedback) error {
	f.created = fb
	return f.err
}

func (f *feedbackStoreFake) GetByID(context.Context, string) (*domain.Feedback, error) {
	return f.created, nil
}

type feedbackQueueFake struct {
	published []string
	err       error
}

func (f *feedbackQueueFake) PublishFeedbackRecorded(_ context.Context, id string) error {
	f.published = append(f.published, id)
	return f.err
}

func (f *feedbackQueueFake) SubscribeFeedbackRecorded(context.Context, func(context.Context, string) error) error {
	return nil
}

func TestRecordAssignsIDAndTimestamp(t *testing.T) {
	store := &feedbackStoreFake{}
	queue := &feedbackQueueFake{}
	uc := NewFeedbackUseCase(store, queue)

	fb := &domain.Feedback{Query: "slow wifi", Mode: domain.ModeHybrid, Status: FeedbackHelpful}
	if err := uc.Record(context.Background(), fb); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if store.created == nil || store.created.ID == "" {
		t.Fatalf("expected generated ID, got %+v", store.created)
	}
	if store.created.CreatedAt.IsZero() {
		t.Fatalf("expected timestamp assigned")
	}
	if len(queue.published) != 1 || queue.published[0] != store.created.ID {
		t.Fatalf("published = %v", queue.published)
	}
}

func TestRecordRejectsUnknownStatus(t *testing.T) {
	uc := NewFeedbackUseCase(&feedbackStoreFake{}, nil)
	err := uc.Record(context.Background(), &domain.Feedback{Query: "q", Status: "meh"})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestRecordRejectsEmptyQuery(t *testing.T) {
	uc := NewFeedbackUseCase(&feedbackStoreFake{}, nil)
	err := uc.Record(context.Background(), &domain.Feedback{Query: "  ", Status: FeedbackHelpful})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestRecordStoreFailurePropagates(t *testing.T) {
	store := &feedbackStoreFake{err: errors.New("db down")}
	queue := &feedbackQueueFake{}
	uc := NewFeedbackUseCase(store, queue)

	err := uc.Record(context.Background(), &domain.Feedback{Query: "q", Status: FeedbackHelpful})
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(queue.published) != 0 {
		t.Fatalf("must not publish when persistence failed")
	}
}

func TestRecordPublishFailureIsAbsorbed(t *testing.T) {
	store := &feedbackStoreFake{}
	queue := &feedbackQueueFake{err: errors.New("nats down")}
	uc := NewFeedbackUseCase(store, queue)

	if err := uc.Record(context.Background(), &domain.Feedback{Query: "q", Status: FeedbackNotHelpful}); err != nil {
		t.Fatalf("publish failure must not fail the request, got %v", err)
	}
}
