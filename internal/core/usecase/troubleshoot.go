package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/domain"
)

// TroubleshootUseCase runs one query cycle: retrieve, decide, then either
// answer directly from the top hit or compose with the generator. A fresh
// Response is produced per query; the only shared state is the read-only
// corpus index behind the retriever.
type TroubleshootUseCase struct {
	retriever *Retriever
	composer  *Composer
	limit     int
}

func NewTroubleshootUseCase(retriever *Retriever, composer *Composer, limit int) *TroubleshootUseCase {
	if limit <= 0 {
		limit = DefaultRetrievalLimit
	}
	return &TroubleshootUseCase{
		retriever: retriever,
		composer:  composer,
		limit:     limit,
	}
}

func (uc *TroubleshootUseCase) AnswerQuery(ctx context.Context, query string) (*domain.Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "answer query", errors.New("empty query"))
	}

	outcome := uc.retriever.Retrieve(ctx, query, uc.limit)
	top := outcome.Top()
	mode := Decide(top.Score, top.Record.Source)

	resp := &domain.Response{
		Query:     query,
		Mode:      mode,
		BestScore: top.Score,
		Results:   outcome,
	}

	switch mode {
	case domain.ModeDirect:
		// Terminal: retrieval alone is confident, the generation capability
		// is skipped entirely.
		resp.Summary = fmt.Sprintf("High confidence (%.2f). Direct solution found.", top.Score)
		resp.Answer = uc.composer.Compose(ctx, domain.ModeDirect, query, outcome)
	case domain.ModeHybrid:
		resp.Summary = fmt.Sprintf("Medium confidence (%.2f). Combining retrieved insight with fallback steps.", top.Score)
		resp.Answer = uc.composer.Compose(ctx, domain.ModeHybrid, query, outcome)
	default:
		resp.Summary = fmt.Sprintf("Low confidence (%.2f). Using fallback troubleshooting.", top.Score)
		resp.Answer = uc.composer.Compose(ctx, domain.ModeFallback, query, outcome)
	}

	return resp, nil
}
