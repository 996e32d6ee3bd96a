package usecase

import "github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/domain"

// Confidence thresholds. The retriever, router and orchestration all read
// these constants; they must never diverge.
const (
	HighConfidence   = 0.5
	MediumConfidence = 0.35
)

// Decide maps the top hit's score and source tag to an answering mode.
// Pure function; rules apply in order and boundary values belong to the
// higher tier (a score of exactly 0.5 is DIRECT, exactly 0.35 is HYBRID).
// An error-tagged hit or an exact zero score means retrieval produced no
// usable signal, so thresholding is skipped and fallback is forced.
func Decide(topScore float64, topSource domain.SourceTag) domain.DecisionMode {
	switch {
	case topSource.IsError() || topScore == 0.0:
		return domain.ModeFallback
	case topScore >= HighConfidence:
		return domain.ModeDirect
	case topScore >= MediumConfidence:
		return domain.ModeHybrid
	default:
		return domain.ModeFallback
	}
}
