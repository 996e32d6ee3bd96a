package domain

import (
	"errors"
	"fmt"
)

var (
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrRetrievalFailed    = errors.New("retrieval failed")
	ErrGenerationFailed   = errors.New("generation failed")
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmptyCorpus        = errors.New("empty corpus")
	ErrFeedbackNotFound   = errors.New("feedback not found")
	ErrTemporary          = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
