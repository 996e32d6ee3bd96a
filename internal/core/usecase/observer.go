package usecase

// Observer receives notable events on the query path. Implementations
// must be cheap and non-blocking; the metrics registry satisfies this.
// A nil observer disables observation.
type Observer interface {
	DegradedRetrieval()
	RetrievalError()
	GenerationFallback()
}
