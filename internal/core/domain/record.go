package domain

import "time"

// SourceTag identifies which source schema a record was normalized from.
type SourceTag string

const (
	SourceIncidentRecord   SourceTag = "incident_record"
	SourceTechRecord       SourceTag = "tech_record"
	SourceMetadataIncident SourceTag = "metadata_incident"
	SourceMetadataTech     SourceTag = "metadata_tech"
	SourceUnknown          SourceTag = "unknown"
	SourceError            SourceTag = "error"
)

// IsError reports whether the tag marks a retrieval failure sentinel.
// Tag comparison is case-insensitive so payloads written by older index
// builds ("Error") keep routing to fallback.
func (t SourceTag) IsError() bool {
	switch t {
	case SourceError, "Error", "ERROR":
		return true
	default:
		return false
	}
}

// UniformRecord is the normalized problem/solution pair every source schema
// maps into. At least one of ProblemText/SolutionText is non-empty; rows
// failing that are dropped during normalization.
type UniformRecord struct {
	ProblemText  string    `json:"problem_text"`
	SolutionText string    `json:"solution_text"`
	Source       SourceTag `json:"source"`
	ProductID    string    `json:"product_id"`
	DocID        string    `json:"doc_id"`
}

// RetrievalHit is one ranked similarity result. Rank is 1-based and dense
// within a result list; sentinel hits use rank 0.
type RetrievalHit struct {
	Rank   int           `json:"rank"`
	Score  float64       `json:"score"`
	Record UniformRecord `json:"record"`
}

// RetrievalOutcome holds the ranked hits for one query. It always contains
// at least one hit: when nothing matched or retrieval failed, a sentinel hit
// stands in so downstream logic never branches on emptiness.
type RetrievalOutcome struct {
	Hits []RetrievalHit `json:"hits"`
}

// Top returns the best hit. Outcomes are constructed non-empty; the zero
// value falls back to the no-match sentinel.
func (o RetrievalOutcome) Top() RetrievalHit {
	if len(o.Hits) == 0 {
		return NoMatchHit()
	}
	return o.Hits[0]
}

// NoMatchHit is the sentinel for "nothing similar found" (empty result set
// or no retrieval backend configured).
func NoMatchHit() RetrievalHit {
	return RetrievalHit{
		Rank:  0,
		Score: 0.0,
		Record: UniformRecord{
			ProblemText:  "No similar records found",
			SolutionText: "Please try rephrasing your query or contact support.",
			Source:       SourceUnknown,
		},
	}
}

// ErrorHit is the sentinel for a failed retrieval call. The error message
// rides in SolutionText and the error tag forces the router to fallback.
func ErrorHit(err error) RetrievalHit {
	msg := "unknown retrieval error"
	if err != nil {
		msg = err.Error()
	}
	return RetrievalHit{
		Rank:  0,
		Score: 0.0,
		Record: UniformRecord{
			ProblemText:  "Error during retrieval",
			SolutionText: msg,
			Source:       SourceError,
		},
	}
}

// DecisionMode is the confidence-gated answering mode for one query.
type DecisionMode string

const (
	ModeDirect   DecisionMode = "DIRECT"
	ModeHybrid   DecisionMode = "HYBRID"
	ModeFallback DecisionMode = "FALLBACK"
)

// Response is the output of one troubleshooting query cycle. It is created
// fresh per query and never mutated after return.
type Response struct {
	Query     string           `json:"query"`
	Mode      DecisionMode     `json:"mode"`
	BestScore float64          `json:"best_score"`
	Summary   string           `json:"summary"`
	Answer    string           `json:"answer"`
	Results   RetrievalOutcome `json:"results"`
}

// Feedback is a user verdict on a produced answer.
type Feedback struct {
	ID        string       `json:"id"`
	Query     string       `json:"query"`
	Mode      DecisionMode `json:"mode"`
	BestScore float64      `json:"best_score"`
	Status    string       `json:"status"`
	Answer    string       `json:"answer"`
	CreatedAt time.Time    `json:"created_at"`
}
