package normalize

import (
	"strings"

	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/domain"
)

// RawRow is one record as loaded from a source file. Columns preserves the
// source column order so inferred-field concatenation stays deterministic.
type RawRow struct {
	Columns []string
	Fields  map[string]string
}

// Get returns the trimmed value of a column, or "" when absent.
func (r RawRow) Get(column string) string {
	return strings.TrimSpace(r.Fields[column])
}

// Has reports whether the row carries the column at all.
func (r RawRow) Has(column string) bool {
	_, ok := r.Fields[column]
	return ok
}

// Known source columns. The four record schemas are told apart by which of
// these are present.
const (
	colProblemDescription = "ProblemDescription"
	colSolutionDetails    = "SolutionDetails"
	colStepDescription    = "step_description"
	colSolutionSteps      = "SolutionSteps"
	colProductInformation = "ProductInformation"
)

// RowShape is the classified source schema of a raw row.
type RowShape int

const (
	ShapeUnknown RowShape = iota
	ShapeIncidentRecord
	ShapeTechRecord
	ShapeMetadataIncident
	ShapeMetadataTech
)

// Classify determines the source schema of a row. The order of checks is a
// fixed precedence chain: earlier rules mask later ones even when a row
// could match several.
func Classify(row RawRow) RowShape {
	switch {
	case row.Has(colProblemDescription) && !row.Has(colSolutionDetails):
		return ShapeIncidentRecord
	case row.Has(colStepDescription):
		return ShapeTechRecord
	case row.Has(colSolutionDetails):
		return ShapeMetadataIncident
	case row.Has(colSolutionSteps):
		return ShapeMetadataTech
	default:
		return ShapeUnknown
	}
}

// Row maps a raw source row into a UniformRecord. The second return is false
// when the row is malformed: both text fields empty after trimming.
func Row(row RawRow) (domain.UniformRecord, bool) {
	var rec domain.UniformRecord

	switch Classify(row) {
	case ShapeIncidentRecord:
		rec.ProblemText = row.Get(colProblemDescription)
		rec.SolutionText = ""
		rec.Source = domain.SourceIncidentRecord
	case ShapeTechRecord:
		rec.ProblemText = ""
		rec.SolutionText = row.Get(colStepDescription)
		rec.Source = domain.SourceTechRecord
	case ShapeMetadataIncident:
		switch {
		case row.Has(colProblemDescription):
			rec.ProblemText = row.Get(colProblemDescription)
		case row.Has(colProductInformation):
			rec.ProblemText = row.Get(colProductInformation)
		}
		rec.SolutionText = row.Get(colSolutionDetails)
		rec.Source = domain.SourceMetadataIncident
	case ShapeMetadataTech:
		if row.Has(colProductInformation) {
			rec.ProblemText = row.Get(colProductInformation)
		}
		rec.SolutionText = row.Get(colSolutionSteps)
		rec.Source = domain.SourceMetadataTech
	default:
		rec.ProblemText = joinMatching(row, problemHints)
		rec.SolutionText = joinMatching(row, solutionHints)
		rec.Source = domain.SourceUnknown
	}

	rec.ProductID = resolveAlias(row, productIDAliases)
	rec.DocID = resolveAlias(row, docIDAliases)

	if rec.ProblemText == "" && rec.SolutionText == "" {
		return domain.UniformRecord{}, false
	}
	return rec, true
}

// Rows normalizes a batch of raw rows. Malformed rows are dropped; the
// second return reports how many, for ingestion-side observability.
func Rows(rows []RawRow) ([]domain.UniformRecord, int) {
	out := make([]domain.UniformRecord, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		rec, ok := Row(row)
		if !ok {
			dropped++
			continue
		}
		out = append(out, rec)
	}
	return out, dropped
}

var (
	problemHints  = []string{"description", "problem", "issue"}
	solutionHints = []string{"solution", "steps", "detail"}

	productIDAliases = []string{"ProductID", "productid"}
	docIDAliases     = []string{"DocID", "docid"}
)

// joinMatching concatenates, space-joined and in source column order, every
// column whose lowercased name contains one of the hints.
func joinMatching(row RawRow, hints []string) string {
	parts := make([]string, 0, len(row.Columns))
	for _, col := range row.Columns {
		lower := strings.ToLower(col)
		for _, hint := range hints {
			if strings.Contains(lower, hint) {
				if v := row.Get(col); v != "" {
					parts = append(parts, v)
				}
				break
			}
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// resolveAlias finds the first alias present in the row, matching column
// names case-insensitively.
func resolveAlias(row RawRow, aliases []string) string {
	for _, alias := range aliases {
		lowerAlias := strings.ToLower(alias)
		for _, col := range row.Columns {
			if strings.ToLower(col) == lowerAlias {
				return row.Get(col)
			}
		}
	}
	return ""
}
