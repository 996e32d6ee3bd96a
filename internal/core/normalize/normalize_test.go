package normalize

import (
	"testing"

	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/domain"
)

func newRow(pairs ...string) RawRow {
	row := RawRow{Fields: make(map[string]string, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		row.Columns = append(row.Columns, pairs[i])
		row.Fields[pairs[i]] = pairs[i+1]
	}
	return row
}

func TestRowIncidentRecord(t *testing.T) {
	rec, ok := Row(newRow("ProblemDescription", "Router drops connection", "Tags", "dhcp"))
	if !ok {
		t.Fatalf("expected row to normalize")
	}
	if rec.ProblemText != "Router drops connection" {
		t.Fatalf("problem text = %q", rec.ProblemText)
	}
	if rec.SolutionText != "" {
		t.Fatalf("incident records carry no solution, got %q", rec.SolutionText)
	}
	if rec.Source != domain.SourceIncidentRecord {
		t.Fatalf("source = %s", rec.Source)
	}
}

func TestRowTechRecord(t *testing.T) {
	rec, ok := Row(newRow("step_description", "Restart the DHCP daemon"))
	if !ok {
		t.Fatalf("expected row to normalize")
	}
	if rec.ProblemText != "" || rec.SolutionText != "Restart the DHCP daemon" {
		t.Fatalf("unexpected fields: %+v", rec)
	}
	if rec.Source != domain.SourceTechRecord {
		t.Fatalf("source = %s", rec.Source)
	}
}

func TestRowMetadataIncidentPrefersProblemOverProductInfo(t *testing.T) {
	rec, ok := Row(newRow(
		"ProblemDescription", "VPN tunnel flaps",
		"ProductInformation", "EdgeRouter X",
		"SolutionDetails", "Pin the MTU to 1400",
	))
	if !ok {
		t.Fatalf("expected row to normalize")
	}
	if rec.ProblemText != "VPN tunnel flaps" {
		t.Fatalf("expected explicit problem field to win, got %q", rec.ProblemText)
	}
	if rec.SolutionText != "Pin the MTU to 1400" {
		t.Fatalf("solution = %q", rec.SolutionText)
	}
	if rec.Source != domain.SourceMetadataIncident {
		t.Fatalf("source = %s", rec.Source)
	}
}

func TestRowMetadataIncidentFallsBackToProductInfo(t *testing.T) {
	rec, ok := Row(newRow(
		"ProductInformation", "EdgeRouter X",
		"SolutionDetails", "Pin the MTU to 1400",
	))
	if !ok {
		t.Fatalf("expected row to normalize")
	}
	if rec.ProblemText != "EdgeRouter X" {
		t.Fatalf("problem = %q", rec.ProblemText)
	}
}

func TestRowMetadataTech(t *testing.T) {
	rec, ok := Row(newRow(
		"ProductInformation", "Switch SG300",
		"SolutionSteps", "1. Check VLAN tagging 2. Reapply trunk config",
	))
	if !ok {
		t.Fatalf("expected row to normalize")
	}
	if rec.Source != domain.SourceMetadataTech {
		t.Fatalf("source = %s", rec.Source)
	}
	if rec.ProblemText != "Switch SG300" {
		t.Fatalf("problem = %q", rec.ProblemText)
	}
}

func TestClassifyPrecedenceProblemWithoutSolutionDetailsWins(t *testing.T) {
	// A row carrying both ProblemDescription and step_description must be
	// classified by the earlier rule.
	row := newRow("ProblemDescription", "p", "step_description", "s")
	if got := Classify(row); got != ShapeIncidentRecord {
		t.Fatalf("expected incident shape, got %v", got)
	}
}

func TestClassifyPrecedenceStepDescriptionMasksSolutionDetails(t *testing.T) {
	row := newRow("step_description", "s", "SolutionDetails", "d", "ProblemDescription", "p")
	// ProblemDescription+SolutionDetails present, so rule 1 does not fire;
	// rule 2 (step_description) masks the metadata-incident rule.
	if got := Classify(row); got != ShapeTechRecord {
		t.Fatalf("expected tech shape, got %v", got)
	}
}

func TestRowUnknownShapeInfersBySubstring(t *testing.T) {
	rec, ok := Row(newRow(
		"IssueSummary", "WAN port flapping",
		"FixDetailNotes", "Replace the SFP module",
		"Owner", "noc",
	))
	if !ok {
		t.Fatalf("expected row to normalize")
	}
	if rec.Source != domain.SourceUnknown {
		t.Fatalf("source = %s", rec.Source)
	}
	if rec.ProblemText != "WAN port flapping" {
		t.Fatalf("problem = %q", rec.ProblemText)
	}
	if rec.SolutionText != "Replace the SFP module" {
		t.Fatalf("solution = %q", rec.SolutionText)
	}
}

func TestRowUnknownShapeConcatenatesInColumnOrder(t *testing.T) {
	rec, ok := Row(newRow(
		"ProblemSummary", "first",
		"IssueNotes", "second",
	))
	if !ok {
		t.Fatalf("expected row to normalize")
	}
	if rec.ProblemText != "first second" {
		t.Fatalf("expected space-joined column-order concat, got %q", rec.ProblemText)
	}
}

func TestRowWhitespaceOnlyDropped(t *testing.T) {
	if _, ok := Row(newRow("ProblemDescription", "   \t ")); ok {
		t.Fatalf("expected whitespace-only row to be dropped")
	}
}

func TestRowResolvesIDsCaseInsensitively(t *testing.T) {
	rec, ok := Row(newRow(
		"ProblemDescription", "DNS timeouts",
		"productid", "RT-500",
		"DocID", "KB-42",
	))
	if !ok {
		t.Fatalf("expected row to normalize")
	}
	if rec.ProductID != "RT-500" || rec.DocID != "KB-42" {
		t.Fatalf("ids = %q / %q", rec.ProductID, rec.DocID)
	}
}

func TestRowsCountsDropped(t *testing.T) {
	rows := []RawRow{
		newRow("ProblemDescription", "ok"),
		newRow("ProblemDescription", ""),
		newRow("Owner", "nobody"),
	}
	recs, dropped := Rows(rows)
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if dropped != 2 {
		t.Fatalf("expected 2 dropped, got %d", dropped)
	}
}
