package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/domain"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/ports"
)

func newService(remote, local ports.RecordSearcher, gen ports.AnswerGenerator) *TroubleshootUseCase {
	retriever := NewRetriever(&embedderFake{vector: []float32{1}}, remote, local, 0)
	composer := NewComposer(nil, gen, 0)
	return NewTroubleshootUseCase(retriever, composer, 5)
}

func TestAnswerQueryDirect(t *testing.T) {
	remote := &searcherFake{results: []ports.ScoredRecord{
		{
			Score: 0.62,
			Record: domain.UniformRecord{
				ProblemText:  "router not assigning IP",
				SolutionText: "restart DHCP service",
				Source:       domain.SourceIncidentRecord,
			},
		},
	}}
	gen := &generatorFake{text: "should not run"}
	svc := newService(remote, nil, gen)

	resp, err := svc.AnswerQuery(context.Background(), "router not assigning IP address")
	if err != nil {
		t.Fatalf("AnswerQuery() error = %v", err)
	}
	if resp.Mode != domain.ModeDirect {
		t.Fatalf("mode = %s", resp.Mode)
	}
	if resp.Answer != "restart DHCP service" {
		t.Fatalf("answer = %q", resp.Answer)
	}
	if resp.BestScore != 0.62 {
		t.Fatalf("best score = %v", resp.BestScore)
	}
	if gen.prompt != "" {
		t.Fatalf("direct mode must skip the generation capability")
	}
	if !strings.Contains(resp.Summary, "High confidence") {
		t.Fatalf("summary = %q", resp.Summary)
	}
}

func TestAnswerQueryHybrid(t *testing.T) {
	remote := &searcherFake{results: []ports.ScoredRecord{
		{
			Score: 0.40,
			Record: domain.UniformRecord{
				ProblemText:  "wifi is slow in the evening",
				SolutionText: "move AP away from interference",
				Source:       domain.SourceMetadataIncident,
			},
		},
	}}
	gen := &generatorFake{text: "1. check channel 2. check load"}
	svc := newService(remote, nil, gen)

	resp, err := svc.AnswerQuery(context.Background(), "slow wifi")
	if err != nil {
		t.Fatalf("AnswerQuery() error = %v", err)
	}
	if resp.Mode != domain.ModeHybrid {
		t.Fatalf("mode = %s", resp.Mode)
	}
	if !strings.Contains(resp.Answer, "move AP away from interference") {
		t.Fatalf("answer missing retrieved solution:\n%s", resp.Answer)
	}
	if !strings.Contains(resp.Answer, DefaultChecklist()[0]) {
		t.Fatalf("answer missing checklist excerpt:\n%s", resp.Answer)
	}
}

func TestAnswerQueryFallbackWhenBackendDown(t *testing.T) {
	remote := &searcherFake{err: errors.New("connection refused")}
	svc := newService(remote, nil, &generatorFake{text: "generic advice"})

	resp, err := svc.AnswerQuery(context.Background(), "anything at all")
	if err != nil {
		t.Fatalf("AnswerQuery() error = %v", err)
	}
	if resp.Mode != domain.ModeFallback {
		t.Fatalf("mode = %s", resp.Mode)
	}
	if resp.BestScore != 0.0 {
		t.Fatalf("best score = %v", resp.BestScore)
	}
	for _, step := range DefaultChecklist() {
		if !strings.Contains(resp.Answer, step) {
			t.Fatalf("fallback answer missing checklist step %q", step)
		}
	}
	if !resp.Results.Top().Record.Source.IsError() {
		t.Fatalf("expected error sentinel in results")
	}
}

func TestAnswerQueryFallbackOnEmptyCorpus(t *testing.T) {
	svc := newService(&searcherFake{}, nil, nil)

	resp, err := svc.AnswerQuery(context.Background(), "printer on fire")
	if err != nil {
		t.Fatalf("AnswerQuery() error = %v", err)
	}
	if resp.Mode != domain.ModeFallback {
		t.Fatalf("mode = %s", resp.Mode)
	}
	if resp.Answer == "" {
		t.Fatalf("answer must be non-empty")
	}
}

func TestAnswerQueryGenerationFailureStillAnswers(t *testing.T) {
	remote := &searcherFake{results: []ports.ScoredRecord{
		{
			Score:  0.40,
			Record: domain.UniformRecord{SolutionText: "patch firmware", Source: domain.SourceTechRecord},
		},
	}}
	svc := newService(remote, nil, &generatorFake{err: errors.New("model overloaded")})

	resp, err := svc.AnswerQuery(context.Background(), "switch reboots randomly")
	if err != nil {
		t.Fatalf("AnswerQuery() error = %v", err)
	}
	if resp.Answer == "" {
		t.Fatalf("answer must be non-empty despite generation failure")
	}
	if !strings.Contains(resp.Answer, "patch firmware") {
		t.Fatalf("answer missing retrieved solution:\n%s", resp.Answer)
	}
	if !strings.Contains(resp.Answer, DefaultChecklist()[0]) {
		t.Fatalf("answer missing checklist text:\n%s", resp.Answer)
	}
}

func TestAnswerQueryRejectsEmptyQuery(t *testing.T) {
	svc := newService(&searcherFake{}, nil, nil)
	if _, err := svc.AnswerQuery(context.Background(), "   "); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}
