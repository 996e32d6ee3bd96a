package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/domain"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/ports"
)

// Checklist is the static troubleshooting sequence used when retrieval
// confidence is not high enough to answer directly.
type Checklist []string

// DefaultChecklist returns the built-in troubleshooting steps. Deployments
// can override them with a YAML file, see infrastructure/checklist.
func DefaultChecklist() Checklist {
	return Checklist{
		"Check physical connections (LAN cables, patch panels, RJ45 ports).",
		"Restart the affected network device (router/switch) and verify power.",
		"Verify device IP configuration (IP, subnet mask, gateway) and DHCP status.",
		"Test connectivity using ping, tracert (tracepath) to check latency and hops.",
		"Check DNS settings: try nslookup/dig and flush DNS cache on client.",
		"Review firewall, ACLs, VPN or proxy rules that could block traffic.",
		"Check recent configuration changes or firmware upgrades and roll back if needed.",
		"Collect logs from network device/system and inspect for errors (timestamps).",
	}
}

const (
	// hybridExcerptSteps is how much of the checklist accompanies a partial
	// match; fallbackPromptSteps is how much the fallback synthesis prompt
	// carries. The full list is always appended to fallback answers.
	hybridExcerptSteps  = 4
	fallbackPromptSteps = 6

	// maxPromptPairs caps how many retrieved problem/solution pairs a
	// generation prompt includes.
	maxPromptPairs = 3

	noSolutionPlaceholder = "No solution found."
	noHistoryPlaceholder  = "No historical data found."
	partialMatchNotice    = "Partial match found:"
	noCloseMatchNotice    = "No close match found."
	systemFraming         = "You are part of the BlueCom Network Troubleshooter Agent Team - an AI assistant that helps telecom engineers diagnose and fix network issues. Respond clearly, using 3-5 short, numbered steps. Focus on practical technical reasoning."
)

// Bullets renders the first n steps as a dashed list; n <= 0 means all.
func (c Checklist) Bullets(n int) string {
	if n <= 0 || n > len(c) {
		n = len(c)
	}
	lines := make([]string, 0, n)
	for _, step := range c[:n] {
		lines = append(lines, "- "+step)
	}
	return strings.Join(lines, "\n")
}

// Composer synthesizes the final answer text for a decided mode. The
// generator capability may be nil; composition always terminates with a
// non-empty answer.
type Composer struct {
	checklist  Checklist
	generator  ports.AnswerGenerator
	genTimeout time.Duration
	observer   Observer
}

// SetObserver attaches an optional metrics observer. Must be called
// before the composer serves queries.
func (c *Composer) SetObserver(obs Observer) {
	c.observer = obs
}

func NewComposer(checklist Checklist, generator ports.AnswerGenerator, genTimeout time.Duration) *Composer {
	if len(checklist) == 0 {
		checklist = DefaultChecklist()
	}
	if genTimeout <= 0 {
		genTimeout = 30 * time.Second
	}
	return &Composer{
		checklist:  checklist,
		generator:  generator,
		genTimeout: genTimeout,
	}
}

func (c *Composer) Checklist() Checklist { return c.checklist }

// Compose builds the answer for one query. The DIRECT branch is served
// verbatim from retrieval and never touches the generator.
func (c *Composer) Compose(ctx context.Context, mode domain.DecisionMode, query string, outcome domain.RetrievalOutcome) string {
	top := outcome.Top()

	switch mode {
	case domain.ModeDirect:
		if solution := strings.TrimSpace(top.Record.SolutionText); solution != "" {
			return solution
		}
		return noSolutionPlaceholder

	case domain.ModeHybrid:
		retrieved := strings.TrimSpace(top.Record.SolutionText)
		if retrieved == "" {
			retrieved = noSolutionPlaceholder
		}
		excerpt := c.checklist.Bullets(hybridExcerptSteps)
		synthesis := c.generate(ctx, c.buildHybridPrompt(query, outcome))
		if synthesis == "" {
			// Generation unavailable: substitute the raw retrieved context
			// so the answer still carries every composition segment.
			synthesis = retrievedContext(outcome)
		}
		return strings.Join([]string{partialMatchNotice, retrieved, synthesis, excerpt}, "\n\n")

	default:
		full := c.checklist.Bullets(0)
		synthesis := c.generate(ctx, c.buildFallbackPrompt(query, outcome))
		if synthesis == "" {
			return noCloseMatchNotice + "\n" + full
		}
		return noCloseMatchNotice + "\n" + synthesis + "\n\n" + full
	}
}

// generate invokes the generation capability with a bounded deadline.
// Any failure is absorbed; the caller substitutes static text.
func (c *Composer) generate(ctx context.Context, prompt string) string {
	if c.generator == nil {
		return ""
	}
	genCtx, cancel := context.WithTimeout(ctx, c.genTimeout)
	defer cancel()

	text, err := c.generator.GenerateFromPrompt(genCtx, prompt)
	if err != nil {
		slog.Warn("generation_failed", "error", err)
		if c.observer != nil {
			c.observer.GenerationFallback()
		}
		return ""
	}
	return strings.TrimSpace(text)
}

// BuildPrompt exposes the mode-specific prompt templates for callers
// that need to inspect them without composing.
func (c *Composer) BuildPrompt(mode domain.DecisionMode, query string, outcome domain.RetrievalOutcome) string {
	switch mode {
	case domain.ModeHybrid:
		return c.buildHybridPrompt(query, outcome)
	case domain.ModeFallback:
		return c.buildFallbackPrompt(query, outcome)
	default:
		return c.buildDirectPrompt(query, outcome)
	}
}

func (c *Composer) buildDirectPrompt(query string, outcome domain.RetrievalOutcome) string {
	return fmt.Sprintf(`%s

Customer issue: %s

Relevant historical match:
%s

Provide a short, direct fix or summary based on the retrieved solution.`,
		systemFraming, query, retrievedContext(outcome))
}

func (c *Composer) buildHybridPrompt(query string, outcome domain.RetrievalOutcome) string {
	return fmt.Sprintf(`%s

Customer issue: %s

Similar known issues and resolutions:
%s

Standard checklist excerpt:
%s

Generate 3-5 concise troubleshooting steps combining past data with logical technical reasoning.`,
		systemFraming, query, retrievedContext(outcome), c.checklist.Bullets(hybridExcerptSteps))
}

func (c *Composer) buildFallbackPrompt(query string, outcome domain.RetrievalOutcome) string {
	return fmt.Sprintf(`%s

Customer issue: %s

Similar known issues and resolutions:
%s

No historical matches found.
Standard checklist:
%s

Generate 3-5 helpful troubleshooting steps that are general, logical, and relevant to the issue.`,
		systemFraming, query, retrievedContext(outcome), c.checklist.Bullets(fallbackPromptSteps))
}

// retrievedContext renders up to maxPromptPairs non-empty problem/solution
// pairs, or an explicit placeholder when none carry any text.
func retrievedContext(outcome domain.RetrievalOutcome) string {
	blocks := make([]string, 0, maxPromptPairs)
	for _, hit := range outcome.Hits {
		if len(blocks) == maxPromptPairs {
			break
		}
		if hit.Rank == 0 {
			// Sentinel hits carry notice text, not history.
			continue
		}
		problem := strings.TrimSpace(hit.Record.ProblemText)
		solution := strings.TrimSpace(hit.Record.SolutionText)
		if problem == "" && solution == "" {
			continue
		}
		if problem == "" {
			problem = "N/A"
		}
		if solution == "" {
			solution = "N/A"
		}
		blocks = append(blocks, fmt.Sprintf("Problem: %s\nSolution: %s", problem, solution))
	}
	if len(blocks) == 0 {
		return noHistoryPlaceholder
	}
	return strings.Join(blocks, "\n\n")
}
