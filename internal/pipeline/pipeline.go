// Package pipeline orchestrates the four-stage legal document analysis:
// document profiling, clause splitting, per-clause classification, and
// per-clause risk assessment. Stages run strictly in order; the per-clause
// stages fan out across a bounded worker pool with output order preserved.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/gavel-labs/gavel/internal/analysis"
	"github.com/gavel-labs/gavel/internal/llm"
)

// Invoker abstracts the provider invocation layer. *llm.Manager satisfies it;
// tests substitute fakes. Implementations must be safe for concurrent use.
type Invoker interface {
	InvokeText(ctx context.Context, messages []llm.Message) (string, error)
	InvokeStructured(ctx context.Context, messages []llm.Message, schema llm.Schema) (any, error)
	ActiveBackend() string
}

// Renderer resolves named prompt templates with placeholder values.
// *prompts.Store satisfies it.
type Renderer interface {
	Render(name string, values map[string]string) (string, error)
}

// Runtime bundles the dependencies pipeline stages require. It is constructed
// by higher-level composition code from infrastructure systems.
type Runtime struct {
	Invoker     Invoker
	Prompts     Renderer
	Logger      *slog.Logger
	Concurrency int
}

// Result is the aggregate output of a pipeline run. All fields are plain
// JSON-serializable records with no provider-specific types.
type Result struct {
	Profile         analysis.DocumentProfile  `json:"profile"`
	DocumentSummary string                    `json:"document_summary"`
	Clauses         []analysis.Clause         `json:"clauses"`
	Classifications []analysis.Classification `json:"classifications"`
	Assessments     []analysis.RiskAssessment `json:"assessments"`
	Triage          analysis.Triage           `json:"triage"`
	Provider        string                    `json:"provider"`
	CompletedAt     time.Time                 `json:"completed_at"`
}

// Run executes the full analysis pipeline over raw document text. Failure of
// document analysis or clause splitting aborts the run; failure of an
// individual clause's classification or risk call is absorbed as a
// conservative fallback record biased toward manual review.
func Run(ctx context.Context, rt *Runtime, documentText string) (*Result, error) {
	if strings.TrimSpace(documentText) == "" {
		return nil, ErrEmptyDocument
	}

	profile, err := analyzeDocument(ctx, rt, documentText)
	if err != nil {
		return nil, err
	}

	summary := profile.ContextSummary()
	rt.Logger.InfoContext(
		ctx, "document analyzed",
		"document_type", profile.DocumentType,
		"parties", len(profile.Parties),
	)

	clauses, err := splitDocument(ctx, rt, documentText)
	if err != nil {
		return nil, err
	}

	rt.Logger.InfoContext(ctx, "document split", "clause_count", len(clauses))

	classifications, err := classifyClauses(ctx, rt, clauses)
	if err != nil {
		return nil, err
	}

	assessments, err := assessClauses(ctx, rt, clauses, classifications, summary)
	if err != nil {
		return nil, err
	}

	triage := analysis.BuildTriage(assessments)
	rt.Logger.InfoContext(
		ctx, "pipeline complete",
		"clause_count", len(clauses),
		"high_risk", len(triage.High),
		"provider", rt.Invoker.ActiveBackend(),
	)

	return &Result{
		Profile:         profile,
		DocumentSummary: summary,
		Clauses:         clauses,
		Classifications: classifications,
		Assessments:     assessments,
		Triage:          triage,
		Provider:        rt.Invoker.ActiveBackend(),
		CompletedAt:     time.Now().UTC(),
	}, nil
}

// invokeStage renders the stage's user prompt, pairs it with the stage's
// system message, and performs one structured invocation.
func (rt *Runtime) invokeStage(
	ctx context.Context,
	stage StageProfile,
	values map[string]string,
) (any, error) {
	userPrompt, err := rt.Prompts.Render(stage.Prompt, values)
	if err != nil {
		return nil, fmt.Errorf("render %s prompt: %w", stage.Name, err)
	}

	messages := llm.Conversation(stage.SystemPrompt(), userPrompt)
	return rt.Invoker.InvokeStructured(ctx, messages, stage.Schema)
}

func (rt *Runtime) workerCount(clauseCount int) int {
	limit := rt.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	return max(min(limit, clauseCount), 1)
}
