package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/gavel-labs/gavel/internal/analysis"
	"github.com/gavel-labs/gavel/internal/llm"
)

// fakeInvoker scripts responses per schema name. Structured calls decode the
// scripted JSON through the stage schema so validation runs exactly as it
// would against a live backend.
type fakeInvoker struct {
	mu        sync.Mutex
	responses map[string][]string
	failures  map[string]error
	calls     map[string]int
}

func newFakeInvoker() *fakeInvoker {
	return &fakeInvoker{
		responses: make(map[string][]string),
		failures:  make(map[string]error),
		calls:     make(map[string]int),
	}
}

func (f *fakeInvoker) respond(schemaName string, payloads ...string) {
	f.responses[schemaName] = payloads
}

func (f *fakeInvoker) fail(schemaName string, err error) {
	f.failures[schemaName] = err
}

func (f *fakeInvoker) InvokeText(ctx context.Context, messages []llm.Message) (string, error) {
	return "", errors.New("not scripted")
}

func (f *fakeInvoker) InvokeStructured(ctx context.Context, messages []llm.Message, schema llm.Schema) (any, error) {
	f.mu.Lock()
	n := f.calls[schema.Name]
	f.calls[schema.Name]++

	if err, ok := f.failures[schema.Name]; ok {
		f.mu.Unlock()
		return nil, err
	}

	payloads := f.responses[schema.Name]
	if len(payloads) == 0 {
		f.mu.Unlock()
		return nil, errors.New("no scripted response for " + schema.Name)
	}
	if n >= len(payloads) {
		n = len(payloads) - 1
	}
	payload := payloads[n]
	f.mu.Unlock()

	return schema.Decode(json.RawMessage(payload))
}

func (f *fakeInvoker) ActiveBackend() string { return "fake" }

func (f *fakeInvoker) callCount(schemaName string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[schemaName]
}

// fakeRenderer substitutes nothing; stage prompts are opaque to the fake
// invoker anyway.
type fakeRenderer struct{}

func (fakeRenderer) Render(name string, values map[string]string) (string, error) {
	return name, nil
}

func testRuntime(inv *fakeInvoker) *Runtime {
	return &Runtime{
		Invoker:     inv,
		Prompts:     fakeRenderer{},
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Concurrency: 2,
	}
}

const profilePayload = `{
	"document_type": "Mutual NDA",
	"parties": [
		{"name": "Acme Corp", "role": "Disclosing Party"},
		{"name": "Globex Inc", "role": "Receiving Party"}
	],
	"effective_date": "January 1, 2026",
	"summary": "Mutual confidentiality agreement between Acme and Globex.",
	"key_observations": ["Standard two-way obligations"]
}`

const clausesPayload = `{
	"clauses": [
		{
			"clause_id": "clause_1",
			"clause_number": "1",
			"clause_title": "Definitions",
			"clause_text": "Confidential Information means any non-public information."
		},
		{
			"clause_id": "clause_2",
			"clause_number": "2",
			"clause_title": "Exclusions",
			"clause_text": "Confidential Information excludes:\n2.1 information already public\n2.2 information independently developed"
		}
	]
}`

const classificationPayload = `{
	"clause_id": "clause_1",
	"category": "Definitions",
	"subcategory": "",
	"confidence": 0.95,
	"reasoning": "Defines the agreement's key term."
}`

const lowRiskPayload = `{
	"clause_id": "clause_1",
	"risk_level": "LOW",
	"risk_score": 0.1,
	"identified_risks": [],
	"recommendations": [],
	"overall_assessment": "Standard definitional clause."
}`

func TestRunFullPipeline(t *testing.T) {
	inv := newFakeInvoker()
	inv.respond("document_profile", profilePayload)
	inv.respond("clause_list", clausesPayload)
	inv.respond("classification", classificationPayload)
	inv.respond("risk_assessment", lowRiskPayload)

	result, err := Run(context.Background(), testRuntime(inv), "AGREEMENT TEXT")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Profile.DocumentType != "Mutual NDA" {
		t.Errorf("DocumentType = %q, want Mutual NDA", result.Profile.DocumentType)
	}
	if !strings.Contains(result.DocumentSummary, "Acme Corp (Disclosing Party)") {
		t.Errorf("DocumentSummary = %q, missing party rendering", result.DocumentSummary)
	}
	if len(result.Clauses) != 2 {
		t.Fatalf("len(Clauses) = %d, want 2", len(result.Clauses))
	}
	if len(result.Classifications) != 2 || len(result.Assessments) != 2 {
		t.Fatalf(
			"len(Classifications) = %d, len(Assessments) = %d, want 2 and 2",
			len(result.Classifications), len(result.Assessments),
		)
	}
	if result.Provider != "fake" {
		t.Errorf("Provider = %q, want fake", result.Provider)
	}

	// Output order matches input clause order regardless of completion order.
	for i, want := range []string{"clause_1", "clause_2"} {
		if result.Classifications[i].ClauseID != want {
			t.Errorf("Classifications[%d].ClauseID = %q, want %q", i, result.Classifications[i].ClauseID, want)
		}
		if result.Assessments[i].ClauseID != want {
			t.Errorf("Assessments[%d].ClauseID = %q, want %q", i, result.Assessments[i].ClauseID, want)
		}
	}

	// clause_2 contains two sub-section markers, so risk detection runs once
	// for clause_1 plus twice for clause_2's sub-clauses.
	if got := inv.callCount("risk_assessment"); got != 3 {
		t.Errorf("risk_assessment calls = %d, want 3", got)
	}
	if len(result.Assessments[1].SubResults) != 2 {
		t.Errorf("Assessments[1].SubResults = %d, want 2", len(result.Assessments[1].SubResults))
	}
}

func TestRunEmptyDocument(t *testing.T) {
	if _, err := Run(context.Background(), testRuntime(newFakeInvoker()), "   \n"); !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("Run() error = %v, want ErrEmptyDocument", err)
	}
}

func TestRunAnalyzeFailureIsFatal(t *testing.T) {
	inv := newFakeInvoker()
	inv.fail("document_profile", errors.New("provider down"))

	if _, err := Run(context.Background(), testRuntime(inv), "AGREEMENT TEXT"); !errors.Is(err, ErrAnalyzeFailed) {
		t.Errorf("Run() error = %v, want ErrAnalyzeFailed", err)
	}
}

func TestRunSplitFailureIsFatal(t *testing.T) {
	inv := newFakeInvoker()
	inv.respond("document_profile", profilePayload)
	inv.fail("clause_list", errors.New("provider down"))

	if _, err := Run(context.Background(), testRuntime(inv), "AGREEMENT TEXT"); !errors.Is(err, ErrSplitFailed) {
		t.Errorf("Run() error = %v, want ErrSplitFailed", err)
	}
}

func TestRunClassifyFallback(t *testing.T) {
	inv := newFakeInvoker()
	inv.respond("document_profile", profilePayload)
	inv.respond("clause_list", clausesPayload)
	inv.fail("classification", errors.New("provider down"))
	inv.respond("risk_assessment", lowRiskPayload)

	result, err := Run(context.Background(), testRuntime(inv), "AGREEMENT TEXT")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for i, c := range result.Classifications {
		if c.Category != analysis.CategoryMiscellaneous {
			t.Errorf("Classifications[%d].Category = %q, want Miscellaneous", i, c.Category)
		}
		if c.Confidence != 0.0 {
			t.Errorf("Classifications[%d].Confidence = %v, want 0.0", i, c.Confidence)
		}
	}
}

func TestRunRiskFallbackBias(t *testing.T) {
	inv := newFakeInvoker()
	inv.respond("document_profile", profilePayload)
	inv.respond("clause_list", clausesPayload)
	inv.respond("classification", classificationPayload)
	inv.fail("risk_assessment", errors.New("provider down"))

	result, err := Run(context.Background(), testRuntime(inv), "AGREEMENT TEXT")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for i, a := range result.Assessments {
		if a.RiskLevel != analysis.RiskMedium {
			t.Errorf("Assessments[%d].RiskLevel = %q, want MEDIUM", i, a.RiskLevel)
		}
		if a.RiskScore != 0.5 {
			t.Errorf("Assessments[%d].RiskScore = %v, want 0.5", i, a.RiskScore)
		}
	}

	if len(result.Triage.Medium) != 2 {
		t.Errorf("Triage.Medium = %d clause ids, want 2", len(result.Triage.Medium))
	}
}

func TestRunInvalidPayloadFallsBack(t *testing.T) {
	inv := newFakeInvoker()
	inv.respond("document_profile", profilePayload)
	inv.respond("clause_list", clausesPayload)
	// Confidence outside [0,1] fails schema validation.
	inv.respond("classification", `{
		"clause_id": "clause_1",
		"category": "Definitions",
		"subcategory": "",
		"confidence": 1.5,
		"reasoning": "bad"
	}`)
	inv.respond("risk_assessment", lowRiskPayload)

	result, err := Run(context.Background(), testRuntime(inv), "AGREEMENT TEXT")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for i, c := range result.Classifications {
		if c.Category != analysis.CategoryMiscellaneous {
			t.Errorf("Classifications[%d].Category = %q, want fallback Miscellaneous", i, c.Category)
		}
	}
}

func TestStageProfileSystemPrompt(t *testing.T) {
	got := classifierStage.SystemPrompt()
	if !strings.HasPrefix(got, "You are a Legal Classification Expert.") {
		t.Errorf("SystemPrompt() = %q, want role prefix", got)
	}
	if !strings.Contains(got, "Your goal is to accurately classify") {
		t.Errorf("SystemPrompt() = %q, want goal sentence", got)
	}
}
