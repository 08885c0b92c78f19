package pipeline

import (
	"context"
	"fmt"

	"github.com/gavel-labs/gavel/internal/analysis"
)

// analyzeDocument runs the document profiling stage. Its output seeds the
// context summary injected into downstream clause-level prompts, so a failure
// here is pipeline-fatal.
func analyzeDocument(ctx context.Context, rt *Runtime, documentText string) (analysis.DocumentProfile, error) {
	v, err := rt.invokeStage(ctx, analyzerStage, map[string]string{
		"document_text": documentText,
	})
	if err != nil {
		return analysis.DocumentProfile{}, fmt.Errorf("%w: %w", ErrAnalyzeFailed, err)
	}

	profile, ok := v.(analysis.DocumentProfile)
	if !ok {
		return analysis.DocumentProfile{}, fmt.Errorf("%w: unexpected response type %T", ErrAnalyzeFailed, v)
	}

	return profile, nil
}
