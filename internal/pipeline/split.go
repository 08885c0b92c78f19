package pipeline

import (
	"context"
	"fmt"

	"github.com/gavel-labs/gavel/internal/analysis"
)

// splitDocument runs the clause splitting stage. Without a clause list no
// downstream stage can proceed, so a failure here is pipeline-fatal.
func splitDocument(ctx context.Context, rt *Runtime, documentText string) ([]analysis.Clause, error) {
	v, err := rt.invokeStage(ctx, splitterStage, map[string]string{
		"document_text": documentText,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSplitFailed, err)
	}

	list, ok := v.(analysis.ClauseList)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected response type %T", ErrSplitFailed, v)
	}

	return list.Clauses, nil
}
