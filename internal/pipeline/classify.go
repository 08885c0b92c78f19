package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/gavel-labs/gavel/internal/analysis"
)

// classifyClauses fans classification out across clauses with bounded
// errgroup concurrency, writing results by index to preserve input order.
// A clause whose call fails receives a fallback record; only context
// cancellation aborts the stage.
func classifyClauses(
	ctx context.Context,
	rt *Runtime,
	clauses []analysis.Clause,
) ([]analysis.Classification, error) {
	results := make([]analysis.Classification, len(clauses))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rt.workerCount(len(clauses)))

	for i := range clauses {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			classification, err := classifyClause(gctx, rt, clauses[i])
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}

				rt.Logger.WarnContext(
					gctx, "clause classification failed",
					"clause_id", clauses[i].ID,
					"error", err,
				)
				results[i] = fallbackClassification(clauses[i])
				return nil
			}

			results[i] = classification
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	return results, nil
}

func classifyClause(ctx context.Context, rt *Runtime, clause analysis.Clause) (analysis.Classification, error) {
	v, err := rt.invokeStage(ctx, classifierStage, map[string]string{
		"clause_id":   clause.ID,
		"clause_text": clause.Text,
	})
	if err != nil {
		return analysis.Classification{}, err
	}

	classification, ok := v.(analysis.Classification)
	if !ok {
		return analysis.Classification{}, fmt.Errorf("unexpected response type %T", v)
	}

	// The clause id is authoritative locally; never trust the echo.
	classification.ClauseID = clause.ID
	return classification, nil
}

// fallbackClassification flags a clause whose classification failed for
// manual review rather than dropping it.
func fallbackClassification(clause analysis.Clause) analysis.Classification {
	return analysis.Classification{
		ClauseID:    clause.ID,
		Category:    analysis.CategoryMiscellaneous,
		Subcategory: "Unknown",
		Confidence:  0.0,
		Reasoning:   "Classification failed - assigned to miscellaneous category",
	}
}
