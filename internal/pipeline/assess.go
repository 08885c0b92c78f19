package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/gavel-labs/gavel/internal/analysis"
)

// assessClauses fans risk detection out across clauses with bounded errgroup
// concurrency, preserving input order. Each clause is first routed through
// decomposition: a single sub-clause means one direct call; multiple
// sub-clauses are assessed individually and merged worst-case-wins so risky
// language in one sub-section is not buried by surrounding clean ones.
func assessClauses(
	ctx context.Context,
	rt *Runtime,
	clauses []analysis.Clause,
	classifications []analysis.Classification,
	documentSummary string,
) ([]analysis.RiskAssessment, error) {
	results := make([]analysis.RiskAssessment, len(clauses))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rt.workerCount(len(clauses)))

	for i := range clauses {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			assessment := assessClause(gctx, rt, clauses[i], classifications[i], documentSummary)
			if gctx.Err() != nil {
				return gctx.Err()
			}

			assessment.Classification = &classifications[i]
			results[i] = assessment
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("assess: %w", err)
	}

	return results, nil
}

func assessClause(
	ctx context.Context,
	rt *Runtime,
	clause analysis.Clause,
	classification analysis.Classification,
	documentSummary string,
) analysis.RiskAssessment {
	subs := analysis.Decompose(clause)
	if len(subs) == 1 {
		return detectRisks(ctx, rt, subs[0], classification, documentSummary)
	}

	subResults := make([]analysis.RiskAssessment, len(subs))
	for i, sub := range subs {
		subResults[i] = detectRisks(ctx, rt, sub, classification, documentSummary)
	}

	return analysis.MergeRisks(clause, subResults)
}

// detectRisks performs one risk detection call. Failures are absorbed as the
// conservative fallback so the clause is flagged for review, never silently
// passed as safe.
func detectRisks(
	ctx context.Context,
	rt *Runtime,
	clause analysis.Clause,
	classification analysis.Classification,
	documentSummary string,
) analysis.RiskAssessment {
	v, err := rt.invokeStage(ctx, riskStage, map[string]string{
		"clause_id":        clause.ID,
		"clause_text":      clause.Text,
		"clause_category":  classification.Category,
		"document_summary": documentSummary,
	})
	if err != nil {
		if ctx.Err() == nil {
			rt.Logger.WarnContext(
				ctx, "clause risk detection failed",
				"clause_id", clause.ID,
				"error", err,
			)
		}
		return fallbackAssessment(clause)
	}

	assessment, ok := v.(analysis.RiskAssessment)
	if !ok {
		rt.Logger.WarnContext(
			ctx, "clause risk detection failed",
			"clause_id", clause.ID,
			"error", fmt.Errorf("unexpected response type %T", v),
		)
		return fallbackAssessment(clause)
	}

	assessment.ClauseID = clause.ID
	return assessment
}

// fallbackAssessment uses deliberately conservative defaults (MEDIUM risk,
// 0.5 score) so clauses whose analysis failed surface for manual review.
func fallbackAssessment(clause analysis.Clause) analysis.RiskAssessment {
	return analysis.RiskAssessment{
		ClauseID:  clause.ID,
		RiskLevel: analysis.RiskMedium,
		RiskScore: 0.5,
		IdentifiedRisks: []analysis.IdentifiedRisk{
			{
				RiskType:    "Analysis Failed",
				Description: "Risk analysis could not be completed",
				Severity:    analysis.SeverityMedium,
				Impact:      "Unable to assess potential impact",
			},
		},
		Recommendations: []string{
			"Manual review recommended due to analysis failure",
		},
		OverallAssessment: "Risk assessment failed - manual review required",
	}
}
