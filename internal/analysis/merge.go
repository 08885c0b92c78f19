package analysis

// MergeRisks combines independent sub-clause risk results into one
// parent-level assessment under a worst-case-wins policy. The sub-result
// with the highest risk level (ties broken by first occurrence) supplies
// the merged level, score, and overall assessment verbatim; a numerically
// higher score on a lower-severity sibling is discarded so the score stays
// consistent with the authoritative level.
//
// Identified risks concatenate in sub-clause order without deduplication;
// each is tied to a specific location in the clause. Recommendations
// concatenate with exact-string deduplication, preserving first-occurrence
// order. The full input list is retained in SubResults for audit visibility.
func MergeRisks(parent Clause, subs []RiskAssessment) RiskAssessment {
	if len(subs) == 0 {
		return RiskAssessment{ClauseID: parent.ID, RiskLevel: RiskNone}
	}

	selected := 0
	for i, sub := range subs {
		if sub.RiskLevel.Rank() > subs[selected].RiskLevel.Rank() {
			selected = i
		}
	}

	var risks []IdentifiedRisk
	var recommendations []string
	seen := make(map[string]struct{})

	for _, sub := range subs {
		risks = append(risks, sub.IdentifiedRisks...)
		for _, rec := range sub.Recommendations {
			if _, dup := seen[rec]; dup {
				continue
			}
			seen[rec] = struct{}{}
			recommendations = append(recommendations, rec)
		}
	}

	merged := RiskAssessment{
		ClauseID:          parent.ID,
		RiskLevel:         subs[selected].RiskLevel,
		RiskScore:         subs[selected].RiskScore,
		IdentifiedRisks:   risks,
		Recommendations:   recommendations,
		OverallAssessment: subs[selected].OverallAssessment,
		SubResults:        subs,
	}

	// All sub-results share the parent's classification.
	merged.Classification = subs[0].Classification

	return merged
}
