package analysis

// Triage buckets clause ids by their assessed risk level for the aggregate
// result. Bucket order follows the input assessment order.
type Triage struct {
	High   []string `json:"high"`
	Medium []string `json:"medium"`
	Low    []string `json:"low"`
	None   []string `json:"none"`
}

// BuildTriage distributes assessments into risk-level buckets. Unrecognized
// levels land in the medium bucket so they are flagged for review rather
// than silently passed.
func BuildTriage(assessments []RiskAssessment) Triage {
	var t Triage
	for _, a := range assessments {
		switch a.RiskLevel {
		case RiskHigh:
			t.High = append(t.High, a.ClauseID)
		case RiskLow:
			t.Low = append(t.Low, a.ClauseID)
		case RiskNone:
			t.None = append(t.None, a.ClauseID)
		default:
			t.Medium = append(t.Medium, a.ClauseID)
		}
	}
	return t
}

// HighRisk filters assessments down to those rated HIGH, preserving order.
func HighRisk(assessments []RiskAssessment) []RiskAssessment {
	var high []RiskAssessment
	for _, a := range assessments {
		if a.RiskLevel == RiskHigh {
			high = append(high, a)
		}
	}
	return high
}
