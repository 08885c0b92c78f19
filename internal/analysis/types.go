// Package analysis defines the value records flowing through the legal
// document pipeline and the pure clause decomposition and risk-merge engine.
// Records are created once per run per clause and never mutated afterward;
// they travel downstream by value.
package analysis

import (
	"fmt"
	"slices"
	"strings"
)

// RiskLevel is the overall risk rating for a clause.
type RiskLevel string

// Risk levels, lowest to highest. The merge precedence is
// HIGH > MEDIUM > LOW > NONE; unrecognized values sort below NONE.
const (
	RiskNone   RiskLevel = "NONE"
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Rank returns the level's position in the merge precedence order.
// Unrecognized values rank below NONE.
func (l RiskLevel) Rank() int {
	switch l {
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	case RiskLow:
		return 1
	case RiskNone:
		return 0
	default:
		return -1
	}
}

// Severity rates a single identified risk.
type Severity string

// Severity levels for individual risks.
const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// Categories is the legal category taxonomy for clause classification.
// The taxonomy is consumed data, not core logic; it is validated on decode
// so a backend cannot invent categories.
var Categories = []string{
	"Definitions",
	"Confidentiality",
	"Permitted Disclosures",
	"Obligations",
	"Term and Duration",
	"Termination",
	"Return of Materials",
	"Remedies",
	"Indemnification",
	"Non-Compete",
	"Non-Solicitation",
	"Governing Law",
	"Dispute Resolution",
	"Notices",
	"Assignment",
	"Amendments",
	"Severability",
	"Entire Agreement",
	"Waiver",
	"Recitals",
	"Execution",
	"Miscellaneous",
}

// CategoryMiscellaneous is the conservative fallback classification category.
const CategoryMiscellaneous = "Miscellaneous"

// Clause is a single extracted clause. ID is unique within a document;
// Number encodes the clause's hierarchical position (e.g. "2", "2.1") and
// serves only as a decomposition signal. ParentID is set on sub-clauses
// produced by decomposition as a lookup back-reference.
type Clause struct {
	ID       string `json:"clause_id"`
	Number   string `json:"clause_number"`
	Title    string `json:"clause_title"`
	Text     string `json:"clause_text"`
	ParentID string `json:"parent_id,omitempty"`
}

// Validate checks the clause's structural constraints.
func (c Clause) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("clause_id required")
	}
	if c.Text == "" {
		return fmt.Errorf("clause %s: clause_text required", c.ID)
	}
	return nil
}

// ClauseList is the splitter stage's response record.
type ClauseList struct {
	Clauses []Clause `json:"clauses"`
}

// Validate checks each clause and rejects duplicate clause ids.
func (l ClauseList) Validate() error {
	if len(l.Clauses) == 0 {
		return fmt.Errorf("no clauses extracted")
	}

	seen := make(map[string]struct{}, len(l.Clauses))
	for _, c := range l.Clauses {
		if err := c.Validate(); err != nil {
			return err
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("duplicate clause_id %s", c.ID)
		}
		seen[c.ID] = struct{}{}
	}

	return nil
}

// Party identifies one party to the agreement.
type Party struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// DocumentProfile is the document analysis stage's response record.
type DocumentProfile struct {
	DocumentType    string   `json:"document_type"`
	Parties         []Party  `json:"parties"`
	EffectiveDate   string   `json:"effective_date,omitempty"`
	Summary         string   `json:"summary"`
	KeyObservations []string `json:"key_observations"`
}

// Validate checks the profile's required fields.
func (p DocumentProfile) Validate() error {
	if p.Summary == "" {
		return fmt.Errorf("summary required")
	}
	return nil
}

// ContextSummary renders the profile as the context string injected into
// downstream stage prompts.
func (p DocumentProfile) ContextSummary() string {
	parties := make([]string, len(p.Parties))
	for i, party := range p.Parties {
		parties[i] = fmt.Sprintf("%s (%s)", party.Name, party.Role)
	}

	partyList := "Unknown"
	if len(parties) > 0 {
		partyList = strings.Join(parties, ", ")
	}

	return fmt.Sprintf(
		"Document Type: %s\nParties: %s\nSummary: %s",
		p.DocumentType, partyList, p.Summary,
	)
}

// Classification is the classifier stage's per-clause response record.
type Classification struct {
	ClauseID    string  `json:"clause_id"`
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory,omitempty"`
	Confidence  float64 `json:"confidence"`
	Reasoning   string  `json:"reasoning"`
}

// Validate checks the classification's field constraints. An out-of-range
// confidence or an unknown category is a validation failure, not a value to
// be clamped.
func (c Classification) Validate() error {
	if c.ClauseID == "" {
		return fmt.Errorf("clause_id required")
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return fmt.Errorf("clause %s: confidence %v outside [0,1]", c.ClauseID, c.Confidence)
	}
	if !slices.Contains(Categories, c.Category) {
		return fmt.Errorf("clause %s: unknown category %q", c.ClauseID, c.Category)
	}
	return nil
}

// IdentifiedRisk is one specific risk found in a clause. It is never
// independently addressable; it exists only inside a RiskAssessment.
type IdentifiedRisk struct {
	RiskType    string   `json:"risk_type"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Impact      string   `json:"impact"`
}

// RiskAssessment is the risk detection stage's per-clause response record.
// SubResults is populated only when the parent clause was decomposed; it is
// diagnostic, never authoritative; RiskLevel and RiskScore always come from
// the single highest-precedence sub-result.
type RiskAssessment struct {
	ClauseID          string           `json:"clause_id"`
	RiskLevel         RiskLevel        `json:"risk_level"`
	RiskScore         float64          `json:"risk_score"`
	IdentifiedRisks   []IdentifiedRisk `json:"identified_risks"`
	Recommendations   []string         `json:"recommendations"`
	OverallAssessment string           `json:"overall_assessment"`
	Classification    *Classification  `json:"classification,omitempty"`
	SubResults        []RiskAssessment `json:"sub_results,omitempty"`
}

// Validate checks the assessment's field constraints.
func (r RiskAssessment) Validate() error {
	if r.ClauseID == "" {
		return fmt.Errorf("clause_id required")
	}
	if r.RiskLevel.Rank() < 0 {
		return fmt.Errorf("clause %s: unknown risk_level %q", r.ClauseID, r.RiskLevel)
	}
	if r.RiskScore < 0 || r.RiskScore > 1 {
		return fmt.Errorf("clause %s: risk_score %v outside [0,1]", r.ClauseID, r.RiskScore)
	}
	return nil
}
