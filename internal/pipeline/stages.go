package pipeline

import (
	"fmt"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/gavel-labs/gavel/internal/analysis"
	"github.com/gavel-labs/gavel/internal/llm"
)

// StageProfile shapes one pipeline stage's system instructions and response
// schema. Stages differ only in this data, never in behavior.
type StageProfile struct {
	Name      string
	Role      string
	Goal      string
	Expertise string
	Prompt    string
	Schema    llm.Schema
}

// SystemPrompt renders the stage's system message from its role, goal, and
// expertise description.
func (p StageProfile) SystemPrompt() string {
	return fmt.Sprintf("You are a %s. Your goal is to %s. %s", p.Role, p.Goal, p.Expertise)
}

var analyzerStage = StageProfile{
	Name: "analyze",
	Role: "Legal Document Analyst",
	Goal: "analyze legal documents to determine type, parties, and key characteristics",
	Expertise: "You are a senior legal professional with extensive experience reviewing " +
		"commercial agreements. You can quickly identify whether an agreement is mutual or " +
		"unilateral, extract the parties involved, and spot key structural characteristics " +
		"that inform detailed clause-level analysis.",
	Prompt: "document_analyzer",
	Schema: llm.NewSchema[analysis.DocumentProfile]("document_profile", documentProfileDef),
}

var splitterStage = StageProfile{
	Name: "split",
	Role: "Legal Document Analyst",
	Goal: "break down legal documents into logical, meaningful clauses",
	Expertise: "You have years of experience in contract law and document analysis. " +
		"You specialize in understanding the structure and components of legal agreements, " +
		"particularly Non-Disclosure Agreements.",
	Prompt: "splitter",
	Schema: llm.NewSchema[analysis.ClauseList]("clause_list", clauseListDef),
}

var classifierStage = StageProfile{
	Name: "classify",
	Role: "Legal Classification Expert",
	Goal: "accurately classify legal clauses into specific legal categories",
	Expertise: "You are a senior legal expert with extensive experience in contract law " +
		"and legal document analysis. You have deep knowledge of agreement structures and " +
		"can quickly identify the purpose and category of any legal clause.",
	Prompt: "classifier",
	Schema: llm.NewSchema[analysis.Classification]("classification", classificationDef),
}

var riskStage = StageProfile{
	Name: "assess",
	Role: "Legal Risk Assessment Expert",
	Goal: "identify potential risks, red flags, and problematic language in legal clauses",
	Expertise: "You are a senior legal risk analyst with decades of experience in contract " +
		"negotiation and risk assessment. You have an exceptional ability to spot problematic " +
		"language, unfair terms, and potential legal pitfalls in commercial agreements.",
	Prompt: "risk_detector",
	Schema: llm.NewSchema[analysis.RiskAssessment]("risk_assessment", riskAssessmentDef),
}

var riskLevels = []string{"NONE", "LOW", "MEDIUM", "HIGH"}

var severities = []string{"LOW", "MEDIUM", "HIGH"}

var documentProfileDef = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"document_type": {
			Type:        jsonschema.String,
			Description: "The specific contract type, e.g. Mutual NDA or Unilateral NDA",
		},
		"parties": {
			Type: jsonschema.Array,
			Items: &jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"name": {Type: jsonschema.String},
					"role": {Type: jsonschema.String},
				},
				Required:             []string{"name", "role"},
				AdditionalProperties: false,
			},
		},
		"effective_date": {
			Type:        jsonschema.String,
			Description: "Effective date as written in the document, empty if absent",
		},
		"summary": {Type: jsonschema.String},
		"key_observations": {
			Type:  jsonschema.Array,
			Items: &jsonschema.Definition{Type: jsonschema.String},
		},
	},
	Required:             []string{"document_type", "parties", "effective_date", "summary", "key_observations"},
	AdditionalProperties: false,
}

var clauseListDef = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"clauses": {
			Type: jsonschema.Array,
			Items: &jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"clause_id": {
						Type:        jsonschema.String,
						Description: "Stable identifier, unique within the document",
					},
					"clause_number": {
						Type:        jsonschema.String,
						Description: "Clause number as written, empty if unnumbered",
					},
					"clause_title": {Type: jsonschema.String},
					"clause_text": {
						Type:        jsonschema.String,
						Description: "Verbatim clause text from the document",
					},
				},
				Required:             []string{"clause_id", "clause_number", "clause_title", "clause_text"},
				AdditionalProperties: false,
			},
		},
	},
	Required:             []string{"clauses"},
	AdditionalProperties: false,
}

var classificationDef = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"clause_id": {Type: jsonschema.String},
		"category": {
			Type: jsonschema.String,
			Enum: analysis.Categories,
		},
		"subcategory": {
			Type:        jsonschema.String,
			Description: "More specific subcategory within the main category, empty if none",
		},
		"confidence": {
			Type:        jsonschema.Number,
			Description: "Classification confidence between 0.0 and 1.0",
		},
		"reasoning": {Type: jsonschema.String},
	},
	Required:             []string{"clause_id", "category", "subcategory", "confidence", "reasoning"},
	AdditionalProperties: false,
}

var riskAssessmentDef = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"clause_id": {Type: jsonschema.String},
		"risk_level": {
			Type: jsonschema.String,
			Enum: riskLevels,
		},
		"risk_score": {
			Type:        jsonschema.Number,
			Description: "Risk score between 0.0 and 1.0, consistent with risk_level",
		},
		"identified_risks": {
			Type: jsonschema.Array,
			Items: &jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"risk_type":   {Type: jsonschema.String},
					"description": {Type: jsonschema.String},
					"severity": {
						Type: jsonschema.String,
						Enum: severities,
					},
					"impact": {Type: jsonschema.String},
				},
				Required:             []string{"risk_type", "description", "severity", "impact"},
				AdditionalProperties: false,
			},
		},
		"recommendations": {
			Type:  jsonschema.Array,
			Items: &jsonschema.Definition{Type: jsonschema.String},
		},
		"overall_assessment": {Type: jsonschema.String},
	},
	Required: []string{
		"clause_id", "risk_level", "risk_score",
		"identified_risks", "recommendations", "overall_assessment",
	},
	AdditionalProperties: false,
}
