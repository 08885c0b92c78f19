package llm

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai/jsonschema"
)

func TestNewOpenAIBackendRequiresKey(t *testing.T) {
	if _, err := NewOpenAIBackend("", "gpt-4o-mini", 0.1); err == nil {
		t.Fatal("expected error for missing key, got nil")
	}

	b, err := NewOpenAIBackend("sk-test", "", 0.1)
	if err != nil {
		t.Fatalf("NewOpenAIBackend error: %v", err)
	}
	if b.Name() != BackendOpenAI {
		t.Errorf("Name = %q, want %q", b.Name(), BackendOpenAI)
	}
}

func TestResponseFormatMarshals(t *testing.T) {
	schema := Schema{
		Name: "greeting",
		Def: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"text": {Type: jsonschema.String},
			},
			Required:             []string{"text"},
			AdditionalProperties: false,
		},
	}

	format := responseFormat(schema)
	if format.JSONSchema.Name != "greeting" {
		t.Errorf("schema name: got %q, want greeting", format.JSONSchema.Name)
	}
	if !format.JSONSchema.Strict {
		t.Error("strict mode should be set")
	}

	// The schema field is typed json.Marshaler, so the request payload must
	// serialize through the definition's own MarshalJSON.
	data, err := json.Marshal(format)
	if err != nil {
		t.Fatalf("marshal response format: %v", err)
	}
	payload := string(data)
	if !strings.Contains(payload, `"greeting"`) {
		t.Errorf("payload missing schema name: %s", payload)
	}
	if !strings.Contains(payload, `"text"`) {
		t.Errorf("payload missing schema property: %s", payload)
	}
}
