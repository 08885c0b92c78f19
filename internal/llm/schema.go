package llm

import (
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// Validatable is implemented by structured response records that can check
// their own field constraints after decoding.
type Validatable interface {
	Validate() error
}

// Schema pairs a JSON schema definition with a decoder that produces a
// validated record from a raw backend payload. The definition is declared
// once per stage in go-openai's jsonschema form; adapters that speak a
// different schema dialect translate it.
type Schema struct {
	Name   string
	Def    jsonschema.Definition
	Decode func(raw json.RawMessage) (any, error)
}

// NewSchema builds a Schema whose decoder unmarshals into T and runs its
// Validate method. Decode failures are reported plainly; the manager
// classifies them as validation failures against the responding backend.
func NewSchema[T Validatable](name string, def jsonschema.Definition) Schema {
	return Schema{
		Name: name,
		Def:  def,
		Decode: func(raw json.RawMessage) (any, error) {
			var v T
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, fmt.Errorf("decode %s: %w", name, err)
			}
			if err := v.Validate(); err != nil {
				return nil, fmt.Errorf("validate %s: %w", name, err)
			}
			return v, nil
		},
	}
}
