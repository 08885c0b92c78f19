package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai/jsonschema"
	"google.golang.org/genai"

	"github.com/gavel-labs/gavel/pkg/formatting"
)

const BackendGemini = "gemini"

type geminiBackend struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGeminiBackend creates the Gemini adapter. The key is required; the
// model defaults to gemini-2.0-flash. Credential validity is checked lazily
// on the first call.
func NewGeminiBackend(ctx context.Context, apiKey, model string, temperature float32) (Backend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: %w", ErrMissingCredential)
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &geminiBackend{
		client:      client,
		model:       model,
		temperature: temperature,
	}, nil
}

func (b *geminiBackend) Name() string {
	return BackendGemini
}

func (b *geminiBackend) InvokeText(ctx context.Context, messages []Message) (string, error) {
	contents, config := b.prepare(messages)

	resp, err := b.client.Models.GenerateContent(ctx, b.model, contents, config)
	if err != nil {
		return "", b.classify(err)
	}

	text := resp.Text()
	if text == "" {
		return "", NewError(KindUnknown, b.Name(), "empty response", nil)
	}

	return text, nil
}

func (b *geminiBackend) InvokeStructured(ctx context.Context, messages []Message, schema Schema) (json.RawMessage, error) {
	contents, config := b.prepare(messages)
	config.ResponseMIMEType = "application/json"
	config.ResponseSchema = toGeminiSchema(schema.Def)

	resp, err := b.client.Models.GenerateContent(ctx, b.model, contents, config)
	if err != nil {
		return nil, b.classify(err)
	}

	text := resp.Text()
	if text == "" {
		return nil, NewError(KindUnknown, b.Name(), "empty response", nil)
	}

	// The JSON MIME type makes fences unlikely, but models occasionally
	// wrap payloads anyway; strip them before the manager decodes.
	return formatting.ExtractJSON(text), nil
}

// prepare splits the transcript into Gemini's native shape: the system
// message becomes the SystemInstruction, user/assistant messages become
// user/model content entries.
func (b *geminiBackend) prepare(messages []Message) ([]*genai.Content, *genai.GenerateContentConfig) {
	temperature := b.temperature
	config := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}

	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			config.SystemInstruction = genai.NewContentFromText(m.Content, genai.RoleUser)
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	return contents, config
}

func (b *geminiBackend) classify(err error) *Error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return ClassifyStatus(b.Name(), apiErr.Code, err)
	}
	return Classify(b.Name(), err)
}

// toGeminiSchema translates a go-openai jsonschema definition into Gemini's
// schema dialect. Only the subset the analysis stages use is mapped: object,
// array, scalar types, enums, required fields, and descriptions.
func toGeminiSchema(def jsonschema.Definition) *genai.Schema {
	s := &genai.Schema{
		Description: def.Description,
		Required:    def.Required,
		Enum:        def.Enum,
	}

	switch def.Type {
	case jsonschema.Object:
		s.Type = genai.TypeObject
		if len(def.Properties) > 0 {
			s.Properties = make(map[string]*genai.Schema, len(def.Properties))
			for name, prop := range def.Properties {
				s.Properties[name] = toGeminiSchema(prop)
			}
		}
	case jsonschema.Array:
		s.Type = genai.TypeArray
		if def.Items != nil {
			s.Items = toGeminiSchema(*def.Items)
		}
	case jsonschema.Number:
		s.Type = genai.TypeNumber
	case jsonschema.Integer:
		s.Type = genai.TypeInteger
	case jsonschema.Boolean:
		s.Type = genai.TypeBoolean
	default:
		s.Type = genai.TypeString
	}

	return s
}
