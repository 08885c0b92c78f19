package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

const BackendOpenAI = "openai"

type openaiBackend struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenAIBackend creates the OpenAI adapter. The key is required; the
// model defaults to gpt-4o-mini. The key is not validated here; auth
// failures surface on the first call and trigger failover.
func NewOpenAIBackend(apiKey, model string, temperature float32) (Backend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: %w", ErrMissingCredential)
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &openaiBackend{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
	}, nil
}

func (b *openaiBackend) Name() string {
	return BackendOpenAI
}

func (b *openaiBackend) InvokeText(ctx context.Context, messages []Message) (string, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       b.model,
		Messages:    toOpenAIMessages(messages),
		Temperature: b.temperature,
	})
	if err != nil {
		return "", b.classify(err)
	}

	if len(resp.Choices) == 0 {
		return "", NewError(KindUnknown, b.Name(), "no choices returned", nil)
	}

	return resp.Choices[0].Message.Content, nil
}

func (b *openaiBackend) InvokeStructured(ctx context.Context, messages []Message, schema Schema) (json.RawMessage, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:          b.model,
		Messages:       toOpenAIMessages(messages),
		Temperature:    b.temperature,
		ResponseFormat: responseFormat(schema),
	})
	if err != nil {
		return nil, b.classify(err)
	}

	if len(resp.Choices) == 0 {
		return nil, NewError(KindUnknown, b.Name(), "no choices returned", nil)
	}

	return json.RawMessage(resp.Choices[0].Message.Content), nil
}

// responseFormat maps a stage schema onto the strict JSON-schema response
// format. Definition's MarshalJSON has a pointer receiver, so the schema
// field must hold *jsonschema.Definition to satisfy json.Marshaler.
func responseFormat(schema Schema) *openai.ChatCompletionResponseFormat {
	return &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
		JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
			Name:   schema.Name,
			Schema: &schema.Def,
			Strict: true,
		},
	}
}

func (b *openaiBackend) classify(err error) *Error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return ClassifyStatus(b.Name(), apiErr.HTTPStatusCode, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return ClassifyStatus(b.Name(), reqErr.HTTPStatusCode, err)
	}

	return Classify(b.Name(), err)
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		role := openai.ChatMessageRoleUser
		switch m.Role {
		case RoleSystem:
			role = openai.ChatMessageRoleSystem
		case RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		}
		out[i] = openai.ChatCompletionMessage{Role: role, Content: m.Content}
	}
	return out
}
