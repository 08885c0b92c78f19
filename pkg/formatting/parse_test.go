package formatting_test

import (
	"testing"

	"github.com/gavel-labs/gavel/pkg/formatting"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "bare JSON",
			content: `{"name":"test"}`,
			want:    `{"name":"test"}`,
		},
		{
			name:    "surrounding whitespace",
			content: "  {\"name\":\"padded\"}\n",
			want:    `{"name":"padded"}`,
		},
		{
			name:    "fenced json block",
			content: "```json\n{\"name\":\"fenced\"}\n```",
			want:    `{"name":"fenced"}`,
		},
		{
			name:    "fenced block without language",
			content: "```\n{\"name\":\"plain\"}\n```",
			want:    `{"name":"plain"}`,
		},
		{
			name:    "prose around fenced block",
			content: "Here is the result:\n```json\n{\"name\":\"wrapped\"}\n```\nLet me know.",
			want:    `{"name":"wrapped"}`,
		},
		{
			name:    "unfenced prose returned as-is",
			content: "The output is {\"name\":\"inline\"} as requested.",
			want:    "The output is {\"name\":\"inline\"} as requested.",
		},
		{
			name:    "no JSON at all",
			content: "no structured content here",
			want:    "no structured content here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(formatting.ExtractJSON(tt.content)); got != tt.want {
				t.Errorf("ExtractJSON = %q, want %q", got, tt.want)
			}
		})
	}
}
