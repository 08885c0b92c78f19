// Package llm implements the provider invocation layer: a uniform backend
// adapter contract over generative-model APIs, failure classification, and a
// manager that retries within a backend and fails over across backends until
// a validated result is produced or every backend is exhausted.
package llm

// Role tags a message with its conversational origin.
type Role string

// Message roles. When a system message is present it is always first.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in an ordered, role-tagged conversation transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation builds the standard two-message transcript used by the
// analysis stages: a system instruction followed by the user prompt.
func Conversation(system, user string) []Message {
	return []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: user},
	}
}
