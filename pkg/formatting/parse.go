package formatting

import (
	"regexp"
	"strings"
)

var jsonBlockRegex = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")

// ExtractJSON returns the JSON payload embedded in model output. Content
// wrapped in a markdown code fence is unwrapped; otherwise the trimmed
// content is returned as-is and left for the caller's decoder to judge.
func ExtractJSON(content string) []byte {
	content = strings.TrimSpace(content)

	matches := jsonBlockRegex.FindStringSubmatch(content)
	if len(matches) >= 2 {
		return []byte(strings.TrimSpace(matches[1]))
	}

	return []byte(content)
}
