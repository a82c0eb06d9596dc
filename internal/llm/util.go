package llm

import "strings"

// CleanJSONBlock removes a Markdown code-fence wrapper from a model response.
// Structured-output mode should return bare JSON, but models occasionally
// wrap it in ```json ... ``` anyway.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
