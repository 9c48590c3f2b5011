package gemini

import (
	"encoding/json"
	"strings"
)

// extractJSON pulls the JSON object out of a model response. Responses come
// back as bare JSON, fenced JSON, or JSON surrounded by prose; the slice
// between the first '{' and the last '}' covers all three. Returns false
// when no parsable object is present.
func extractJSON(text string) (any, bool) {
	text = stripFences(strings.TrimSpace(text))

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return nil, false
	}

	var payload any
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return nil, false
	}
	return payload, true
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag.
func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		// Drop the language tag line ("json", "JSON", or empty).
		first := strings.TrimSpace(text[:idx])
		if len(first) <= 8 && !strings.ContainsAny(first, "{}") {
			text = text[idx+1:]
		}
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
