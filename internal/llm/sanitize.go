package llm

import (
	"regexp"
	"strings"
)

var codeFenceRe = regexp.MustCompile("(?i)```(?:json)?\\s*")

// CleanJSONResponse extracts pure JSON from a model response: code fences are
// stripped, and if surrounding prose remains, the outermost object or array
// is located. Returns "" when no JSON-looking payload is present.
func CleanJSONResponse(response string) string {
	if response == "" {
		return ""
	}

	text := codeFenceRe.ReplaceAllString(response, "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[") {
		return text
	}

	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "}]")
	if start >= 0 && end > start {
		return strings.TrimSpace(text[start : end+1])
	}

	return ""
}
