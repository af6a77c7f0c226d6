package llm

import "strings"

// ExtractJSON pulls the JSON object out of generated text: the contents of
// the first code fence if there is one, then the span from the first '{'
// to the last '}'.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)

	if start := strings.Index(text, "```"); start >= 0 {
		body := text[start+3:]
		// Drop the info string ("json", "JSON", ...) up to the newline.
		if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.ContainsAny(body[:nl], "{[") {
			body = body[nl+1:]
		} else {
			body = strings.TrimPrefix(strings.TrimPrefix(body, "json"), "JSON")
		}
		if end := strings.Index(body, "```"); end >= 0 {
			body = body[:end]
		}
		text = body
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}
