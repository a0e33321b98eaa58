// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import "strings"

// CleanJSONBlock recovers a JSON payload from an LLM reply. It strips
// markdown code fences, then locates the first balanced JSON object or
// array, skipping any prose the model prepended or appended. Models wrap
// JSON in ```json blocks or add commentary even when instructed not to,
// so every reply goes through this before decoding.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	// Handle ```json ... ``` blocks
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return recoverJSON(strings.TrimSpace(text))
	}

	// Handle generic ``` ... ``` blocks
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip a language identifier on the first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return recoverJSON(strings.TrimSpace(text))
	}

	return recoverJSON(text)
}

// recoverJSON returns the first balanced JSON object or array in text,
// skipping surrounding prose. Fenced content goes through this too: models
// sometimes put commentary inside the fence, before the JSON. Text with no
// recoverable JSON is returned unchanged so the caller can report it.
func recoverJSON(text string) string {
	start := 0
	if !strings.HasPrefix(text, "{") && !strings.HasPrefix(text, "[") {
		objStart := strings.Index(text, "{")
		arrStart := strings.Index(text, "[")
		switch {
		case objStart >= 0 && (arrStart < 0 || objStart < arrStart):
			start = objStart
		case arrStart >= 0:
			start = arrStart
		default:
			return text
		}
	}

	s := text[start:]
	if s[0] == '{' {
		if extracted := extractJSONObject(s); extracted != "" {
			return extracted
		}
	} else if extracted := extractJSONArray(s); extracted != "" {
		return extracted
	}
	return text
}

// extractJSONObject returns the first balanced {...} span of s, which must
// start with '{'. Braces inside JSON strings are ignored. Returns "" when
// no balanced span exists.
func extractJSONObject(s string) string {
	return extractBalanced(s, '{', '}')
}

// extractJSONArray returns the first balanced [...] span of s, which must
// start with '['. Returns "" when no balanced span exists.
func extractJSONArray(s string) string {
	return extractBalanced(s, '[', ']')
}

func extractBalanced(s string, open, closeCh byte) string {
	if len(s) == 0 || s[0] != open {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case closeCh:
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
