package intent

import (
	"encoding/json"
	"errors"
	"strings"
)

var errNoJSON = errors.New("no JSON object in model output")

// extractJSONObject returns the first balanced, valid JSON object embedded in
// text. Chat models routinely wrap their answer in prose or markdown fences,
// so we scan for '{' and match braces with string awareness instead of
// unmarshalling the raw completion.
func extractJSONObject(text string) (string, error) {
	text = stripFences(text)
	for start := strings.IndexByte(text, '{'); start >= 0; {
		if end := matchBrace(text, start); end > start {
			candidate := text[start : end+1]
			if json.Valid([]byte(candidate)) {
				return candidate, nil
			}
			next := strings.IndexByte(text[start+1:], '{')
			if next < 0 {
				break
			}
			start += 1 + next
			continue
		}
		break
	}
	return "", errNoJSON
}

// matchBrace returns the index of the brace closing the object that opens at
// start, or -1 when the object never closes. Braces inside JSON strings do
// not count, and escaped quotes do not end a string.
func matchBrace(text string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
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
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
