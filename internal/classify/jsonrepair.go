package classify

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Prefixes language models commonly wrap around JSON payloads
var responsePrefixes = []string{
	"Here is the analysis in the required JSON format:",
	"Here is the JSON response:",
	"Here's the analysis:",
	"The analysis is:",
	"```json",
	"```",
	"Based on the analysis:",
}

// ParseModelJSON decodes a reasoning-service response into v. Responses are
// frequently wrapped in prose or code fences, so after a direct decode
// fails it strips known prefixes and extracts the outermost balanced
// {...} span before giving up.
func ParseModelJSON(raw string, v interface{}) error {
	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}

	cleaned := strings.TrimSpace(raw)

	for _, prefix := range responsePrefixes {
		if strings.HasPrefix(cleaned, prefix) {
			cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, prefix))
		}
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimSpace(strings.TrimSuffix(cleaned, "```"))
	}

	if span, ok := extractBalancedObject(cleaned); ok {
		cleaned = span
	}

	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("response is not parseable JSON: %w", err)
	}
	return nil
}

// extractBalancedObject returns the outermost balanced {...} span of s
func extractBalancedObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
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
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}
