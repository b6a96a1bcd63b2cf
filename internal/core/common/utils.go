package common

import (
	"encoding/json"
	"fmt"
)

// ExtractJSONObject returns the first balanced JSON object embedded in s.
// LLM responses wrap answers in prose or markdown fences, so this scans for
// the first '{' and tracks brace depth, honoring string literals and
// escapes. The extraction is best-effort, not schema validation; callers
// must validate the decoded fields before trusting them.
func ExtractJSONObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if start == -1 {
			if c == '{' {
				start = i
				depth = 1
			}
			continue
		}

		if escaped {
			escaped = false
			continue
		}

		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}

	return "", false
}

// ParseJSON extracts and unmarshals the first JSON object in an LLM
// response into a type T.
func ParseJSON[T any](response string) (T, error) {
	var zero T

	jsonStr, ok := ExtractJSONObject(response)
	if !ok {
		return zero, fmt.Errorf("no JSON object found in response")
	}

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w\nData: %s", err, jsonStr)
	}

	return result, nil
}

// Truncate shortens s to at most n runes for inclusion in diagnostics.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
