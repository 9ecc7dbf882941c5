package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when model output cannot be read as the requested JSON shape.
var ErrParseFailed = errors.New("failed to parse response")

var jsonBlockRegex = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")

// Parse reads model output as JSON into T. It tries, in order: the raw text, the body
// of the first markdown code fence, and the span from the first '{' to the last '}'.
// Control characters are replaced before decoding. Returns ErrParseFailed when no
// candidate decodes; the error carries a truncated preview of the content.
func Parse[T any](content string) (T, error) {
	var result T

	content = StripControl(strings.TrimSpace(content))
	for _, candidate := range candidates(content) {
		var v T
		if err := json.Unmarshal([]byte(candidate), &v); err == nil {
			return v, nil
		}
	}

	return result, fmt.Errorf("%w: %s", ErrParseFailed, Preview(content, 200))
}

func candidates(content string) []string {
	out := []string{content}

	if matches := jsonBlockRegex.FindStringSubmatch(content); len(matches) >= 2 {
		out = append(out, strings.TrimSpace(matches[1]))
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start != -1 && end > start {
		out = append(out, content[start:end+1])
	}

	return out
}

// Preview truncates s to at most n runes for logs and error messages.
func Preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
