// Package generate defines the suggestion generator collaborator: an
// asynchronous function from partial transcript text to a short ordered list
// of follow-up suggestions. Backends live in subpackages; all failures are
// classified with structured error codes so the caller can retry or fall
// back locally.
package generate

import (
	"context"
	"strings"
)

// Generator produces follow-up suggestions for dictated text.
// Implementations must be safe for concurrent use.
type Generator interface {
	// Generate returns up to a handful of short suggestions for how the
	// speaker might continue text. Order matters: best first.
	Generate(ctx context.Context, text string) ([]string, error)
}

// SystemPrompt instructs the model to emit one short continuation per line.
const SystemPrompt = "You help a person dictating text. Given their partial dictation, " +
	"suggest up to 5 short ways they might continue. Reply with one suggestion " +
	"per line, no numbering, no commentary."

// BuildPrompt wraps the transcript as the user message for the model.
func BuildPrompt(text string) string {
	return "Partial dictation: " + strings.TrimSpace(text)
}

// ParseSuggestions splits raw model output into at most max clean suggestion
// lines, stripping list markers and surrounding quotes.
func ParseSuggestions(content string, max int) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		line = trimListMarker(line)
		line = strings.Trim(line, `"'`)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == max {
			break
		}
	}
	return out
}

// trimListMarker removes a leading bullet or "1." / "1)" style prefix.
func trimListMarker(line string) string {
	for _, marker := range []string{"-", "*", "•"} {
		if rest, ok := strings.CutPrefix(line, marker); ok {
			return strings.TrimSpace(rest)
		}
	}

	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		return strings.TrimSpace(line[i+1:])
	}
	return line
}
