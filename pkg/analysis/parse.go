package analysis

import "strings"

// betMarker prefixes the recommendation line the system prompt asks for.
const betMarker = "[BET]"

// ParseAdvice extracts the trailing "[BET] <market> @ <odds>" recommendation
// from a response, if present. The response text itself is always stored
// verbatim; this only lifts the structured line out for the prediction's
// advice field.
func ParseAdvice(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, betMarker) {
			continue
		}
		advice := strings.TrimSpace(strings.TrimPrefix(line, betMarker))
		if advice == "" {
			return "", false
		}
		return advice, true
	}
	return "", false
}
