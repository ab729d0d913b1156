package relay

import (
	"encoding/json"
	"regexp"
	"strings"
)

// embeddedArrayPattern matches from the first '[' to the last ']', across lines.
var embeddedArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// ParsePhrases decodes model output that should be a JSON array of strings.
// The whole trimmed output is tried first; failing that, the first bracketed
// span is extracted and tried. The result is returned verbatim. A JSON null
// is not an array and counts as malformed.
func ParsePhrases(raw string) ([]string, error) {
	trimmed := strings.TrimSpace(raw)

	var phrases []string
	if err := json.Unmarshal([]byte(trimmed), &phrases); err == nil && phrases != nil {
		return phrases, nil
	}

	match := embeddedArrayPattern.FindString(trimmed)
	if match == "" {
		return nil, ErrMalformedModelOutput
	}

	phrases = nil
	if err := json.Unmarshal([]byte(match), &phrases); err != nil {
		return nil, ErrMalformedModelOutput
	}

	return phrases, nil
}
