package llm

import (
	"encoding/json"
	"strings"
)

// ParseModelJSON parses the raw model output. If the text is not valid
// JSON on its own, it falls back to salvaging the first embedded
// top-level object before giving up with ErrInvalidJSON.
func ParseModelJSON(raw string) (any, error) {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
		return parsed, nil
	}

	salvaged := extractJSON(raw)
	if salvaged == "" {
		return nil, ErrInvalidJSON
	}

	if err := json.Unmarshal([]byte(salvaged), &parsed); err != nil {
		return nil, ErrInvalidJSON
	}

	return parsed, nil
}

// extractJSON takes the first { through the last } in the text.
// Minimal heuristic for models that wrap JSON in prose.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")

	if start == -1 || end == -1 || end <= start {
		return ""
	}

	return text[start : end+1]
}
