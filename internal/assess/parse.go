package assess

import (
	"strings"

	"github.com/vbonduro/depositdefender/internal/domain"
)

var severityWords = map[string]domain.Severity{
	"none":     domain.SeverityNone,
	"no":       domain.SeverityNone,
	"minor":    domain.SeverityMinor,
	"moderate": domain.SeverityModerate,
	"severe":   domain.SeveritySevere,
}

// ParseResponse extracts the first "severity | notes" line from a model
// response. When no line carries a known severity the result has an empty
// severity and the trimmed response as notes.
func ParseResponse(raw string) *Assessment {
	for _, line := range strings.Split(raw, "\n") {
		if a := ParseLine(line); a != nil {
			a.Raw = raw
			return a
		}
	}
	return &Assessment{Severity: domain.SeverityNone, Notes: strings.TrimSpace(raw), Raw: raw}
}

// ParseLine parses a single "severity | notes" line, returning nil when the
// line is preamble or names no known severity.
func ParseLine(line string) *Assessment {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if strings.HasPrefix(line, "Here") || strings.HasPrefix(line, "I see") || strings.HasPrefix(line, "Based on") {
		return nil
	}

	head, notes, found := strings.Cut(line, "|")
	if !found {
		return nil
	}
	word := strings.ToLower(strings.Trim(strings.TrimSpace(head), "*.:"))
	sev, ok := severityWords[word]
	if !ok {
		return nil
	}
	return &Assessment{Severity: sev, Notes: strings.TrimSpace(notes)}
}
