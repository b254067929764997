package validation

import (
	"regexp"
	"strings"
)

var numericRe = regexp.MustCompile(`^[0-9]+$`)

// NormalizeContent strips a leading "speaker: " label from a message body.
// This is a lossy heuristic: some recorder platforms prefix the sender name,
// others do not, and there is no marker to tell the cases apart. A prefix
// before a bare colon is kept when it is purely numeric so that a message
// that is just a time of day ("12:30") survives intact.
func NormalizeContent(text string) string {
	if strings.Count(text, ": ") == 1 {
		_, rest, _ := strings.Cut(text, ": ")
		return rest
	}
	if strings.Count(text, ":") == 1 {
		prefix, rest, _ := strings.Cut(text, ":")
		if numericRe.MatchString(prefix) {
			return text
		}
		return rest
	}
	return text
}

// ValidateSessionID reports whether s looks like a session row id (a decimal
// integer rendered as a string, the shape clients send in filter commands).
func ValidateSessionID(s string) bool {
	return numericRe.MatchString(strings.TrimSpace(s))
}

func NormalizeSessionID(s string) string {
	return strings.TrimSpace(s)
}
