package domain

import (
	"fmt"
	"strings"
)

const notAnswered = "Not answered"

// FormatAnswer renders an answer value as the review screen shows it. The same
// function renders both the submitted and the correct value.
func FormatAnswer(q Question, v AnswerValue) string {
	switch q.Type.Normalize() {
	case TypeTrueFalse:
		b, ok := coerceBool(v)
		if !ok {
			return notAnswered
		}
		if b {
			return "True"
		}
		return "False"
	case TypeIdentification:
		text := strings.TrimSpace(v.String())
		if text == "" {
			return notAnswered
		}
		return text
	default:
		index, ok := coerceNumber(v)
		if !ok {
			return notAnswered
		}
		i := int(index)
		if i >= 0 && i < len(q.Options) {
			return fmt.Sprintf("Option %d: %s", i+1, q.Options[i])
		}
		// Stored index no longer maps to an option (question edited after the attempt).
		return fmt.Sprintf("Option %d", i+1)
	}
}
