package domain

import (
	"math"
	"strconv"
	"strings"
)

// numericTolerance absorbs formatting differences like "10" vs "10.0".
const numericTolerance = 1e-6

// HasAnswer reports whether the submitted value counts as an answer for the
// question's type, distinguishing "blank" from "wrong".
func HasAnswer(q Question, v AnswerValue) bool {
	if v.IsAbsent() {
		return false
	}
	switch q.Type.Normalize() {
	case TypeTrueFalse:
		_, ok := coerceBool(v)
		return ok
	case TypeIdentification:
		return strings.TrimSpace(v.String()) != ""
	default: // multiple choice
		_, ok := coerceNumber(v)
		return ok
	}
}

// IsCorrect decides whether the submitted value matches the question's correct
// answer. It is a pure function of (question, value) and is the single grading
// code path: scoring at submission and the review screen both call it, so a
// persisted score can always be re-derived from the stored answers.
func IsCorrect(q Question, v AnswerValue) bool {
	if !HasAnswer(q, v) {
		return false
	}
	switch q.Type.Normalize() {
	case TypeTrueFalse:
		submitted, ok := coerceBool(v)
		if !ok {
			return false
		}
		expected, ok := coerceBool(q.CorrectAnswer)
		return ok && submitted == expected
	case TypeIdentification:
		return identificationEqual(v, q.CorrectAnswer)
	default:
		submitted, ok := coerceNumber(v)
		if !ok {
			return false
		}
		expected, ok := coerceNumber(q.CorrectAnswer)
		return ok && submitted == expected
	}
}

// identificationEqual compares numerically when both sides parse as finite
// numbers, otherwise as trimmed case-insensitive text.
func identificationEqual(submitted, expected AnswerValue) bool {
	sn, sok := coerceNumber(submitted)
	en, eok := coerceNumber(expected)
	if sok && eok {
		return math.Abs(sn-en) < numericTolerance
	}
	s := strings.ToLower(strings.TrimSpace(submitted.String()))
	e := strings.ToLower(strings.TrimSpace(expected.String()))
	return s != "" && s == e
}

// coerceBool accepts native booleans, the strings "true"/"false" in any case,
// and the numbers 1/0.
func coerceBool(v AnswerValue) (bool, bool) {
	switch v.Kind {
	case KindBool:
		return v.Bool, true
	case KindString:
		switch strings.ToLower(strings.TrimSpace(v.Str)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	case KindNumber:
		if v.Num == 1 {
			return true, true
		}
		if v.Num == 0 {
			return false, true
		}
	}
	return false, false
}

// coerceNumber accepts native numbers and numeric strings; NaN and infinities
// do not count.
func coerceNumber(v AnswerValue) (float64, bool) {
	switch v.Kind {
	case KindNumber:
		if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			return 0, false
		}
		return v.Num, true
	case KindString:
		trimmed := strings.TrimSpace(v.Str)
		if trimmed == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
