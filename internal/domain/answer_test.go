package domain

import (
	"encoding/json"
	"testing"
)

func TestAnswerValueDecodesStoredAnswers(t *testing.T) {
	raw := []byte(`{"q1": 1, "q2": "true", "q3": false, "q4": null}`)

	var answers map[string]AnswerValue
	if err := json.Unmarshal(raw, &answers); err != nil {
		t.Fatalf("unmarshal answers: %v", err)
	}

	if v := answers["q1"]; v.Kind != KindNumber || v.Num != 1 {
		t.Fatalf("expected q1 to be number 1, got %+v", v)
	}
	if v := answers["q2"]; v.Kind != KindString || v.Str != "true" {
		t.Fatalf("expected q2 to be string, got %+v", v)
	}
	if v := answers["q3"]; v.Kind != KindBool || v.Bool {
		t.Fatalf("expected q3 to be false, got %+v", v)
	}
	if v := answers["q4"]; !v.IsAbsent() {
		t.Fatalf("expected q4 to be absent, got %+v", v)
	}
}

func TestFormatAnswer(t *testing.T) {
	multiple := Question{Type: TypeMultiple, Options: []string{"Red", "Blue"}, CorrectAnswer: NumberAnswer(1)}
	if got := FormatAnswer(multiple, NumberAnswer(1)); got != "Option 2: Blue" {
		t.Fatalf("multiple render = %q", got)
	}
	if got := FormatAnswer(multiple, NumberAnswer(7)); got != "Option 8" {
		t.Fatalf("out-of-range render = %q", got)
	}
	if got := FormatAnswer(multiple, AnswerValue{}); got != "Not answered" {
		t.Fatalf("absent render = %q", got)
	}

	tf := Question{Type: TypeTrueFalse, CorrectAnswer: BoolAnswer(true)}
	if got := FormatAnswer(tf, StringAnswer("false")); got != "False" {
		t.Fatalf("truefalse render = %q", got)
	}
	if got := FormatAnswer(tf, StringAnswer("maybe")); got != "Not answered" {
		t.Fatalf("uncoercible render = %q", got)
	}

	ident := Question{Type: TypeIdentification, CorrectAnswer: StringAnswer("Paris")}
	if got := FormatAnswer(ident, StringAnswer("  paris ")); got != "paris" {
		t.Fatalf("identification render = %q", got)
	}
	if got := FormatAnswer(ident, StringAnswer("   ")); got != "Not answered" {
		t.Fatalf("blank render = %q", got)
	}
}
