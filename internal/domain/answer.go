package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// AnswerKind tags the concrete representation inside an AnswerValue.
type AnswerKind int

const (
	KindAbsent AnswerKind = iota
	KindNumber
	KindString
	KindBool
)

// AnswerValue is the variant type for submitted and correct answers:
// a number (option index or numeric answer), a free-text string, a boolean,
// or absent. It marshals to/from the raw JSON value stored in the answers
// object of an attempt.
type AnswerValue struct {
	Kind AnswerKind
	Num  float64
	Str  string
	Bool bool
}

func NumberAnswer(n float64) AnswerValue { return AnswerValue{Kind: KindNumber, Num: n} }
func StringAnswer(s string) AnswerValue  { return AnswerValue{Kind: KindString, Str: s} }
func BoolAnswer(b bool) AnswerValue      { return AnswerValue{Kind: KindBool, Bool: b} }

// IsAbsent reports whether no value was recorded at all.
func (v AnswerValue) IsAbsent() bool { return v.Kind == KindAbsent }

// String renders the raw value; used for logs and identification answers.
func (v AnswerValue) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindString:
		return v.Str
	case KindBool:
		return strconv.FormatBool(v.Bool)
	}
	return ""
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		return json.Marshal(v.Num)
	case KindString:
		return json.Marshal(v.Str)
	case KindBool:
		return json.Marshal(v.Bool)
	}
	return []byte("null"), nil
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch value := raw.(type) {
	case nil:
		*v = AnswerValue{}
	case float64:
		*v = NumberAnswer(value)
	case string:
		*v = StringAnswer(value)
	case bool:
		*v = BoolAnswer(value)
	default:
		return fmt.Errorf("unsupported answer value %T", raw)
	}
	return nil
}
