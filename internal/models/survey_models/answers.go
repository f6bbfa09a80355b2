package survey_models

import (
	"bytes"
	"encoding/json"
)

// Field is one key of the survey answer vocabulary.
type Field string

const (
	FieldAge      Field = "age"
	FieldSmoker   Field = "smoker"
	FieldExercise Field = "exercise"
	FieldDiet     Field = "diet"
	FieldAlcohol  Field = "alcohol"
	FieldSleep    Field = "sleep"
	FieldStress   Field = "stress"
	FieldBMI      Field = "bmi"
)

// ExpectedFields is the full answer vocabulary in canonical order.
var ExpectedFields = []Field{
	FieldAge,
	FieldSmoker,
	FieldExercise,
	FieldDiet,
	FieldAlcohol,
	FieldSleep,
	FieldStress,
	FieldBMI,
}

// CoreFields gate profile completeness. Every core field is also an expected field.
var CoreFields = []Field{
	FieldAge,
	FieldSmoker,
	FieldExercise,
	FieldDiet,
}

// IsExpectedField reports whether name belongs to the vocabulary.
func IsExpectedField(name string) bool {
	for _, f := range ExpectedFields {
		if string(f) == name {
			return true
		}
	}
	return false
}

type valueState uint8

const (
	stateAbsent valueState = iota
	stateNull
	stateSet
)

// Value is a single normalized answer. It distinguishes a field that was
// never supplied (absent) from one that was supplied but could not be
// parsed (null). The zero Value is absent.
type Value struct {
	state valueState
	raw   any
}

// Absent returns the value of a field that was not supplied.
func Absent() Value { return Value{} }

// Null returns the value of a field that was supplied but unparseable.
func Null() Value { return Value{state: stateNull} }

// Of wraps a parsed value. A nil v yields Null.
func Of(v any) Value {
	if v == nil {
		return Null()
	}
	return Value{state: stateSet, raw: v}
}

func (v Value) IsAbsent() bool { return v.state == stateAbsent }
func (v Value) IsNull() bool   { return v.state == stateNull }
func (v Value) IsSet() bool    { return v.state == stateSet }

// Missing is true for both absent and null values.
func (v Value) Missing() bool { return v.state != stateSet }

// Raw returns the underlying value, nil unless set.
func (v Value) Raw() any { return v.raw }

// Int returns the value when it holds an int.
func (v Value) Int() (int, bool) {
	i, ok := v.raw.(int)
	return i, ok && v.IsSet()
}

// Number returns the value as float64 when it holds an int or a float64.
func (v Value) Number() (float64, bool) {
	if !v.IsSet() {
		return 0, false
	}
	switch n := v.raw.(type) {
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// Bool returns the value when it holds a bool.
func (v Value) Bool() (bool, bool) {
	b, ok := v.raw.(bool)
	return b, ok && v.IsSet()
}

// Str returns the value when it holds a string.
func (v Value) Str() (string, bool) {
	s, ok := v.raw.(string)
	return s, ok && v.IsSet()
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.IsSet() {
		return []byte("null"), nil
	}
	return json.Marshal(v.raw)
}

// Answers is the canonical answer mapping. A field missing from the map is
// absent; a field mapped to Null was supplied but unparseable.
type Answers map[Field]Value

// Get returns the value for f, Absent when the key is not present.
func (a Answers) Get(f Field) Value {
	if a == nil {
		return Absent()
	}
	return a[f]
}

// Has reports whether f was supplied at all (set or null).
func (a Answers) Has(f Field) bool {
	v, ok := a[f]
	return ok && !v.IsAbsent()
}

// Present counts the supplied keys, null ones included.
func (a Answers) Present() int {
	n := 0
	for _, v := range a {
		if !v.IsAbsent() {
			n++
		}
	}
	return n
}

// NonNull counts the keys holding a parsed value.
func (a Answers) NonNull() int {
	n := 0
	for _, v := range a {
		if v.IsSet() {
			n++
		}
	}
	return n
}

// Clone returns a shallow copy; Values are immutable so this is enough.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// ToMap converts the answers to a generic mapping, dropping absent keys.
func (a Answers) ToMap() map[string]any {
	out := make(map[string]any, len(a))
	for _, f := range ExpectedFields {
		if v, ok := a[f]; ok && !v.IsAbsent() {
			out[string(f)] = v.Raw()
		}
	}
	return out
}

// MarshalJSON writes supplied keys in vocabulary order.
func (a Answers) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, f := range ExpectedFields {
		v, ok := a[f]
		if !ok || v.IsAbsent() {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, _ := json.Marshal(string(f))
		buf.Write(key)
		buf.WriteByte(':')
		b, err := v.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// AnswersFromMap wraps already-normalized values without re-parsing them.
// Keys outside the vocabulary are dropped; nil values become Null.
func AnswersFromMap(m map[string]any) Answers {
	out := Answers{}
	for _, f := range ExpectedFields {
		if v, ok := m[string(f)]; ok {
			out[f] = Of(v)
		}
	}
	return out
}
