package survey_models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueStates(t *testing.T) {
	assert.True(t, Absent().IsAbsent())
	assert.True(t, Absent().Missing())
	assert.True(t, Null().IsNull())
	assert.True(t, Null().Missing())
	assert.True(t, Of(nil).IsNull())
	assert.True(t, Of(false).IsSet())

	n, ok := Of(42).Number()
	assert.True(t, ok)
	assert.Equal(t, 42.0, n)

	_, ok = Of("42").Number()
	assert.False(t, ok)
	_, ok = Null().Bool()
	assert.False(t, ok)
}

func TestAnswersCounts(t *testing.T) {
	a := Answers{
		FieldAge:    Of(30),
		FieldSmoker: Null(),
		FieldDiet:   Absent(),
	}

	assert.True(t, a.Has(FieldSmoker))
	assert.False(t, a.Has(FieldDiet))
	assert.False(t, a.Has(FieldBMI))
	assert.Equal(t, 2, a.Present())
	assert.Equal(t, 1, a.NonNull())
	assert.Equal(t, map[string]any{"age": 30, "smoker": nil}, a.ToMap())
}

func TestAnswersMarshalJSON(t *testing.T) {
	a := Answers{
		FieldBMI:      Of(22.5),
		FieldAge:      Of(30),
		FieldExercise: Null(),
		FieldStress:   Absent(),
	}

	b, err := json.Marshal(a)

	require.NoError(t, err)
	assert.Equal(t, `{"age":30,"exercise":null,"bmi":22.5}`, string(b))
}

func TestAnswersFromMap(t *testing.T) {
	a := AnswersFromMap(map[string]any{
		"age":      float64(50),
		"smoker":   nil,
		"favorite": "blue",
	})

	assert.Len(t, a, 2)
	assert.Equal(t, Of(float64(50)), a.Get(FieldAge))
	assert.True(t, a.Get(FieldSmoker).IsNull())
	assert.True(t, a.Get(FieldDiet).IsAbsent())
}

func TestRiskLevelElevated(t *testing.T) {
	assert.False(t, RiskLow.Elevated())
	assert.False(t, RiskModerate.Elevated())
	assert.True(t, RiskHigh.Elevated())
	assert.True(t, RiskVeryHigh.Elevated())
}
