package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"healthrisk/internal/models/survey_models"
)

func TestExtract_ScenarioA(t *testing.T) {
	res := NewFactorService().Extract(survey_models.Answers{
		survey_models.FieldAge:      survey_models.Of(42),
		survey_models.FieldSmoker:   survey_models.Of(true),
		survey_models.FieldExercise: survey_models.Of("rarely"),
		survey_models.FieldDiet:     survey_models.Of("high sugar"),
		survey_models.FieldStress:   survey_models.Of("high"),
		survey_models.FieldSleep:    survey_models.Of(5),
	})

	assert.Equal(t, []survey_models.Factor{
		survey_models.FactorSmoking,
		survey_models.FactorPoorDiet,
		survey_models.FactorLowExercise,
		survey_models.FactorPoorSleep,
		survey_models.FactorHighStress,
		survey_models.FactorMiddleAge,
	}, res.Factors)
	require.Len(t, res.FactorDetails, 6)
	assert.Equal(t, survey_models.FactorDetail{ID: "smoking", Label: survey_models.FactorSmoking, Weight: 0.9}, res.FactorDetails[0])
	assert.Equal(t, 1.0, res.Confidence)
}

func TestExtract_SortsByWeightKeepingDeclarationOrder(t *testing.T) {
	res := NewFactorService().Extract(survey_models.Answers{
		survey_models.FieldAge:     survey_models.Of(65),
		survey_models.FieldAlcohol: survey_models.Of("heavy"),
		survey_models.FieldBMI:     survey_models.Of(33.0),
		survey_models.FieldDiet:    survey_models.Of("junk"),
	})

	// 0.8 alcohol before 0.8 obesity, then 0.7 diet before 0.7 advanced age
	assert.Equal(t, []survey_models.Factor{
		survey_models.FactorExcessiveAlcohol,
		survey_models.FactorObesity,
		survey_models.FactorPoorDiet,
		survey_models.FactorAdvancedAge,
	}, res.Factors)
}

func TestExtract_ScenarioB(t *testing.T) {
	res := NewFactorService().Extract(survey_models.Answers{
		survey_models.FieldAge:      survey_models.Of(25),
		survey_models.FieldSmoker:   survey_models.Of(false),
		survey_models.FieldExercise: survey_models.Of("regularly"),
		survey_models.FieldDiet:     survey_models.Of("healthy"),
	})

	assert.Empty(t, res.Factors)
	assert.NotNil(t, res.Factors)
	assert.Equal(t, 1.0, res.Confidence)
}

func TestExtract_BMIExclusivity(t *testing.T) {
	for _, bmi := range []float64{10, 24.9, 25, 27, 29.99, 30, 45} {
		res := NewFactorService().Extract(survey_models.Answers{survey_models.FieldBMI: survey_models.Of(bmi)})
		n := 0
		for _, f := range res.Factors {
			if f == survey_models.FactorObesity || f == survey_models.FactorOverweight {
				n++
			}
		}
		assert.LessOrEqual(t, n, 1, "bmi=%v", bmi)
	}

	obese := NewFactorService().Extract(survey_models.Answers{survey_models.FieldBMI: survey_models.Of(30.0)})
	assert.Equal(t, []survey_models.Factor{survey_models.FactorObesity}, obese.Factors)
	over := NewFactorService().Extract(survey_models.Answers{survey_models.FieldBMI: survey_models.Of(25.0)})
	assert.Equal(t, []survey_models.Factor{survey_models.FactorOverweight}, over.Factors)
}

func TestExtract_AgeExclusivity(t *testing.T) {
	for age := 0; age <= 150; age++ {
		res := NewFactorService().Extract(survey_models.Answers{survey_models.FieldAge: survey_models.Of(age)})
		n := 0
		for _, f := range res.Factors {
			if f == survey_models.FactorAdvancedAge || f == survey_models.FactorMiddleAge {
				n++
			}
		}
		assert.LessOrEqual(t, n, 1, "age=%d", age)
	}

	assert.Equal(t, []survey_models.Factor{survey_models.FactorMiddleAge},
		NewFactorService().Extract(survey_models.Answers{survey_models.FieldAge: survey_models.Of(40)}).Factors)
	assert.Equal(t, []survey_models.Factor{survey_models.FactorAdvancedAge},
		NewFactorService().Extract(survey_models.Answers{survey_models.FieldAge: survey_models.Of(60)}).Factors)
}

func TestExtract_SkipsInapplicableRules(t *testing.T) {
	res := NewFactorService().Extract(survey_models.Answers{
		survey_models.FieldSmoker: survey_models.Of("yes"),
		survey_models.FieldBMI:    survey_models.Of("heavy"),
		survey_models.FieldAge:    survey_models.Of([]any{1}),
		survey_models.FieldSleep:  survey_models.Of("Irregular"),
		survey_models.FieldStress: survey_models.Of(9),
	})

	assert.Equal(t, []survey_models.Factor{survey_models.FactorPoorSleep}, res.Factors)
}

func TestMatchPoorSleep(t *testing.T) {
	tests := []struct {
		sleep survey_models.Value
		want  ruleOutcome
	}{
		{survey_models.Of(5), ruleMatched},
		{survey_models.Of(6), ruleNotMatched},
		{survey_models.Of(9), ruleNotMatched},
		{survey_models.Of(9.5), ruleMatched},
		{survey_models.Of("bad"), ruleMatched},
		{survey_models.Of("good"), ruleNotMatched},
		{survey_models.Null(), ruleInapplicable},
		{survey_models.Absent(), ruleInapplicable},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchPoorSleep(survey_models.Answers{survey_models.FieldSleep: tt.sleep}), "sleep=%v", tt.sleep.Raw())
	}
}

func TestExtract_Confidence(t *testing.T) {
	tests := []struct {
		name    string
		answers survey_models.Answers
		want    float64
	}{
		{"empty", survey_models.Answers{}, 0.5},
		{"two keys no factors", survey_models.Answers{
			survey_models.FieldSmoker: survey_models.Of(false),
			survey_models.FieldAge:    survey_models.Of(20),
		}, 0.6},
		{"null counts as missing", survey_models.Answers{
			survey_models.FieldSmoker:   survey_models.Null(),
			survey_models.FieldDiet:     survey_models.Of("healthy"),
			survey_models.FieldExercise: survey_models.Of("regularly"),
		}, 0.9},
		{"factor avoids sparse penalty", survey_models.Answers{
			survey_models.FieldSmoker: survey_models.Of(true),
		}, 0.8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewFactorService().Extract(tt.answers).Confidence
			assert.Equal(t, tt.want, c)
			assert.GreaterOrEqual(t, c, 0.0)
			assert.LessOrEqual(t, c, 1.0)
		})
	}
}
