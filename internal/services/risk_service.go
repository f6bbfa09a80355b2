package services

import (
	"fmt"
	"math"
	"strconv"

	"healthrisk/internal/models/survey_models"
)

const maxRiskScore = 100

// factorScores are independent of the extraction weights.
var factorScores = map[survey_models.Factor]float64{
	survey_models.FactorSmoking:          25,
	survey_models.FactorPoorDiet:         18,
	survey_models.FactorLowExercise:      15,
	survey_models.FactorExcessiveAlcohol: 20,
	survey_models.FactorPoorSleep:        10,
	survey_models.FactorHighStress:       12,
	survey_models.FactorObesity:          20,
	survey_models.FactorOverweight:       10,
	survey_models.FactorAdvancedAge:      8,
	survey_models.FactorMiddleAge:        4,
}

type riskBand struct {
	below float64
	level survey_models.RiskLevel
}

var riskBands = []riskBand{
	{25, survey_models.RiskLow},
	{50, survey_models.RiskModerate},
	{75, survey_models.RiskHigh},
}

type RiskServiceInterface interface {
	Classify(factors []survey_models.Factor, answers survey_models.Answers) survey_models.RiskResult
}

type RiskService struct{}

func NewRiskService() RiskServiceInterface {
	return &RiskService{}
}

func (s *RiskService) Classify(factors []survey_models.Factor, answers survey_models.Answers) survey_models.RiskResult {
	score := ageBaseRisk(answers)
	for _, f := range factors {
		score += factorScores[f]
	}
	score = math.Round(math.Min(score, maxRiskScore))

	rationale := make([]string, 0, len(factors))
	for _, f := range factors {
		if text, ok := describeFactor(f, answers); ok {
			rationale = append(rationale, text)
		}
	}

	return survey_models.RiskResult{
		RiskLevel: levelFor(score),
		Score:     int(score),
		Rationale: rationale,
	}
}

// ageBaseRisk adds points per decade from 30, up to 25 at 70+.
func ageBaseRisk(answers survey_models.Answers) float64 {
	age, ok := answers.Get(survey_models.FieldAge).Number()
	if !ok {
		return 0
	}
	switch {
	case age < 30:
		return 0
	case age < 40:
		return 5
	case age < 50:
		return 10
	case age < 60:
		return 15
	case age < 70:
		return 20
	default:
		return 25
	}
}

func levelFor(score float64) survey_models.RiskLevel {
	for _, b := range riskBands {
		if score < b.below {
			return b.level
		}
	}
	return survey_models.RiskVeryHigh
}

// describeFactor narrates one factor. Middle age is scored but never narrated.
func describeFactor(f survey_models.Factor, answers survey_models.Answers) (string, bool) {
	value := func(field survey_models.Field) string {
		return answerText(answers.Get(field))
	}

	switch f {
	case survey_models.FactorSmoking:
		return "current smoker", true
	case survey_models.FactorPoorDiet:
		return fmt.Sprintf("poor diet (%s)", value(survey_models.FieldDiet)), true
	case survey_models.FactorLowExercise:
		return fmt.Sprintf("low physical activity (%s)", value(survey_models.FieldExercise)), true
	case survey_models.FactorExcessiveAlcohol:
		return fmt.Sprintf("excessive alcohol consumption (%s)", value(survey_models.FieldAlcohol)), true
	case survey_models.FactorPoorSleep:
		if _, ok := answers.Get(survey_models.FieldSleep).Number(); ok {
			return fmt.Sprintf("inadequate sleep (%s hours)", value(survey_models.FieldSleep)), true
		}
		return fmt.Sprintf("poor sleep quality (%s)", value(survey_models.FieldSleep)), true
	case survey_models.FactorHighStress:
		return fmt.Sprintf("high stress levels (%s)", value(survey_models.FieldStress)), true
	case survey_models.FactorObesity:
		return fmt.Sprintf("obesity (BMI %s)", value(survey_models.FieldBMI)), true
	case survey_models.FactorOverweight:
		return fmt.Sprintf("overweight (BMI %s)", value(survey_models.FieldBMI)), true
	case survey_models.FactorAdvancedAge:
		return fmt.Sprintf("advanced age (%s years)", value(survey_models.FieldAge)), true
	case survey_models.FactorMiddleAge:
		return "", false
	}
	return string(f), true
}

func answerText(v survey_models.Value) string {
	if !v.IsSet() {
		return "unknown"
	}
	switch raw := v.Raw().(type) {
	case float64:
		return strconv.FormatFloat(raw, 'f', -1, 64)
	case int:
		return strconv.Itoa(raw)
	}
	return fmt.Sprint(v.Raw())
}
