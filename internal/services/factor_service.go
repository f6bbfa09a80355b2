package services

import (
	"sort"
	"strings"

	"healthrisk/internal/models/survey_models"
	"healthrisk/pkg/utils"
)

// ruleOutcome is the result of evaluating one factor rule.
type ruleOutcome int

const (
	ruleNotMatched ruleOutcome = iota
	ruleMatched
	// ruleInapplicable means the answer was missing or had an unexpected
	// shape; the rule is skipped.
	ruleInapplicable
)

type factorRule struct {
	id     string
	label  survey_models.Factor
	weight float64
	match  func(survey_models.Answers) ruleOutcome
}

// factorRules is evaluated in declaration order; ties in weight keep it.
var factorRules = []factorRule{
	{"smoking", survey_models.FactorSmoking, 0.9, matchSmoking},
	{"poor_diet", survey_models.FactorPoorDiet, 0.7, matchStringIn(survey_models.FieldDiet, "high sugar", "junk", "fast food", "unhealthy")},
	{"low_exercise", survey_models.FactorLowExercise, 0.7, matchStringIn(survey_models.FieldExercise, "rarely", "never", "sedentary", "none")},
	{"excessive_alcohol", survey_models.FactorExcessiveAlcohol, 0.8, matchStringIn(survey_models.FieldAlcohol, "heavy", "frequent", "daily")},
	{"poor_sleep", survey_models.FactorPoorSleep, 0.6, matchPoorSleep},
	{"high_stress", survey_models.FactorHighStress, 0.6, matchStringIn(survey_models.FieldStress, "high", "severe", "chronic")},
	{"obesity", survey_models.FactorObesity, 0.8, matchNumber(survey_models.FieldBMI, 30, 0, false)},
	{"overweight", survey_models.FactorOverweight, 0.5, matchNumber(survey_models.FieldBMI, 25, 30, true)},
	{"advanced_age", survey_models.FactorAdvancedAge, 0.7, matchNumber(survey_models.FieldAge, 60, 0, false)},
	{"middle_age", survey_models.FactorMiddleAge, 0.4, matchNumber(survey_models.FieldAge, 40, 60, true)},
}

func matchSmoking(a survey_models.Answers) ruleOutcome {
	b, ok := a.Get(survey_models.FieldSmoker).Bool()
	if !ok {
		return ruleInapplicable
	}
	return outcome(b)
}

func matchPoorSleep(a survey_models.Answers) ruleOutcome {
	v := a.Get(survey_models.FieldSleep)
	if hours, ok := v.Number(); ok {
		return outcome(hours < 6 || hours > 9)
	}
	if s, ok := v.Str(); ok {
		s = strings.ToLower(strings.TrimSpace(s))
		return outcome(s == "poor" || s == "bad" || s == "irregular")
	}
	return ruleInapplicable
}

// matchStringIn matches a case-insensitive string answer against values.
func matchStringIn(f survey_models.Field, values ...string) func(survey_models.Answers) ruleOutcome {
	return func(a survey_models.Answers) ruleOutcome {
		s, ok := a.Get(f).Str()
		if !ok {
			return ruleInapplicable
		}
		s = strings.ToLower(strings.TrimSpace(s))
		for _, v := range values {
			if s == v {
				return ruleMatched
			}
		}
		return ruleNotMatched
	}
}

// matchNumber matches lo <= n, and n < hi when bounded.
func matchNumber(f survey_models.Field, lo, hi float64, bounded bool) func(survey_models.Answers) ruleOutcome {
	return func(a survey_models.Answers) ruleOutcome {
		n, ok := a.Get(f).Number()
		if !ok {
			return ruleInapplicable
		}
		return outcome(n >= lo && (!bounded || n < hi))
	}
}

func outcome(matched bool) ruleOutcome {
	if matched {
		return ruleMatched
	}
	return ruleNotMatched
}

type FactorServiceInterface interface {
	Extract(answers survey_models.Answers) survey_models.FactorResult
}

type FactorService struct{}

func NewFactorService() FactorServiceInterface {
	return &FactorService{}
}

func (s *FactorService) Extract(answers survey_models.Answers) survey_models.FactorResult {
	matched := make([]factorRule, 0, len(factorRules))
	for _, rule := range factorRules {
		if rule.match(answers) == ruleMatched {
			matched = append(matched, rule)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].weight > matched[j].weight
	})

	factors := make([]survey_models.Factor, 0, len(matched))
	details := make([]survey_models.FactorDetail, 0, len(matched))
	for _, rule := range matched {
		factors = append(factors, rule.label)
		details = append(details, survey_models.FactorDetail{ID: rule.id, Label: rule.label, Weight: rule.weight})
	}

	return survey_models.FactorResult{
		Factors:       factors,
		FactorDetails: details,
		Confidence:    factorConfidence(answers, len(factors)),
	}
}

func factorConfidence(answers survey_models.Answers, factorCount int) float64 {
	confidence := 1.0
	for _, f := range []survey_models.Field{survey_models.FieldSmoker, survey_models.FieldDiet, survey_models.FieldExercise} {
		if answers.Get(f).Missing() {
			confidence -= 0.1
		}
	}
	if factorCount == 0 && answers.Present() < 3 {
		confidence -= 0.2
	}
	return utils.Confidence(confidence)
}
