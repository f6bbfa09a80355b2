package services

import (
	"sort"

	"healthrisk/internal/models/survey_models"
)

const defaultMaxRecommendations = 5

type recommendationEntry struct {
	factor survey_models.Factor
	rec    survey_models.Recommendation
}

var recommendationTable = []recommendationEntry{
	{survey_models.FactorSmoking, survey_models.Recommendation{
		Primary:  "Quit smoking",
		Details:  "Talk to a healthcare provider about cessation programs, nicotine replacement, or counseling support.",
		Priority: 1,
		Icon:     "no-smoking",
	}},
	{survey_models.FactorObesity, survey_models.Recommendation{
		Primary:  "Work toward a healthy weight",
		Details:  "A gradual, sustained reduction through diet and activity changes lowers cardiovascular and metabolic risk.",
		Priority: 2,
		Icon:     "scale",
	}},
	{survey_models.FactorExcessiveAlcohol, survey_models.Recommendation{
		Primary:  "Reduce alcohol consumption",
		Details:  "Keep drinking within recommended limits and include several alcohol-free days each week.",
		Priority: 2,
		Icon:     "no-alcohol",
	}},
	{survey_models.FactorPoorDiet, survey_models.Recommendation{
		Primary:  "Improve your diet",
		Details:  "Cut back on added sugar and processed food; add vegetables, fruit, whole grains, and lean protein.",
		Priority: 3,
		Icon:     "salad",
	}},
	{survey_models.FactorLowExercise, survey_models.Recommendation{
		Primary:  "Increase physical activity",
		Details:  "Aim for at least 150 minutes of moderate activity per week, such as brisk walking or cycling.",
		Priority: 3,
		Icon:     "running",
	}},
	{survey_models.FactorOverweight, survey_models.Recommendation{
		Primary:  "Maintain a healthy weight",
		Details:  "Small changes in portion size and daily movement help keep BMI in the healthy range.",
		Priority: 4,
		Icon:     "scale",
	}},
	{survey_models.FactorHighStress, survey_models.Recommendation{
		Primary:  "Manage stress",
		Details:  "Try regular relaxation techniques, physical activity, or talking to a professional.",
		Priority: 4,
		Icon:     "meditation",
	}},
	{survey_models.FactorPoorSleep, survey_models.Recommendation{
		Primary:  "Improve sleep habits",
		Details:  "Aim for 7 to 9 hours per night with a consistent schedule and limited screen time before bed.",
		Priority: 5,
		Icon:     "sleep",
	}},
	{survey_models.FactorAdvancedAge, survey_models.Recommendation{
		Primary:  "Schedule regular health screenings",
		Details:  "Age-appropriate checkups help detect common conditions early.",
		Priority: 6,
		Icon:     "calendar",
	}},
}

// generalRecommendations are appended for elevated risk levels.
var generalRecommendations = []survey_models.Recommendation{
	{
		Primary:  "Consult a healthcare professional",
		Details:  "Discuss these results with a doctor for a personalized assessment.",
		Priority: 7,
		Icon:     "doctor",
	},
	{
		Primary:  "Monitor your health regularly",
		Details:  "Track blood pressure, weight, and other key indicators over time.",
		Priority: 8,
		Icon:     "heart-monitor",
	},
}

type RecommendationServiceInterface interface {
	Recommend(factors []survey_models.Factor, level survey_models.RiskLevel) survey_models.RecommendationResult
}

type RecommendationService struct {
	limit int
}

// NewRecommendationService caps results at limit entries; a non-positive
// limit uses the default of 5.
func NewRecommendationService(limit int) RecommendationServiceInterface {
	if limit <= 0 {
		limit = defaultMaxRecommendations
	}
	return &RecommendationService{limit: limit}
}

func (s *RecommendationService) Recommend(factors []survey_models.Factor, level survey_models.RiskLevel) survey_models.RecommendationResult {
	seen := make(map[string]bool)
	recs := make([]survey_models.Recommendation, 0, len(factors)+len(generalRecommendations))
	add := func(r survey_models.Recommendation) {
		if seen[r.Primary] {
			return
		}
		seen[r.Primary] = true
		recs = append(recs, r)
	}

	for _, f := range factors {
		if r, ok := lookupRecommendation(f); ok {
			add(r)
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority < recs[j].Priority
	})

	if level.Elevated() {
		for _, r := range generalRecommendations {
			add(r)
		}
	}

	if len(recs) > s.limit {
		recs = recs[:s.limit]
	}

	primary := make([]string, len(recs))
	for i, r := range recs {
		primary[i] = r.Primary
	}
	return survey_models.RecommendationResult{
		Recommendations:         primary,
		DetailedRecommendations: recs,
	}
}

func lookupRecommendation(f survey_models.Factor) (survey_models.Recommendation, bool) {
	for _, e := range recommendationTable {
		if e.factor == f {
			return e.rec, true
		}
	}
	return survey_models.Recommendation{}, false
}
