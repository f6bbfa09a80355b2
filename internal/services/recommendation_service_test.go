package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"healthrisk/internal/models/survey_models"
)

func priorities(recs []survey_models.Recommendation) []int {
	out := make([]int, len(recs))
	for i, r := range recs {
		out[i] = r.Priority
	}
	return out
}

func TestRecommend_CapsAtFiveSortedByPriority(t *testing.T) {
	factors := []survey_models.Factor{
		survey_models.FactorSmoking,
		survey_models.FactorPoorDiet,
		survey_models.FactorLowExercise,
		survey_models.FactorExcessiveAlcohol,
		survey_models.FactorPoorSleep,
		survey_models.FactorHighStress,
		survey_models.FactorObesity,
		survey_models.FactorOverweight,
	}

	res := NewRecommendationService(5).Recommend(factors, survey_models.RiskVeryHigh)

	require.Len(t, res.DetailedRecommendations, 5)
	assert.Equal(t, []int{1, 2, 2, 3, 3}, priorities(res.DetailedRecommendations))
	assert.Equal(t, []string{
		"Quit smoking",
		"Reduce alcohol consumption",
		"Work toward a healthy weight",
		"Improve your diet",
		"Increase physical activity",
	}, res.Recommendations)
}

func TestRecommend_ScenarioA(t *testing.T) {
	factors := []survey_models.Factor{
		survey_models.FactorSmoking,
		survey_models.FactorPoorDiet,
		survey_models.FactorLowExercise,
		survey_models.FactorPoorSleep,
		survey_models.FactorHighStress,
		survey_models.FactorMiddleAge,
	}

	res := NewRecommendationService(5).Recommend(factors, survey_models.RiskVeryHigh)

	assert.Equal(t, []int{1, 3, 3, 4, 5}, priorities(res.DetailedRecommendations))
	assert.NotContains(t, res.Recommendations, "Consult a healthcare professional")
}

func TestRecommend_LowRiskNoFactors(t *testing.T) {
	res := NewRecommendationService(5).Recommend(nil, survey_models.RiskLow)

	assert.Empty(t, res.Recommendations)
	assert.NotNil(t, res.Recommendations)
	assert.Empty(t, res.DetailedRecommendations)
}

func TestRecommend_ElevatedAddsGeneral(t *testing.T) {
	for _, level := range []survey_models.RiskLevel{survey_models.RiskHigh, survey_models.RiskVeryHigh} {
		res := NewRecommendationService(5).Recommend([]survey_models.Factor{survey_models.FactorPoorSleep}, level)

		assert.Equal(t, []int{5, 7, 8}, priorities(res.DetailedRecommendations), "level=%s", level)
	}

	moderate := NewRecommendationService(5).Recommend([]survey_models.Factor{survey_models.FactorPoorSleep}, survey_models.RiskModerate)
	assert.Equal(t, []int{5}, priorities(moderate.DetailedRecommendations))
}

func TestRecommend_MiddleAgeHasNoEntry(t *testing.T) {
	res := NewRecommendationService(5).Recommend([]survey_models.Factor{survey_models.FactorMiddleAge}, survey_models.RiskModerate)

	assert.Empty(t, res.Recommendations)
}

func TestRecommend_Deduplicates(t *testing.T) {
	res := NewRecommendationService(5).Recommend([]survey_models.Factor{
		survey_models.FactorSmoking,
		survey_models.FactorSmoking,
		"unknown",
	}, survey_models.RiskLow)

	assert.Equal(t, []string{"Quit smoking"}, res.Recommendations)
}

func TestRecommend_DefaultLimit(t *testing.T) {
	res := NewRecommendationService(0).Recommend(allFactors, survey_models.RiskHigh)

	assert.Len(t, res.Recommendations, defaultMaxRecommendations)
}

func TestRecommendationTable_CoversAllButMiddleAge(t *testing.T) {
	for _, f := range allFactors {
		_, ok := lookupRecommendation(f)
		assert.Equal(t, f != survey_models.FactorMiddleAge, ok, "factor=%s", f)
	}
	for _, e := range recommendationTable {
		assert.GreaterOrEqual(t, e.rec.Priority, 1)
		assert.LessOrEqual(t, e.rec.Priority, 6)
	}
}
