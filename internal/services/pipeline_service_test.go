package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"healthrisk/internal/config"
	"healthrisk/internal/models/request_models"
	"healthrisk/internal/models/response_models"
	"healthrisk/internal/models/survey_models"
)

var frozenNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func freezeTime(t *testing.T) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return frozenNow }
	t.Cleanup(func() { timeNow = orig })
}

func testConfig(env string) *config.AppConfig {
	return &config.AppConfig{
		Port:        "8080",
		Environment: env,
		Thresholds:  config.DefaultThresholds(),
		OCR:         config.OCRConfig{Provider: config.OCRProviderNone},
	}
}

func newTestPipeline(cfg *config.AppConfig, factor FactorServiceInterface) PipelineServiceInterface {
	if factor == nil {
		factor = NewFactorService()
	}
	return NewPipelineService(
		cfg,
		zap.NewNop(),
		NewNormalizerService(),
		NewGuardrailService(cfg.Thresholds),
		factor,
		NewRiskService(),
		NewRecommendationService(cfg.Thresholds.MaxRecommendations),
		NewSchemaService(),
	)
}

func steps(trace []survey_models.StepRecord) []survey_models.Stage {
	out := make([]survey_models.Stage, len(trace))
	for i, s := range trace {
		out[i] = s.Step
	}
	return out
}

func TestRun_ScenarioA(t *testing.T) {
	freezeTime(t)
	p := newTestPipeline(testConfig(config.EnvDevelopment), nil)

	res := p.Run(map[string]any{
		"age":      float64(42),
		"smoker":   true,
		"exercise": "rarely",
		"diet":     "high sugar",
		"stress":   "high",
		"sleep":    float64(5),
	}, false, request_models.AnalyzeOptions{ValidateSchemas: true})

	require.Nil(t, res.Failure)
	require.NotNil(t, res.Success)
	s := res.Success
	assert.Equal(t, survey_models.StatusOK, s.Status)
	assert.NotEmpty(t, s.AnalysisID)
	assert.Equal(t, frozenNow, s.Timestamp)
	assert.Equal(t, []survey_models.Factor{
		survey_models.FactorSmoking,
		survey_models.FactorPoorDiet,
		survey_models.FactorLowExercise,
		survey_models.FactorPoorSleep,
		survey_models.FactorHighStress,
		survey_models.FactorMiddleAge,
	}, s.Factors)
	assert.Equal(t, 94, s.Score)
	assert.GreaterOrEqual(t, s.Score, 75)
	assert.Equal(t, survey_models.RiskVeryHigh, s.RiskLevel)
	for _, r := range s.Rationale {
		assert.NotContains(t, r, "middle age")
	}
	assert.Len(t, s.Recommendations, 5)
	assert.Equal(t, 1.0, s.ParseConfidence)
	assert.Equal(t, 1.0, s.FactorConfidence)
	assert.Empty(t, s.Corrections)
	assert.Empty(t, s.Warnings)
	assert.Empty(t, s.SchemaWarnings)
	assert.Equal(t, response_models.Disclaimer, s.Disclaimer)

	assert.Equal(t, []survey_models.Stage{
		survey_models.StageInputValidation,
		survey_models.StageParse,
		survey_models.StageFactors,
		survey_models.StageRisk,
		survey_models.StageRecommendations,
	}, steps(s.Steps))
	for _, st := range s.Steps {
		assert.True(t, st.Success)
		assert.Equal(t, frozenNow, st.Timestamp)
	}
}

func TestRun_ScenarioB(t *testing.T) {
	p := newTestPipeline(testConfig(config.EnvDevelopment), nil)

	res := p.Run(map[string]any{
		"age":      float64(25),
		"smoker":   false,
		"exercise": "regularly",
		"diet":     "healthy",
	}, false, request_models.AnalyzeOptions{})

	require.NotNil(t, res.Success)
	assert.Empty(t, res.Success.Factors)
	assert.Equal(t, 0, res.Success.Score)
	assert.Equal(t, survey_models.RiskLow, res.Success.RiskLevel)
	assert.Empty(t, res.Success.Recommendations)
}

func TestRun_OCRText(t *testing.T) {
	p := newTestPipeline(testConfig(config.EnvDevelopment), nil)

	res := p.Run("Age: 42\nSmoker: Yes\nExercise: Rarely\nDiet: High sugar", true, request_models.AnalyzeOptions{})

	require.NotNil(t, res.Success)
	assert.Equal(t, survey_models.Answers{
		survey_models.FieldAge:      survey_models.Of(42),
		survey_models.FieldSmoker:   survey_models.Of(true),
		survey_models.FieldExercise: survey_models.Of("rarely"),
		survey_models.FieldDiet:     survey_models.Of("high sugar"),
	}, res.Success.Answers)
	assert.Equal(t, 0.9, res.Success.ParseConfidence)
}

func TestRun_InvalidOCRFailsAtParse(t *testing.T) {
	p := newTestPipeline(testConfig(config.EnvDevelopment), nil)

	res := p.Run("age 4", true, request_models.AnalyzeOptions{})

	require.NotNil(t, res.Failure)
	assert.Equal(t, survey_models.StatusInvalidOCR, res.Failure.Status)
	assert.Equal(t, survey_models.StageParse, res.FailedAt)
	assert.False(t, res.InputRejected())
}

func TestRun_InputValidationFailure(t *testing.T) {
	freezeTime(t)
	p := newTestPipeline(testConfig(config.EnvDevelopment), nil)

	res := p.Run(nil, false, request_models.AnalyzeOptions{})

	require.Nil(t, res.Success)
	require.NotNil(t, res.Failure)
	assert.Equal(t, survey_models.StatusInvalidInput, res.Failure.Status)
	assert.True(t, res.InputRejected())
	assert.Equal(t, frozenNow, res.Failure.Timestamp)
	require.Len(t, res.Failure.Steps, 1)
	assert.Equal(t, survey_models.StageInputValidation, res.Failure.Steps[0].Step)
	assert.False(t, res.Failure.Steps[0].Success)
}

func TestRun_IncompleteProfile(t *testing.T) {
	p := newTestPipeline(testConfig(config.EnvDevelopment), nil)

	res := p.Run(map[string]any{"smoker": true}, false, request_models.AnalyzeOptions{})

	require.NotNil(t, res.Failure)
	assert.Equal(t, survey_models.StatusIncompleteProfile, res.Failure.Status)
	assert.False(t, res.InputRejected())
	assert.Equal(t, []survey_models.Field{survey_models.FieldAge, survey_models.FieldExercise, survey_models.FieldDiet}, res.Failure.MissingFields)
	require.NotNil(t, res.Failure.PartialParse)
	assert.Equal(t, 0.85, res.Failure.PartialParse.Confidence)
	assert.Equal(t, []survey_models.Stage{survey_models.StageInputValidation, survey_models.StageParse}, steps(res.Failure.Steps))
}

func TestRun_StopOnWarning(t *testing.T) {
	input := map[string]any{"age": float64(42), "smoker": true, "exercise": "rarely"}
	p := newTestPipeline(testConfig(config.EnvDevelopment), nil)

	res := p.Run(input, false, request_models.AnalyzeOptions{StopOnWarning: true})
	require.NotNil(t, res.Failure)
	assert.Equal(t, survey_models.StatusWarningStop, res.Failure.Status)
	require.Len(t, res.Failure.Warnings, 1)
	assert.Equal(t, survey_models.WarningMissingFields, res.Failure.Warnings[0].Type)

	res = p.Run(input, false, request_models.AnalyzeOptions{})
	require.NotNil(t, res.Success)
	require.Len(t, res.Success.Warnings, 1)
}

func TestRun_CorrectionsFlowIntoResult(t *testing.T) {
	p := newTestPipeline(testConfig(config.EnvDevelopment), nil)

	res := p.Run(map[string]any{
		"age": float64(200), "smoker": "yes", "exercise": "rarely", "diet": "balanced", "bmi": float64(5),
	}, false, request_models.AnalyzeOptions{})

	require.NotNil(t, res.Success)
	assert.Equal(t, survey_models.Of(150), res.Success.Answers.Get(survey_models.FieldAge))
	assert.Equal(t, survey_models.Of(10.0), res.Success.Answers.Get(survey_models.FieldBMI))
	require.Len(t, res.Success.Corrections, 2)
	assert.Contains(t, res.Success.Factors, survey_models.FactorAdvancedAge)
}

func TestRunLegacy_OmitsTrace(t *testing.T) {
	p := newTestPipeline(testConfig(config.EnvDevelopment), nil)

	ok := p.RunLegacy(map[string]any{"age": float64(30), "smoker": false, "exercise": "sometimes", "diet": "balanced"}, false, request_models.AnalyzeOptions{})
	require.NotNil(t, ok.Success)
	assert.Nil(t, ok.Success.Steps)

	failed := p.RunLegacy("", false, request_models.AnalyzeOptions{})
	require.NotNil(t, failed.Failure)
	assert.Equal(t, survey_models.StatusEmptyInput, failed.Failure.Status)
	assert.Nil(t, failed.Failure.Steps)
}

type panickingFactorService struct{}

func (panickingFactorService) Extract(survey_models.Answers) survey_models.FactorResult {
	panic("rule table corrupted")
}

func TestRun_RecoversPanics(t *testing.T) {
	input := map[string]any{"age": float64(30), "smoker": false, "exercise": "sometimes", "diet": "balanced"}

	dev := newTestPipeline(testConfig(config.EnvDevelopment), panickingFactorService{}).Run(input, false, request_models.AnalyzeOptions{})
	require.NotNil(t, dev.Failure)
	assert.Equal(t, survey_models.StatusPipelineError, dev.Failure.Status)
	assert.Equal(t, "rule table corrupted", dev.Failure.Reason)
	assert.Equal(t, survey_models.StageFactors, dev.FailedAt)
	assert.Equal(t, []survey_models.Stage{
		survey_models.StageInputValidation,
		survey_models.StageParse,
		survey_models.StageFactors,
	}, steps(dev.Failure.Steps))
	assert.False(t, dev.Failure.Steps[2].Success)

	prod := newTestPipeline(testConfig(config.EnvProduction), panickingFactorService{}).Run(input, false, request_models.AnalyzeOptions{})
	require.NotNil(t, prod.Failure)
	assert.Equal(t, survey_models.StatusPipelineError, prod.Failure.Status)
	assert.Equal(t, hiddenInternalReason, prod.Failure.Reason)
}

func TestRun_SchemaWarningsAreNonBlocking(t *testing.T) {
	th := config.DefaultThresholds()
	th.AgeRange = config.Range{Min: 0, Max: 200}
	cfg := testConfig(config.EnvDevelopment)
	cfg.Thresholds = th
	p := newTestPipeline(cfg, nil)

	res := p.Run(map[string]any{"age": float64(180), "smoker": false, "exercise": "rarely", "diet": "healthy"},
		false, request_models.AnalyzeOptions{ValidateSchemas: true})

	require.NotNil(t, res.Success)
	require.NotEmpty(t, res.Success.SchemaWarnings)
	assert.Contains(t, res.Success.SchemaWarnings[0], "answers: age")
}
