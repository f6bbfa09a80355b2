package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"healthrisk/internal/config"
	"healthrisk/internal/models/request_models"
	"healthrisk/internal/models/response_models"
	"healthrisk/internal/models/survey_models"
)

var timeNow = time.Now

const hiddenInternalReason = "An unexpected error occurred during analysis"

// PipelineResult holds exactly one of Success or Failure.
type PipelineResult struct {
	Success  *response_models.AnalysisResponse
	Failure  *response_models.ErrorResponse
	FailedAt survey_models.Stage
}

// InputRejected is true when the request failed the input shape guardrail.
func (r PipelineResult) InputRejected() bool {
	return r.Failure != nil && r.FailedAt == survey_models.StageInputValidation
}

type PipelineServiceInterface interface {
	// Run executes the full pipeline and includes the step trace.
	Run(input any, isOcr bool, opts request_models.AnalyzeOptions) PipelineResult
	// RunLegacy executes the same pipeline without returning the trace.
	RunLegacy(input any, isOcr bool, opts request_models.AnalyzeOptions) PipelineResult
}

type PipelineService struct {
	exposeInternal bool
	logger         *zap.Logger
	normalizer     NormalizerServiceInterface
	guardrail      GuardrailServiceInterface
	factor         FactorServiceInterface
	risk           RiskServiceInterface
	recommendation RecommendationServiceInterface
	schema         SchemaServiceInterface
}

func NewPipelineService(
	cfg *config.AppConfig,
	logger *zap.Logger,
	normalizer NormalizerServiceInterface,
	guardrail GuardrailServiceInterface,
	factor FactorServiceInterface,
	risk RiskServiceInterface,
	recommendation RecommendationServiceInterface,
	schema SchemaServiceInterface,
) PipelineServiceInterface {
	return &PipelineService{
		exposeInternal: !cfg.IsProduction(),
		logger:         logger.Named("pipeline"),
		normalizer:     normalizer,
		guardrail:      guardrail,
		factor:         factor,
		risk:           risk,
		recommendation: recommendation,
		schema:         schema,
	}
}

func (p *PipelineService) Run(input any, isOcr bool, opts request_models.AnalyzeOptions) PipelineResult {
	return p.execute(input, isOcr, opts, true)
}

func (p *PipelineService) RunLegacy(input any, isOcr bool, opts request_models.AnalyzeOptions) PipelineResult {
	return p.execute(input, isOcr, opts, false)
}

// pipelineRun is the mutable state of one execution. It never outlives
// the call that created it.
type pipelineRun struct {
	p     *PipelineService
	log   *zap.Logger
	input any
	isOcr bool
	opts  request_models.AnalyzeOptions

	state survey_models.Stage
	trace []survey_models.StepRecord

	parse          survey_models.ParseResult
	ranges         survey_models.RangeResult
	factors        survey_models.FactorResult
	risk           survey_models.RiskResult
	recs           survey_models.RecommendationResult
	warnings       []survey_models.Warning
	schemaWarnings []string
}

func (p *PipelineService) execute(input any, isOcr bool, opts request_models.AnalyzeOptions, traced bool) (result PipelineResult) {
	analysisID := uuid.NewString()
	run := &pipelineRun{
		p:        p,
		log:      p.logger.With(zap.String("analysis_id", analysisID)),
		input:    input,
		isOcr:    isOcr,
		opts:     opts,
		state:    survey_models.StageInputValidation,
		warnings: []survey_models.Warning{},
	}

	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		run.log.Error("pipeline panic", zap.String("stage", string(run.state)), zap.Any("panic", rec))
		reason := hiddenInternalReason
		if p.exposeInternal {
			reason = fmt.Sprintf("%v", rec)
		}
		failure := &survey_models.GuardrailError{Status: survey_models.StatusPipelineError, Reason: reason}
		failedAt := run.state
		run.record(failedAt, false, failure)
		result = run.failed(analysisID, failedAt, failure, traced)
	}()

	for run.state != survey_models.StageDone {
		current := run.state
		next, data, failure := run.step()
		if failure != nil {
			run.log.Info("guardrail failed",
				zap.String("stage", string(current)),
				zap.String("status", string(failure.Status)),
				zap.String("reason", failure.Reason))
			run.record(current, false, failure)
			run.state = survey_models.StageFailed
			return run.failed(analysisID, current, failure, traced)
		}
		run.log.Debug("stage complete", zap.String("stage", string(current)), zap.String("next", string(next)))
		run.record(current, true, data)
		run.state = next
	}

	return PipelineResult{Success: run.succeeded(analysisID, traced)}
}

func (r *pipelineRun) record(stage survey_models.Stage, success bool, data any) {
	r.trace = append(r.trace, survey_models.StepRecord{
		Step:      stage,
		Success:   success,
		Data:      data,
		Timestamp: timeNow().UTC(),
	})
}

// step performs the transition out of the current state.
func (r *pipelineRun) step() (survey_models.Stage, any, *survey_models.GuardrailError) {
	switch r.state {
	case survey_models.StageInputValidation:
		return r.validateInput()
	case survey_models.StageParse:
		return r.parseInput()
	case survey_models.StageFactors:
		return r.extractFactors()
	case survey_models.StageRisk:
		return r.classifyRisk()
	case survey_models.StageRecommendations:
		return r.recommend()
	}
	panic(fmt.Sprintf("no transition from state %q", r.state))
}

func (r *pipelineRun) validateInput() (survey_models.Stage, any, *survey_models.GuardrailError) {
	check := r.p.guardrail.ValidateInput(r.input)
	if !check.IsValid {
		return survey_models.StageFailed, nil, check.Error
	}
	r.checkSchema(SchemaAnalyzeRequest, map[string]any{
		"input": r.input,
		"isOcr": r.isOcr,
	})
	return survey_models.StageParse, map[string]any{"input_type": inputType(r.input), "is_ocr": r.isOcr}, nil
}

func (r *pipelineRun) parseInput() (survey_models.Stage, any, *survey_models.GuardrailError) {
	if r.isOcr {
		ocr := r.p.guardrail.ValidateOCRText(r.input)
		if !ocr.IsValid {
			return survey_models.StageFailed, nil, ocr.Error
		}
		r.warnings = append(r.warnings, ocr.Warnings...)
	}

	r.parse = r.p.normalizer.Parse(r.input, r.isOcr)
	r.checkSchema(SchemaParseResult, r.parse)

	completeness := r.p.guardrail.CheckProfileCompleteness(r.parse)
	if !completeness.IsValid {
		return survey_models.StageFailed, nil, completeness.Error
	}
	r.warnings = append(r.warnings, completeness.Warnings...)

	if r.opts.StopOnWarning && len(r.warnings) > 0 {
		return survey_models.StageFailed, nil, &survey_models.GuardrailError{
			Status:        survey_models.StatusWarningStop,
			Reason:        "Analysis stopped on warnings: " + warningTypes(r.warnings),
			MissingFields: r.parse.MissingFields,
			PartialParse:  &survey_models.PartialParse{Answers: r.parse.Answers, Confidence: r.parse.Confidence},
		}
	}

	r.ranges = r.p.guardrail.ValidateAnswerRanges(r.parse.Answers)
	r.checkSchema(SchemaAnswers, r.ranges.Answers)

	return survey_models.StageFactors, map[string]any{
		"answers":        r.ranges.Answers,
		"missing_fields": r.parse.MissingFields,
		"confidence":     r.parse.Confidence,
		"corrections":    r.ranges.Corrections,
	}, nil
}

func (r *pipelineRun) extractFactors() (survey_models.Stage, any, *survey_models.GuardrailError) {
	r.factors = r.p.factor.Extract(r.ranges.Answers)
	r.checkSchema(SchemaFactorResult, r.factors)
	return survey_models.StageRisk, r.factors, nil
}

func (r *pipelineRun) classifyRisk() (survey_models.Stage, any, *survey_models.GuardrailError) {
	r.risk = r.p.risk.Classify(r.factors.Factors, r.ranges.Answers)
	r.checkSchema(SchemaRiskResult, r.risk)
	return survey_models.StageRecommendations, r.risk, nil
}

func (r *pipelineRun) recommend() (survey_models.Stage, any, *survey_models.GuardrailError) {
	r.recs = r.p.recommendation.Recommend(r.factors.Factors, r.risk.RiskLevel)
	r.checkSchema(SchemaRecommendations, r.recs)
	return survey_models.StageDone, r.recs, nil
}

// checkSchema validates an intermediate result when requested. Mismatches
// are logged and reported, never blocking.
func (r *pipelineRun) checkSchema(name string, data any) {
	if !r.opts.ValidateSchemas {
		return
	}
	res, err := r.p.schema.Validate(name, data)
	if err != nil {
		r.log.Warn("schema validation unavailable", zap.String("schema", name), zap.Error(err))
		return
	}
	if res.IsValid {
		return
	}
	r.log.Warn("schema mismatch", zap.String("schema", name), zap.Strings("errors", res.Errors))
	for _, e := range res.Errors {
		r.schemaWarnings = append(r.schemaWarnings, name+": "+e)
	}
}

func (r *pipelineRun) succeeded(analysisID string, traced bool) *response_models.AnalysisResponse {
	resp := &response_models.AnalysisResponse{
		Status:                  survey_models.StatusOK,
		AnalysisID:              analysisID,
		Timestamp:               timeNow().UTC(),
		Answers:                 r.ranges.Answers,
		MissingFields:           r.parse.MissingFields,
		ParseConfidence:         r.parse.Confidence,
		Corrections:             r.ranges.Corrections,
		Factors:                 r.factors.Factors,
		FactorConfidence:        r.factors.Confidence,
		RiskLevel:               r.risk.RiskLevel,
		Score:                   r.risk.Score,
		Rationale:               r.risk.Rationale,
		Recommendations:         r.recs.Recommendations,
		DetailedRecommendations: r.recs.DetailedRecommendations,
		Warnings:                r.warnings,
		SchemaWarnings:          r.schemaWarnings,
		Disclaimer:              response_models.Disclaimer,
	}
	if traced {
		resp.Steps = r.trace
	}
	return resp
}

func (r *pipelineRun) failed(analysisID string, stage survey_models.Stage, failure *survey_models.GuardrailError, traced bool) PipelineResult {
	resp := &response_models.ErrorResponse{
		Status:        failure.Status,
		Reason:        failure.Reason,
		AnalysisID:    analysisID,
		Timestamp:     timeNow().UTC(),
		MissingFields: failure.MissingFields,
		PartialParse:  failure.PartialParse,
		Warnings:      r.warnings,
	}
	if traced {
		resp.Steps = r.trace
	}
	return PipelineResult{Failure: resp, FailedAt: stage}
}

func inputType(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

func warningTypes(ws []survey_models.Warning) string {
	parts := make([]string, len(ws))
	for i, w := range ws {
		parts[i] = string(w.Type)
	}
	return strings.Join(parts, ", ")
}
