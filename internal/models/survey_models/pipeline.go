package survey_models

import "time"

// Stage is a pipeline state.
type Stage string

const (
	StageInputValidation Stage = "input_validation"
	StageParse           Stage = "parse"
	StageFactors         Stage = "factors"
	StageRisk            Stage = "risk"
	StageRecommendations Stage = "recommendations"
	StageDone            Stage = "done"
	StageFailed          Stage = "failed"
)

// StepRecord is one entry of the pipeline trace.
type StepRecord struct {
	Step      Stage     `json:"step"`
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
