package response_models

import (
	"time"

	"healthrisk/internal/models/survey_models"
)

const Disclaimer = "This assessment is informational only and is not a medical diagnosis. Consult a healthcare professional for medical advice."

// AnalysisResponse is the success payload of a full analysis.
type AnalysisResponse struct {
	Status                  survey_models.Status           `json:"status"`
	AnalysisID              string                         `json:"analysis_id"`
	Timestamp               time.Time                      `json:"timestamp"`
	Answers                 survey_models.Answers          `json:"answers"`
	MissingFields           []survey_models.Field          `json:"missing_fields"`
	ParseConfidence         float64                        `json:"parse_confidence"`
	Corrections             []survey_models.Correction     `json:"corrections"`
	Factors                 []survey_models.Factor         `json:"factors"`
	FactorConfidence        float64                        `json:"factor_confidence"`
	RiskLevel               survey_models.RiskLevel        `json:"risk_level"`
	Score                   int                            `json:"score"`
	Rationale               []string                       `json:"rationale"`
	Recommendations         []string                       `json:"recommendations"`
	DetailedRecommendations []survey_models.Recommendation `json:"detailed_recommendations"`
	Warnings                []survey_models.Warning        `json:"warnings"`
	SchemaWarnings          []string                       `json:"schema_warnings,omitempty"`
	Disclaimer              string                         `json:"disclaimer"`
	OCRText                 string                         `json:"ocr_text,omitempty"`
	Steps                   []survey_models.StepRecord     `json:"steps,omitempty"`
}

// ErrorResponse is the payload of a failed analysis.
type ErrorResponse struct {
	Status        survey_models.Status        `json:"status"`
	Reason        string                      `json:"reason"`
	AnalysisID    string                      `json:"analysis_id,omitempty"`
	Timestamp     time.Time                   `json:"timestamp"`
	MissingFields []survey_models.Field       `json:"missing_fields,omitempty"`
	PartialParse  *survey_models.PartialParse `json:"partial_parse,omitempty"`
	Warnings      []survey_models.Warning     `json:"warnings,omitempty"`
	OCRText       string                      `json:"ocr_text,omitempty"`
	Steps         []survey_models.StepRecord  `json:"steps,omitempty"`
}

type ValidationResponse struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

type FieldsResponse struct {
	ExpectedFields []survey_models.Field `json:"expected_fields"`
	CoreFields     []survey_models.Field `json:"core_fields"`
	Thresholds     any                   `json:"thresholds"`
}

type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	OCRProvider string    `json:"ocr_provider"`
}
