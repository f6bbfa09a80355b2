package survey_models

// Status is the machine-readable outcome kind of an analysis.
type Status string

const (
	StatusOK                Status = "ok"
	StatusInvalidInput      Status = "invalid_input"
	StatusEmptyInput        Status = "empty_input"
	StatusInvalidJSON       Status = "invalid_json"
	StatusInvalidOCR        Status = "invalid_ocr"
	StatusParseError        Status = "parse_error"
	StatusLowConfidence     Status = "low_confidence"
	StatusIncompleteProfile Status = "incomplete_profile"
	StatusNoData            Status = "no_data"
	StatusWarningStop       Status = "warning_stop"
	StatusPipelineError     Status = "pipeline_error"
	StatusInternalError     Status = "internal_error"
)

type WarningType string

const (
	WarningMissingFields    WarningType = "missing_fields"
	WarningLowConfidence    WarningType = "low_confidence"
	WarningUnusualValue     WarningType = "unusual_value"
	WarningOCRArtifacts     WarningType = "ocr_artifacts"
	WarningNoSurveyKeywords WarningType = "no_survey_keywords"
)

// Warning is advisory and never halts the pipeline on its own.
type Warning struct {
	Type    WarningType `json:"type"`
	Message string      `json:"message"`
	Field   Field       `json:"field,omitempty"`
	Fields  []Field     `json:"fields,omitempty"`
	Value   any         `json:"value,omitempty"`
}

type PartialParse struct {
	Answers    Answers `json:"answers"`
	Confidence float64 `json:"confidence"`
}

// GuardrailError is the diagnostic returned by a failed gate.
type GuardrailError struct {
	Status        Status        `json:"status"`
	Reason        string        `json:"reason"`
	MissingFields []Field       `json:"missing_fields,omitempty"`
	PartialParse  *PartialParse `json:"partial_parse,omitempty"`
}

// CheckResult is the outcome of a blocking guardrail check.
type CheckResult struct {
	IsValid  bool            `json:"isValid"`
	Error    *GuardrailError `json:"error,omitempty"`
	Warnings []Warning       `json:"warnings,omitempty"`
}

type CorrectionAction string

const (
	ActionTypeConversion      CorrectionAction = "type_conversion"
	ActionClampedToMin        CorrectionAction = "clamped_to_min"
	ActionClampedToMax        CorrectionAction = "clamped_to_max"
	ActionNormalizedToBoolean CorrectionAction = "normalized_to_boolean"
)

type Correction struct {
	Field     Field            `json:"field"`
	Action    CorrectionAction `json:"action"`
	Original  any              `json:"original"`
	Corrected any              `json:"corrected"`
}

// RangeResult is the outcome of range validation. IsValid means no
// correction was needed, not that the data is sane.
type RangeResult struct {
	IsValid     bool         `json:"isValid"`
	Answers     Answers      `json:"answers"`
	Corrections []Correction `json:"corrections"`
}
