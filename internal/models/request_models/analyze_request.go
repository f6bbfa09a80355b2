package request_models

type AnalyzeOptions struct {
	ValidateSchemas bool `json:"validateSchemas"`
	StopOnWarning   bool `json:"stopOnWarning"`
}

// AnalyzeRequest carries a raw survey response. Input is a string or an
// object; anything else is rejected by the input guardrail.
type AnalyzeRequest struct {
	Input   any            `json:"input"`
	IsOcr   bool           `json:"isOcr"`
	Options AnalyzeOptions `json:"options"`
}

type ParseStageRequest struct {
	Input any  `json:"input"`
	IsOcr bool `json:"isOcr"`
}

type FactorsStageRequest struct {
	Answers map[string]any `json:"answers"`
}

type RiskStageRequest struct {
	Factors []string       `json:"factors"`
	Answers map[string]any `json:"answers"`
}

type RecommendationsStageRequest struct {
	Factors   []string `json:"factors"`
	RiskLevel string   `json:"risk_level"`
}

type ValidateRequest struct {
	Schema string `json:"schema" binding:"required"`
	Data   any    `json:"data"`
}

// ImageAnalyzeRequest is the JSON form of an image upload.
type ImageAnalyzeRequest struct {
	ImageBase64 string         `json:"image_base64" binding:"required"`
	MimeType    string         `json:"mime_type"`
	Options     AnalyzeOptions `json:"options"`
}
