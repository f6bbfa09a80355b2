package survey_models

// ParseResult is the Normalizer output for one request.
type ParseResult struct {
	Answers       Answers `json:"answers"`
	MissingFields []Field `json:"missing_fields"`
	Confidence    float64 `json:"confidence"`
	Error         string  `json:"error,omitempty"`
}

// Factor is a qualitative risk label.
type Factor string

const (
	FactorSmoking          Factor = "smoking"
	FactorPoorDiet         Factor = "poor diet"
	FactorLowExercise      Factor = "low exercise"
	FactorExcessiveAlcohol Factor = "excessive alcohol"
	FactorPoorSleep        Factor = "poor sleep"
	FactorHighStress       Factor = "high stress"
	FactorObesity          Factor = "obesity"
	FactorOverweight       Factor = "overweight"
	FactorAdvancedAge      Factor = "advanced age"
	FactorMiddleAge        Factor = "middle age"
)

type FactorDetail struct {
	ID     string  `json:"id"`
	Label  Factor  `json:"label"`
	Weight float64 `json:"weight"`
}

type FactorResult struct {
	Factors       []Factor       `json:"factors"`
	FactorDetails []FactorDetail `json:"factor_details"`
	Confidence    float64        `json:"confidence"`
}

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskVeryHigh RiskLevel = "very high"
)

// Elevated is true for the two upper levels.
func (l RiskLevel) Elevated() bool {
	return l == RiskHigh || l == RiskVeryHigh
}

type RiskResult struct {
	RiskLevel RiskLevel `json:"risk_level"`
	Score     int       `json:"score"`
	Rationale []string  `json:"rationale"`
}

// Recommendation is advisory lifestyle guidance. Lower priority is more urgent.
type Recommendation struct {
	Primary  string `json:"primary"`
	Details  string `json:"details"`
	Priority int    `json:"priority"`
	Icon     string `json:"icon"`
}

type RecommendationResult struct {
	Recommendations         []string         `json:"recommendations"`
	DetailedRecommendations []Recommendation `json:"detailed_recommendations"`
}
