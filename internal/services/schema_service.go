package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"healthrisk/internal/models/survey_models"
	"healthrisk/pkg/utils"
)

const (
	SchemaAnalyzeRequest  = "analyze_request"
	SchemaAnswers         = "answers"
	SchemaParseResult     = "parse_result"
	SchemaFactorResult    = "factor_result"
	SchemaRiskResult      = "risk_result"
	SchemaRecommendations = "recommendations"
)

func factorLabels() []string {
	out := make([]string, 0, len(factorRules))
	for _, r := range factorRules {
		out = append(out, string(r.label))
	}
	return out
}

func fieldNames(fields []survey_models.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}

func builtinSchemas() []survey_models.Schema {
	return []survey_models.Schema{
		{
			Name:        SchemaAnalyzeRequest,
			Description: "Body of an analysis request",
			Fields: []survey_models.FieldRule{
				{Name: "input", Type: survey_models.TypeAny, Required: true},
				{Name: "isOcr", Type: survey_models.TypeBoolean},
				{Name: "options", Type: survey_models.TypeObject},
			},
		},
		{
			Name:        SchemaAnswers,
			Description: "Canonical answer mapping",
			Fields: []survey_models.FieldRule{
				{Name: "age", Type: survey_models.TypeInteger, Constraint: "min=0,max=150"},
				{Name: "smoker", Type: survey_models.TypeBoolean},
				{Name: "exercise", Type: survey_models.TypeString},
				{Name: "diet", Type: survey_models.TypeString},
				{Name: "alcohol", Type: survey_models.TypeString},
				{Name: "sleep", Type: survey_models.TypeAny},
				{Name: "stress", Type: survey_models.TypeString},
				{Name: "bmi", Type: survey_models.TypeNumber, Constraint: "min=10,max=100"},
			},
		},
		{
			Name:        SchemaParseResult,
			Description: "Normalizer output",
			Fields: []survey_models.FieldRule{
				{Name: "answers", Type: survey_models.TypeObject, Required: true},
				{Name: "missing_fields", Type: survey_models.TypeArray, Required: true, Constraint: "max=4",
					ItemType: survey_models.TypeString, Enum: fieldNames(survey_models.CoreFields)},
				{Name: "confidence", Type: survey_models.TypeNumber, Required: true, Constraint: "min=0,max=1"},
				{Name: "error", Type: survey_models.TypeString},
			},
		},
		{
			Name:        SchemaFactorResult,
			Description: "Factor extractor output",
			Fields: []survey_models.FieldRule{
				{Name: "factors", Type: survey_models.TypeArray, Required: true, Constraint: "max=10",
					ItemType: survey_models.TypeString, Enum: factorLabels()},
				{Name: "factor_details", Type: survey_models.TypeArray, Required: true, ItemType: survey_models.TypeObject},
				{Name: "confidence", Type: survey_models.TypeNumber, Required: true, Constraint: "min=0,max=1"},
			},
		},
		{
			Name:        SchemaRiskResult,
			Description: "Risk classifier output",
			Fields: []survey_models.FieldRule{
				{Name: "risk_level", Type: survey_models.TypeString, Required: true, Enum: []string{
					string(survey_models.RiskLow), string(survey_models.RiskModerate),
					string(survey_models.RiskHigh), string(survey_models.RiskVeryHigh),
				}},
				{Name: "score", Type: survey_models.TypeInteger, Required: true, Constraint: "min=0,max=100"},
				{Name: "rationale", Type: survey_models.TypeArray, Required: true, ItemType: survey_models.TypeString},
			},
		},
		{
			Name:        SchemaRecommendations,
			Description: "Recommendation engine output",
			Fields: []survey_models.FieldRule{
				{Name: "recommendations", Type: survey_models.TypeArray, Required: true, ItemType: survey_models.TypeString},
				{Name: "detailed_recommendations", Type: survey_models.TypeArray, Required: true, ItemType: survey_models.TypeObject},
			},
		},
	}
}

type SchemaServiceInterface interface {
	Validate(name string, data any) (survey_models.SchemaValidation, error)
	ListSchemas() []survey_models.Schema
}

type SchemaService struct {
	validate *validator.Validate
	schemas  []survey_models.Schema
}

func NewSchemaService() SchemaServiceInterface {
	return &SchemaService{
		validate: validator.New(),
		schemas:  builtinSchemas(),
	}
}

func (s *SchemaService) ListSchemas() []survey_models.Schema {
	out := make([]survey_models.Schema, len(s.schemas))
	copy(out, s.schemas)
	return out
}

func (s *SchemaService) lookup(name string) (survey_models.Schema, bool) {
	for _, sc := range s.schemas {
		if sc.Name == name {
			return sc, true
		}
	}
	return survey_models.Schema{}, false
}

// Validate checks data against the named schema. Data may be any JSON-like
// value or a struct; it is normalized through JSON first.
func (s *SchemaService) Validate(name string, data any) (survey_models.SchemaValidation, error) {
	schema, ok := s.lookup(name)
	if !ok {
		return survey_models.SchemaValidation{}, fmt.Errorf("%w: %q", utils.ErrUnknownSchema, name)
	}

	generic, err := toGeneric(data)
	if err != nil {
		return invalid(fmt.Sprintf("data could not be encoded: %v", err)), nil
	}
	obj, ok := generic.(map[string]any)
	if !ok {
		return invalid("data must be an object"), nil
	}

	errs := []string{}
	for _, rule := range schema.Fields {
		errs = append(errs, s.checkField(rule, obj)...)
	}
	return survey_models.SchemaValidation{IsValid: len(errs) == 0, Errors: errs}, nil
}

func invalid(msg string) survey_models.SchemaValidation {
	return survey_models.SchemaValidation{IsValid: false, Errors: []string{msg}}
}

func toGeneric(data any) (any, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SchemaService) checkField(rule survey_models.FieldRule, obj map[string]any) []string {
	value, present := obj[rule.Name]
	if !present || value == nil {
		if rule.Required {
			return []string{fmt.Sprintf("%s: is required", rule.Name)}
		}
		return nil
	}

	if !matchesType(rule.Type, value) {
		return []string{fmt.Sprintf("%s: expected %s, got %s", rule.Name, rule.Type, jsonTypeOf(value))}
	}

	var errs []string
	if rule.Constraint != "" {
		if err := s.validate.Var(value, rule.Constraint); err != nil {
			errs = append(errs, constraintErrors(rule.Name, err)...)
		}
	}

	if items, ok := value.([]any); ok {
		for i, item := range items {
			label := fmt.Sprintf("%s[%d]", rule.Name, i)
			if rule.ItemType != "" && !matchesType(rule.ItemType, item) {
				errs = append(errs, fmt.Sprintf("%s: expected %s, got %s", label, rule.ItemType, jsonTypeOf(item)))
				continue
			}
			if len(rule.Enum) > 0 && !inEnum(rule.Enum, item) {
				errs = append(errs, fmt.Sprintf("%s: %v is not one of %v", label, item, rule.Enum))
			}
		}
	} else if len(rule.Enum) > 0 && !inEnum(rule.Enum, value) {
		errs = append(errs, fmt.Sprintf("%s: %v is not one of %v", rule.Name, value, rule.Enum))
	}
	return errs
}

func constraintErrors(name string, err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{fmt.Sprintf("%s: %v", name, err)}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fmt.Sprintf("%s: failed '%s=%s' constraint", name, fe.Tag(), fe.Param()))
	}
	return out
}

func matchesType(t survey_models.SchemaType, v any) bool {
	switch t {
	case survey_models.TypeAny, "":
		return true
	case survey_models.TypeString:
		_, ok := v.(string)
		return ok
	case survey_models.TypeNumber:
		_, ok := v.(float64)
		return ok
	case survey_models.TypeInteger:
		f, ok := v.(float64)
		return ok && f == math.Trunc(f)
	case survey_models.TypeBoolean:
		_, ok := v.(bool)
		return ok
	case survey_models.TypeObject:
		_, ok := v.(map[string]any)
		return ok
	case survey_models.TypeArray:
		_, ok := v.([]any)
		return ok
	}
	return false
}

func jsonTypeOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	}
	return fmt.Sprintf("%T", v)
}

func inEnum(enum []string, v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	for _, e := range enum {
		if e == s {
			return true
		}
	}
	return false
}
