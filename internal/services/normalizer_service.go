package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"healthrisk/internal/models/survey_models"
	"healthrisk/pkg/utils"
)

const (
	ocrConfidencePenalty    = 0.1
	missingCoreFieldPenalty = 0.05
	unparseableFieldPenalty = 0.02
)

var (
	smokerTrue  = []string{"yes", "true", "y", "1", "yeah", "yep"}
	smokerFalse = []string{"no", "false", "n", "0", "nope", "never"}
)

type synonymBucket struct {
	value    string
	synonyms []string
}

var exerciseBuckets = []synonymBucket{
	{"rarely", []string{"rarely", "rare", "never", "seldom", "none", "sedentary", "hardly", "no"}},
	{"sometimes", []string{"sometimes", "occasionally", "occasional", "moderate", "moderately", "weekly", "somewhat"}},
	{"regularly", []string{"regularly", "regular", "often", "frequently", "daily", "always", "active", "every day"}},
}

var dietBuckets = []synonymBucket{
	{"high sugar", []string{"sugar", "junk", "fast food", "fast-food", "unhealthy"}},
	{"balanced", []string{"balanced", "normal", "mixed"}},
	{"healthy", []string{"healthy", "vegetable", "fruit", "whole"}},
}

var alcoholBuckets = []synonymBucket{
	{"heavy", []string{"heavy", "frequent"}},
	{"moderate", []string{"moderate", "social"}},
	{"rarely", []string{"rarely", "never", "none"}},
}

type NormalizerServiceInterface interface {
	Parse(input any, isOcr bool) survey_models.ParseResult
}

// NormalizerService turns raw survey input into canonical answers.
type NormalizerService struct{}

func NewNormalizerService() NormalizerServiceInterface {
	return &NormalizerService{}
}

// Parse never fails: malformed input yields a zero-confidence result with
// Error set.
func (n *NormalizerService) Parse(input any, isOcr bool) survey_models.ParseResult {
	answers, err := parseAnswers(input, isOcr)
	if err != nil {
		return failedParse(err)
	}

	return survey_models.ParseResult{
		Answers:       answers,
		MissingFields: missingCoreFields(answers),
		Confidence:    parseConfidence(answers, isOcr),
	}
}

func parseAnswers(input any, isOcr bool) (survey_models.Answers, error) {
	switch v := input.(type) {
	case string:
		if isOcr {
			return parseTextLines(v), nil
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(v), &obj); err == nil && obj != nil {
			return parseObject(obj), nil
		}
		return parseTextLines(v), nil
	case map[string]any:
		if isOcr {
			return nil, errors.New("OCR input must be text")
		}
		return parseObject(v), nil
	case nil:
		return nil, errors.New("input is empty")
	default:
		return nil, fmt.Errorf("unsupported input type %T", input)
	}
}

func failedParse(err error) survey_models.ParseResult {
	missing := make([]survey_models.Field, len(survey_models.CoreFields))
	copy(missing, survey_models.CoreFields)
	return survey_models.ParseResult{
		Answers:       survey_models.Answers{},
		MissingFields: missing,
		Confidence:    0,
		Error:         err.Error(),
	}
}

// parseObject reads vocabulary keys from a decoded mapping. Exact keys win
// over case-insensitive matches; unknown keys are ignored.
func parseObject(obj map[string]any) survey_models.Answers {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	answers := survey_models.Answers{}
	for _, f := range survey_models.ExpectedFields {
		raw, ok := obj[string(f)]
		if !ok {
			for _, k := range keys {
				if strings.EqualFold(strings.TrimSpace(k), string(f)) {
					raw, ok = obj[k], true
					break
				}
			}
		}
		if ok {
			answers[f] = normalizeField(f, raw)
		}
	}
	return answers
}

func normalizeField(f survey_models.Field, raw any) survey_models.Value {
	if raw == nil {
		return survey_models.Null()
	}

	switch f {
	case survey_models.FieldAge:
		if n, ok := utils.ToInt(raw); ok {
			return survey_models.Of(n)
		}
		return survey_models.Null()
	case survey_models.FieldSmoker:
		if b, ok := raw.(bool); ok {
			return survey_models.Of(b)
		}
		text, ok := toText(raw)
		if !ok {
			return survey_models.Null()
		}
		if b, ok := ParseSmoker(text); ok {
			return survey_models.Of(b)
		}
		return survey_models.Null()
	case survey_models.FieldExercise:
		return categorical(raw, normalizeExercise)
	case survey_models.FieldDiet:
		return categorical(raw, func(s string) string { return matchSubstring(s, dietBuckets) })
	case survey_models.FieldAlcohol:
		return categorical(raw, func(s string) string { return matchSubstring(s, alcoholBuckets) })
	case survey_models.FieldSleep:
		if n, ok := utils.ToInt(raw); ok {
			return survey_models.Of(n)
		}
		return survey_models.Of(raw)
	case survey_models.FieldStress:
		return categorical(raw, func(s string) string { return s })
	case survey_models.FieldBMI:
		if v, ok := utils.ToFloat(raw); ok {
			return survey_models.Of(v)
		}
		return survey_models.Null()
	}
	return survey_models.Null()
}

// categorical lowercases the text form of raw and maps it through norm.
func categorical(raw any, norm func(string) string) survey_models.Value {
	text, ok := toText(raw)
	if !ok {
		return survey_models.Null()
	}
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return survey_models.Null()
	}
	return survey_models.Of(norm(text))
}

func toText(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}

// ParseSmoker maps yes/no synonyms to a boolean.
func ParseSmoker(s string) (bool, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range smokerTrue {
		if s == t {
			return true, true
		}
	}
	for _, f := range smokerFalse {
		if s == f {
			return false, true
		}
	}
	return false, false
}

func normalizeExercise(s string) string {
	for _, b := range exerciseBuckets {
		for _, syn := range b.synonyms {
			if s == syn {
				return b.value
			}
		}
	}
	if negated(s) {
		return s
	}
	for _, b := range exerciseBuckets {
		for _, syn := range b.synonyms {
			// short synonyms only match exactly
			if len(syn) >= 4 && strings.Contains(s, syn) {
				return b.value
			}
		}
	}
	return s
}

// matchSubstring returns the first bucket with a synonym contained in s,
// or s itself. Negated text is returned as is.
func matchSubstring(s string, buckets []synonymBucket) string {
	if negated(s) {
		return s
	}
	for _, b := range buckets {
		for _, syn := range b.synonyms {
			if strings.Contains(s, syn) {
				return b.value
			}
		}
	}
	return s
}

var negationWords = map[string]bool{
	"not": true, "no": true, "don't": true, "dont": true,
	"doesn't": true, "isn't": true, "can't": true, "cannot": true,
}

// negated reports whether s contains a negation word.
func negated(s string) bool {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
	for _, w := range words {
		if negationWords[w] {
			return true
		}
	}
	return false
}

func missingCoreFields(answers survey_models.Answers) []survey_models.Field {
	missing := []survey_models.Field{}
	for _, f := range survey_models.CoreFields {
		if answers.Get(f).Missing() {
			missing = append(missing, f)
		}
	}
	return missing
}

func parseConfidence(answers survey_models.Answers, isOcr bool) float64 {
	confidence := 1.0
	if isOcr {
		confidence -= ocrConfidencePenalty
	}
	for _, f := range survey_models.CoreFields {
		if answers.Get(f).Missing() {
			confidence -= missingCoreFieldPenalty
		}
	}
	for _, f := range survey_models.ExpectedFields {
		if answers.Get(f).IsNull() {
			confidence -= unparseableFieldPenalty
		}
	}
	return utils.Confidence(confidence)
}
