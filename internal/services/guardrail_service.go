package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"healthrisk/internal/config"
	"healthrisk/internal/models/survey_models"
	"healthrisk/pkg/utils"
)

const (
	artifactNonASCIIRun = 5
	artifactRepeatRun   = 6
)

var surveyKeywords = []string{"age", "smoker", "smoking", "exercise", "diet", "sleep", "stress"}

type GuardrailServiceInterface interface {
	ValidateInput(raw any) survey_models.CheckResult
	CheckProfileCompleteness(pr survey_models.ParseResult) survey_models.CheckResult
	ValidateAnswerRanges(answers survey_models.Answers) survey_models.RangeResult
	ValidateOCRText(text any) survey_models.CheckResult
}

// GuardrailService holds the validation gates of the pipeline. All checks
// are pure; failures are returned as values.
type GuardrailService struct {
	thresholds config.Thresholds
}

func NewGuardrailService(thresholds config.Thresholds) GuardrailServiceInterface {
	return &GuardrailService{thresholds: thresholds}
}

func fail(status survey_models.Status, reason string) survey_models.CheckResult {
	return survey_models.CheckResult{
		IsValid: false,
		Error:   &survey_models.GuardrailError{Status: status, Reason: reason},
	}
}

func (g *GuardrailService) ValidateInput(raw any) survey_models.CheckResult {
	switch v := raw.(type) {
	case nil:
		return fail(survey_models.StatusInvalidInput, "Input is required")
	case []any:
		return fail(survey_models.StatusInvalidInput, "Input must be a string or an object, not an array")
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return fail(survey_models.StatusEmptyInput, "Input text is empty")
		}
		if strings.HasPrefix(trimmed, "{") && !json.Valid([]byte(trimmed)) {
			return fail(survey_models.StatusInvalidJSON, "Input looks like JSON but could not be parsed")
		}
	case map[string]any:
		if len(v) == 0 {
			return fail(survey_models.StatusEmptyInput, "Input object has no fields")
		}
	}
	return survey_models.CheckResult{IsValid: true}
}

func (g *GuardrailService) CheckProfileCompleteness(pr survey_models.ParseResult) survey_models.CheckResult {
	partial := &survey_models.PartialParse{Answers: pr.Answers, Confidence: pr.Confidence}
	failWith := func(status survey_models.Status, reason string) survey_models.CheckResult {
		res := fail(status, reason)
		res.Error.MissingFields = pr.MissingFields
		res.Error.PartialParse = partial
		return res
	}

	if pr.Error != "" {
		return failWith(survey_models.StatusParseError, "Could not parse survey input: "+pr.Error)
	}
	if pr.Confidence < g.thresholds.MinConfidence {
		return failWith(survey_models.StatusLowConfidence,
			fmt.Sprintf("Parse confidence %.2f is below the minimum of %.2f", pr.Confidence, g.thresholds.MinConfidence))
	}
	missingRatio := float64(len(pr.MissingFields)) / float64(len(survey_models.CoreFields))
	if missingRatio > g.thresholds.MaxMissingPercentage {
		return failWith(survey_models.StatusIncompleteProfile,
			"Too many core fields are missing: "+joinFields(pr.MissingFields))
	}
	if pr.Answers.NonNull() == 0 {
		return failWith(survey_models.StatusNoData, "No usable answers were found in the input")
	}

	var warnings []survey_models.Warning
	if len(pr.MissingFields) > 0 {
		warnings = append(warnings, survey_models.Warning{
			Type:    survey_models.WarningMissingFields,
			Message: "Some core fields are missing: " + joinFields(pr.MissingFields),
			Fields:  pr.MissingFields,
		})
	}
	if pr.Confidence < g.thresholds.WarnConfidence {
		warnings = append(warnings, survey_models.Warning{
			Type:    survey_models.WarningLowConfidence,
			Message: fmt.Sprintf("Parse confidence is %.2f; results may be less reliable", pr.Confidence),
			Value:   pr.Confidence,
		})
	}
	if age, ok := pr.Answers.Get(survey_models.FieldAge).Number(); ok && !g.thresholds.UnusualAge.Contains(age) {
		warnings = append(warnings, survey_models.Warning{
			Type:    survey_models.WarningUnusualValue,
			Message: fmt.Sprintf("Age %v is outside the typical range", age),
			Field:   survey_models.FieldAge,
			Value:   age,
		})
	}
	if bmi, ok := pr.Answers.Get(survey_models.FieldBMI).Number(); ok && !g.thresholds.UnusualBMI.Contains(bmi) {
		warnings = append(warnings, survey_models.Warning{
			Type:    survey_models.WarningUnusualValue,
			Message: fmt.Sprintf("BMI %v is outside the typical range", bmi),
			Field:   survey_models.FieldBMI,
			Value:   bmi,
		})
	}

	return survey_models.CheckResult{IsValid: true, Warnings: warnings}
}

// ValidateAnswerRanges returns a corrected copy of answers. It never fails.
func (g *GuardrailService) ValidateAnswerRanges(answers survey_models.Answers) survey_models.RangeResult {
	out := answers.Clone()
	corrections := []survey_models.Correction{}
	record := func(f survey_models.Field, action survey_models.CorrectionAction, original, corrected any) {
		corrections = append(corrections, survey_models.Correction{
			Field: f, Action: action, Original: original, Corrected: corrected,
		})
	}

	if v := out.Get(survey_models.FieldAge); v.IsSet() {
		age, isInt := v.Int()
		if !isInt {
			if n, ok := utils.ToInt(v.Raw()); ok {
				record(survey_models.FieldAge, survey_models.ActionTypeConversion, v.Raw(), n)
				age, isInt = n, true
			}
		}
		if isInt {
			out[survey_models.FieldAge] = survey_models.Of(clampInt(survey_models.FieldAge, age, g.thresholds.AgeRange, record))
		}
	}

	if v := out.Get(survey_models.FieldBMI); v.IsSet() {
		bmi, isNum := v.Number()
		if _, isStr := v.Str(); isStr {
			if f, ok := utils.ToFloat(v.Raw()); ok {
				record(survey_models.FieldBMI, survey_models.ActionTypeConversion, v.Raw(), f)
				bmi, isNum = f, true
			}
		}
		if isNum {
			out[survey_models.FieldBMI] = survey_models.Of(clampFloat(survey_models.FieldBMI, bmi, g.thresholds.BMIRange, record))
		}
	}

	if v := out.Get(survey_models.FieldSleep); v.IsSet() {
		if n, ok := v.Int(); ok {
			out[survey_models.FieldSleep] = survey_models.Of(clampInt(survey_models.FieldSleep, n, g.thresholds.SleepRange, record))
		} else if f, ok := v.Number(); ok {
			out[survey_models.FieldSleep] = survey_models.Of(clampFloat(survey_models.FieldSleep, f, g.thresholds.SleepRange, record))
		}
	}

	if v := out.Get(survey_models.FieldSmoker); v.IsSet() {
		if s, ok := v.Str(); ok {
			if b, ok := ParseSmoker(s); ok {
				record(survey_models.FieldSmoker, survey_models.ActionNormalizedToBoolean, s, b)
				out[survey_models.FieldSmoker] = survey_models.Of(b)
			}
		}
	}

	return survey_models.RangeResult{
		IsValid:     len(corrections) == 0,
		Answers:     out,
		Corrections: corrections,
	}
}

type correctionRecorder func(f survey_models.Field, action survey_models.CorrectionAction, original, corrected any)

func clampInt(f survey_models.Field, v int, r config.Range, record correctionRecorder) int {
	switch {
	case float64(v) < r.Min:
		record(f, survey_models.ActionClampedToMin, v, int(r.Min))
		return int(r.Min)
	case float64(v) > r.Max:
		record(f, survey_models.ActionClampedToMax, v, int(r.Max))
		return int(r.Max)
	}
	return v
}

func clampFloat(f survey_models.Field, v float64, r config.Range, record correctionRecorder) float64 {
	switch {
	case v < r.Min:
		record(f, survey_models.ActionClampedToMin, v, r.Min)
		return r.Min
	case v > r.Max:
		record(f, survey_models.ActionClampedToMax, v, r.Max)
		return r.Max
	}
	return v
}

func (g *GuardrailService) ValidateOCRText(text any) survey_models.CheckResult {
	s, ok := text.(string)
	if !ok {
		return fail(survey_models.StatusInvalidOCR, "OCR text must be a non-empty string")
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return fail(survey_models.StatusInvalidOCR, "OCR text is empty")
	}
	if utf8.RuneCountInString(trimmed) < g.thresholds.MinOCRTextLength {
		return fail(survey_models.StatusInvalidOCR,
			fmt.Sprintf("OCR text is too short (minimum %d characters)", g.thresholds.MinOCRTextLength))
	}

	var warnings []survey_models.Warning
	if hasOCRArtifacts(trimmed) {
		warnings = append(warnings, survey_models.Warning{
			Type:    survey_models.WarningOCRArtifacts,
			Message: "Text contains character sequences typical of OCR noise",
		})
	}
	lower := strings.ToLower(trimmed)
	if firstKeyword(lower, surveyKeywords) == "" {
		warnings = append(warnings, survey_models.Warning{
			Type:    survey_models.WarningNoSurveyKeywords,
			Message: "Text does not mention any survey fields",
		})
	}

	return survey_models.CheckResult{IsValid: true, Warnings: warnings}
}

// hasOCRArtifacts looks for long non-ASCII runs or long runs of one
// repeated character.
func hasOCRArtifacts(s string) bool {
	nonASCII, repeat := 0, 0
	var prev rune = -1
	for _, r := range s {
		if r > 0x7F {
			nonASCII++
		} else {
			nonASCII = 0
		}
		if r == prev {
			repeat++
		} else {
			repeat = 1
		}
		prev = r
		if nonASCII >= artifactNonASCIIRun || repeat >= artifactRepeatRun {
			return true
		}
	}
	return false
}

func joinFields(fields []survey_models.Field) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = string(f)
	}
	return strings.Join(parts, ", ")
}
