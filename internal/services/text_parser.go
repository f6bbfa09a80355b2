package services

import (
	"regexp"
	"strings"

	"healthrisk/internal/models/survey_models"
	"healthrisk/pkg/utils"
)

var (
	ageLineRe   = regexp.MustCompile(`age[:\s]+(\d+)`)
	sleepLineRe = regexp.MustCompile(`sleep[:\s]+(\d+)`)
	bmiLineRe   = regexp.MustCompile(`bmi[:\s]+([\d.]+)`)
)

var (
	smokerKeywords   = []string{"smoker", "smoking"}
	exerciseKeywords = []string{"exercise", "activity", "workout"}
	dietKeywords     = []string{"diet", "eating", "food"}
	alcoholKeywords  = []string{"alcohol", "drinking"}
)

// labelFields picks the field named by a "label: value" line. Order only
// matters for labels naming two fields.
var labelFields = []struct {
	field survey_models.Field
	re    *regexp.Regexp
}{
	{survey_models.FieldAge, regexp.MustCompile(`\bage\b`)},
	{survey_models.FieldSmoker, regexp.MustCompile(`\bsmok(e|er|es|ing)\b`)},
	{survey_models.FieldExercise, regexp.MustCompile(`\b(exercise|activity|workout)\b`)},
	{survey_models.FieldDiet, regexp.MustCompile(`\b(diet|eating|food)\b`)},
	{survey_models.FieldAlcohol, regexp.MustCompile(`\b(alcohol|drinking)\b`)},
	{survey_models.FieldSleep, regexp.MustCompile(`\bsleep`)},
	{survey_models.FieldStress, regexp.MustCompile(`\bstress`)},
	{survey_models.FieldBMI, regexp.MustCompile(`\bbmi\b`)},
}

// parseTextLines scans free text line by line. Each line sets at most one
// field; a later line overwrites an earlier one for the same field. A line
// with a ':' or '=' separator is assigned by its label alone; other lines
// fall back to a keyword scan.
func parseTextLines(text string) survey_models.Answers {
	answers := survey_models.Answers{}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.ToLower(strings.TrimSpace(raw))
		if line == "" {
			continue
		}

		if label, value, ok := splitLabel(line); ok {
			if f, found := labelField(label); found {
				answers[f] = labelledValue(f, value)
			}
			continue
		}
		scanKeywords(answers, line)
	}

	return answers
}

// splitLabel cuts a line at its first separator.
func splitLabel(line string) (string, string, bool) {
	i := strings.IndexAny(line, ":=")
	if i < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]), true
}

func labelField(label string) (survey_models.Field, bool) {
	for _, lf := range labelFields {
		if lf.re.MatchString(label) {
			return lf.field, true
		}
	}
	return "", false
}

func labelledValue(f survey_models.Field, value string) survey_models.Value {
	switch f {
	case survey_models.FieldSmoker:
		return normalizeField(f, lastToken(value))
	case survey_models.FieldSleep:
		return sleepValue(value)
	case survey_models.FieldBMI:
		return bmiValue(value)
	}
	return normalizeField(f, value)
}

func sleepValue(value string) survey_models.Value {
	if n, ok := utils.LeadingInt(value); ok {
		return survey_models.Of(n)
	}
	if value != "" {
		return survey_models.Of(value)
	}
	return survey_models.Null()
}

func bmiValue(value string) survey_models.Value {
	if v, ok := utils.LeadingFloat(value); ok {
		return survey_models.Of(v)
	}
	return survey_models.Null()
}

// scanKeywords handles unlabelled lines; the first keyword found, in field
// order, decides the field.
func scanKeywords(answers survey_models.Answers, line string) {
	if m := ageLineRe.FindStringSubmatch(line); m != nil {
		answers[survey_models.FieldAge] = normalizeField(survey_models.FieldAge, m[1])
		return
	}
	if kw := firstKeyword(line, smokerKeywords); kw != "" {
		answers[survey_models.FieldSmoker] = normalizeField(survey_models.FieldSmoker, lastToken(lineValue(line, kw)))
		return
	}
	if kw := firstKeyword(line, exerciseKeywords); kw != "" {
		answers[survey_models.FieldExercise] = normalizeField(survey_models.FieldExercise, lineValue(line, kw))
		return
	}
	if kw := firstKeyword(line, dietKeywords); kw != "" {
		answers[survey_models.FieldDiet] = normalizeField(survey_models.FieldDiet, lineValue(line, kw))
		return
	}
	if kw := firstKeyword(line, alcoholKeywords); kw != "" {
		answers[survey_models.FieldAlcohol] = normalizeField(survey_models.FieldAlcohol, lineValue(line, kw))
		return
	}
	if strings.Contains(line, "sleep") {
		if m := sleepLineRe.FindStringSubmatch(line); m != nil {
			answers[survey_models.FieldSleep] = normalizeField(survey_models.FieldSleep, m[1])
		} else {
			answers[survey_models.FieldSleep] = sleepValue(lineValue(line, "sleep"))
		}
		return
	}
	if strings.Contains(line, "stress") {
		answers[survey_models.FieldStress] = normalizeField(survey_models.FieldStress, lineValue(line, "stress"))
		return
	}
	if m := bmiLineRe.FindStringSubmatch(line); m != nil {
		answers[survey_models.FieldBMI] = bmiValue(m[1])
	}
}

func firstKeyword(line string, keywords []string) string {
	for _, kw := range keywords {
		if strings.Contains(line, kw) {
			return kw
		}
	}
	return ""
}

// lineValue returns the text after the last ':' or '=' separator, or the
// text following the keyword when the line has no separator.
func lineValue(line, keyword string) string {
	if i := strings.LastIndexAny(line, ":="); i >= 0 {
		return strings.TrimSpace(line[i+1:])
	}
	if i := strings.Index(line, keyword); i >= 0 {
		return strings.TrimSpace(line[i+len(keyword):])
	}
	return strings.TrimSpace(line)
}

func lastToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
