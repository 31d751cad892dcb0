// Package validate checks respondent answers against question
// constraints before an interview may finish. Validation is pure: it
// never mutates the document and never talks to the network.
package validate

import (
	"encoding/json"
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/formlane/formlane/internal/i18n"
	"github.com/formlane/formlane/internal/survey"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Answers validates every question and returns localized messages keyed
// by question id. An empty map means the interview may finish.
//
// An empty answer on a non-required question is always fine; constraint
// checks only run once an answer exists.
func Answers(questions []survey.QuestionWithAnswer, loc i18n.Locale) map[int]string {
	errs := make(map[int]string)
	for _, q := range questions {
		if msg := answer(q, loc); msg != "" {
			errs[q.ID] = msg
		}
	}
	return errs
}

func answer(q survey.QuestionWithAnswer, loc i18n.Locale) string {
	if q.Answer == "" {
		if q.ExtraParams.Required {
			return i18n.T(loc, "validation.required")
		}
		return ""
	}

	switch q.Type {
	case survey.TypeMultiChoice:
		return multiChoice(q, loc)
	case survey.TypeShortText, survey.TypeLongText:
		return text(q, loc)
	case survey.TypeNumber:
		return number(q, loc)
	case survey.TypeEmail:
		if !emailPattern.MatchString(q.Answer) {
			return i18n.T(loc, "validation.email")
		}
	}
	// single_choice, consent, date and rating carry no constraints
	// beyond required; their inputs are constrained at entry.
	return ""
}

func multiChoice(q survey.QuestionWithAnswer, loc i18n.Locale) string {
	var selected []int
	if err := json.Unmarshal([]byte(q.Answer), &selected); err != nil {
		return i18n.T(loc, "validation.invalid")
	}
	p := q.ExtraParams
	if p.MinAnswersCount != nil && len(selected) < *p.MinAnswersCount {
		return i18n.T(loc, "validation.multiMin", "count", strconv.Itoa(*p.MinAnswersCount))
	}
	if p.MaxAnswersCount != nil && len(selected) > *p.MaxAnswersCount {
		return i18n.T(loc, "validation.multiMax", "count", strconv.Itoa(*p.MaxAnswersCount))
	}
	return ""
}

func text(q survey.QuestionWithAnswer, loc i18n.Locale) string {
	p := q.ExtraParams
	if p.MaxLength != nil && utf8.RuneCountInString(q.Answer) > *p.MaxLength {
		return i18n.T(loc, "validation.maxLength", "count", strconv.Itoa(*p.MaxLength))
	}
	return ""
}

func number(q survey.QuestionWithAnswer, loc i18n.Locale) string {
	v, err := strconv.ParseFloat(q.Answer, 64)
	if err != nil {
		return i18n.T(loc, "validation.invalid")
	}
	p := q.ExtraParams
	if p.MinNumber != nil && v < *p.MinNumber {
		return i18n.T(loc, "validation.numberMin", "min", formatFloat(*p.MinNumber))
	}
	if p.MaxNumber != nil && v > *p.MaxNumber {
		return i18n.T(loc, "validation.numberMax", "max", formatFloat(*p.MaxNumber))
	}
	return ""
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
