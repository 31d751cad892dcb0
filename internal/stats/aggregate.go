// Package stats turns the raw per-question answer lists of a statistics
// snapshot into display-ready aggregates and a CSV export. Aggregation
// is deterministic: identical input always yields identical output.
package stats

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"

	"github.com/formlane/formlane/internal/survey"
)

var (
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ChoiceRow is one option's share of the answers.
type ChoiceRow struct {
	OptionID   int
	Label      string
	Count      int
	Percentage float64
}

// ConsentAgg is the agree/disagree split of a consent question.
type ConsentAgg struct {
	AgreeCount         int
	DisagreeCount      int
	AgreePercentage    float64
	DisagreePercentage float64
}

// StarRow is one star value's share of a rating question.
type StarRow struct {
	Star       int
	Count      int
	Percentage float64
}

// RatingAgg is the mean plus per-star histogram of a rating question.
type RatingAgg struct {
	Average float64
	Stars   []StarRow
}

// ValueRow is the frequency of one distinct answer value.
type ValueRow struct {
	Value      string
	Count      int
	Percentage float64
}

// BucketRow is the frequency of one fixed number interval [From, To).
// To is nil for the open-ended last bucket.
type BucketRow struct {
	From       float64
	To         *float64
	Count      int
	Percentage float64
}

// numberIntervals are the fixed bucket edges for number questions; the
// last bucket is open-ended.
var numberIntervals = []float64{0, 10, 20, 30, 40, 50}

// Percent returns count as a share of total in percent, 0 when total is 0.
func Percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

// Valid returns the answers of q that survive malformation filtering:
// unparsable multi-choice JSON, non-numeric numbers and ratings,
// out-of-range ratings, malformed dates and emails are dropped before
// any aggregate is computed.
func Valid(q survey.QuestionStats) []string {
	out := make([]string, 0, len(q.Answers))
	for _, a := range q.Answers {
		if validAnswer(q, a) {
			out = append(out, a)
		}
	}
	return out
}

func validAnswer(q survey.QuestionStats, a string) bool {
	if a == "" {
		return false
	}
	switch q.Type {
	case survey.TypeSingleChoice:
		_, err := strconv.Atoi(a)
		return err == nil
	case survey.TypeMultiChoice:
		_, err := parseIntArray(a)
		return err == nil
	case survey.TypeConsent:
		return a == "true" || a == "false"
	case survey.TypeRating:
		v, err := strconv.Atoi(a)
		return err == nil && v >= 1 && v <= q.ExtraParams.Stars()
	case survey.TypeNumber:
		_, err := strconv.ParseFloat(a, 64)
		return err == nil
	case survey.TypeDate:
		return datePattern.MatchString(a)
	case survey.TypeEmail:
		return emailPattern.MatchString(a)
	default:
		return true
	}
}

// SingleChoice counts how often each option was picked. Every option
// appears in the result, picked or not, in the option order of the
// snapshot.
func SingleChoice(q survey.QuestionStats) []ChoiceRow {
	answers := Valid(q)
	counts := make(map[int]int)
	for _, a := range answers {
		id, _ := strconv.Atoi(a)
		counts[id]++
	}
	return choiceRows(q.Options, counts, len(answers))
}

// MultiChoice counts option picks across all answers. Percentages are
// relative to the number of respondents, not the number of picks, so a
// universally chosen option reads 100%.
func MultiChoice(q survey.QuestionStats) []ChoiceRow {
	answers := Valid(q)
	counts := make(map[int]int)
	for _, a := range answers {
		ids, _ := parseIntArray(a)
		for _, id := range ids {
			counts[id]++
		}
	}
	return choiceRows(q.Options, counts, len(answers))
}

func choiceRows(options []survey.OptionStats, counts map[int]int, total int) []ChoiceRow {
	rows := make([]ChoiceRow, len(options))
	for i, opt := range options {
		c := counts[opt.ID]
		rows[i] = ChoiceRow{
			OptionID:   opt.ID,
			Label:      opt.Label,
			Count:      c,
			Percentage: Percent(c, total),
		}
	}
	return rows
}

// Consent splits answers into agree ("true") and disagree.
func Consent(q survey.QuestionStats) ConsentAgg {
	answers := Valid(q)
	agree := 0
	for _, a := range answers {
		if a == "true" {
			agree++
		}
	}
	total := len(answers)
	return ConsentAgg{
		AgreeCount:         agree,
		DisagreeCount:      total - agree,
		AgreePercentage:    Percent(agree, total),
		DisagreePercentage: Percent(total-agree, total),
	}
}

// Rating computes the mean and the per-star histogram up to the
// question's configured star count.
func Rating(q survey.QuestionStats) RatingAgg {
	answers := Valid(q)
	sum := 0
	counts := make(map[int]int)
	for _, a := range answers {
		v, _ := strconv.Atoi(a)
		sum += v
		counts[v]++
	}

	var avg float64
	if len(answers) > 0 {
		avg = float64(sum) / float64(len(answers))
	}

	stars := make([]StarRow, q.ExtraParams.Stars())
	for i := range stars {
		star := i + 1
		stars[i] = StarRow{
			Star:       star,
			Count:      counts[star],
			Percentage: Percent(counts[star], len(answers)),
		}
	}
	return RatingAgg{Average: avg, Stars: stars}
}

// NumberValues returns the frequency of each distinct numeric answer in
// ascending numeric order.
func NumberValues(q survey.QuestionStats) []ValueRow {
	answers := Valid(q)
	counts := make(map[string]int)
	for _, a := range answers {
		counts[a]++
	}

	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool {
		a, _ := strconv.ParseFloat(values[i], 64)
		b, _ := strconv.ParseFloat(values[j], 64)
		if a != b {
			return a < b
		}
		return values[i] < values[j]
	})

	rows := make([]ValueRow, len(values))
	for i, v := range values {
		rows[i] = ValueRow{Value: v, Count: counts[v], Percentage: Percent(counts[v], len(answers))}
	}
	return rows
}

// NumberBuckets distributes numeric answers over the fixed intervals
// [0,10) [10,20) ... [50,∞). Negative answers fall outside every bucket
// but still count toward the total.
func NumberBuckets(q survey.QuestionStats) []BucketRow {
	answers := Valid(q)
	nums := make([]float64, len(answers))
	for i, a := range answers {
		nums[i], _ = strconv.ParseFloat(a, 64)
	}

	rows := make([]BucketRow, len(numberIntervals))
	for i, from := range numberIntervals {
		var to *float64
		count := 0
		if i+1 < len(numberIntervals) {
			next := numberIntervals[i+1]
			to = &next
			for _, n := range nums {
				if n >= from && n < next {
					count++
				}
			}
		} else {
			for _, n := range nums {
				if n >= from {
					count++
				}
			}
		}
		rows[i] = BucketRow{From: from, To: to, Count: count, Percentage: Percent(count, len(nums))}
	}
	return rows
}

// Dates returns the frequency of each distinct date in ascending order.
// ISO dates sort correctly as strings.
func Dates(q survey.QuestionStats) []ValueRow {
	answers := Valid(q)
	counts := make(map[string]int)
	for _, a := range answers {
		counts[a]++
	}

	dates := make([]string, 0, len(counts))
	for d := range counts {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	rows := make([]ValueRow, len(dates))
	for i, d := range dates {
		rows[i] = ValueRow{Value: d, Count: counts[d], Percentage: Percent(counts[d], len(answers))}
	}
	return rows
}

// TextRow is one distinct free-text answer with its frequency.
type TextRow struct {
	Answer string
	Count  int
}

// TextTop returns distinct text answers by descending frequency, split
// into the top five and the remainder. Equal frequencies tie-break
// alphabetically so the split is stable.
func TextTop(q survey.QuestionStats) (top, remaining []TextRow) {
	answers := Valid(q)
	counts := make(map[string]int)
	for _, a := range answers {
		counts[a]++
	}

	rows := make([]TextRow, 0, len(counts))
	for a, c := range counts {
		rows = append(rows, TextRow{Answer: a, Count: c})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Answer < rows[j].Answer
	})

	if len(rows) <= 5 {
		return rows, nil
	}
	return rows[:5], rows[5:]
}

// Emails returns the unique answer emails in ascending order.
func Emails(q survey.QuestionStats) []string {
	answers := Valid(q)
	seen := make(map[string]bool)
	out := make([]string, 0, len(answers))
	for _, a := range answers {
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	sort.Strings(out)
	return out
}

func parseIntArray(s string) ([]int, error) {
	var out []int
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return out, nil
}
