package stats

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/formlane/formlane/internal/i18n"
	"github.com/formlane/formlane/internal/survey"
)

// utf8BOM makes spreadsheet tools pick the right encoding.
const utf8BOM = "\uFEFF"

// Filename returns the timestamped export name.
func Filename(now time.Time) string {
	return fmt.Sprintf("survey_stats_%s.csv", now.UTC().Format("2006-01-02T15:04:05.000Z"))
}

// CSV renders the statistics snapshot as a semicolon-delimited export
// with a UTF-8 BOM. The output is byte-identical for identical input.
func CSV(s *survey.Stats, loc i18n.Locale) []byte {
	var rows [][]string

	rows = append(rows,
		[]string{i18n.T(loc, "csv.generalTitle")},
		[]string{i18n.T(loc, "csv.started"), strconv.Itoa(s.StartedInterviews)},
		[]string{i18n.T(loc, "csv.completed"), strconv.Itoa(s.CompletedInterviews)},
		[]string{i18n.T(loc, "csv.averageTime"), fmt.Sprintf("%.2fs", s.AverageCompletionTime)},
		nil,
	)

	for _, q := range s.Questions {
		rows = append(rows, []string{
			i18n.T(loc, "csv.question", "label", q.Label),
			i18n.T(loc, "csv.type", "type", string(q.Type)),
		})
		rows = append(rows, questionRows(q, loc)...)
		rows = append(rows, nil)
	}

	var b strings.Builder
	b.WriteString(utf8BOM)
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join(row, ";"))
	}
	return []byte(b.String())
}

func questionRows(q survey.QuestionStats, loc i18n.Locale) [][]string {
	times := func(count int) string {
		return i18n.T(loc, "stats.times", "count", strconv.Itoa(count))
	}
	pct := func(p float64) string {
		return fmt.Sprintf("%.1f%%", p)
	}

	var rows [][]string
	switch q.Type {
	case survey.TypeSingleChoice:
		for _, row := range SingleChoice(q) {
			rows = append(rows, []string{row.Label, times(row.Count), pct(row.Percentage)})
		}
	case survey.TypeMultiChoice:
		for _, row := range MultiChoice(q) {
			rows = append(rows, []string{row.Label, times(row.Count), pct(row.Percentage)})
		}
	case survey.TypeConsent:
		agg := Consent(q)
		rows = append(rows,
			[]string{i18n.T(loc, "stats.agree"), times(agg.AgreeCount), pct(agg.AgreePercentage)},
			[]string{i18n.T(loc, "stats.disagree"), times(agg.DisagreeCount), pct(agg.DisagreePercentage)},
		)
	case survey.TypeRating:
		agg := Rating(q)
		rows = append(rows, []string{i18n.T(loc, "csv.averageRating"), fmt.Sprintf("%.1f", agg.Average)})
		for _, star := range agg.Stars {
			label := i18n.T(loc, "stats.star", "star", strconv.Itoa(star.Star))
			rows = append(rows, []string{label, times(star.Count), pct(star.Percentage)})
		}
	case survey.TypeShortText, survey.TypeLongText:
		top, _ := TextTop(q)
		for _, row := range top {
			rows = append(rows, []string{row.Answer, times(row.Count)})
		}
	case survey.TypeDate:
		for _, row := range Dates(q) {
			rows = append(rows, []string{row.Value, times(row.Count)})
		}
	case survey.TypeNumber:
		for _, row := range NumberBuckets(q) {
			rows = append(rows, []string{bucketLabel(row, loc), times(row.Count), pct(row.Percentage)})
		}
	case survey.TypeEmail:
		for _, email := range Emails(q) {
			rows = append(rows, []string{email})
		}
	}
	return rows
}

func bucketLabel(row BucketRow, loc i18n.Locale) string {
	from := strconv.FormatFloat(row.From, 'f', -1, 64)
	if row.To == nil {
		return fmt.Sprintf("%s - %s", from, i18n.T(loc, "stats.andAbove"))
	}
	return fmt.Sprintf("%s - %s", from, strconv.FormatFloat(*row.To, 'f', -1, 64))
}
