package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formlane/formlane/internal/i18n"
	"github.com/formlane/formlane/internal/survey"
)

func sampleStats() *survey.Stats {
	return &survey.Stats{
		StartedInterviews:     10,
		CompletedInterviews:   7,
		AverageCompletionTime: 42.5,
		Questions: []survey.QuestionStats{
			{
				ID: 1, Label: "Pick one", Type: survey.TypeSingleChoice,
				Options: []survey.OptionStats{{ID: 10, Label: "A"}, {ID: 11, Label: "B"}},
				Answers: []string{"10", "10", "11"},
			},
			{
				ID: 2, Label: "Rate us", Type: survey.TypeRating,
				Answers: []string{"5", "4"},
			},
			{
				ID: 3, Label: "Your email", Type: survey.TypeEmail,
				Answers: []string{"b@x.co", "a@x.co", "a@x.co"},
			},
		},
	}
}

func TestCSV_StartsWithBOM(t *testing.T) {
	out := CSV(sampleStats(), i18n.EN)
	assert.True(t, strings.HasPrefix(string(out), "\uFEFF"))
}

func TestCSV_ByteIdempotent(t *testing.T) {
	s := sampleStats()
	assert.Equal(t, CSV(s, i18n.EN), CSV(s, i18n.EN))
	assert.Equal(t, CSV(s, i18n.RU), CSV(s, i18n.RU))
}

func TestCSV_GeneralSection(t *testing.T) {
	out := string(CSV(sampleStats(), i18n.EN))
	lines := strings.Split(strings.TrimPrefix(out, "\uFEFF"), "\n")

	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, "General statistics", lines[0])
	assert.Equal(t, "Started interviews;10", lines[1])
	assert.Equal(t, "Completed interviews;7", lines[2])
	assert.Equal(t, "Average completion time;42.50s", lines[3])
	assert.Equal(t, "", lines[4])
}

func TestCSV_QuestionSections(t *testing.T) {
	out := string(CSV(sampleStats(), i18n.EN))

	assert.Contains(t, out, "Question: Pick one;Type: single_choice")
	assert.Contains(t, out, "A;2 times;66.7%")
	assert.Contains(t, out, "B;1 times;33.3%")
	assert.Contains(t, out, "Average rating;4.5")
	assert.Contains(t, out, "5 star;1 times;50.0%")
	// Emails are one per row, unique and sorted.
	assert.Contains(t, out, "\na@x.co\n")
	assert.Contains(t, out, "\nb@x.co\n")
}

func TestCSV_RussianLocale(t *testing.T) {
	out := string(CSV(sampleStats(), i18n.RU))

	assert.Contains(t, out, "Общая статистика")
	assert.Contains(t, out, "Вопрос: Pick one;Тип: single_choice")
	assert.Contains(t, out, "A;2 раз;66.7%")
	assert.Contains(t, out, "Средний рейтинг;4.5")
}

func TestCSV_NumberBucketsSection(t *testing.T) {
	s := &survey.Stats{
		Questions: []survey.QuestionStats{
			{ID: 1, Label: "Age", Type: survey.TypeNumber, Answers: []string{"5", "15", "55"}},
		},
	}

	out := string(CSV(s, i18n.EN))
	assert.Contains(t, out, "0 - 10;1 times;33.3%")
	assert.Contains(t, out, "10 - 20;1 times;33.3%")
	assert.Contains(t, out, "50 - and above;1 times;33.3%")
}

func TestFilename(t *testing.T) {
	ts := time.Date(2026, 8, 29, 12, 30, 45, 120_000_000, time.UTC)
	assert.Equal(t, "survey_stats_2026-08-29T12:30:45.120Z.csv", Filename(ts))
}
