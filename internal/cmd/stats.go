package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/formlane/formlane/internal/errors"
	"github.com/formlane/formlane/internal/stats"
	"github.com/formlane/formlane/internal/survey"
)

var statsCmd = &cobra.Command{
	Use:   "stats <hash>",
	Short: "Show survey statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

var (
	statsAll bool
	statsCSV bool
)

func init() {
	statsCmd.Flags().BoolVar(&statsAll, "all", false, "show all text answers, not just the top five")
	statsCmd.Flags().BoolVar(&statsCSV, "csv", false, "write a CSV export instead of rendering")
	rootCmd.AddCommand(statsCmd)
}

const barWidth = 30

var barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

// bar renders a proportional block bar for a percentage.
func bar(pct float64) string {
	filled := int(pct / 100 * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	return barStyle.Render(strings.Repeat("█", filled)) + strings.Repeat("░", barWidth-filled)
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	s, err := a.client.Stats(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if statsCSV {
		name := stats.Filename(time.Now())
		if err := os.WriteFile(name, stats.CSV(s, a.locale), 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeExportWriteFailed, "failed to write "+name, err)
		}
		fmt.Println(name)
		return nil
	}

	renderGeneral(a, s)
	for _, q := range s.Questions {
		fmt.Println()
		fmt.Println(headerStyle.Render(q.Label) + faintStyle.Render(" ("+string(q.Type)+")"))
		renderQuestion(a, q)
	}
	return nil
}

func renderGeneral(a *app, s *survey.Stats) {
	fmt.Println(headerStyle.Render(a.T("stats.generalTitle")))
	fmt.Println(a.T("stats.startedInterviews", "count", strconv.Itoa(s.StartedInterviews)))
	fmt.Println(a.T("stats.completedInterviews", "count", strconv.Itoa(s.CompletedInterviews)))
	pct := stats.Percent(s.CompletedInterviews, s.StartedInterviews)
	fmt.Println(a.T("stats.completionPercentage", "percentage", fmt.Sprintf("%.1f", pct)))
	fmt.Println(a.T("stats.averageCompletionTime", "time", fmt.Sprintf("%.2f", s.AverageCompletionTime)))
}

func renderQuestion(a *app, q survey.QuestionStats) {
	switch q.Type {
	case survey.TypeSingleChoice:
		renderChoiceRows(stats.SingleChoice(q))
	case survey.TypeMultiChoice:
		renderChoiceRows(stats.MultiChoice(q))
	case survey.TypeConsent:
		agg := stats.Consent(q)
		renderBarLine(a.T("stats.agree"), agg.AgreeCount, agg.AgreePercentage)
		renderBarLine(a.T("stats.disagree"), agg.DisagreeCount, agg.DisagreePercentage)
	case survey.TypeRating:
		agg := stats.Rating(q)
		fmt.Println(a.T("stats.averageRating", "avg", fmt.Sprintf("%.1f", agg.Average)))
		for _, star := range agg.Stars {
			label := a.T("stats.star", "star", strconv.Itoa(star.Star))
			renderBarLine(label, star.Count, star.Percentage)
		}
	case survey.TypeNumber:
		for _, row := range stats.NumberBuckets(q) {
			renderBarLine(numberBucketLabel(a, row), row.Count, row.Percentage)
		}
	case survey.TypeDate:
		for _, row := range stats.Dates(q) {
			renderBarLine(row.Value, row.Count, row.Percentage)
		}
	case survey.TypeShortText, survey.TypeLongText:
		top, remaining := stats.TextTop(q)
		for _, row := range top {
			fmt.Printf("  %s %s\n", row.Answer, faintStyle.Render("("+a.T("stats.times", "count", strconv.Itoa(row.Count))+")"))
		}
		if len(remaining) > 0 {
			if statsAll {
				for _, row := range remaining {
					fmt.Printf("  %s %s\n", row.Answer, faintStyle.Render("("+a.T("stats.times", "count", strconv.Itoa(row.Count))+")"))
				}
			} else {
				fmt.Println("  " + faintStyle.Render(a.T("stats.showRemaining")))
			}
		}
	case survey.TypeEmail:
		for _, email := range stats.Emails(q) {
			fmt.Println("  " + email)
		}
	default:
		fmt.Println("  " + faintStyle.Render(a.T("stats.noData")))
	}
}

func renderChoiceRows(rows []stats.ChoiceRow) {
	for _, row := range rows {
		renderBarLine(row.Label, row.Count, row.Percentage)
	}
}

func renderBarLine(label string, count int, pct float64) {
	fmt.Printf("  %-24s %s %5.1f%% (%d)\n", label, bar(pct), pct, count)
}

func numberBucketLabel(a *app, row stats.BucketRow) string {
	from := strconv.FormatFloat(row.From, 'f', -1, 64)
	if row.To == nil {
		return from + " - " + a.T("stats.andAbove")
	}
	return from + " - " + strconv.FormatFloat(*row.To, 'f', -1, 64)
}
