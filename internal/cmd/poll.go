package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/formlane/formlane/internal/errors"
	"github.com/formlane/formlane/internal/survey"
	"github.com/formlane/formlane/internal/validate"
)

var pollCmd = &cobra.Command{
	Use:   "poll <hash>",
	Short: "Take a survey interactively",
	Long: `Answer a published survey question by question. Answers are saved as
you go, so an interrupted run resumes where it stopped. With --demo the
run is marked as a preview and excluded from statistics.`,
	Args: cobra.ExactArgs(1),
	RunE: runPoll,
}

var (
	pollDemo  bool
	pollReset bool
)

func init() {
	pollCmd.Flags().BoolVar(&pollDemo, "demo", false, "preview run, excluded from statistics")
	pollCmd.Flags().BoolVar(&pollReset, "reset", false, "forget the saved session and start over")
	rootCmd.AddCommand(pollCmd)
}

func runPoll(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	hash := args[0]

	if pollReset {
		if err := a.sessions.Clear(hash); err != nil {
			return err
		}
	}

	interviewID, isNew, err := a.sessions.InterviewID(hash, pollDemo)
	if err != nil {
		return err
	}
	if isNew {
		if err := a.interviews.Start(ctx, hash, interviewID, pollDemo); err != nil {
			return err
		}
	}

	doc, err := a.interviews.Document(ctx, hash, interviewID)
	if err != nil {
		return err
	}

	for _, q := range doc.Questions {
		if q.State == survey.QuestionStateDeleted {
			continue
		}
		answer, changed, err := askQuestion(ctx, a, q)
		if err != nil {
			return err
		}
		if changed {
			if err := a.interviews.UpdateAnswer(ctx, hash, interviewID, q.ID, answer); err != nil {
				return err
			}
		}
	}

	// Validate the synced document before finishing.
	doc, err = a.interviews.Document(ctx, hash, interviewID)
	if err != nil {
		return err
	}
	if errs := validate.Answers(doc.Questions, a.locale); len(errs) > 0 {
		for _, q := range doc.Questions {
			if msg, ok := errs[q.ID]; ok {
				fmt.Printf("  %s: %s\n", q.Label, msg)
			}
		}
		return errors.New(errors.ErrCodePollValidationFailed,
			fmt.Sprintf("%d answers need attention", len(errs)))
	}

	if err := a.interviews.Finish(ctx, hash, interviewID); err != nil {
		return err
	}
	fmt.Println("Thank you! Your answers were recorded.")
	return nil
}

// askQuestion renders one huh form for the question, pre-filled with the
// saved answer. It returns the raw answer string and whether it changed.
func askQuestion(ctx context.Context, a *app, q survey.QuestionWithAnswer) (string, bool, error) {
	var field huh.Field
	var result func() string

	switch q.Type {
	case survey.TypeSingleChoice:
		options := make([]huh.Option[string], len(q.Options))
		for i, opt := range q.Options {
			options[i] = huh.NewOption(opt.Label, strconv.Itoa(opt.ID))
		}
		value := q.Answer
		field = huh.NewSelect[string]().
			Title(q.Label).
			Options(options...).
			Value(&value)
		result = func() string { return value }

	case survey.TypeMultiChoice:
		options := make([]huh.Option[string], len(q.Options))
		for i, opt := range q.Options {
			options[i] = huh.NewOption(opt.Label, strconv.Itoa(opt.ID))
		}
		var selected []string
		var saved []int
		if q.Answer != "" {
			_ = json.Unmarshal([]byte(q.Answer), &saved)
		}
		for _, id := range saved {
			selected = append(selected, strconv.Itoa(id))
		}
		field = huh.NewMultiSelect[string]().
			Title(q.Label).
			Options(options...).
			Value(&selected)
		result = func() string {
			ids := make([]int, len(selected))
			for i, s := range selected {
				ids[i], _ = strconv.Atoi(s)
			}
			data, _ := json.Marshal(ids)
			return string(data)
		}

	case survey.TypeConsent:
		value := q.Answer == "true"
		field = huh.NewConfirm().
			Title(q.Label).
			Affirmative("Agree").
			Negative("Disagree").
			Value(&value)
		result = func() string { return strconv.FormatBool(value) }

	case survey.TypeRating:
		stars := q.ExtraParams.Stars()
		options := make([]huh.Option[string], stars)
		for i := 0; i < stars; i++ {
			v := strconv.Itoa(i + 1)
			options[i] = huh.NewOption(v+" ★", v)
		}
		value := q.Answer
		field = huh.NewSelect[string]().
			Title(q.Label).
			Options(options...).
			Value(&value)
		result = func() string { return value }

	case survey.TypeLongText:
		value := q.Answer
		field = huh.NewText().
			Title(q.Label).
			Value(&value).
			Validate(fieldValidator(a, q))
		result = func() string { return value }

	default: // short_text, number, email, date
		value := q.Answer
		field = huh.NewInput().
			Title(q.Label).
			Description(inputHint(q.Type)).
			Value(&value).
			Validate(fieldValidator(a, q))
		result = func() string { return value }
	}

	form := huh.NewForm(huh.NewGroup(field))
	if err := form.RunWithContext(ctx); err != nil {
		return "", false, err
	}

	answer := result()
	return answer, answer != q.Answer, nil
}

// fieldValidator checks a candidate value with the same rules that gate
// the finish, so mistakes surface while the question is on screen.
func fieldValidator(a *app, q survey.QuestionWithAnswer) func(string) error {
	return func(value string) error {
		candidate := q
		candidate.Answer = value
		if errs := validate.Answers([]survey.QuestionWithAnswer{candidate}, a.locale); len(errs) > 0 {
			return fmt.Errorf("%s", errs[q.ID])
		}
		return nil
	}
}

func inputHint(t survey.QuestionType) string {
	switch t {
	case survey.TypeNumber:
		return "Enter a number"
	case survey.TypeEmail:
		return "name@example.com"
	case survey.TypeDate:
		return "YYYY-MM-DD"
	default:
		return ""
	}
}
