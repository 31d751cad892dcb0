package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/formlane/formlane/internal/survey"
)

var questionCmd = &cobra.Command{
	Use:   "question",
	Short: "Edit survey questions",
}

var questionAddCmd = &cobra.Command{
	Use:   "add <hash> <type>",
	Short: "Add a question of the given type",
	Long: `Add a question to a survey. Valid types:
  ` + strings.Join(questionTypeNames(), ", "),
	Args: cobra.ExactArgs(2),
	RunE: runQuestionAdd,
}

var questionLabelCmd = &cobra.Command{
	Use:   "label <hash> <question-id> <label>",
	Short: "Change a question's label",
	Args:  cobra.ExactArgs(3),
	RunE:  runQuestionLabel,
}

var questionRetypeCmd = &cobra.Command{
	Use:   "retype <hash> <question-id> <type>",
	Short: "Change a question's type (discards collected answers)",
	Args:  cobra.ExactArgs(3),
	RunE:  runQuestionRetype,
}

var questionReorderCmd = &cobra.Command{
	Use:   "reorder <hash> <question-id> <new-order>",
	Short: "Move a question to a new position",
	Args:  cobra.ExactArgs(3),
	RunE:  runQuestionReorder,
}

var questionParamsCmd = &cobra.Command{
	Use:   "params <hash> <question-id>",
	Short: "Set a question's validation constraints",
	Long: `Set validation constraints on a question. Only flags meaningful for
the question's type are kept; the rest are dropped.`,
	Args: cobra.ExactArgs(2),
	RunE: runQuestionParams,
}

var questionRestoreCmd = &cobra.Command{
	Use:   "restore <hash> <question-id>",
	Short: "Undo a pending question delete",
	Args:  cobra.ExactArgs(2),
	RunE:  runQuestionRestore,
}

var questionDeleteCmd = &cobra.Command{
	Use:   "delete <hash> <question-id>",
	Short: "Delete a question",
	Args:  cobra.ExactArgs(2),
	RunE:  runQuestionDelete,
}

var (
	retypeYes bool

	paramRequired   bool
	paramMaxLength  int
	paramMinNumber  float64
	paramMaxNumber  float64
	paramMinAnswers int
	paramMaxAnswers int
	paramStars      int
	paramMinDate    string
	paramMaxDate    string
)

func init() {
	questionRetypeCmd.Flags().BoolVarP(&retypeYes, "yes", "y", false, "skip the confirmation prompt")

	questionParamsCmd.Flags().BoolVar(&paramRequired, "required", false, "an answer is mandatory")
	questionParamsCmd.Flags().IntVar(&paramMaxLength, "max-length", 0, "maximum text length")
	questionParamsCmd.Flags().Float64Var(&paramMinNumber, "min-number", 0, "minimum numeric value")
	questionParamsCmd.Flags().Float64Var(&paramMaxNumber, "max-number", 0, "maximum numeric value")
	questionParamsCmd.Flags().IntVar(&paramMinAnswers, "min-answers", 0, "minimum selected options")
	questionParamsCmd.Flags().IntVar(&paramMaxAnswers, "max-answers", 0, "maximum selected options")
	questionParamsCmd.Flags().IntVar(&paramStars, "stars", 0, "rating star count")
	questionParamsCmd.Flags().StringVar(&paramMinDate, "min-date", "", "earliest accepted date (YYYY-MM-DD)")
	questionParamsCmd.Flags().StringVar(&paramMaxDate, "max-date", "", "latest accepted date (YYYY-MM-DD)")

	questionCmd.AddCommand(
		questionAddCmd,
		questionLabelCmd,
		questionRetypeCmd,
		questionReorderCmd,
		questionParamsCmd,
		questionRestoreCmd,
		questionDeleteCmd,
	)
	rootCmd.AddCommand(questionCmd)
}

func questionTypeNames() []string {
	names := make([]string, len(survey.QuestionTypes))
	for i, t := range survey.QuestionTypes {
		names[i] = string(t)
	}
	return names
}

func parseQuestionType(s string) (survey.QuestionType, error) {
	t := survey.QuestionType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown question type %q (valid: %s)", s, strings.Join(questionTypeNames(), ", "))
	}
	return t, nil
}

func parseID(s, what string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return id, nil
}

func runQuestionAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	t, err := parseQuestionType(args[1])
	if err != nil {
		return err
	}

	q, err := a.surveys.CreateQuestion(cmd.Context(), args[0], t)
	if err != nil {
		return err
	}
	fmt.Printf("Added %s question %d.\n", q.Type, q.ID)
	return nil
}

func runQuestionLabel(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	id, err := parseID(args[1], "question id")
	if err != nil {
		return err
	}
	return a.surveys.UpdateQuestionLabel(cmd.Context(), args[0], id, args[2])
}

func runQuestionRetype(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	id, err := parseID(args[1], "question id")
	if err != nil {
		return err
	}
	t, err := parseQuestionType(args[2])
	if err != nil {
		return err
	}

	if !retypeYes {
		confirmed := false
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Change question %d to %s?", id, t)).
				Description("Answers already collected for this question will be discarded.").
				Affirmative("Change").
				Negative("Keep").
				Value(&confirmed),
		))
		if err := form.RunWithContext(cmd.Context()); err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	return a.surveys.UpdateQuestionType(cmd.Context(), args[0], id, t)
}

func runQuestionReorder(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	id, err := parseID(args[1], "question id")
	if err != nil {
		return err
	}
	order, err := parseID(args[2], "order")
	if err != nil {
		return err
	}
	return a.surveys.UpdateQuestionOrder(cmd.Context(), args[0], id, order)
}

func runQuestionParams(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	id, err := parseID(args[1], "question id")
	if err != nil {
		return err
	}

	params := survey.ExtraParams{Required: paramRequired}
	flags := cmd.Flags()
	if flags.Changed("max-length") {
		params.MaxLength = &paramMaxLength
	}
	if flags.Changed("min-number") {
		params.MinNumber = &paramMinNumber
	}
	if flags.Changed("max-number") {
		params.MaxNumber = &paramMaxNumber
	}
	if flags.Changed("min-answers") {
		params.MinAnswersCount = &paramMinAnswers
	}
	if flags.Changed("max-answers") {
		params.MaxAnswersCount = &paramMaxAnswers
	}
	if flags.Changed("stars") {
		params.StarsCount = &paramStars
	}
	params.MinDate = paramMinDate
	params.MaxDate = paramMaxDate

	return a.surveys.UpdateQuestionExtraParams(cmd.Context(), args[0], id, params)
}

func runQuestionRestore(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	id, err := parseID(args[1], "question id")
	if err != nil {
		return err
	}
	_, err = a.surveys.RestoreQuestion(cmd.Context(), args[0], id)
	return err
}

func runQuestionDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	id, err := parseID(args[1], "question id")
	if err != nil {
		return err
	}
	return a.surveys.DeleteQuestion(cmd.Context(), args[0], id)
}
