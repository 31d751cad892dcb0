package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/formlane/formlane/internal/survey"
)

var surveyCmd = &cobra.Command{
	Use:   "survey",
	Short: "Create and manage surveys",
}

var surveyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the surveys you created or can edit",
	RunE:  runSurveyList,
}

var surveyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an empty draft survey",
	RunE:  runSurveyCreate,
}

var surveyShowCmd = &cobra.Command{
	Use:   "show <hash>",
	Short: "Show the full survey document",
	Args:  cobra.ExactArgs(1),
	RunE:  runSurveyShow,
}

var surveyRenameCmd = &cobra.Command{
	Use:   "rename <hash> <title>",
	Short: "Rename a survey",
	Args:  cobra.ExactArgs(2),
	RunE:  runSurveyRename,
}

var surveyPublishCmd = &cobra.Command{
	Use:   "publish <hash>",
	Short: "Publish a draft survey so respondents can take it",
	Args:  cobra.ExactArgs(1),
	RunE:  runSurveyPublish,
}

var surveyRestoreCmd = &cobra.Command{
	Use:   "restore <hash>",
	Short: "Take a published survey back to draft",
	Args:  cobra.ExactArgs(1),
	RunE:  runSurveyRestore,
}

func init() {
	surveyCmd.AddCommand(
		surveyListCmd,
		surveyCreateCmd,
		surveyShowCmd,
		surveyRenameCmd,
		surveyPublishCmd,
		surveyRestoreCmd,
	)
	rootCmd.AddCommand(surveyCmd)
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
	draftStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func renderState(a *app, state survey.State) string {
	label := a.T("survey.states." + string(state))
	if state == survey.StateActive {
		return activeStyle.Render(label)
	}
	return draftStyle.Render(label)
}

func runSurveyList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	surveys, err := a.client.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(surveys) == 0 {
		fmt.Println("No surveys yet. Create one with: formlane survey create")
		return nil
	}

	fmt.Printf("%-18s %-32s %-10s %s\n",
		headerStyle.Render("HASH"),
		headerStyle.Render("TITLE"),
		headerStyle.Render("STATE"),
		headerStyle.Render("COMPLETED"))
	for _, s := range surveys {
		title := s.Title
		if title == "" {
			title = faintStyle.Render("(untitled)")
		}
		fmt.Printf("%-18s %-32s %-10s %d\n", s.Hash, title, renderState(a, s.State), s.CompletedInterviews)
	}
	return nil
}

func runSurveyCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	hash, err := a.client.Create(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}

func runSurveyShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	s, err := a.surveys.Survey(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	title := s.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Println(headerStyle.Render(title))
	fmt.Printf("%s  %s\n", s.Hash, renderState(a, s.State))
	if s.Creator != "" {
		fmt.Println(faintStyle.Render("creator: " + s.Creator))
	}
	fmt.Println()

	for _, q := range s.Questions {
		printQuestion(q)
	}
	return nil
}

func printQuestion(q survey.Question) {
	marker := ""
	switch q.State {
	case survey.QuestionStateNew:
		marker = " [new]"
	case survey.QuestionStateChanged:
		marker = " [changed]"
	case survey.QuestionStateDeleted:
		marker = " [deleted]"
	}

	label := q.Label
	if label == "" {
		label = "(no label)"
	}
	fmt.Printf("%3d. %s%s\n", q.ID, label, faintStyle.Render(marker))
	fmt.Println("     " + faintStyle.Render(string(q.Type)+paramsSummary(q)))
	for _, opt := range q.Options {
		optMarker := ""
		if opt.State == survey.QuestionStateDeleted {
			optMarker = " [deleted]"
		}
		fmt.Printf("       - (%d) %s%s\n", opt.ID, opt.Label, faintStyle.Render(optMarker))
	}
}

func paramsSummary(q survey.Question) string {
	p := q.ExtraParams
	var parts []string
	if p.Required {
		parts = append(parts, "required")
	}
	if p.MaxLength != nil {
		parts = append(parts, fmt.Sprintf("maxLength=%d", *p.MaxLength))
	}
	if p.MinNumber != nil {
		parts = append(parts, fmt.Sprintf("min=%v", *p.MinNumber))
	}
	if p.MaxNumber != nil {
		parts = append(parts, fmt.Sprintf("max=%v", *p.MaxNumber))
	}
	if p.MinAnswersCount != nil {
		parts = append(parts, fmt.Sprintf("minAnswers=%d", *p.MinAnswersCount))
	}
	if p.MaxAnswersCount != nil {
		parts = append(parts, fmt.Sprintf("maxAnswers=%d", *p.MaxAnswersCount))
	}
	if p.StarsCount != nil {
		parts = append(parts, fmt.Sprintf("stars=%d", *p.StarsCount))
	}
	if p.MinDate != "" {
		parts = append(parts, "minDate="+p.MinDate)
	}
	if p.MaxDate != "" {
		parts = append(parts, "maxDate="+p.MaxDate)
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func runSurveyRename(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	return a.surveys.UpdateTitle(cmd.Context(), args[0], args[1])
}

func runSurveyPublish(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.surveys.Publish(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Survey %s is now active.\n", args[0])
	return nil
}

func runSurveyRestore(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.surveys.Restore(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Survey %s is back in draft.\n", args[0])
	return nil
}
