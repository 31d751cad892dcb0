package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update your profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile",
	RunE:  runProfileShow,
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update your profile interactively",
	RunE:  runProfileUpdate,
}

func init() {
	profileCmd.AddCommand(profileShowCmd, profileUpdateCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	p, err := a.client.Profile(cmd.Context())
	if err != nil {
		return err
	}

	printField := func(label, value string) {
		if value == "" {
			value = faintStyle.Render("(not set)")
		}
		fmt.Printf("%-14s %s\n", label, value)
	}
	printField("First name", p.FirstName)
	printField("Last name", p.LastName)
	printField("Birth date", p.BirthDate)
	printField("Phone", p.PhoneNumber)
	printField("Language", p.Lang)
	return nil
}

func runProfileUpdate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	current, err := a.client.Profile(cmd.Context())
	if err != nil {
		return err
	}
	updated := *current

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("First name").Value(&updated.FirstName),
		huh.NewInput().Title("Last name").Value(&updated.LastName),
		huh.NewInput().Title("Birth date (YYYY-MM-DD)").Value(&updated.BirthDate),
		huh.NewInput().Title("Phone number").Value(&updated.PhoneNumber),
		huh.NewSelect[string]().
			Title("Preferred language").
			Options(
				huh.NewOption("English", "en"),
				huh.NewOption("Русский", "ru"),
			).
			Value(&updated.Lang),
	))
	if err := form.RunWithContext(cmd.Context()); err != nil {
		return err
	}

	if updated == *current {
		fmt.Println("Nothing changed.")
		return nil
	}
	if err := a.client.UpdateProfile(cmd.Context(), updated); err != nil {
		return err
	}
	fmt.Println("Profile updated.")
	return nil
}
