package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/formlane/formlane/internal/survey"
)

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Log in and store the session cookie",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register [email]",
	Short: "Create an account",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRegister,
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd)
}

// promptCredentials collects email and password, prompting only for
// what was not given on the command line.
func promptCredentials(cmd *cobra.Command, args []string) (survey.Credentials, error) {
	var creds survey.Credentials
	if len(args) > 0 {
		creds.Email = args[0]
	}

	var fields []huh.Field
	if creds.Email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Value(&creds.Email).
			Validate(func(s string) error {
				if s == "" {
					return fmt.Errorf("email is required")
				}
				return nil
			}))
	}
	fields = append(fields, huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Value(&creds.Password).
		Validate(func(s string) error {
			if s == "" {
				return fmt.Errorf("password is required")
			}
			return nil
		}))

	form := huh.NewForm(huh.NewGroup(fields...))
	if err := form.RunWithContext(cmd.Context()); err != nil {
		return survey.Credentials{}, err
	}
	return creds, nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	creds, err := promptCredentials(cmd, args)
	if err != nil {
		return err
	}

	if err := a.client.Login(cmd.Context(), creds); err != nil {
		return err
	}
	fmt.Println("Logged in.")
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	creds, err := promptCredentials(cmd, args)
	if err != nil {
		return err
	}

	if err := a.client.Register(cmd.Context(), creds); err != nil {
		return err
	}
	fmt.Println("Account created. Log in with: formlane login " + creds.Email)
	return nil
}
