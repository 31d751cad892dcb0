package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var accessCmd = &cobra.Command{
	Use:   "access",
	Short: "Manage who can edit a survey",
}

var accessListCmd = &cobra.Command{
	Use:   "list <hash>",
	Short: "List emails with edit access",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccessList,
}

var accessGrantCmd = &cobra.Command{
	Use:   "grant <hash> <email>",
	Short: "Grant edit access to an email",
	Args:  cobra.ExactArgs(2),
	RunE:  runAccessGrant,
}

var accessRevokeCmd = &cobra.Command{
	Use:   "revoke <hash> <email>",
	Short: "Revoke edit access from an email",
	Args:  cobra.ExactArgs(2),
	RunE:  runAccessRevoke,
}

func init() {
	accessCmd.AddCommand(accessListCmd, accessGrantCmd, accessRevokeCmd)
	rootCmd.AddCommand(accessCmd)
}

func runAccessList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	emails, err := a.surveys.Access(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(emails) == 0 {
		fmt.Println("Nobody else can edit this survey.")
		return nil
	}
	for _, email := range emails {
		fmt.Println(email)
	}
	return nil
}

func runAccessGrant(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.surveys.AccessGrant(cmd.Context(), args[0], args[1]); err != nil {
		return err
	}
	fmt.Printf("%s can now edit %s.\n", args[1], args[0])
	return nil
}

func runAccessRevoke(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.surveys.AccessRevoke(cmd.Context(), args[0], args[1]); err != nil {
		return err
	}
	fmt.Printf("%s can no longer edit %s.\n", args[1], args[0])
	return nil
}
