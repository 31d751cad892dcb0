package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var optionCmd = &cobra.Command{
	Use:   "option",
	Short: "Edit the answer options of choice questions",
}

var optionAddCmd = &cobra.Command{
	Use:   "add <hash> <question-id>",
	Short: "Add an option to a choice question",
	Args:  cobra.ExactArgs(2),
	RunE:  runOptionAdd,
}

var optionLabelCmd = &cobra.Command{
	Use:   "label <hash> <question-id> <option-id> <label>",
	Short: "Change an option's label",
	Args:  cobra.ExactArgs(4),
	RunE:  runOptionLabel,
}

var optionReorderCmd = &cobra.Command{
	Use:   "reorder <hash> <question-id> <option-id> <new-order>",
	Short: "Move an option to a new position",
	Args:  cobra.ExactArgs(4),
	RunE:  runOptionReorder,
}

var optionDeleteCmd = &cobra.Command{
	Use:   "delete <hash> <question-id> <option-id>",
	Short: "Delete an option",
	Args:  cobra.ExactArgs(3),
	RunE:  runOptionDelete,
}

func init() {
	optionCmd.AddCommand(optionAddCmd, optionLabelCmd, optionReorderCmd, optionDeleteCmd)
	rootCmd.AddCommand(optionCmd)
}

func runOptionAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	qid, err := parseID(args[1], "question id")
	if err != nil {
		return err
	}

	opt, err := a.surveys.CreateOption(cmd.Context(), args[0], qid)
	if err != nil {
		return err
	}
	fmt.Printf("Added option %d.\n", opt.ID)
	return nil
}

func runOptionLabel(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	qid, err := parseID(args[1], "question id")
	if err != nil {
		return err
	}
	oid, err := parseID(args[2], "option id")
	if err != nil {
		return err
	}
	return a.surveys.UpdateOptionLabel(cmd.Context(), args[0], qid, oid, args[3])
}

func runOptionReorder(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	qid, err := parseID(args[1], "question id")
	if err != nil {
		return err
	}
	oid, err := parseID(args[2], "option id")
	if err != nil {
		return err
	}
	order, err := parseID(args[3], "order")
	if err != nil {
		return err
	}
	return a.surveys.UpdateOptionOrder(cmd.Context(), args[0], qid, oid, order)
}

func runOptionDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	qid, err := parseID(args[1], "question id")
	if err != nil {
		return err
	}
	oid, err := parseID(args[2], "option id")
	if err != nil {
		return err
	}
	return a.surveys.DeleteOption(cmd.Context(), args[0], qid, oid)
}
