// Package category handles the category list commands
package category

import (
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/clarity-ledger/cmd/common"
	"fjacquet/clarity-ledger/cmd/root"
	"fjacquet/clarity-ledger/internal/apperror"
	"fjacquet/clarity-ledger/internal/models"
)

// Cmd groups the category subcommands
var Cmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"categories"},
	Short:   "List and manage income and expense categories",
	Long: `Every ledger has fixed default income and expense categories. Custom
categories can be added next to them and removed again; removing one does not
touch the transactions or budgets that use it.`,
}

var listCmd = &cobra.Command{
	Use:   "list <income|expense>",
	Short: "List default and custom categories",
	Args:  cobra.ExactArgs(1),
	RunE:  listFunc,
}

var addCmd = &cobra.Command{
	Use:   "add <income|expense> <name>",
	Short: "Add a custom category",
	Args:  cobra.ExactArgs(2),
	RunE:  addFunc,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <income|expense> <name>",
	Short: "Delete a custom category",
	Args:  cobra.ExactArgs(2),
	RunE:  deleteFunc,
}

func init() {
	listCmd.Flags().Bool("custom", false, "Only list custom categories")
	listCmd.Flags().Bool("json", false, "Print JSON")
	Cmd.AddCommand(listCmd, addCmd, deleteCmd)
}

func parseKind(raw string) (models.CategoryKind, error) {
	kind, err := models.ParseCategoryKind(raw)
	if err != nil {
		return "", &apperror.ValidationError{Field: "kind", Reason: err.Error()}
	}
	return kind, nil
}

func listFunc(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}

	var names []string
	if custom, _ := cmd.Flags().GetBool("custom"); custom {
		names, err = app.GetLedger().CustomCategories(cmd.Context(), kind)
	} else {
		names, err = app.GetLedger().Categories(cmd.Context(), kind)
	}
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return common.PrintJSON(cmd.OutOrStdout(), names)
	}
	for _, name := range names {
		marker := ""
		if !models.IsDefaultCategory(kind, name) {
			marker = " (custom)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", name, marker)
	}
	return nil
}

func addFunc(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	if err := app.GetLedger().AddCustomCategory(cmd.Context(), kind, args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s category %s\n", kind, args[1])
	return nil
}

func deleteFunc(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	if err := app.GetLedger().DeleteCustomCategory(cmd.Context(), kind, args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s category %s\n", kind, args[1])
	return nil
}
