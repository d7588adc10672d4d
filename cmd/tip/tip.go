// Package tip handles the financial tip command
package tip

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fjacquet/clarity-ledger/cmd/root"
)

// Cmd represents the tip command
var Cmd = &cobra.Command{
	Use:   "tip",
	Short: "Ask the AI model for a short tip about your finances",
	Long: `Send the current balance and the number of recorded transactions to the
configured AI model and print the short tip it answers with. Requires an API key.`,
	Args: cobra.NoArgs,
	RunE: tipFunc,
}

func tipFunc(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	tip, err := app.FinancialTip(cmd.Context())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(tip))
	return err
}
