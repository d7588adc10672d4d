// Package scan handles the bill scanning command
package scan

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fjacquet/clarity-ledger/cmd/common"
	"fjacquet/clarity-ledger/cmd/root"
	"fjacquet/clarity-ledger/internal/currencyutils"
	"fjacquet/clarity-ledger/internal/logging"
	"fjacquet/clarity-ledger/internal/models"
	"fjacquet/clarity-ledger/internal/scanner"

	"github.com/shopspring/decimal"
)

// Cmd represents the scan command
var Cmd = &cobra.Command{
	Use:   "scan <file or directory>...",
	Short: "Read bills from images or PDFs into draft expenses",
	Long: `Recognize the text of bill images and PDFs and extract the amount, date
and category of each one. With --ai the text (and the image, for multimodal
models) is also sent to the configured AI model, whose answer takes precedence
over the local heuristic. Drafts are only printed unless --save is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: scanFunc,
}

func init() {
	Cmd.Flags().Bool("ai", false, "Enhance the extraction with the configured AI model")
	Cmd.Flags().Bool("save", false, "Record every draft with an amount as an expense")
	Cmd.Flags().Bool("json", false, "Print the full scan results as JSON")
}

func scanFunc(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	log := app.GetLogger()
	s := app.GetScanner()

	useAI, _ := cmd.Flags().GetBool("ai")
	if useAI && !s.AIAvailable() {
		fmt.Fprintln(cmd.ErrOrStderr(), "AI enhancement is not configured; using the local extraction only.")
	}

	results, err := scanAll(cmd, s, args, useAI)
	if err != nil {
		return err
	}

	save, _ := cmd.Flags().GetBool("save")
	saved := 0
	if save {
		for i, res := range results {
			if res.Draft.Amount <= 0 {
				log.Warn("Not saving draft without an amount", logging.F(logging.FieldFile, res.Path))
				continue
			}
			tx, err := app.GetLedger().AddTransaction(cmd.Context(), res.Draft)
			if err != nil {
				return fmt.Errorf("failed to save draft from %s: %w", res.Path, err)
			}
			results[i].Draft = tx
			saved++
		}
	}

	out := cmd.OutOrStdout()
	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		err = common.PrintJSON(out, results)
		out = cmd.ErrOrStderr()
	} else {
		err = printResults(out, results, app.Currency())
	}
	if err != nil || !save {
		return err
	}
	_, err = fmt.Fprintf(out, "Saved %d of %d drafts\n", saved, len(results))
	return err
}

// scanAll reports recognition progress when a single file is scanned and
// otherwise walks every path.
func scanAll(cmd *cobra.Command, s *scanner.BillScanner, args []string, useAI bool) ([]scanner.Result, error) {
	if len(args) == 1 {
		if info, err := os.Stat(args[0]); err == nil && !info.IsDir() {
			progress := func(percent int, status string) {
				fmt.Fprintf(cmd.ErrOrStderr(), "\r%s... %d%%", status, percent)
			}
			res, err := s.Scan(cmd.Context(), scanner.Request{Path: args[0], UseAI: useAI, Progress: progress})
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				return nil, err
			}
			return []scanner.Result{res}, nil
		}
	}
	return s.ScanPaths(cmd.Context(), args, useAI)
}

func printResults(w io.Writer, results []scanner.Result, currency models.Currency) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No bills scanned.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tDATE\tCATEGORY\tAMOUNT\tDESCRIPTION\tSOURCE")
	for _, res := range results {
		source := "heuristic"
		if res.AI != nil {
			source = "ai"
		}
		amount := "-"
		if res.Draft.Amount > 0 {
			amount = currencyutils.FormatAmount(decimal.NewFromFloat(res.Draft.Amount), currency)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			res.Path, res.Draft.Date, res.Draft.Category, amount, res.Draft.Description, source)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, res := range results {
		if res.AIError != "" {
			fmt.Fprintf(w, "AI enhancement failed for %s: %s\n", res.Path, res.AIError)
		}
	}
	return nil
}
