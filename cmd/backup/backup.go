// Package backup handles the export and import commands
package backup

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"fjacquet/clarity-ledger/cmd/common"
	"fjacquet/clarity-ledger/cmd/root"
	"fjacquet/clarity-ledger/internal/backup"
	"fjacquet/clarity-ledger/internal/logging"
	"fjacquet/clarity-ledger/internal/validation"
)

// ExportCmd represents the export command
var ExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every transaction to a JSON or CSV file",
	Long: `Export every transaction, newest first. The file name defaults to a dated
backup name in the current directory; use --output - to print to stdout.`,
	Args: cobra.NoArgs,
	RunE: exportFunc,
}

// ImportCmd represents the import command
var ImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the transactions with the contents of a backup",
	Long: `Import a JSON backup or a CSV export. Every record is validated first and
nothing is changed unless all of them are valid; a successful import replaces
the stored transactions. The format is taken from the file extension unless
--format is given.`,
	Args: cobra.ExactArgs(1),
	RunE: importFunc,
}

func init() {
	ExportCmd.Flags().StringP("format", "f", "json", "Export format: json or csv")
	ExportCmd.Flags().StringP("output", "o", "", "Output file (default dated backup name, - for stdout)")
	ImportCmd.Flags().StringP("format", "f", "", "Import format: json or csv (default from extension)")
}

func exportFunc(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	svc := app.GetLedger()

	format, _ := cmd.Flags().GetString("format")
	if err := validation.ExportFormat(format); err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = backup.ExportFileName(svc.Now())
		if format == "csv" {
			output = strings.TrimSuffix(output, ".json") + ".csv"
		}
	}

	var data []byte
	if format == "csv" {
		var buf bytes.Buffer
		if err := svc.ExportCSV(cmd.Context(), &buf, app.GetConfig().CSVDelimiter()); err != nil {
			return err
		}
		data = buf.Bytes()
	} else if data, err = svc.ExportJSON(cmd.Context()); err != nil {
		return err
	}

	if err := common.WriteOutput(cmd.OutOrStdout(), output, data); err != nil {
		return err
	}
	if output != common.StdoutPath {
		app.GetLogger().Info("Exported transactions",
			logging.F(logging.FieldFile, output),
			logging.F("format", format))
		fmt.Fprintf(cmd.OutOrStdout(), "Exported transactions to %s\n", output)
	}
	return nil
}

func importFunc(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	path := args[0]
	if err := validation.InputFile(path); err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = "json"
		if strings.EqualFold(filepath.Ext(path), ".csv") {
			format = "csv"
		}
	}
	if err := validation.ExportFormat(format); err != nil {
		return err
	}

	var n int
	if format == "csv" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		n, err = app.GetLedger().ImportCSV(cmd.Context(), f, app.GetConfig().CSVDelimiter())
		if err != nil {
			return err
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if n, err = app.GetLedger().ImportTransactions(cmd.Context(), data); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions\n", n)
	return nil
}
