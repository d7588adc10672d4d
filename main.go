// Package main provides the entry point for the clarity CLI application.
package main

import (
	"errors"
	"fmt"
	"os"

	"fjacquet/clarity-ledger/cmd/backup"
	"fjacquet/clarity-ledger/cmd/budget"
	"fjacquet/clarity-ledger/cmd/category"
	"fjacquet/clarity-ledger/cmd/report"
	"fjacquet/clarity-ledger/cmd/root"
	"fjacquet/clarity-ledger/cmd/scan"
	"fjacquet/clarity-ledger/cmd/serve"
	"fjacquet/clarity-ledger/cmd/summary"
	"fjacquet/clarity-ledger/cmd/tip"
	"fjacquet/clarity-ledger/cmd/tx"
	"fjacquet/clarity-ledger/internal/apperror"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(tx.Cmd)
	root.Cmd.AddCommand(budget.Cmd)
	root.Cmd.AddCommand(category.Cmd)
	root.Cmd.AddCommand(summary.Cmd)
	root.Cmd.AddCommand(report.Cmd)
	root.Cmd.AddCommand(scan.Cmd)
	root.Cmd.AddCommand(backup.ExportCmd)
	root.Cmd.AddCommand(backup.ImportCmd)
	root.Cmd.AddCommand(tip.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

func main() {
	err := root.Cmd.Execute()
	if closeErr := root.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		var svcErr *apperror.ServiceError
		if errors.As(err, &svcErr) {
			fmt.Fprintln(os.Stderr, svcErr.UserMessage())
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
