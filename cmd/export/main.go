// Command export writes CSV snapshots of the ledger.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"bondi/internal/config"
	"bondi/internal/logger"
	"bondi/internal/storage"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg := config.Load()

	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)

	ledgerPath := fs.String("ledger", cfg.LedgerFile, "Path to ledger file")
	outDir := fs.String("out", cfg.ExportDir, "Directory to write the CSV files into")

	if err := fs.Parse(args); err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}

	ledger, err := storage.Open(*ledgerPath, log)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}

	if err := storage.ExportCSV(ledger.Document(), *outDir); err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	for _, name := range []string{
		storage.UsersCSV, storage.ExpensesCSV, storage.GoalsCSV,
		storage.PodsCSV, storage.SharedExpensesCSV,
	} {
		fmt.Fprintf(stdout, "wrote %s/%s\n", *outDir, name)
	}
	return nil
}
