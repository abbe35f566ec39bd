package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bankrec-dev/bankrec/internal/bai2"
	"github.com/bankrec-dev/bankrec/internal/config"
	"github.com/bankrec-dev/bankrec/internal/export"
	"github.com/bankrec-dev/bankrec/internal/invoice"
	"github.com/bankrec-dev/bankrec/internal/match"
	"github.com/bankrec-dev/bankrec/internal/runlog"
)

func newMatchCommand() *cobra.Command {
	var transactionsPath string
	var invoicesPath string
	var outPath string

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match exported credit transactions against open AR invoices",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			return runMatch(transactionsPath, invoicesPath, outPath, configPath)
		},
	}

	cmd.Flags().StringVar(&transactionsPath, "transactions", "", "transaction CSV from a previous ingest (required)")
	cmd.Flags().StringVar(&invoicesPath, "invoices", "", "open invoice list CSV (required)")
	cmd.Flags().StringVar(&outPath, "out", "", "output CSV path (default: <transactions>_cash_application.csv)")
	_ = cmd.MarkFlagRequired("transactions")
	_ = cmd.MarkFlagRequired("invoices")

	return cmd
}

func runMatch(transactionsPath, invoicesPath, outPath, configPath string) error {
	log := newLogger()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if outPath == "" {
		stem := strings.TrimSuffix(transactionsPath, filepath.Ext(transactionsPath))
		outPath = stem + "_cash_application.csv"
	}

	entry := runlog.Entry{
		StartedAt:  time.Now().UTC(),
		SourceFile: filepath.Base(transactionsPath),
	}
	fail := func(err error) error {
		entry.Status = runlog.StatusError
		entry.Error = err.Error()
		entry.FinishedAt = time.Now().UTC()
		if logErr := runlog.Append(cfg.WorkDir, entry); logErr != nil {
			log.WithError(logErr).Warn("could not append run log")
		}
		return err
	}

	rows, err := readTransactions(transactionsPath)
	if err != nil {
		return fail(err)
	}
	entry.TransactionRows = len(rows)
	log.WithField("transactions", len(rows)).Info("loaded transaction rows")

	invoices, err := readInvoices(invoicesPath, cfg.Export.InvoiceURLTemplate)
	if err != nil {
		return fail(err)
	}
	log.WithField("invoices", len(invoices)).Info("loaded open invoices")

	results := match.Transactions(rows, invoices, match.Options{
		MinScore:  cfg.Matching.MinScore,
		LinkLabel: cfg.Export.LinkLabel,
	})

	matched := 0
	for _, res := range results {
		if res.InvoiceNumber != "" {
			matched++
		}
	}
	entry.MatchedRows = matched
	log.WithFields(logrus.Fields{
		"matched":   matched,
		"unmatched": len(results) - matched,
	}).Info("matching complete")

	if err := writeCSV(outPath, func(f *os.File) error {
		return export.WriteResults(f, results)
	}); err != nil {
		return fail(err)
	}
	log.WithField("path", outPath).Info("wrote cash application rows")

	entry.Status = runlog.StatusSuccess
	entry.FinishedAt = time.Now().UTC()
	if err := runlog.Append(cfg.WorkDir, entry); err != nil {
		log.WithError(err).Warn("could not append run log")
	}
	return nil
}

func readTransactions(path string) ([]bai2.TransactionRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening transactions: %w", err)
	}
	defer f.Close()

	rows, err := export.ReadTransactionRows(f)
	if err != nil {
		return nil, fmt.Errorf("reading transactions: %w", err)
	}
	return rows, nil
}

func readInvoices(path, urlTemplate string) ([]invoice.Invoice, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening invoices: %w", err)
	}
	defer f.Close()

	invoices, err := invoice.ReadInvoices(f, urlTemplate)
	if err != nil {
		return nil, fmt.Errorf("reading invoices: %w", err)
	}
	return invoices, nil
}
