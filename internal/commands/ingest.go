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
	"github.com/bankrec-dev/bankrec/internal/runlog"
)

func newIngestCommand() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "ingest <bai-file>",
		Short: "Parse a BAI2 file and export balance and transaction CSVs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			return runIngest(args[0], configPath, outDir)
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default: work dir from config)")

	return cmd
}

func runIngest(baiPath, configPath, outDir string) error {
	log := newLogger()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if outDir == "" {
		outDir = cfg.WorkDir
	}

	entry := runlog.Entry{
		StartedAt:  time.Now().UTC(),
		SourceFile: filepath.Base(baiPath),
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

	log.WithField("file", baiPath).Info("parsing BAI2 file")
	content, err := os.ReadFile(baiPath)
	if err != nil {
		return fail(fmt.Errorf("reading BAI file: %w", err))
	}

	file, err := bai2.Parse(string(content))
	if err != nil {
		return fail(err)
	}
	if n := len(file.Orphans); n > 0 {
		log.WithField("count", n).Warn("transaction records outside any account were skipped")
	}

	balanceRows := file.BalanceRows()
	transactionRows := file.TransactionRows(bai2.RowOptions{
		AccountTitle: cfg.Export.AccountTitle,
		Entity:       cfg.Business.Name,
	})
	entry.BalanceRows = len(balanceRows)
	entry.TransactionRows = len(transactionRows)
	log.WithFields(logrus.Fields{
		"balances":     len(balanceRows),
		"transactions": len(transactionRows),
	}).Info("parsed")

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fail(fmt.Errorf("creating output dir: %w", err))
	}

	stem := strings.TrimSuffix(filepath.Base(baiPath), filepath.Ext(baiPath))
	balancesPath := filepath.Join(outDir, stem+"_balances.csv")
	transactionsPath := filepath.Join(outDir, stem+"_transactions.csv")

	if err := writeCSV(balancesPath, func(f *os.File) error {
		return export.WriteBalanceRows(f, balanceRows)
	}); err != nil {
		return fail(err)
	}
	log.WithField("path", balancesPath).Info("wrote balance rows")

	if err := writeCSV(transactionsPath, func(f *os.File) error {
		return export.WriteTransactionRows(f, transactionRows)
	}); err != nil {
		return fail(err)
	}
	log.WithField("path", transactionsPath).Info("wrote transaction rows")

	entry.Status = runlog.StatusSuccess
	entry.FinishedAt = time.Now().UTC()
	if err := runlog.Append(cfg.WorkDir, entry); err != nil {
		log.WithError(err).Warn("could not append run log")
	}
	return nil
}

func writeCSV(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
