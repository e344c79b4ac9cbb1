package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"bitbucket.org/crestline/charters_recon/config"
	"bitbucket.org/crestline/charters_recon/models"
	"bitbucket.org/crestline/charters_recon/recon"
	"bitbucket.org/crestline/charters_recon/reports"
	"bitbucket.org/crestline/charters_recon/utils"
	"github.com/google/uuid"
)

func main() {
	accountID := flag.Int("account-id", 0, "Banking account to reconcile (0 for all accounts)")
	from := flag.String("from", "", "Optional: start date (YYYY-MM-DD) for both records and transactions")
	to := flag.String("to", "", "Optional: end date (YYYY-MM-DD)")
	windowDays := flag.Int("window-days", recon.DefaultWindowDays, "Days before/after a record date a transaction may fall")
	tolerance := flag.String("tolerance", "0.01", "Max absolute amount difference for a match")
	csvOut := flag.String("csv", "", "Optional: write per-record results to this CSV file")
	xlsxOut := flag.String("xlsx", "", "Optional: write results to this xlsx workbook")
	apply := flag.Bool("apply", false, "Persist matched_transaction_id for matched records (default: report only)")
	flag.Parse()

	fromDate, err := utils.ParseDateFlag(*from)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	toDate, err := utils.ParseDateFlag(*to)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	amountTolerance, err := utils.ParseDecimal(*tolerance)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid tolerance: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	ctx = utils.SetUserNameInContext(ctx, "Reconcile")
	ctx = utils.SetCorrelationIdInContext(ctx, uuid.NewString())

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	models.MigrateTable()

	opts := recon.Options{WindowDays: *windowDays, AmountTolerance: amountTolerance}
	store := &models.GormRecordStore{AccountId: *accountID, From: fromDate, To: toDate}
	engine, err := recon.NewEngine(store, opts, config.GetLogger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine setup failed: %v\n", err)
		os.Exit(1)
	}

	results, err := engine.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reconciliation aborted: %v\n", err)
		os.Exit(1)
	}

	run := models.NewReconciliationRun(ctx, *accountID, opts, results)
	summary := reports.BuildReconciliationSummary(results)
	reports.PrintSummary(os.Stdout, run.ID, summary)
	reports.PrintUnmatched(os.Stdout, results)

	if *csvOut != "" {
		f, err := os.Create(*csvOut)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create %s: %v\n", *csvOut, err)
			os.Exit(1)
		}
		if err := reports.WriteCSV(f, results); err != nil {
			f.Close()
			fmt.Fprintf(os.Stderr, "failed to write CSV: %v\n", err)
			os.Exit(1)
		}
		f.Close()
		fmt.Printf("wrote %s\n", *csvOut)
	}
	if *xlsxOut != "" {
		if err := reports.ExportExcel(*xlsxOut, run.ID, summary, results); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write xlsx: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", *xlsxOut)
	}

	if !*apply {
		fmt.Println("dry run; re-run with -apply to persist matches")
		return
	}
	if err := models.ApplyMatchResults(ctx, run, results); err != nil {
		fmt.Fprintf(os.Stderr, "apply failed, nothing persisted: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("applied %d matches (run %s)\n", summary.Matched, run.ID)
}
