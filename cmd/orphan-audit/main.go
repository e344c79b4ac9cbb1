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

// Second-pass sweep over records the normal ±7-day run left unmatched.
// Runs the same engine with a wide window and reports what would match, so
// the office can decide which orphans are genuine. Never applies anything.
func main() {
	accountID := flag.Int("account-id", 0, "Banking account to audit (0 for all accounts)")
	from := flag.String("from", "", "Optional: start date (YYYY-MM-DD)")
	to := flag.String("to", "", "Optional: end date (YYYY-MM-DD)")
	windowDays := flag.Int("window-days", 365, "Wide window for the orphan sweep")
	tolerance := flag.String("tolerance", "0.01", "Max absolute amount difference for a match")
	csvOut := flag.String("csv", "", "Optional: write per-record results to this CSV file")
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
	ctx = utils.SetUserNameInContext(ctx, "OrphanAudit")
	ctx = utils.SetCorrelationIdInContext(ctx, uuid.NewString())

	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}

	opts := recon.Options{WindowDays: *windowDays, AmountTolerance: amountTolerance}
	store := &models.GormRecordStore{AccountId: *accountID, From: fromDate, To: toDate}
	engine, err := recon.NewEngine(store, opts, config.GetLogger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine setup failed: %v\n", err)
		os.Exit(1)
	}

	results, err := engine.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "orphan audit aborted: %v\n", err)
		os.Exit(1)
	}

	summary := reports.BuildReconciliationSummary(results)
	fmt.Printf("Orphan audit (window ±%d days)\n", *windowDays)
	fmt.Printf("  would match: %d of %d\n", summary.Matched, summary.Total)
	fmt.Printf("  orphaned (no transaction in any window): %d\n", summary.Unmatched)
	reports.PrintUnmatched(os.Stdout, results)

	if *csvOut != "" {
		f, err := os.Create(*csvOut)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create %s: %v\n", *csvOut, err)
			os.Exit(1)
		}
		defer f.Close()
		if err := reports.WriteCSV(f, results); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write CSV: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", *csvOut)
	}
}
