package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"bitbucket.org/crestline/charters_recon/config"
	"bitbucket.org/crestline/charters_recon/models"
	"bitbucket.org/crestline/charters_recon/utils"
)

// Undoes one applied reconciliation run: clears matched_transaction_id for
// every record the run matched. Run entries stay behind as history.
func main() {
	runID := flag.String("run-id", "", "Reconciliation run id (uuid) to revert")
	flag.Parse()

	if strings.TrimSpace(*runID) == "" {
		fmt.Fprintln(os.Stderr, "-run-id is required")
		os.Exit(1)
	}

	ctx := context.Background()
	ctx = utils.SetUserNameInContext(ctx, "MatchRevert")
	ctx = utils.SetCorrelationIdInContext(ctx, *runID)

	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}

	run, err := models.GetReconciliationRun(ctx, strings.TrimSpace(*runID))
	if err != nil {
		fmt.Fprintf(os.Stderr, "run lookup failed: %v\n", err)
		os.Exit(1)
	}
	if run.AppliedAt == nil {
		fmt.Fprintf(os.Stderr, "run %s was never applied; nothing to revert\n", run.ID)
		os.Exit(1)
	}

	reverted, err := models.RevertRun(ctx, run.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "revert failed, nothing changed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("reverted %d matches from run %s\n", reverted, run.ID)
}
