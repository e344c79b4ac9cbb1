package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"bitbucket.org/crestline/charters_recon/recon"
)

// ReconciliationSummary aggregates one run's results for the console
// report the audit tools print.
type ReconciliationSummary struct {
	Total              int     `json:"total"`
	Matched            int     `json:"matched"`
	Unmatched          int     `json:"unmatched"`
	WidenRetryHints    int     `json:"widen_retry_hints"`
	InvalidSkipped     int     `json:"invalid_skipped"`
	MatchRatePercent   float64 `json:"match_rate_percent"`
	TotalDateDriftDays int     `json:"total_date_drift_days"`
}

func BuildReconciliationSummary(results []recon.MatchResult) ReconciliationSummary {
	var s ReconciliationSummary
	s.Total = len(results)
	for _, r := range results {
		switch r.Status {
		case recon.MatchStatusMatched:
			s.Matched++
			s.TotalDateDriftDays += r.DateDeltaDays
		default:
			s.Unmatched++
			if containsWidenHint(r.Note) {
				s.WidenRetryHints++
			}
			if containsInvalidHint(r.Note) {
				s.InvalidSkipped++
			}
		}
	}
	if s.Total > 0 {
		s.MatchRatePercent = float64(s.Matched) / float64(s.Total) * 100
	}
	return s
}

func containsWidenHint(note string) bool {
	return strings.Contains(note, "wider window")
}

func containsInvalidHint(note string) bool {
	return strings.Contains(note, "invalid record")
}

// WriteCSV emits one line per result. Matched rows carry the transaction
// id and date delta; unmatched rows carry the diagnostic note.
func WriteCSV(w io.Writer, results []recon.MatchResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"record_id", "transaction_id", "status", "date_delta_days", "note"}); err != nil {
		return err
	}
	for _, r := range results {
		transactionId := ""
		dateDelta := ""
		if r.Status == recon.MatchStatusMatched && r.TransactionID != nil {
			transactionId = strconv.Itoa(*r.TransactionID)
			dateDelta = strconv.Itoa(r.DateDeltaDays)
		}
		row := []string{
			strconv.Itoa(r.RecordID),
			transactionId,
			string(r.Status),
			dateDelta,
			r.Note,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// PrintSummary renders the console report the way the old one-off scripts
// printed theirs: counts first, then the follow-up hints.
func PrintSummary(w io.Writer, runId string, s ReconciliationSummary) {
	fmt.Fprintf(w, "Reconciliation run %s\n", runId)
	fmt.Fprintf(w, "  records:   %d\n", s.Total)
	fmt.Fprintf(w, "  matched:   %d (%.1f%%)\n", s.Matched, s.MatchRatePercent)
	fmt.Fprintf(w, "  unmatched: %d\n", s.Unmatched)
	if s.InvalidSkipped > 0 {
		fmt.Fprintf(w, "  invalid rows skipped: %d\n", s.InvalidSkipped)
	}
	if s.WidenRetryHints > 0 {
		fmt.Fprintf(w, "  near misses outside window: %d (re-run orphan-audit with a wider window)\n", s.WidenRetryHints)
	}
	if s.Matched > 0 {
		fmt.Fprintf(w, "  total date drift: %d days across matched pairs\n", s.TotalDateDriftDays)
	}
}

// PrintUnmatched lists the orphaned records that need manual review.
func PrintUnmatched(w io.Writer, results []recon.MatchResult) {
	for _, r := range results {
		if r.Status == recon.MatchStatusMatched {
			continue
		}
		if r.Note != "" {
			fmt.Fprintf(w, "  record %d: unmatched (%s)\n", r.RecordID, r.Note)
		} else {
			fmt.Fprintf(w, "  record %d: unmatched\n", r.RecordID)
		}
	}
}
