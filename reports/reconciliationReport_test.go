package reports_test

import (
	"bytes"
	"strings"
	"testing"

	"bitbucket.org/crestline/charters_recon/recon"
	"bitbucket.org/crestline/charters_recon/reports"
)

func intPtr(v int) *int { return &v }

func sampleResults() []recon.MatchResult {
	return []recon.MatchResult{
		{RecordID: 1, TransactionID: intPtr(501), Status: recon.MatchStatusMatched, DateDeltaDays: 1},
		{RecordID: 2, TransactionID: intPtr(502), Status: recon.MatchStatusMatched, DateDeltaDays: 0},
		{RecordID: 3, Status: recon.MatchStatusUnmatched, Note: "transaction 503 matches on amount but is 15 days away; retry with a wider window"},
		{RecordID: 4, Status: recon.MatchStatusUnmatched, Note: "invalid record skipped: record 4: invalid direction \"\""},
		{RecordID: 5, Status: recon.MatchStatusUnmatched},
	}
}

func TestBuildReconciliationSummary(t *testing.T) {
	s := reports.BuildReconciliationSummary(sampleResults())

	if s.Total != 5 {
		t.Fatalf("expected 5 total, got %d", s.Total)
	}
	if s.Matched != 2 || s.Unmatched != 3 {
		t.Fatalf("expected 2 matched / 3 unmatched, got %d / %d", s.Matched, s.Unmatched)
	}
	if s.WidenRetryHints != 1 {
		t.Fatalf("expected 1 widen-retry hint, got %d", s.WidenRetryHints)
	}
	if s.InvalidSkipped != 1 {
		t.Fatalf("expected 1 invalid skip, got %d", s.InvalidSkipped)
	}
	if s.TotalDateDriftDays != 1 {
		t.Fatalf("expected total drift 1, got %d", s.TotalDateDriftDays)
	}
	if s.MatchRatePercent != 40 {
		t.Fatalf("expected 40%% match rate, got %v", s.MatchRatePercent)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := reports.WriteCSV(&buf, sampleResults()); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected header + 5 rows, got %d lines", len(lines))
	}
	if lines[0] != "record_id,transaction_id,status,date_delta_days,note" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if lines[1] != "1,501,matched,1," {
		t.Fatalf("unexpected matched row: %s", lines[1])
	}
	// Unmatched rows leave transaction id and delta empty.
	if !strings.HasPrefix(lines[5], "5,,unmatched,,") {
		t.Fatalf("unexpected unmatched row: %s", lines[5])
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	s := reports.BuildReconciliationSummary(sampleResults())
	reports.PrintSummary(&buf, "run-1234", s)

	out := buf.String()
	for _, want := range []string{"run-1234", "matched:   2", "unmatched: 3", "wider window"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintUnmatchedListsOnlyOrphans(t *testing.T) {
	var buf bytes.Buffer
	reports.PrintUnmatched(&buf, sampleResults())

	out := buf.String()
	if strings.Contains(out, "record 1") || strings.Contains(out, "record 2") {
		t.Fatalf("matched records must not be listed:\n%s", out)
	}
	for _, want := range []string{"record 3", "record 4", "record 5"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %s in orphan list:\n%s", want, out)
		}
	}
}
