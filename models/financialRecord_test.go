package models_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"bitbucket.org/crestline/charters_recon/models"
	"bitbucket.org/crestline/charters_recon/recon"
	"bitbucket.org/crestline/charters_recon/utils"
	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return v
}

func decPtr(t *testing.T, s string) *decimal.Decimal {
	v := dec(t, s)
	return &v
}

func TestBankTransactionValidate(t *testing.T) {
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		txn     models.BankTransaction
		wantErr string
	}{
		{
			name: "debit only",
			txn:  models.BankTransaction{ID: 1, TransactionDate: day, DebitAmount: decPtr(t, "100.00")},
		},
		{
			name: "credit only",
			txn:  models.BankTransaction{ID: 2, TransactionDate: day, CreditAmount: decPtr(t, "55.25")},
		},
		{
			name: "header row",
			txn:  models.BankTransaction{ID: 3, TransactionDate: day},
		},
		{
			name:    "both sides set",
			txn:     models.BankTransaction{ID: 4, TransactionDate: day, DebitAmount: decPtr(t, "1.00"), CreditAmount: decPtr(t, "1.00")},
			wantErr: "both debit and credit",
		},
		{
			name:    "zero debit",
			txn:     models.BankTransaction{ID: 5, TransactionDate: day, DebitAmount: decPtr(t, "0")},
			wantErr: "debit must be positive",
		},
		{
			name:    "negative credit",
			txn:     models.BankTransaction{ID: 6, TransactionDate: day, CreditAmount: decPtr(t, "-3.00")},
			wantErr: "credit must be positive",
		},
	}

	for _, tc := range cases {
		err := tc.txn.Validate()
		if tc.wantErr == "" {
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", tc.name, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
			t.Fatalf("%s: expected error containing %q, got %v", tc.name, tc.wantErr, err)
		}
	}
}

func TestBankTransactionIsHeaderRow(t *testing.T) {
	txn := models.BankTransaction{ID: 1}
	if !txn.IsHeaderRow() {
		t.Fatalf("transaction with neither side set is a header row")
	}
	txn.DebitAmount = decPtr(t, "10.00")
	if txn.IsHeaderRow() {
		t.Fatalf("transaction with a debit is not a header row")
	}
}

func TestToReconMappings(t *testing.T) {
	day := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	matched := 501

	record := models.FinancialRecord{
		ID:                   7,
		RecordDate:           day,
		Amount:               dec(t, "120.50"),
		Direction:            models.FinancialRecordDirectionOutgoing,
		CounterpartyHint:     "PETRO CANADA",
		MatchedTransactionId: &matched,
	}
	got := record.ToReconRecord()
	if got.ID != 7 || !got.Date.Equal(day) || !got.Amount.Equal(dec(t, "120.50")) {
		t.Fatalf("record mapping lost fields: %+v", got)
	}
	if got.Direction != recon.DirectionOutgoing {
		t.Fatalf("expected outgoing direction, got %s", got.Direction)
	}
	if got.MatchedTransactionID == nil || *got.MatchedTransactionID != 501 {
		t.Fatalf("matched transaction id not carried over: %v", got.MatchedTransactionID)
	}

	txn := models.BankTransaction{
		ID:              501,
		TransactionDate: day,
		DebitAmount:     decPtr(t, "120.50"),
		Description:     "CHQ 0042 PETRO",
	}
	gotTxn := txn.ToReconTransaction()
	if gotTxn.ID != 501 || gotTxn.Debit == nil || gotTxn.Credit != nil {
		t.Fatalf("transaction mapping lost fields: %+v", gotTxn)
	}
	if gotTxn.Description != "CHQ 0042 PETRO" {
		t.Fatalf("description not carried over: %q", gotTxn.Description)
	}
}

func TestNewReconciliationRun(t *testing.T) {
	ctx := utils.SetCorrelationIdInContext(context.Background(), "run-abc")
	opts := recon.Options{WindowDays: 7, AmountTolerance: dec(t, "0.01")}
	txn := 501
	results := []recon.MatchResult{
		{RecordID: 1, TransactionID: &txn, Status: recon.MatchStatusMatched},
		{RecordID: 2, Status: recon.MatchStatusUnmatched},
		{RecordID: 3, Status: recon.MatchStatusUnmatched, Note: "zero-amount record requires manual review"},
	}

	run := models.NewReconciliationRun(ctx, 12, opts, results)
	if run.ID != "run-abc" {
		t.Fatalf("run id must come from the correlation id, got %s", run.ID)
	}
	if run.BankingAccountId != 12 || run.WindowDays != 7 {
		t.Fatalf("run options not captured: %+v", run)
	}
	if run.RecordCount != 3 || run.MatchedCount != 1 || run.UnmatchedCount != 2 {
		t.Fatalf("unexpected counts: %+v", run)
	}
	if run.AppliedAt != nil {
		t.Fatalf("a fresh run is not applied yet")
	}
}

func TestNewReconciliationRunGeneratesIdWithoutContext(t *testing.T) {
	run := models.NewReconciliationRun(context.Background(), 0, recon.DefaultOptions(), nil)
	if len(run.ID) != 36 {
		t.Fatalf("expected a uuid run id, got %q", run.ID)
	}
}

func TestNewReconciliationRunEntry(t *testing.T) {
	txn := 501
	entry := models.NewReconciliationRunEntry("run-abc", recon.MatchResult{
		RecordID:      9,
		TransactionID: &txn,
		Status:        recon.MatchStatusMatched,
		DateDeltaDays: 2,
		Note:          "2 candidates in window; closest date then lowest id selected",
	})
	if entry.RunId != "run-abc" || entry.RecordId != 9 {
		t.Fatalf("entry keys wrong: %+v", entry)
	}
	if entry.TransactionId == nil || *entry.TransactionId != 501 {
		t.Fatalf("entry transaction id wrong: %+v", entry)
	}
	if entry.Status != "matched" || entry.DateDeltaDays != 2 {
		t.Fatalf("entry outcome wrong: %+v", entry)
	}
}
