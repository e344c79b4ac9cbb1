package recon

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// Engine runs one reconciliation pass: for each unmatched record in
// date-then-id order, generate candidates from the remaining pool, pick at
// most one, and emit a MatchResult. The engine never touches storage;
// callers apply matched results transactionally themselves.
type Engine struct {
	store  RecordStore
	opts   Options
	logger *logrus.Logger
}

func NewEngine(store RecordStore, opts Options, logger *logrus.Logger) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("record store is required")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{store: store, opts: opts, logger: logger}, nil
}

// Run produces exactly one MatchResult per financial record. A consumed
// transaction leaves the pool for the rest of the run, so no two matched
// results ever reference the same transaction id. The only propagated
// failure is store unavailability, in which case no results are returned.
func (e *Engine) Run(ctx context.Context) ([]MatchResult, error) {
	records, err := e.store.FinancialRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load financial records: %w", err)
	}
	transactions, err := e.store.BankTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bank transactions: %w", err)
	}

	pool := e.buildPool(transactions)

	// The store contract says date-then-id ascending already; re-sorting a
	// copy keeps the processing order independent of store quirks.
	ordered := make([]Record, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Date.Before(ordered[j].Date)
		}
		return ordered[i].ID < ordered[j].ID
	})

	results := make([]MatchResult, 0, len(ordered))
	for _, record := range ordered {
		results = append(results, e.reconcileOne(record, &pool))
	}
	return results, nil
}

// buildPool drops header/footer rows silently and invalid rows with a log
// line; neither may ever be consumed as a match target.
func (e *Engine) buildPool(transactions []Transaction) []Transaction {
	pool := make([]Transaction, 0, len(transactions))
	for _, txn := range transactions {
		if txn.IsHeaderRow() {
			continue
		}
		if err := txn.Validate(); err != nil {
			e.logger.WithFields(logrus.Fields{
				"module":        "recon",
				"transactionId": txn.ID,
			}).Warnf("skipping malformed bank transaction: %v", err)
			continue
		}
		pool = append(pool, txn)
	}
	return pool
}

func (e *Engine) reconcileOne(record Record, pool *[]Transaction) MatchResult {
	if err := record.Validate(); err != nil {
		return MatchResult{
			RecordID: record.ID,
			Status:   MatchStatusUnmatched,
			Note:     "invalid record skipped: " + err.Error(),
		}
	}

	candidates := Candidates(record, *pool, e.opts)
	chosen := SelectCandidate(candidates)
	if chosen == nil {
		return MatchResult{
			RecordID: record.ID,
			Status:   MatchStatusUnmatched,
			Note:     e.unmatchedNote(record, *pool),
		}
	}

	consume(pool, chosen.ID)

	result := MatchResult{
		RecordID:      record.ID,
		TransactionID: &chosen.ID,
		Status:        MatchStatusMatched,
		DateDeltaDays: DateDeltaDays(record.Date, chosen.Date),
	}
	if len(candidates) > 1 {
		result.Note = fmt.Sprintf("%d candidates in window; closest date then lowest id selected", len(candidates))
	}
	return result
}

// unmatchedNote suggests a widened-window retry when exactly one
// same-amount, same-side transaction exists outside the window. This keeps
// the old per-script "try ±7 days, then ±365 days" habit visible to the
// operator without retrying implicitly.
func (e *Engine) unmatchedNote(record Record, pool []Transaction) string {
	if record.Amount.IsZero() {
		return "zero-amount record requires manual review"
	}

	var near *Transaction
	count := 0
	for i, txn := range pool {
		amount := txn.AmountFor(record.Direction)
		if amount == nil {
			continue
		}
		if amount.Sub(record.Amount).Abs().GreaterThan(e.opts.AmountTolerance) {
			continue
		}
		count++
		near = &pool[i]
	}
	if count == 1 {
		return fmt.Sprintf(
			"transaction %d matches on amount but is %d days away; retry with a wider window",
			near.ID, DateDeltaDays(record.Date, near.Date),
		)
	}
	return ""
}

func consume(pool *[]Transaction, id int) {
	p := *pool
	for i, txn := range p {
		if txn.ID == id {
			*pool = append(p[:i], p[i+1:]...)
			return
		}
	}
}
