package recon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells which side of the bank ledger a record settles on.
// Receipts are Incoming (credit side), payments are Outgoing (debit side).
type Direction string

const (
	DirectionIncoming Direction = "Incoming"
	DirectionOutgoing Direction = "Outgoing"
)

type MatchStatus string

const (
	MatchStatusMatched   MatchStatus = "matched"
	MatchStatusUnmatched MatchStatus = "unmatched"
	// MatchStatusAmbiguous is reserved for callers that re-grade results
	// during manual review; the engine itself always resolves ties
	// deterministically and never emits it.
	MatchStatusAmbiguous MatchStatus = "ambiguous"
)

// ErrStoreUnavailable is the only failure a RecordStore may surface.
// The engine aborts the run without partial results when it sees it.
var ErrStoreUnavailable = errors.New("record store unavailable")

// Record is the engine's view of a receipt or payment awaiting
// reconciliation. Date is at calendar-day granularity.
type Record struct {
	ID                   int
	Date                 time.Time
	Amount               decimal.Decimal
	Direction            Direction
	CounterpartyHint     string
	MatchedTransactionID *int
}

func (r Record) Validate() error {
	if r.Direction != DirectionIncoming && r.Direction != DirectionOutgoing {
		return fmt.Errorf("record %d: invalid direction %q", r.ID, r.Direction)
	}
	if r.Amount.IsNegative() {
		return fmt.Errorf("record %d: negative amount %s", r.ID, r.Amount)
	}
	return nil
}

// Transaction is one ledger line from a bank statement. Exactly one of
// Debit/Credit is set and positive, or both are nil (header/footer rows,
// which are filtered out before matching).
type Transaction struct {
	ID          int
	Date        time.Time
	Debit       *decimal.Decimal
	Credit      *decimal.Decimal
	Description string
}

func (t Transaction) IsHeaderRow() bool {
	return t.Debit == nil && t.Credit == nil
}

func (t Transaction) Validate() error {
	if t.IsHeaderRow() {
		return nil
	}
	if t.Debit != nil && t.Credit != nil {
		return fmt.Errorf("transaction %d: both debit and credit set", t.ID)
	}
	if t.Debit != nil && !t.Debit.IsPositive() {
		return fmt.Errorf("transaction %d: debit must be positive, got %s", t.ID, t.Debit)
	}
	if t.Credit != nil && !t.Credit.IsPositive() {
		return fmt.Errorf("transaction %d: credit must be positive, got %s", t.ID, t.Credit)
	}
	return nil
}

// AmountFor returns the ledger amount relevant to a record direction:
// the debit column for outgoing payments, the credit column for incoming
// receipts. Nil means the transaction sits on the wrong side.
func (t Transaction) AmountFor(d Direction) *decimal.Decimal {
	if d == DirectionOutgoing {
		return t.Debit
	}
	return t.Credit
}

// MatchResult is the immutable outcome for one record in one run.
type MatchResult struct {
	RecordID      int
	TransactionID *int
	Status        MatchStatus
	// DateDeltaDays is only meaningful when Status is matched.
	DateDeltaDays int
	Note          string
}

// Options are the only recognized knobs. Callers pass them explicitly;
// the 365-day orphan sweep is a second invocation with different Options,
// never implicit retry.
type Options struct {
	WindowDays      int
	AmountTolerance decimal.Decimal
}

const DefaultWindowDays = 7

func DefaultAmountTolerance() decimal.Decimal {
	return decimal.New(1, -2) // 0.01
}

func DefaultOptions() Options {
	return Options{
		WindowDays:      DefaultWindowDays,
		AmountTolerance: DefaultAmountTolerance(),
	}
}

func (o Options) Validate() error {
	if o.WindowDays < 0 {
		return fmt.Errorf("window days must be >= 0, got %d", o.WindowDays)
	}
	if o.AmountTolerance.IsNegative() {
		return fmt.Errorf("amount tolerance must be >= 0, got %s", o.AmountTolerance)
	}
	return nil
}

// RecordStore supplies the two input sequences, each sorted ascending by
// date then id. Implementations wrap any connectivity failure in
// ErrStoreUnavailable; no other error is expected by the engine.
type RecordStore interface {
	FinancialRecords(ctx context.Context) ([]Record, error)
	BankTransactions(ctx context.Context) ([]Transaction, error)
}

// SliceStore serves pre-loaded slices. Used by tests and by tools that
// read statements from flat files instead of the database.
type SliceStore struct {
	Records      []Record
	Transactions []Transaction
}

func (s *SliceStore) FinancialRecords(ctx context.Context) ([]Record, error) {
	return s.Records, nil
}

func (s *SliceStore) BankTransactions(ctx context.Context) ([]Transaction, error) {
	return s.Transactions, nil
}

// DateDeltaDays is the whole-day distance between two dates, ignoring any
// time-of-day component. Matching happens at DATE granularity.
func DateDeltaDays(a, b time.Time) int {
	ad := dateOnlyUTC(a)
	bd := dateOnlyUTC(b)
	delta := int(ad.Sub(bd).Hours() / 24)
	if delta < 0 {
		delta = -delta
	}
	return delta
}

func dateOnlyUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
