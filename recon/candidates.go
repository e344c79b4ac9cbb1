package recon

import "sort"

// Candidates returns every transaction in pool whose date lies within
// ±opts.WindowDays of the record's date (inclusive) and whose amount on the
// record's ledger side is within opts.AmountTolerance of the record amount.
// Results are ordered by ascending absolute date delta, then ascending id;
// the tie-break in SelectCandidate relies on this ordering.
//
// Zero-amount records never auto-match: $0 charters and receipts are
// flagged for manual review instead.
//
// Pure function; the pool is owned and mutated by the caller.
func Candidates(record Record, pool []Transaction, opts Options) []Transaction {
	if record.Amount.IsZero() {
		return nil
	}

	var out []Transaction
	for _, txn := range pool {
		amount := txn.AmountFor(record.Direction)
		if amount == nil {
			continue
		}
		if DateDeltaDays(record.Date, txn.Date) > opts.WindowDays {
			continue
		}
		if amount.Sub(record.Amount).Abs().GreaterThan(opts.AmountTolerance) {
			continue
		}
		out = append(out, txn)
	}

	sort.SliceStable(out, func(i, j int) bool {
		di := DateDeltaDays(record.Date, out[i].Date)
		dj := DateDeltaDays(record.Date, out[j].Date)
		if di != dj {
			return di < dj
		}
		return out[i].ID < out[j].ID
	})
	return out
}
