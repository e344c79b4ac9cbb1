package recon

// SelectCandidate picks at most one transaction from an ordered candidate
// list. Candidates arrive sorted by closest date then lowest id, so taking
// the first element is a deterministic, reproducible tie-break: bank
// statements rarely carry two same-amount lines inside one short window,
// and when they do the temporally closest is the conservative pick.
func SelectCandidate(candidates []Transaction) *Transaction {
	if len(candidates) == 0 {
		return nil
	}
	chosen := candidates[0]
	return &chosen
}
