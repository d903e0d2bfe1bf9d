package model

// Ledger is a read-only snapshot of the accounts and transactions already
// recorded. Nothing in the importer mutates it.
type Ledger struct {
	Accounts     []Account
	Transactions []Transaction
}

// ActivityIDs returns the set of deduplication keys present in the ledger.
func (l Ledger) ActivityIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(l.Transactions))
	for _, t := range l.Transactions {
		if ref, ok := t.ActivityID(); ok {
			ids[ref] = struct{}{}
		}
	}
	return ids
}
