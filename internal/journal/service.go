package journal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cleared-dev/cardledger/internal/model"
)

// Service reads and appends the ledger journal of a repo.
type Service struct {
	repoRoot string
	accounts AccountChecker
}

// NewService creates a journal Service.
func NewService(repoRoot string, accounts AccountChecker) *Service {
	return &Service{repoRoot: repoRoot, accounts: accounts}
}

// Path returns the journal location inside a repo.
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, "ledger", "journal.csv")
}

// Load reads the journal. A missing journal is empty.
func (s *Service) Load() (Entries, error) {
	path := Path(s.repoRoot)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Entries{}, nil
	}
	if err != nil {
		return Entries{}, fmt.Errorf("opening journal %s: %w", path, err)
	}
	defer f.Close()

	e, err := ReadEntries(f)
	if err != nil {
		return Entries{}, fmt.Errorf("reading journal %s: %w", path, err)
	}
	return e, nil
}

// Assign gives new entries IDs continuing each month's sequence in existing.
func Assign(existing Entries, txns []model.Transaction, balances []model.Balance) Entries {
	var last []EntryID
	observe := func(id EntryID) {
		for i := range last {
			if last[i].SameMonth(id) {
				if id.Seq > last[i].Seq {
					last[i] = id
				}
				return
			}
		}
		last = append(last, id)
	}
	for _, ids := range [][]string{existing.TxnIDs, existing.BalanceIDs} {
		for _, s := range ids {
			if id, err := ParseEntryID(s); err == nil {
				observe(id)
			}
		}
	}

	next := func(t time.Time) string {
		id := NewEntryID(t, 1)
		for _, prev := range last {
			if prev.SameMonth(id) {
				id.Seq = prev.Seq + 1
			}
		}
		observe(id)
		return id.String()
	}

	out := Entries{Transactions: txns, Balances: balances}
	for _, t := range txns {
		out.TxnIDs = append(out.TxnIDs, next(t.Date))
	}
	for _, b := range balances {
		out.BalanceIDs = append(out.BalanceIDs, next(b.Date))
	}
	return out
}

// Span returns the lowest and highest entry IDs in e, ignoring malformed ones.
// Both are empty when e has no IDs.
func (e Entries) Span() (first, last string) {
	var lo, hi EntryID
	found := false
	for _, ids := range [][]string{e.TxnIDs, e.BalanceIDs} {
		for _, s := range ids {
			id, err := ParseEntryID(s)
			if err != nil {
				continue
			}
			if !found || id.Compare(lo) < 0 {
				lo = id
			}
			if !found || id.Compare(hi) > 0 {
				hi = id
			}
			found = true
		}
	}
	if !found {
		return "", ""
	}
	return lo.String(), hi.String()
}

// Append validates the new entries together with the existing journal and
// appends them. It returns the entries with their assigned IDs.
func (s *Service) Append(txns []model.Transaction, balances []model.Balance) (Entries, error) {
	existing, err := s.Load()
	if err != nil {
		return Entries{}, err
	}
	added := Assign(existing, txns, balances)

	all := Entries{
		Transactions: append(append([]model.Transaction(nil), existing.Transactions...), added.Transactions...),
		TxnIDs:       append(append([]string(nil), existing.TxnIDs...), added.TxnIDs...),
		Balances:     append(append([]model.Balance(nil), existing.Balances...), added.Balances...),
		BalanceIDs:   append(append([]string(nil), existing.BalanceIDs...), added.BalanceIDs...),
	}
	if err := Validate(all, s.accounts); err != nil {
		return Entries{}, fmt.Errorf("validation failed: %w", err)
	}

	path := Path(s.repoRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Entries{}, fmt.Errorf("creating journal dir: %w", err)
	}

	// An empty file has no header yet.
	isNew := true
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		isNew = false
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Entries{}, fmt.Errorf("checking journal: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return Entries{}, fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	if isNew {
		err = WriteEntries(f, added)
	} else {
		err = AppendEntries(f, added)
	}
	if err != nil {
		return Entries{}, fmt.Errorf("appending entries: %w", err)
	}
	return added, nil
}
