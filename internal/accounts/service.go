package accounts

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/cleared-dev/cardledger/internal/model"
)

// Service is the loaded chart of accounts. Ledger order is file order, which
// the resolver's first-match policy depends on.
type Service struct {
	accounts []model.Account
	index    map[string]int
}

// NewService indexes accounts by name. A repeated name keeps its first row.
func NewService(accounts []model.Account) *Service {
	s := &Service{accounts: accounts, index: make(map[string]int, len(accounts))}
	for i, a := range accounts {
		if _, ok := s.index[a.Name]; !ok {
			s.index[a.Name] = i
		}
	}
	return s
}

// Path is the chart's location inside a ledger repo.
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, "accounts", "chart-of-accounts.csv")
}

// Load reads the chart of a ledger repo. Repeated account names are rejected.
func Load(repoRoot string) (*Service, error) {
	path := Path(repoRoot)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s := NewService(accts)
	if len(s.index) != len(accts) {
		return nil, fmt.Errorf("%s: %w", path, s.duplicateError())
	}
	return s, nil
}

func (s *Service) duplicateError() error {
	for i, a := range s.accounts {
		if s.index[a.Name] != i {
			return fmt.Errorf("account %s is listed more than once", a.Name)
		}
	}
	return nil
}

// All returns the accounts in ledger order.
func (s *Service) All() []model.Account {
	return slices.Clone(s.accounts)
}

func (s *Service) Get(name string) (model.Account, bool) {
	i, ok := s.index[name]
	if !ok {
		return model.Account{}, false
	}
	return s.accounts[i], true
}

// Exists lets the journal check posting accounts.
func (s *Service) Exists(name string) bool {
	_, ok := s.index[name]
	return ok
}

// ByType filters in ledger order.
func (s *Service) ByType(t model.AccountType) []model.Account {
	return slices.DeleteFunc(s.All(), func(a model.Account) bool { return a.Type != t })
}

// Save writes the chart into repoRoot, replacing any previous file only once
// the new one is complete.
func (s *Service) Save(repoRoot string) error {
	path := Path(repoRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".chart-*.csv")
	if err != nil {
		return fmt.Errorf("creating chart of accounts: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteAccounts(tmp, s.accounts); err != nil {
		tmp.Close()
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing chart of accounts: %w", err)
	}
	return nil
}
