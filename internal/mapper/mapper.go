// Package mapper turns issuer account snapshots and activities into ledger
// balance assertions and transactions, skipping activities already imported.
package mapper

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/cardledger/internal/issuer"
	"github.com/cleared-dev/cardledger/internal/model"
	"github.com/cleared-dev/cardledger/internal/resolver"
)

// DefaultExpenseAccount receives the counter-leg of every imported activity
// until categorization exists.
const DefaultExpenseAccount = "Expenses:Uncategorized"

// Options configures a Mapper.
type Options struct {
	ExpenseAccount string
	// Importer restricts account resolution to accounts carrying this importer tag.
	Importer string
	Policy   resolver.Policy
	// Clock dates balance assertions. Defaults to time.Now.
	Clock  func() time.Time
	Logger zerolog.Logger
	// Workers > 1 builds transactions concurrently.
	Workers int
}

// Mapper maps issuer records against one ledger snapshot. It never modifies
// the snapshot and holds no mutable state, so it may be shared.
type Mapper struct {
	resolver *resolver.Resolver
	seen     map[string]struct{}
	expense  string
	clock    func() time.Time
	log      zerolog.Logger
	workers  int
}

// New indexes ledger accounts and existing activity references.
func New(ledger model.Ledger, opts Options) *Mapper {
	m := &Mapper{
		resolver: resolver.New(ledger.Accounts, resolver.Options{Importer: opts.Importer, Policy: opts.Policy}),
		seen:     ledger.ActivityIDs(),
		expense:  opts.ExpenseAccount,
		clock:    opts.Clock,
		log:      opts.Logger,
		workers:  opts.Workers,
	}
	if m.expense == "" {
		m.expense = DefaultExpenseAccount
	}
	if m.clock == nil {
		m.clock = time.Now
	}
	return m
}

// Result holds everything one import produces.
type Result struct {
	Balance      model.Balance
	Transactions []model.Transaction
}

// Map builds the balance assertion for account and the new transactions for activities.
func (m *Mapper) Map(account issuer.Account, activities []issuer.Activity) (Result, error) {
	bal, err := m.MapBalance(account)
	if err != nil {
		return Result{}, err
	}
	txns, err := m.MapTransactions(activities)
	if err != nil {
		return Result{}, err
	}
	return Result{Balance: bal, Transactions: txns}, nil
}

// MapBalance builds the balance assertion for an account snapshot.
func (m *Mapper) MapBalance(account issuer.Account) (model.Balance, error) {
	return m.BuildBalance(account)
}

// MapTransactions returns one transaction per eligible, not yet imported
// activity, in input order. The first error aborts the whole batch.
func (m *Mapper) MapTransactions(activities []issuer.Activity) ([]model.Transaction, error) {
	candidates, err := m.Eligible(activities)
	if err != nil {
		return nil, err
	}
	if m.workers > 1 && len(candidates) > 1 {
		return m.buildParallel(candidates)
	}

	txns := make([]model.Transaction, 0, len(candidates))
	for _, c := range candidates {
		txn, err := m.BuildTransaction(c.Activity, c.Date, c.Reference)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, nil
}
