package mapper

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/cardledger/internal/amount"
	"github.com/cleared-dev/cardledger/internal/issuer"
	"github.com/cleared-dev/cardledger/internal/model"
)

// BuildTransaction assembles the two-leg transaction for one activity: the card
// account is credited with the negated activity amount and the expense account
// takes the activity amount. Foreign activities book the original amount on the
// expense leg, priced at the native amount.
func (m *Mapper) BuildTransaction(a issuer.Activity, date time.Time, ref string) (model.Transaction, error) {
	account, err := m.resolver.Resolve(a.LastFour())
	if err != nil {
		return model.Transaction{}, fmt.Errorf("resolving account for %s: %w", a.Describe(), err)
	}

	native, err := amount.Parse(a.Amount)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("activity %s: %w", a.Describe(), err)
	}

	expense := model.Posting{Account: m.expense, Amount: native}
	if a.Foreign != nil {
		foreign, err := amount.Parse(a.Foreign.OriginalAmount)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("activity %s: foreign amount: %w", a.Describe(), err)
		}
		if foreign.IsZero() && !native.IsZero() {
			return model.Transaction{}, fmt.Errorf("activity %s: foreign amount is zero but native is %s", a.Describe(), native)
		}
		// The issuer's sign on the original amount is not reliable; follow the native one.
		foreign = foreign.Abs()
		if native.Number.IsNegative() {
			foreign = foreign.Neg()
		}
		expense = model.Posting{
			Account: m.expense,
			Amount:  foreign,
			Price:   &model.Price{Amount: native.Abs(), Total: true},
		}
	}

	var meta model.Metadata
	meta.Set(model.MetaActivityID, ref)

	return model.Transaction{
		TxnMeta: model.TxnMeta{
			Date:      date,
			Narration: a.Merchant.Name,
			Meta:      meta,
		},
		Postings: []model.Posting{
			{Account: account, Amount: native.Neg()},
			expense,
		},
	}, nil
}

// BuildBalance asserts the card account's balance as of now. The issuer reports
// the amount owed as positive; liabilities are negative in the ledger.
func (m *Mapper) BuildBalance(acct issuer.Account) (model.Balance, error) {
	account, err := m.resolver.Resolve(acct.Customer.CardLast4)
	if err != nil {
		return model.Balance{}, fmt.Errorf("resolving account for card %s: %w", acct.Customer.CardLast4, err)
	}

	bal, err := amount.Parse(acct.CurrentBalance)
	if err != nil {
		return model.Balance{}, fmt.Errorf("current balance: %w", err)
	}

	return model.Balance{
		Date:    m.clock(),
		Account: account,
		Amount:  bal.Neg(),
	}, nil
}

// buildParallel builds candidates on a bounded errgroup. Results keep input
// order and the reported error is the first one in input order.
func (m *Mapper) buildParallel(candidates []Candidate) ([]model.Transaction, error) {
	txns := make([]model.Transaction, len(candidates))
	errs := make([]error, len(candidates))

	var g errgroup.Group
	g.SetLimit(m.workers)
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			txns[i], errs[i] = m.BuildTransaction(c.Activity, c.Date, c.Reference)
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return txns, nil
}
