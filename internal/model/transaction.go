package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Amount is an exact decimal quantity of a single currency.
type Amount struct {
	Number   decimal.Decimal
	Currency string
}

// NewAmount builds an Amount.
func NewAmount(number decimal.Decimal, currency string) Amount {
	return Amount{Number: number, Currency: currency}
}

func (a Amount) Neg() Amount    { return Amount{Number: a.Number.Neg(), Currency: a.Currency} }
func (a Amount) Abs() Amount    { return Amount{Number: a.Number.Abs(), Currency: a.Currency} }
func (a Amount) IsZero() bool   { return a.Number.IsZero() }
func (a Amount) String() string { return a.Number.String() + " " + a.Currency }

// Equal reports whether both amounts have the same value and currency.
func (a Amount) Equal(b Amount) bool {
	return a.Currency == b.Currency && a.Number.Equal(b.Number)
}

// Price annotates a posting with its conversion into another currency.
type Price struct {
	Amount Amount
	// Total means Amount is the cost of the whole posting (@@) rather than
	// the cost of one unit (@).
	Total bool
}

// Posting is one leg of a transaction.
type Posting struct {
	Account string
	Amount  Amount
	Price   *Price
}

// Weight returns the posting's value in the currency it balances in.
// A total price carries the sign of the units.
func (p Posting) Weight() Amount {
	if p.Price == nil {
		return p.Amount
	}
	if p.Price.Total {
		w := p.Price.Amount.Abs()
		if p.Amount.Number.IsNegative() {
			w = w.Neg()
		}
		return w
	}
	return Amount{Number: p.Amount.Number.Mul(p.Price.Amount.Number), Currency: p.Price.Amount.Currency}
}

// UnitPrice returns the per-unit conversion price, or false for unpriced postings.
// For total prices the result is rounded to the division precision of decimal.
func (p Posting) UnitPrice() (Amount, bool) {
	if p.Price == nil {
		return Amount{}, false
	}
	if !p.Price.Total {
		return p.Price.Amount, true
	}
	if p.Amount.Number.IsZero() {
		return Amount{}, false
	}
	return Amount{
		Number:   p.Price.Amount.Number.Div(p.Amount.Number.Abs()),
		Currency: p.Price.Amount.Currency,
	}, true
}

// TxnMeta is the header of a transaction.
type TxnMeta struct {
	Date      time.Time
	Narration string
	Meta      Metadata
}

// Transaction is a dated, balanced set of postings.
type Transaction struct {
	TxnMeta
	Postings []Posting
}

// ActivityID returns the deduplication key the transaction was imported under.
func (t Transaction) ActivityID() (string, bool) {
	return t.Meta.Get(MetaActivityID)
}

// Residual sums posting weights per currency. A balanced transaction has
// every residual equal to zero.
func (t Transaction) Residual() map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	for _, p := range t.Postings {
		w := p.Weight()
		sums[w.Currency] = sums[w.Currency].Add(w.Number)
	}
	return sums
}

// IsBalanced reports whether every currency residual is zero.
func (t Transaction) IsBalanced() bool {
	for _, r := range t.Residual() {
		if !r.IsZero() {
			return false
		}
	}
	return true
}

// Balance asserts that an account holds Amount at Date.
type Balance struct {
	Date    time.Time
	Account string
	Amount  Amount
}

func (b Balance) String() string {
	return fmt.Sprintf("%s balance %s %s", b.Date.Format("2006-01-02"), b.Account, b.Amount)
}
