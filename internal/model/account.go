package model

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// Account is a ledger account, e.g. "Liabilities:CreditCard:Rogers".
type Account struct {
	Name        string
	Type        AccountType
	Description string
	Meta        Metadata
}

// LastFour returns the card digits this account is tagged with.
func (a Account) LastFour() (string, bool) {
	return a.Meta.Get(MetaLastFour)
}

// Importer returns the importer tag, if any.
func (a Account) Importer() (string, bool) {
	return a.Meta.Get(MetaImporter)
}
