package accounts

import (
	"github.com/cleared-dev/cardledger/internal/mapper"
	"github.com/cleared-dev/cardledger/internal/model"
)

// Card describes a credit card to provision in a new chart of accounts.
type Card struct {
	Name     string
	LastFour string
}

// DefaultChart returns the starting chart of accounts: one tagged liability
// account per card plus the uncategorized expense account imports post to.
func DefaultChart(importer string, cards []Card) []model.Account {
	chart := []model.Account{
		{Name: "Assets:Checking", Type: model.AccountTypeAsset, Description: "Account card payments are made from"},
		{Name: "Equity:Opening-Balances", Type: model.AccountTypeEquity},
	}
	for _, c := range cards {
		acct := model.Account{Name: c.Name, Type: model.AccountTypeLiability, Description: "Credit card"}
		acct.Meta.Set(model.MetaLastFour, c.LastFour)
		if importer != "" {
			acct.Meta.Set(model.MetaImporter, importer)
		}
		chart = append(chart, acct)
	}
	chart = append(chart,
		model.Account{Name: mapper.DefaultExpenseAccount, Type: model.AccountTypeExpense, Description: "Imported card activity awaiting categorization"},
		model.Account{Name: "Expenses:Fees", Type: model.AccountTypeExpense, Description: "Card fees and interest"},
	)
	return chart
}
