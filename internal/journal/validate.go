package journal

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// ValidationError describes a single ledger rule violation.
type ValidationError struct {
	Rule        string
	EntryID     string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Rule, e.EntryID, e.Description)
}

// Rule names.
const (
	RuleBalanced      = "balanced"
	RuleKnownAccount  = "known-account"
	RuleUniqueID      = "unique-activity"
	RuleCurrency      = "currency"
	RuleEntryIDFormat = "entry-id"
)

// AccountChecker tests whether an account exists in the chart of accounts.
type AccountChecker interface {
	Exists(name string) bool
}

// Validate checks every entry and returns all violations as a multierror,
// or nil when the journal is consistent.
func Validate(e Entries, accounts AccountChecker) error {
	var errs *multierror.Error
	fail := func(rule, id, format string, args ...any) {
		errs = multierror.Append(errs, ValidationError{Rule: rule, EntryID: id, Description: fmt.Sprintf(format, args...)})
	}

	activities := make(map[string]string)
	for i, txn := range e.Transactions {
		id := e.TxnIDs[i]
		if _, err := ParseEntryID(id); err != nil {
			fail(RuleEntryIDFormat, id, "%v", err)
		}

		for cur, r := range txn.Residual() {
			if !r.IsZero() {
				fail(RuleBalanced, id, "postings leave %s %s unbalanced", r.String(), cur)
			}
		}

		for _, p := range txn.Postings {
			if !accounts.Exists(p.Account) {
				fail(RuleKnownAccount, id, "unknown account %q", p.Account)
			}
			if p.Amount.Currency == "" || (p.Price != nil && p.Price.Amount.Currency == "") {
				fail(RuleCurrency, id, "posting to %s has no currency", p.Account)
			}
		}

		if ref, ok := txn.ActivityID(); ok {
			if prev, dup := activities[ref]; dup {
				fail(RuleUniqueID, id, "activity %q already recorded in %s", ref, prev)
			} else {
				activities[ref] = id
			}
		}
	}

	for i, bal := range e.Balances {
		id := e.BalanceIDs[i]
		if !accounts.Exists(bal.Account) {
			fail(RuleKnownAccount, id, "unknown account %q", bal.Account)
		}
		if bal.Amount.Currency == "" {
			fail(RuleCurrency, id, "balance of %s has no currency", bal.Account)
		}
	}

	return errs.ErrorOrNil()
}
