// Package resolver finds the ledger account that tracks an issuer card.
package resolver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cleared-dev/cardledger/internal/model"
)

// Policy decides what happens when several accounts qualify for the same card.
type Policy string

const (
	// FirstMatch picks the first qualifying account in ledger order.
	FirstMatch Policy = "first-match"
	// Strict reports an AmbiguousAccountError instead of picking one.
	Strict Policy = "strict"
)

// ParsePolicy maps a config value to a Policy. Empty means FirstMatch.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", FirstMatch:
		return FirstMatch, nil
	case Strict:
		return Strict, nil
	default:
		return "", fmt.Errorf("unknown resolution policy %q (want %q or %q)", s, FirstMatch, Strict)
	}
}

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrAmbiguousAccount = errors.New("ambiguous account")
)

// AccountNotFoundError is returned when no liability account carries the card digits.
type AccountNotFoundError struct {
	LastFour string
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("no liability account tagged %s=%q", model.MetaLastFour, e.LastFour)
}

func (e *AccountNotFoundError) Unwrap() error { return ErrAccountNotFound }

// AmbiguousAccountError is returned under Strict when more than one account qualifies.
type AmbiguousAccountError struct {
	LastFour string
	Accounts []string
}

func (e *AmbiguousAccountError) Error() string {
	return fmt.Sprintf("%d liability accounts tagged %s=%q: %s",
		len(e.Accounts), model.MetaLastFour, e.LastFour, strings.Join(e.Accounts, ", "))
}

func (e *AmbiguousAccountError) Unwrap() error { return ErrAmbiguousAccount }

// Options configures a Resolver.
type Options struct {
	// Importer, when set, additionally requires the account's importer tag to equal it.
	Importer string
	Policy   Policy
}

// Resolver looks up liability accounts by the last four card digits.
// It is immutable after New and safe for concurrent use.
type Resolver struct {
	policy  Policy
	byLast4 map[string][]string
}

// New indexes the qualifying accounts once. Ledger order is preserved per key.
func New(accounts []model.Account, opts Options) *Resolver {
	policy := opts.Policy
	if policy == "" {
		policy = FirstMatch
	}
	r := &Resolver{policy: policy, byLast4: make(map[string][]string)}
	for _, a := range accounts {
		if a.Type != model.AccountTypeLiability {
			continue
		}
		lastFour, ok := a.LastFour()
		if !ok {
			continue
		}
		if opts.Importer != "" {
			if tag, ok := a.Importer(); !ok || tag != opts.Importer {
				continue
			}
		}
		r.byLast4[lastFour] = append(r.byLast4[lastFour], a.Name)
	}
	return r
}

// Resolve returns the name of the account tracking the card ending in lastFour.
func (r *Resolver) Resolve(lastFour string) (string, error) {
	names := r.byLast4[lastFour]
	switch {
	case len(names) == 0:
		return "", &AccountNotFoundError{LastFour: lastFour}
	case len(names) > 1 && r.policy == Strict:
		return "", &AmbiguousAccountError{LastFour: lastFour, Accounts: append([]string(nil), names...)}
	}
	return names[0], nil
}
