package mapper

import (
	"time"

	"github.com/cleared-dev/cardledger/internal/issuer"
)

const refDateFormat = "2006-01-02"

// Candidate is an activity selected for import together with its resolved
// posting date and deduplication reference.
type Candidate struct {
	Activity  issuer.Activity
	Date      time.Time
	Reference string
}

// Eligible filters activities down to approved, posted transactions that are
// not yet in the ledger. References produced earlier in the same batch count
// as imported.
func (m *Mapper) Eligible(activities []issuer.Activity) ([]Candidate, error) {
	var out []Candidate
	batch := make(map[string]struct{})

	for _, a := range activities {
		if a.Status != issuer.StatusApproved || a.Type != issuer.TypeTransaction {
			m.log.Debug().
				Str("status", string(a.Status)).
				Str("type", string(a.Type)).
				Str("merchant", a.Merchant.Name).
				Msg("skipping activity")
			continue
		}

		date, ok := a.Posted()
		if !ok {
			return nil, &MissingFieldError{Activity: a, Field: "postedDate"}
		}

		ref, err := reference(a, date)
		if err != nil {
			return nil, err
		}

		if _, dup := m.seen[ref]; dup {
			m.log.Debug().Str("reference", ref).Str("merchant", a.Merchant.Name).Msg("already imported")
			continue
		}
		if _, dup := batch[ref]; dup {
			m.log.Debug().Str("reference", ref).Str("merchant", a.Merchant.Name).Msg("duplicate reference in batch")
			continue
		}
		batch[ref] = struct{}{}

		out = append(out, Candidate{Activity: a, Date: date, Reference: ref})
	}
	return out, nil
}

// reference derives the deduplication key. The issuer gives payments and
// over-limit fees no reference number; at most one of each is assumed per day.
func reference(a issuer.Activity, posted time.Time) (string, error) {
	switch a.Category {
	case issuer.CategoryPayment:
		return "payment-" + posted.Format(refDateFormat), nil
	case issuer.CategoryOverlimitFee:
		return "overlimit-fee-" + posted.Format(refDateFormat), nil
	}
	ref, ok := a.Reference()
	if !ok {
		return "", &MissingFieldError{Activity: a, Field: "referenceNumber"}
	}
	return ref, nil
}
