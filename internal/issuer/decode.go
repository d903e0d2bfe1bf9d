package issuer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// DecodeAccount reads an account snapshot as downloaded from the issuer.
func DecodeAccount(r io.Reader) (Account, error) {
	var acct Account
	if err := json.NewDecoder(r).Decode(&acct); err != nil {
		return Account{}, fmt.Errorf("decoding account: %w", err)
	}
	if acct.Customer.CardLast4 == "" {
		return Account{}, fmt.Errorf("decoding account: customer.cardLast4 is empty")
	}
	return acct, nil
}

// DecodeActivities reads the activity list. Both a bare JSON array and the
// issuer's {"activities": [...]} envelope are accepted.
func DecodeActivities(r io.Reader) ([]Activity, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading activities: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '[' {
		var list []Activity
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("decoding activities: %w", err)
		}
		return list, nil
	}

	var envelope struct {
		Activities []Activity `json:"activities"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decoding activities: %w", err)
	}
	return envelope.Activities, nil
}
