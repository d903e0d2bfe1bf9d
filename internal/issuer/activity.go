package issuer

import (
	"fmt"
	"strings"
	"time"
)

// Status is the issuer's lifecycle state for an activity.
type Status string

const (
	StatusApproved Status = "APPROVED"
	StatusPending  Status = "PENDING"
	StatusDeclined Status = "DECLINED"
)

// Type distinguishes ledger-worthy transactions from other card events.
type Type string

const (
	TypeTransaction   Type = "TRANSACTION"
	TypeAuthorization Type = "AUTHORIZATION"
	TypeAlert         Type = "ALERT"
)

// Category is the issuer's classification of a transaction.
type Category string

const (
	CategoryPurchase     Category = "PURCHASE"
	CategoryPayment      Category = "PAYMENT"
	CategoryOverlimitFee Category = "OVERLIMIT_FEE"
	CategoryInterest     Category = "INTEREST"
	CategoryOther        Category = "OTHER"
)

// Money is an issuer amount: a decimal string and an ISO currency code.
type Money struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

func (m Money) String() string { return m.Value + " " + m.Currency }

// Merchant identifies the payee of an activity.
type Merchant struct {
	Name string `json:"name"`
}

// Foreign carries the original amount of an activity made in another currency.
type Foreign struct {
	OriginalAmount Money `json:"originalAmount"`
}

// Activity is one card event reported by the issuer.
type Activity struct {
	Status          Status   `json:"activityStatus"`
	Type            Type     `json:"activityType"`
	Category        Category `json:"activityCategory"`
	CardNumber      string   `json:"cardNumber"`
	Merchant        Merchant `json:"merchant"`
	PostedDate      *Date    `json:"postedDate,omitempty"`
	ReferenceNumber *string  `json:"referenceNumber,omitempty"`
	Amount          Money    `json:"amount"`
	Foreign         *Foreign `json:"foreign,omitempty"`
}

// LastFour returns the last four characters of the card number.
func (a Activity) LastFour() string {
	n := strings.TrimSpace(a.CardNumber)
	if len(n) <= 4 {
		return n
	}
	return n[len(n)-4:]
}

// Posted returns the posted date, if the activity has been finalized.
func (a Activity) Posted() (time.Time, bool) {
	if a.PostedDate == nil {
		return time.Time{}, false
	}
	return a.PostedDate.Time, true
}

// Reference returns the issuer-provided reference number, if any.
func (a Activity) Reference() (string, bool) {
	if a.ReferenceNumber == nil || *a.ReferenceNumber == "" {
		return "", false
	}
	return *a.ReferenceNumber, true
}

// Describe identifies the activity in error messages and logs.
func (a Activity) Describe() string {
	ref, _ := a.Reference()
	return fmt.Sprintf("%s %s (card %s, ref %q)", a.Merchant.Name, a.Amount, a.LastFour(), ref)
}

// Account is the issuer's account snapshot.
type Account struct {
	CurrentBalance Money    `json:"currentBalance"`
	Customer       Customer `json:"customer"`
}

// Customer holds the card identification of an account.
type Customer struct {
	CardLast4 string `json:"cardLast4"`
}
