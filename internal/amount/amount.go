// Package amount parses issuer decimal strings into exact ledger amounts.
package amount

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/cardledger/internal/issuer"
	"github.com/cleared-dev/cardledger/internal/model"
)

// ParseDecimal parses s exactly and returns the value together with the
// number of decimal digits written, so that value.StringFixed(digits)
// reproduces s (modulo a leading "+" or surrounding space).
func ParseDecimal(s string) (decimal.Decimal, int32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, 0, fmt.Errorf("parsing amount: empty string")
	}
	if strings.ContainsAny(s, "eE") {
		return decimal.Decimal{}, 0, fmt.Errorf("parsing amount %q: exponent notation not allowed", s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	var digits int32
	if i := strings.IndexByte(s, '.'); i >= 0 {
		digits = int32(len(s) - i - 1)
	}
	return d, digits, nil
}

// Currency normalizes and validates an ISO 4217 code.
func Currency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", fmt.Errorf("currency code is empty")
	}
	if money.GetCurrency(code) == nil {
		return "", fmt.Errorf("unknown currency %q", code)
	}
	return code, nil
}

// Parse converts an issuer Money into an exact ledger Amount.
func Parse(m issuer.Money) (model.Amount, error) {
	d, _, err := ParseDecimal(m.Value)
	if err != nil {
		return model.Amount{}, err
	}
	cur, err := Currency(m.Currency)
	if err != nil {
		return model.Amount{}, fmt.Errorf("parsing amount %q: %w", m.Value, err)
	}
	return model.NewAmount(d, cur), nil
}

// Format renders an amount with the currency's minor-unit precision, keeping
// any extra digits the value actually carries.
func Format(a model.Amount) string {
	places := int32(2)
	if cur := money.GetCurrency(a.Currency); cur != nil {
		places = int32(cur.Fraction)
	}
	if exp := -a.Number.Exponent(); exp > places {
		places = exp
	}
	return a.Number.StringFixed(places)
}
