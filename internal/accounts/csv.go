package accounts

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/cardledger/internal/model"
)

// Header is the column order WriteAccounts produces.
const Header = "account_name,account_type,last_four,importer,description"

var columns = strings.Split(Header, ",")

// required columns; the rest may be absent from hand-written charts.
var required = []string{"account_name", "account_type"}

// layout maps column names to their position in one file.
type layout map[string]int

func parseLayout(header []string) (layout, error) {
	l := make(layout, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := l[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		l[name] = i
	}
	for _, name := range required {
		if _, ok := l[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return l, nil
}

func (l layout) get(rec []string, name string) string {
	if i, ok := l[name]; ok && i < len(rec) {
		return strings.TrimSpace(rec[i])
	}
	return ""
}

// ReadAccounts reads chart-of-accounts.csv. Columns are matched by header
// name, so files with reordered or fewer optional columns still load.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}
	l, err := parseLayout(header)
	if err != nil {
		return nil, fmt.Errorf("accounts header: %w", err)
	}

	var accounts []model.Account
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return accounts, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading accounts CSV: %w", err)
		}
		acct, err := l.account(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		accounts = append(accounts, acct)
	}
}

// WriteAccounts writes chart-of-accounts.csv in Header order.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing account %s: %w", acct.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a row in Header order. Only the
// conventional metadata keys have columns.
func MarshalAccount(acct model.Account) []string {
	lastFour, _ := acct.LastFour()
	importer, _ := acct.Importer()
	return []string{acct.Name, string(acct.Type), lastFour, importer, acct.Description}
}

// UnmarshalAccount converts a row in Header order to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != len(columns) {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", len(columns), len(record))
	}
	l, _ := parseLayout(columns)
	return l.account(record)
}

func (l layout) account(rec []string) (model.Account, error) {
	name := l.get(rec, "account_name")
	if name == "" {
		return model.Account{}, fmt.Errorf("account_name is empty")
	}
	acct := model.Account{
		Name:        name,
		Type:        model.AccountType(l.get(rec, "account_type")),
		Description: l.get(rec, "description"),
	}
	if !acct.Type.Valid() {
		return model.Account{}, fmt.Errorf("account %s: unknown account_type %q", name, acct.Type)
	}
	if lf := l.get(rec, "last_four"); lf != "" {
		if !isLastFour(lf) {
			return model.Account{}, fmt.Errorf("account %s: last_four %q is not four digits", name, lf)
		}
		acct.Meta.Set(model.MetaLastFour, lf)
	}
	if imp := l.get(rec, "importer"); imp != "" {
		acct.Meta.Set(model.MetaImporter, imp)
	}
	return acct, nil
}

func isLastFour(s string) bool {
	return len(s) == 4 && strings.Trim(s, "0123456789") == ""
}
