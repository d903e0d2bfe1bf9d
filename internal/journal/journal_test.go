package journal

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/cardledger/internal/model"
)

const (
	card    = "Liabilities:CreditCard"
	expense = "Expenses:Uncategorized"
)

// mockAccounts implements AccountChecker for testing.
type mockAccounts map[string]bool

func (m mockAccounts) Exists(name string) bool { return m[name] }

var defaultAccounts = mockAccounts{card: true, expense: true}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func amt(s, cur string) model.Amount {
	return model.NewAmount(decimal.RequireFromString(s), cur)
}

func txn(d time.Time, narration, ref, value string) model.Transaction {
	var meta model.Metadata
	if ref != "" {
		meta.Set(model.MetaActivityID, ref)
	}
	native := amt(value, "CAD")
	return model.Transaction{
		TxnMeta: model.TxnMeta{Date: d, Narration: narration, Meta: meta},
		Postings: []model.Posting{
			{Account: card, Amount: native.Neg()},
			{Account: expense, Amount: native},
		},
	}
}

func foreignTxn() model.Transaction {
	var meta model.Metadata
	meta.Set(model.MetaActivityID, "REF43")
	return model.Transaction{
		TxnMeta: model.TxnMeta{Date: date(2023, 4, 3), Narration: "Online Store, Inc.", Meta: meta},
		Postings: []model.Posting{
			{Account: card, Amount: amt("4.05", "CAD")},
			{Account: expense, Amount: amt("-3.00", "USD"), Price: &model.Price{Amount: amt("4.05", "CAD"), Total: true}},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	in := Entries{
		Transactions: []model.Transaction{txn(date(2023, 4, 1), "Coffee Shop", "REF42", "-4.50"), foreignTxn()},
		TxnIDs:       []string{"2023-04-001", "2023-04-002"},
		Balances:     []model.Balance{{Date: date(2023, 4, 10), Account: card, Amount: amt("-123.45", "CAD")}},
		BalanceIDs:   []string{"2023-04-003"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteEntries(&buf, in))
	assert.True(t, strings.HasPrefix(buf.String(), "entry_id,kind,"))
	assert.Contains(t, buf.String(), "2023-04-001a,posting,2023-04-01,Liabilities:CreditCard,4.50,CAD")
	assert.Contains(t, buf.String(), "-3.00,USD,4.05,CAD,total")

	got, err := ReadEntries(&buf)
	require.NoError(t, err)
	require.Len(t, got.Transactions, 2)
	assert.Equal(t, in.TxnIDs, got.TxnIDs)
	assert.Equal(t, in.BalanceIDs, got.BalanceIDs)

	for i := range in.Transactions {
		want, have := in.Transactions[i], got.Transactions[i]
		assert.True(t, want.Date.Equal(have.Date))
		assert.Equal(t, want.Narration, have.Narration)
		assert.Equal(t, want.Meta, have.Meta)
		require.Len(t, have.Postings, 2)
		for j := range want.Postings {
			assert.Equal(t, want.Postings[j].Account, have.Postings[j].Account)
			assert.True(t, want.Postings[j].Amount.Equal(have.Postings[j].Amount), "txn %d leg %d", i, j)
		}
		assert.True(t, have.IsBalanced())
	}
	require.NotNil(t, got.Transactions[1].Postings[1].Price)
	assert.True(t, got.Transactions[1].Postings[1].Price.Total)

	require.Len(t, got.Balances, 1)
	assert.True(t, got.Balances[0].Amount.Equal(amt("-123.45", "CAD")))
}

func TestReadEntries_Errors(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"kind", "2023-04-001a,other,2023-04-01,A,1,CAD,,,,n,", "unknown kind"},
		{"date", "2023-04-001a,posting,01/04/2023,A,1,CAD,,,,n,", "parsing date"},
		{"amount", "2023-04-001a,posting,2023-04-01,A,one,CAD,,,,n,", "parsing amount"},
		{"price type", "2023-04-001a,posting,2023-04-01,A,1,USD,1.3,CAD,each,n,", "unknown price_type"},
		{"balance amount", "2023-04-002,balance,2023-04-01,A,x,CAD,,,,,", "parsing amount"},
	}
	for _, tt := range tests {
		_, err := ReadEntries(strings.NewReader(Header + "\n" + tt.row + "\n"))
		require.Error(t, err, tt.name)
		assert.Contains(t, err.Error(), tt.want, tt.name)
		assert.Contains(t, err.Error(), "row 2", tt.name)
	}
}

func TestReadEntries_Empty(t *testing.T) {
	got, err := ReadEntries(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got.Transactions)
	assert.Empty(t, got.Balances)
}

func TestEntryIDs(t *testing.T) {
	id := NewEntryID(date(2025, 1, 20), 1)
	assert.Equal(t, "2025-01-001", id.String())
	assert.Equal(t, "2025-01-001b", legID(id.String(), 1))
	assert.Equal(t, "2025-12-099", entryGroup("2025-12-099ab"))
	assert.Equal(t, "", entryGroup(""))

	got, err := ParseEntryID("2025-03-017a")
	require.NoError(t, err)
	assert.Equal(t, EntryID{Year: 2025, Month: time.March, Seq: 17}, got)
	assert.True(t, got.SameMonth(NewEntryID(date(2025, 3, 1), 1)))
	assert.False(t, got.SameMonth(id))

	for _, bad := range []string{"bogus", "2025-13-001", "2025-01-000", "2025-01"} {
		_, err := ParseEntryID(bad)
		assert.Error(t, err, bad)
	}
}

func TestValidate_OK(t *testing.T) {
	e := Entries{
		Transactions: []model.Transaction{txn(date(2023, 4, 1), "Coffee", "REF42", "-4.50"), foreignTxn()},
		TxnIDs:       []string{"2023-04-001", "2023-04-002"},
	}
	assert.NoError(t, Validate(e, defaultAccounts))
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	unbalanced := txn(date(2023, 4, 1), "Coffee", "REF42", "-4.50")
	unbalanced.Postings[1].Amount = amt("-4.00", "CAD")
	unknown := txn(date(2023, 4, 2), "Bakery", "REF42", "-1.00")
	unknown.Postings[1].Account = "Expenses:Nowhere"

	e := Entries{
		Transactions: []model.Transaction{unbalanced, unknown},
		TxnIDs:       []string{"2023-04-001", "2023-04-002"},
		Balances:     []model.Balance{{Date: date(2023, 4, 3), Account: "Liabilities:Gone", Amount: amt("1", "")}},
		BalanceIDs:   []string{"2023-04-003"},
	}
	err := Validate(e, defaultAccounts)
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)

	rules := map[string]int{}
	for _, e := range merr.Errors {
		var ve ValidationError
		require.ErrorAs(t, e, &ve)
		rules[ve.Rule]++
	}
	assert.Equal(t, 1, rules[RuleBalanced])
	assert.Equal(t, 2, rules[RuleKnownAccount])
	assert.Equal(t, 1, rules[RuleUniqueID])
	assert.Equal(t, 1, rules[RuleCurrency])
}

func TestAssign_ContinuesSequencePerMonth(t *testing.T) {
	existing := Entries{
		TxnIDs:     []string{"2023-04-001", "2023-04-002"},
		BalanceIDs: []string{"2023-04-003", "2023-03-007"},
	}
	added := Assign(existing,
		[]model.Transaction{txn(date(2023, 4, 9), "A", "R1", "-1"), txn(date(2023, 5, 1), "B", "R2", "-1")},
		[]model.Balance{{Date: date(2023, 3, 31)}},
	)
	assert.Equal(t, []string{"2023-04-004", "2023-05-001"}, added.TxnIDs)
	assert.Equal(t, []string{"2023-03-008"}, added.BalanceIDs)
}

func TestService_AppendAndLoad(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, defaultAccounts)

	empty, err := svc.Load()
	require.NoError(t, err)
	assert.Empty(t, empty.Transactions)

	added, err := svc.Append(
		[]model.Transaction{txn(date(2023, 4, 1), "Coffee Shop", "REF42", "-4.50")},
		[]model.Balance{{Date: date(2023, 4, 10), Account: card, Amount: amt("-123.45", "CAD")}},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"2023-04-001"}, added.TxnIDs)
	assert.Equal(t, []string{"2023-04-002"}, added.BalanceIDs)

	_, err = os.Stat(filepath.Join(dir, "ledger", "journal.csv"))
	require.NoError(t, err)

	added, err = svc.Append([]model.Transaction{foreignTxn()}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"2023-04-003"}, added.TxnIDs)

	loaded, err := svc.Load()
	require.NoError(t, err)
	require.Len(t, loaded.Transactions, 2)
	require.Len(t, loaded.Balances, 1)
	assert.Contains(t, loaded.Ledger(nil).ActivityIDs(), "REF43")

	data, err := os.ReadFile(Path(dir))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "entry_id,"), "header written once")
}

func TestService_AppendRejectsDuplicateActivity(t *testing.T) {
	svc := NewService(t.TempDir(), defaultAccounts)
	_, err := svc.Append([]model.Transaction{txn(date(2023, 4, 1), "Coffee", "REF42", "-4.50")}, nil)
	require.NoError(t, err)

	_, err = svc.Append([]model.Transaction{txn(date(2023, 4, 1), "Coffee", "REF42", "-4.50")}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), RuleUniqueID)

	loaded, err := svc.Load()
	require.NoError(t, err)
	assert.Len(t, loaded.Transactions, 1, "rejected entries are not written")
}

func TestReadEntries_RejectsWrongHeader(t *testing.T) {
	row := "2023-04-001a,posting,2023-04-01,Liabilities:CreditCard,-4.50,CAD,,,,Coffee,REF42\n"
	_, err := ReadEntries(strings.NewReader(row))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected journal header")
}

func TestService_AppendToEmptyFileWritesHeader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Dir(Path(dir)), 0o755))
	require.NoError(t, os.WriteFile(Path(dir), nil, 0o644))

	svc := NewService(dir, defaultAccounts)
	_, err := svc.Append([]model.Transaction{txn(date(2023, 4, 1), "Coffee Shop", "REF42", "-4.50")}, nil)
	require.NoError(t, err)

	loaded, err := svc.Load()
	require.NoError(t, err)
	require.Len(t, loaded.Transactions, 1)
	assert.Len(t, loaded.Transactions[0].Postings, 2)
	assert.True(t, loaded.Transactions[0].IsBalanced())

	_, err = svc.Append(nil, nil)
	require.NoError(t, err)
}

func TestEntryIDCompare(t *testing.T) {
	parse := func(s string) EntryID {
		id, err := ParseEntryID(s)
		require.NoError(t, err)
		return id
	}
	assert.Negative(t, parse("2023-04-999").Compare(parse("2023-04-1000")))
	assert.Negative(t, parse("2023-04-1000").Compare(parse("2023-05-001")))
	assert.Negative(t, parse("2022-12-050").Compare(parse("2023-01-001")))
	assert.Zero(t, parse("2023-04-007a").Compare(parse("2023-04-007")))
}

func TestEntriesSpan(t *testing.T) {
	e := Entries{
		TxnIDs:     []string{"2023-04-999", "2023-04-1000", "2023-04-1001"},
		BalanceIDs: []string{"2023-04-998", "bogus"},
	}
	first, last := e.Span()
	assert.Equal(t, "2023-04-998", first)
	assert.Equal(t, "2023-04-1001", last)

	first, last = Entries{}.Span()
	assert.Empty(t, first)
	assert.Empty(t, last)
}
