package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/cardledger/internal/amount"
	"github.com/cleared-dev/cardledger/internal/model"
)

// Header is the CSV header for journal.csv.
const Header = "entry_id,kind,date,account,amount,currency,price,price_currency,price_type,narration,activity_id"

// Row kinds.
const (
	KindPosting = "posting"
	KindBalance = "balance"
)

// Price types.
const (
	PriceUnit  = "unit"
	PriceTotal = "total"
)

const (
	numFields   = 11
	dateFormat  = "2006-01-02"
	colEntryID  = 0
	colKind     = 1
	colDate     = 2
	colAccount  = 3
	colAmount   = 4
	colCurrency = 5
	colPrice    = 6
	colPriceCur = 7
	colPriceTyp = 8
	colNarr     = 9
	colActivity = 10
)

// Entries is the content of a journal: transactions and balance assertions,
// each in file order, with the entry ID assigned to each.
type Entries struct {
	Transactions []model.Transaction
	TxnIDs       []string
	Balances     []model.Balance
	BalanceIDs   []string
}

// Ledger returns the snapshot the importer needs.
func (e Entries) Ledger(accounts []model.Account) model.Ledger {
	return model.Ledger{Accounts: accounts, Transactions: e.Transactions}
}

// ReadEntries reads a journal.csv. Posting rows sharing an entry group form one transaction.
func ReadEntries(r io.Reader) (Entries, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return Entries{}, fmt.Errorf("reading journal CSV: %w", err)
	}

	var out Entries
	if len(records) == 0 {
		return out, nil
	}
	if got := strings.Join(records[0], ","); got != Header {
		return Entries{}, fmt.Errorf("unexpected journal header %q", got)
	}

	groups := make(map[string]int)
	for i, rec := range records[1:] {
		row := i + 2
		switch rec[colKind] {
		case KindBalance:
			bal, err := unmarshalBalance(rec)
			if err != nil {
				return Entries{}, fmt.Errorf("row %d: %w", row, err)
			}
			out.Balances = append(out.Balances, bal)
			out.BalanceIDs = append(out.BalanceIDs, rec[colEntryID])
		case KindPosting:
			date, posting, err := unmarshalPosting(rec)
			if err != nil {
				return Entries{}, fmt.Errorf("row %d: %w", row, err)
			}
			g := entryGroup(rec[colEntryID])
			idx, seen := groups[g]
			if !seen {
				var meta model.Metadata
				if rec[colActivity] != "" {
					meta.Set(model.MetaActivityID, rec[colActivity])
				}
				out.Transactions = append(out.Transactions, model.Transaction{
					TxnMeta: model.TxnMeta{Date: date, Narration: rec[colNarr], Meta: meta},
				})
				out.TxnIDs = append(out.TxnIDs, g)
				idx = len(out.Transactions) - 1
				groups[g] = idx
			}
			out.Transactions[idx].Postings = append(out.Transactions[idx].Postings, posting)
		default:
			return Entries{}, fmt.Errorf("row %d: unknown kind %q", row, rec[colKind])
		}
	}
	return out, nil
}

// WriteEntries writes a complete journal (including header).
func WriteEntries(w io.Writer, e Entries) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	return AppendEntries(w, e)
}

// AppendEntries appends rows to an existing journal (no header).
func AppendEntries(w io.Writer, e Entries) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for i, txn := range e.Transactions {
		for j, p := range txn.Postings {
			if err := cw.Write(MarshalPosting(legID(e.TxnIDs[i], j), txn, p)); err != nil {
				return fmt.Errorf("writing transaction %s: %w", e.TxnIDs[i], err)
			}
		}
	}
	for i, bal := range e.Balances {
		if err := cw.Write(MarshalBalance(e.BalanceIDs[i], bal)); err != nil {
			return fmt.Errorf("writing balance %s: %w", e.BalanceIDs[i], err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalPosting converts one leg of a transaction to a CSV row.
func MarshalPosting(legID string, txn model.Transaction, p model.Posting) []string {
	row := make([]string, numFields)
	row[colEntryID] = legID
	row[colKind] = KindPosting
	row[colDate] = txn.Date.Format(dateFormat)
	row[colAccount] = p.Account
	row[colAmount] = amount.Format(p.Amount)
	row[colCurrency] = p.Amount.Currency
	if p.Price != nil {
		row[colPrice] = amount.Format(p.Price.Amount)
		row[colPriceCur] = p.Price.Amount.Currency
		row[colPriceTyp] = PriceUnit
		if p.Price.Total {
			row[colPriceTyp] = PriceTotal
		}
	}
	row[colNarr] = txn.Narration
	row[colActivity], _ = txn.ActivityID()
	return row
}

// MarshalBalance converts a balance assertion to a CSV row.
func MarshalBalance(entryID string, b model.Balance) []string {
	row := make([]string, numFields)
	row[colEntryID] = entryID
	row[colKind] = KindBalance
	row[colDate] = b.Date.Format(dateFormat)
	row[colAccount] = b.Account
	row[colAmount] = amount.Format(b.Amount)
	row[colCurrency] = b.Amount.Currency
	return row
}

func unmarshalPosting(rec []string) (time.Time, model.Posting, error) {
	date, err := time.Parse(dateFormat, rec[colDate])
	if err != nil {
		return time.Time{}, model.Posting{}, fmt.Errorf("parsing date %q: %w", rec[colDate], err)
	}
	num, err := decimal.NewFromString(rec[colAmount])
	if err != nil {
		return time.Time{}, model.Posting{}, fmt.Errorf("parsing amount %q: %w", rec[colAmount], err)
	}
	p := model.Posting{Account: rec[colAccount], Amount: model.NewAmount(num, rec[colCurrency])}

	if rec[colPrice] != "" {
		price, err := decimal.NewFromString(rec[colPrice])
		if err != nil {
			return time.Time{}, model.Posting{}, fmt.Errorf("parsing price %q: %w", rec[colPrice], err)
		}
		var total bool
		switch rec[colPriceTyp] {
		case PriceUnit:
		case PriceTotal:
			total = true
		default:
			return time.Time{}, model.Posting{}, fmt.Errorf("unknown price_type %q", rec[colPriceTyp])
		}
		p.Price = &model.Price{Amount: model.NewAmount(price, rec[colPriceCur]), Total: total}
	}
	return date, p, nil
}

func unmarshalBalance(rec []string) (model.Balance, error) {
	date, err := time.Parse(dateFormat, rec[colDate])
	if err != nil {
		return model.Balance{}, fmt.Errorf("parsing date %q: %w", rec[colDate], err)
	}
	num, err := decimal.NewFromString(rec[colAmount])
	if err != nil {
		return model.Balance{}, fmt.Errorf("parsing amount %q: %w", rec[colAmount], err)
	}
	return model.Balance{
		Date:    date,
		Account: rec[colAccount],
		Amount:  model.NewAmount(num, rec[colCurrency]),
	}, nil
}
