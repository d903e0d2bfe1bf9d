// Package importlog keeps an audit trail of import runs in logs/import-log.csv.
package importlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Header is the CSV header for import-log.csv.
const Header = "timestamp,source,activities,transactions,balances,first_entry,last_entry,commit"

var columns = strings.Split(Header, ",")

// Run describes one import.
type Run struct {
	Time         time.Time
	Source       string // activities file, relative to the repo
	Activities   int    // records read
	Transactions int    // transactions appended
	Balances     int
	FirstEntry   string // empty when nothing was appended
	LastEntry    string
	Commit       string // empty without auto-commit
}

// Path returns the log location inside a repo.
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, "logs", "import-log.csv")
}

func (r Run) record() []string {
	return []string{
		r.Time.UTC().Format(time.RFC3339),
		r.Source,
		strconv.Itoa(r.Activities),
		strconv.Itoa(r.Transactions),
		strconv.Itoa(r.Balances),
		r.FirstEntry,
		r.LastEntry,
		r.Commit,
	}
}

func parseRun(rec []string) (Run, error) {
	ts, err := time.Parse(time.RFC3339, rec[0])
	if err != nil {
		return Run{}, fmt.Errorf("parsing timestamp %q: %w", rec[0], err)
	}
	var counts [3]int
	for i := range counts {
		if counts[i], err = strconv.Atoi(rec[2+i]); err != nil {
			return Run{}, fmt.Errorf("parsing %s %q: %w", columns[2+i], rec[2+i], err)
		}
	}
	return Run{
		Time:         ts,
		Source:       rec[1],
		Activities:   counts[0],
		Transactions: counts[1],
		Balances:     counts[2],
		FirstEntry:   rec[5],
		LastEntry:    rec[6],
		Commit:       rec[7],
	}, nil
}

// Record appends run to the log of repoRoot, creating it when absent.
func Record(repoRoot string, run Run) error {
	path := Path(repoRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}
	_, statErr := os.Stat(path)
	fresh := errors.Is(statErr, fs.ErrNotExist)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if fresh {
		if err := cw.Write(columns); err != nil {
			return fmt.Errorf("writing import log header: %w", err)
		}
	}
	if err := cw.Write(run.record()); err != nil {
		return fmt.Errorf("writing import log: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// Read returns the runs logged in repoRoot, oldest first. A missing log is empty.
func Read(repoRoot string) ([]Run, error) {
	f, err := os.Open(Path(repoRoot))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()
	return read(f)
}

func read(r io.Reader) ([]Run, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(columns)

	var runs []Run
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return runs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading import log: %w", err)
		}
		if line == 1 {
			continue
		}
		run, err := parseRun(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		runs = append(runs, run)
	}
}
