package issuer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateFormat is the layout the issuer uses for posted dates.
const DateFormat = "2006-01-02"

// Date is a calendar date decoded from "YYYY-MM-DD".
type Date struct {
	time.Time
}

// NewDate returns the UTC midnight Date for y-m-d.
func NewDate(y int, m time.Month, d int) *Date {
	return &Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// UnmarshalJSON accepts a quoted date. Full RFC 3339 timestamps are truncated to the day.
func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("decoding date: %w", err)
	}
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		ts, tsErr := time.Parse(time.RFC3339, s)
		if tsErr != nil {
			return fmt.Errorf("parsing date %q: %w", s, err)
		}
		t = time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	}
	d.Time = t
	return nil
}

// MarshalJSON writes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(DateFormat))
}
