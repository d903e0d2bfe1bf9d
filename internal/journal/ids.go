package journal

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EntryID numbers journal entries per calendar month: "2023-04-007".
// Posting rows append a leg letter ("2023-04-007a").
type EntryID struct {
	Year  int
	Month time.Month
	Seq   int
}

// NewEntryID starts at the given sequence number in the month of t.
func NewEntryID(t time.Time, seq int) EntryID {
	return EntryID{Year: t.Year(), Month: t.Month(), Seq: seq}
}

func (id EntryID) String() string {
	return fmt.Sprintf("%04d-%02d-%03d", id.Year, int(id.Month), id.Seq)
}

// SameMonth reports whether both IDs share a sequence.
func (id EntryID) SameMonth(other EntryID) bool {
	return id.Year == other.Year && id.Month == other.Month
}

// Compare orders IDs chronologically, then by sequence number.
func (id EntryID) Compare(other EntryID) int {
	if c := cmp.Compare(id.Year, other.Year); c != 0 {
		return c
	}
	if c := cmp.Compare(id.Month, other.Month); c != 0 {
		return c
	}
	return cmp.Compare(id.Seq, other.Seq)
}

// ParseEntryID accepts an entry or leg ID.
func ParseEntryID(s string) (EntryID, error) {
	fields := strings.Split(entryGroup(s), "-")
	if len(fields) != 3 {
		return EntryID{}, fmt.Errorf("malformed entry id %q", s)
	}
	var nums [3]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return EntryID{}, fmt.Errorf("malformed entry id %q", s)
		}
		nums[i] = n
	}
	if nums[1] < 1 || nums[1] > 12 || nums[2] < 1 {
		return EntryID{}, fmt.Errorf("entry id %q out of range", s)
	}
	return EntryID{Year: nums[0], Month: time.Month(nums[1]), Seq: nums[2]}, nil
}

// legID names the n-th posting row of an entry: 0 -> "a", 1 -> "b".
func legID(entryID string, n int) string {
	return entryID + string(rune('a'+n))
}

// entryGroup drops the leg letter, if any.
func entryGroup(id string) string {
	return strings.TrimRight(id, "abcdefghijklmnopqrstuvwxyz")
}
