package dataset

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sort"
	"time"

	"github.com/handiism/hot100-history/internal/model"
)

// Table is an immutable, loaded chart dataset.
//
// A Table is built once and then only read, so any number of goroutines
// may use it at the same time. Callers must not modify the slices it
// returns.
type Table struct {
	// Source is the path or URL the table was read from.
	Source string

	// LoadedAt is when the table was built.
	LoadedAt time.Time

	// Skipped counts malformed input rows left out of the table.
	Skipped int

	// Version identifies the table content. Two tables with the same
	// entries share a version.
	Version string

	entries []model.ChartEntry
	dates   []time.Time
}

// NewTable builds a Table from entries, sorted by date then rank.
func NewTable(entries []model.ChartEntry, source string) *Table {
	sorted := make([]model.ChartEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].Rank < sorted[j].Rank
	})

	var dates []time.Time
	for _, e := range sorted {
		if n := len(dates); n == 0 || !dates[n-1].Equal(e.Date) {
			dates = append(dates, e.Date)
		}
	}

	return &Table{
		Source:   source,
		LoadedAt: time.Now(),
		Version:  version(sorted),
		entries:  sorted,
		dates:    dates,
	}
}

// Entries returns every chart entry, sorted by date then rank.
func (t *Table) Entries() []model.ChartEntry {
	if t == nil {
		return nil
	}
	return t.entries
}

// Dates returns the sorted, distinct chart weeks of the table.
func (t *Table) Dates() []time.Time {
	if t == nil {
		return nil
	}
	return t.dates
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Span returns the first and last chart week, or zero times when empty.
func (t *Table) Span() (first, last time.Time) {
	if t.Len() == 0 {
		return time.Time{}, time.Time{}
	}
	return t.dates[0], t.dates[len(t.dates)-1]
}

func version(entries []model.ChartEntry) string {
	h := sha256.New()
	var buf [8]byte
	for _, e := range entries {
		binary.BigEndian.PutUint64(buf[:], uint64(e.Date.Unix()))
		h.Write(buf[:])
		h.Write([]byte(e.Song))
		h.Write([]byte{0})
		h.Write([]byte(e.Artist))
		h.Write([]byte{0})
		binary.BigEndian.PutUint64(buf[:], uint64(e.Rank))
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
