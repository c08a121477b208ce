package model

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used for chart weeks everywhere in
// reports and exports.
const DateLayout = "2006-01-02"

// MinRank and MaxRank bound the position of a song on the Hot 100.
const (
	MinRank = 1
	MaxRank = 100
)

// ChartEntry is one published chart position of a song in a given week.
//
// One entry exists per (Date, Song, Artist) per chart week. Entries are
// loaded from the external dataset and never mutated afterwards.
type ChartEntry struct {
	// Date is the chart week, normalized to UTC midnight.
	Date time.Time

	// Song is the song title as published.
	Song string

	// Artist is the full artist credit, possibly listing several
	// collaborators ("A Featuring B", "A & B").
	Artist string

	// Rank is the chart position, 1 (best) to 100.
	Rank int
}

// Validate reports whether the entry can take part in aggregation.
func (e ChartEntry) Validate() error {
	if e.Date.IsZero() {
		return fmt.Errorf("missing chart date")
	}
	if e.Song == "" {
		return fmt.Errorf("missing song title")
	}
	if e.Artist == "" {
		return fmt.Errorf("missing artist")
	}
	if e.Rank < MinRank || e.Rank > MaxRank {
		return fmt.Errorf("rank %d out of range %d-%d", e.Rank, MinRank, MaxRank)
	}
	return nil
}

// Day returns the UTC midnight time for a calendar date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// WeekRank is a single point of a song's timeline.
type WeekRank struct {
	Date time.Time
	Rank int
}

// ChartRun is a maximal contiguous charting stint of one song.
//
// Consecutive weeks of a run are separated by no more than the chart cadence
// plus the configured slack. A song that drops off and comes back later
// starts a new run (a re-entry).
type ChartRun struct {
	// Index is the 1-based position of the run within its timeline.
	Index int

	// Start and End are the first and last chart weeks of the run.
	Start time.Time
	End   time.Time

	// Peak is the best (numerically lowest) rank reached during the run.
	Peak int

	// Weeks is the number of chart entries in the run.
	Weeks int
}

// SongTimeline is the rank history of one song for one request.
//
// Entries are sorted ascending by date and hold at most one entry per date.
type SongTimeline struct {
	// Song is the display title (the most frequent original casing).
	Song string

	// Artist is the display artist credit.
	Artist string

	// Entries is the ordered rank history.
	Entries []WeekRank

	// Runs partitions Entries into charting stints, in date order.
	Runs []ChartRun
}

// FirstWeek returns the date of the earliest entry, or the zero time for an
// empty timeline.
func (t *SongTimeline) FirstWeek() time.Time {
	if len(t.Entries) == 0 {
		return time.Time{}
	}
	return t.Entries[0].Date
}

// LastWeek returns the date of the latest entry, or the zero time for an
// empty timeline.
func (t *SongTimeline) LastWeek() time.Time {
	if len(t.Entries) == 0 {
		return time.Time{}
	}
	return t.Entries[len(t.Entries)-1].Date
}

// Peak returns the best rank over all runs, or 0 for an empty timeline.
func (t *SongTimeline) Peak() int {
	peak := 0
	for _, e := range t.Entries {
		if peak == 0 || e.Rank < peak {
			peak = e.Rank
		}
	}
	return peak
}

// RunAt returns the index of the run containing date, or 0 when the date is
// outside every run.
func (t *SongTimeline) RunAt(date time.Time) int {
	for _, r := range t.Runs {
		if !date.Before(r.Start) && !date.After(r.End) {
			return r.Index
		}
	}
	return 0
}
