package model

import "time"

// Column names used in report tables.
const (
	ColumnDate = "Date"
	ColumnRank = "Rank"
	ColumnRun  = "Run"
)

// Report is the result of one artist lookup.
//
// A Report is built once per request, handed to an export sink and then
// discarded. Tables are ordered by the song's first chart week, ties broken
// by song title.
type Report struct {
	// Artist is the query as typed by the user, trimmed.
	Artist string

	// Query is the normalized form the matcher compared against.
	Query string

	// DatasetVersion identifies the dataset snapshot the report came from.
	DatasetVersion string

	// Tables holds one table per song.
	Tables []Table

	// Summary holds one line per song, in the same order as Tables.
	Summary []SongSummary

	// Pivot is the date-by-song layout of the whole history.
	Pivot PivotTable

	// Stats carries data-quality diagnostics for the lookup.
	Stats Stats
}

// Table is the chart history of a single song.
type Table struct {
	// Name is the table title, unique within a report.
	Name string

	Song   string
	Artist string

	// Header names the row columns: Date, Rank and, for songs with more
	// than one run, Run.
	Header []string

	Rows []Row

	// Peak is the best rank over the whole history.
	Peak int

	Runs []ChartRun
}

// Row is one chart week of a Table.
type Row struct {
	Date time.Time
	Rank int

	// Run is the 1-based run index, 0 when the table has a single run.
	Run int
}

// Values returns the row as cell values matching header.
func (r Row) Values(header []string) []any {
	values := make([]any, 0, len(header))
	for _, col := range header {
		switch col {
		case ColumnDate:
			values = append(values, r.Date.Format(DateLayout))
		case ColumnRank:
			values = append(values, r.Rank)
		case ColumnRun:
			values = append(values, r.Run)
		default:
			values = append(values, "")
		}
	}
	return values
}

// SongSummary is the one-line overview of a song's chart career.
type SongSummary struct {
	Song      string
	Artist    string
	FirstWeek time.Time
	LastWeek  time.Time
	Peak      int
	Weeks     int
	Runs      int
}

// SummaryHeader is the column order of SongSummary rows.
var SummaryHeader = []string{"Song", "Artist", "First Week", "Last Week", "Peak", "Weeks on Chart", "Runs"}

// Values returns the summary as cell values in SummaryHeader order.
func (s SongSummary) Values() []any {
	return []any{
		s.Song,
		s.Artist,
		s.FirstWeek.Format(DateLayout),
		s.LastWeek.Format(DateLayout),
		s.Peak,
		s.Weeks,
		s.Runs,
	}
}

// PivotTable lays out ranks with one row per chart date and one column per
// song. A zero rank means the song was not on that week's chart.
type PivotTable struct {
	// Columns are the song labels, "Song (Artist)".
	Columns []string

	Dates []time.Time

	// Ranks is indexed [date][column].
	Ranks [][]int
}

// Stats carries data-quality counters surfaced with a report.
type Stats struct {
	// MatchedRows is the number of dataset rows the query matched.
	MatchedRows int

	// DuplicateDates counts rows discarded because the same song already
	// had an entry for that date.
	DuplicateDates int

	// SkippedRows is the number of malformed dataset rows skipped at load.
	SkippedRows int
}

// Empty reports whether the report holds no tables.
func (r *Report) Empty() bool {
	return r == nil || len(r.Tables) == 0
}

// Table returns the table with the given name.
func (r *Report) Table(name string) (Table, bool) {
	for _, t := range r.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}
