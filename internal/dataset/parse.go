package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/handiism/hot100-history/internal/model"
)

// maxRowWarnings caps per-row warnings; later skips are only counted.
const maxRowWarnings = 20

// Column aliases, matched case-insensitively.
var (
	dateColumns   = []string{"date", "chart_date", "week_id"}
	songColumns   = []string{"song", "title"}
	artistColumns = []string{"artist", "performer"}
	rankColumns   = []string{"rank", "chart_position", "week_position"}
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"1/2/2006",
	"01/02/2006",
	time.RFC3339,
}

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// ParseOptions configures Parse.
type ParseOptions struct {
	// Source names the input in logs and on the resulting Table.
	Source string

	// SnapToSaturday moves every chart date forward to the next Saturday,
	// the day Billboard dates its charts.
	SnapToSaturday bool

	// CleanPipes replaces "|" separators in artist credits with ", ".
	CleanPipes bool

	// Logger receives skipped-row warnings. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultParseOptions enables both normalizations.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{SnapToSaturday: true, CleanPipes: true}
}

type columns struct {
	date, song, artist, rank int
}

// Parse reads a chart CSV into a Table.
//
// Malformed rows are skipped and counted in Table.Skipped. Only a missing
// required column or an I/O failure makes Parse fail.
func Parse(r io.Reader, opts ParseOptions) (*Table, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	var (
		entries []model.ChartEntry
		skipped int
		row     int
	)
	skip := func(reason string) {
		skipped++
		if skipped <= maxRowWarnings {
			logger.Warn("skipping malformed row", "source", opts.Source, "row", row, "reason", reason)
		}
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skip(parseErr.Err.Error())
				continue
			}
			return nil, fmt.Errorf("read row: %w", err)
		}

		entry, err := parseRecord(record, cols, opts)
		if err != nil {
			skip(err.Error())
			continue
		}
		entries = append(entries, entry)
	}

	if skipped > maxRowWarnings {
		logger.Warn("malformed rows skipped", "source", opts.Source, "count", skipped, "logged", maxRowWarnings)
	}

	table := NewTable(entries, opts.Source)
	table.Skipped = skipped
	return table, nil
}

func locateColumns(header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		name = strings.ToLower(strings.TrimSpace(name))
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}

	find := func(aliases []string) int {
		for _, a := range aliases {
			if i, ok := index[a]; ok {
				return i
			}
		}
		return -1
	}

	cols := columns{
		date:   find(dateColumns),
		song:   find(songColumns),
		artist: find(artistColumns),
		rank:   find(rankColumns),
	}

	var missing []string
	if cols.date < 0 {
		missing = append(missing, "Date")
	}
	if cols.song < 0 {
		missing = append(missing, "Song")
	}
	if cols.artist < 0 {
		missing = append(missing, "Artist")
	}
	if cols.rank < 0 {
		missing = append(missing, "Rank")
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}

func parseRecord(record []string, cols columns, opts ParseOptions) (model.ChartEntry, error) {
	field := func(i int) (string, error) {
		if i >= len(record) {
			return "", fmt.Errorf("short row: %d fields", len(record))
		}
		return strings.TrimSpace(record[i]), nil
	}

	rawDate, err := field(cols.date)
	if err != nil {
		return model.ChartEntry{}, err
	}
	song, err := field(cols.song)
	if err != nil {
		return model.ChartEntry{}, err
	}
	artist, err := field(cols.artist)
	if err != nil {
		return model.ChartEntry{}, err
	}
	rawRank, err := field(cols.rank)
	if err != nil {
		return model.ChartEntry{}, err
	}

	date, err := ParseDate(rawDate)
	if err != nil {
		return model.ChartEntry{}, err
	}
	if opts.SnapToSaturday {
		date = SnapToSaturday(date)
	}

	rank, err := parseRank(rawRank)
	if err != nil {
		return model.ChartEntry{}, err
	}

	if opts.CleanPipes {
		artist = CleanArtist(artist)
	}

	entry := model.ChartEntry{Date: date, Song: song, Artist: artist, Rank: rank}
	if err := entry.Validate(); err != nil {
		return model.ChartEntry{}, err
	}
	return entry, nil
}

// ParseDate parses a chart date in any supported layout and returns UTC
// midnight of that day.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return model.Day(t.Year(), t.Month(), t.Day()), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

func parseRank(value string) (int, error) {
	if rank, err := strconv.Atoi(value); err == nil {
		return rank, nil
	}
	// Files rewritten by spreadsheet tools sometimes carry "5.0".
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid rank %q", value)
	}
	return int(f), nil
}

// SnapToSaturday returns the first Saturday on or after t.
func SnapToSaturday(t time.Time) time.Time {
	days := (int(time.Saturday) - int(t.Weekday()) + 7) % 7
	return t.AddDate(0, 0, days)
}

// CleanArtist replaces "|" separated credits with comma separated ones.
func CleanArtist(artist string) string {
	if !strings.Contains(artist, "|") {
		return artist
	}
	parts := strings.Split(artist, "|")
	kept := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
