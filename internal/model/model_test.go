package model

import (
	"testing"
	"time"
)

func TestChartEntry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		entry   ChartEntry
		wantErr bool
	}{
		{"valid", ChartEntry{Date: Day(2020, 1, 4), Song: "Song", Artist: "Artist", Rank: 1}, false},
		{"rank 100", ChartEntry{Date: Day(2020, 1, 4), Song: "Song", Artist: "Artist", Rank: 100}, false},
		{"rank zero", ChartEntry{Date: Day(2020, 1, 4), Song: "Song", Artist: "Artist", Rank: 0}, true},
		{"rank 101", ChartEntry{Date: Day(2020, 1, 4), Song: "Song", Artist: "Artist", Rank: 101}, true},
		{"no date", ChartEntry{Song: "Song", Artist: "Artist", Rank: 5}, true},
		{"no song", ChartEntry{Date: Day(2020, 1, 4), Artist: "Artist", Rank: 5}, true},
		{"no artist", ChartEntry{Date: Day(2020, 1, 4), Song: "Song", Rank: 5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSongTimeline_Accessors(t *testing.T) {
	timeline := &SongTimeline{
		Song:   "Song X",
		Artist: "Artist A",
		Entries: []WeekRank{
			{Date: Day(2020, 1, 4), Rank: 5},
			{Date: Day(2020, 1, 11), Rank: 2},
			{Date: Day(2020, 3, 21), Rank: 9},
		},
		Runs: []ChartRun{
			{Index: 1, Start: Day(2020, 1, 4), End: Day(2020, 1, 11), Peak: 2, Weeks: 2},
			{Index: 2, Start: Day(2020, 3, 21), End: Day(2020, 3, 21), Peak: 9, Weeks: 1},
		},
	}

	if got := timeline.FirstWeek(); !got.Equal(Day(2020, 1, 4)) {
		t.Errorf("FirstWeek() = %v", got)
	}
	if got := timeline.LastWeek(); !got.Equal(Day(2020, 3, 21)) {
		t.Errorf("LastWeek() = %v", got)
	}
	if got := timeline.Peak(); got != 2 {
		t.Errorf("Peak() = %d, want 2", got)
	}
	if got := timeline.RunAt(Day(2020, 1, 11)); got != 1 {
		t.Errorf("RunAt(2020-01-11) = %d, want 1", got)
	}
	if got := timeline.RunAt(Day(2020, 3, 21)); got != 2 {
		t.Errorf("RunAt(2020-03-21) = %d, want 2", got)
	}
	if got := timeline.RunAt(Day(2020, 2, 1)); got != 0 {
		t.Errorf("RunAt(2020-02-01) = %d, want 0", got)
	}
}

func TestSongTimeline_Empty(t *testing.T) {
	timeline := &SongTimeline{}

	if !timeline.FirstWeek().IsZero() || !timeline.LastWeek().IsZero() {
		t.Error("empty timeline should have zero first/last week")
	}
	if timeline.Peak() != 0 {
		t.Error("empty timeline should have peak 0")
	}
}

func TestRow_Values(t *testing.T) {
	row := Row{Date: Day(2021, 7, 3), Rank: 12, Run: 2}

	tests := []struct {
		name   string
		header []string
		want   []any
	}{
		{"date and rank", []string{ColumnDate, ColumnRank}, []any{"2021-07-03", 12}},
		{"with run", []string{ColumnDate, ColumnRank, ColumnRun}, []any{"2021-07-03", 12, 2}},
		{"unknown column", []string{"Other"}, []any{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := row.Values(tt.header)
			if len(got) != len(tt.want) {
				t.Fatalf("Values() len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Values()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestReport_TableLookup(t *testing.T) {
	report := &Report{Tables: []Table{{Name: "Song X"}, {Name: "Song Y"}}}

	if _, ok := report.Table("Song Y"); !ok {
		t.Error("Table(Song Y) not found")
	}
	if _, ok := report.Table("Song Z"); ok {
		t.Error("Table(Song Z) should not exist")
	}
	if report.Empty() {
		t.Error("report with tables should not be empty")
	}

	var nilReport *Report
	if !nilReport.Empty() {
		t.Error("nil report should be empty")
	}
}

func TestSongSummary_Values(t *testing.T) {
	s := SongSummary{
		Song:      "Song X",
		Artist:    "Artist A",
		FirstWeek: time.Date(2020, 1, 4, 0, 0, 0, 0, time.UTC),
		LastWeek:  time.Date(2020, 1, 18, 0, 0, 0, 0, time.UTC),
		Peak:      1,
		Weeks:     3,
		Runs:      1,
	}

	got := s.Values()
	if len(got) != len(SummaryHeader) {
		t.Fatalf("Values() len = %d, want %d", len(got), len(SummaryHeader))
	}
	if got[2] != "2020-01-04" || got[3] != "2020-01-18" {
		t.Errorf("Values() dates = %v, %v", got[2], got[3])
	}
}
