package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/handiism/hot100-history/internal/chart"
	"github.com/handiism/hot100-history/internal/config"
	"github.com/handiism/hot100-history/internal/model"
)

type fakeLookup struct {
	reports map[string]*model.Report
	err     error
}

func (f *fakeLookup) Lookup(ctx context.Context, artist string) (*model.Report, error) {
	if f.err != nil {
		return nil, f.err
	}
	if r, ok := f.reports[artist]; ok {
		return r, nil
	}
	return nil, &chart.NoMatchError{Artist: artist, Suggestions: []string{"Artist A"}}
}

func testReport(artist string) *model.Report {
	return &model.Report{
		Artist: artist,
		Tables: []model.Table{{
			Name:   "Song X",
			Song:   "Song X",
			Artist: artist,
			Header: []string{model.ColumnDate, model.ColumnRank},
			Rows:   []model.Row{{Date: model.Day(2020, 1, 4), Rank: 5}},
			Peak:   5,
		}},
	}
}

func testSettings(t *testing.T, format string) *config.Settings {
	s := config.DefaultSettings()
	s.OutputDir = t.TempDir()
	s.ExportFormat = format
	s.MaxConcurrentExports = 2
	return s
}

type events struct {
	mu   sync.Mutex
	list []ProgressEvent
}

func (e *events) add(ev ProgressEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.list = append(e.list, ev)
}

func (e *events) count(level ProgressLevel) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, ev := range e.list {
		if ev.Level == level {
			n++
		}
	}
	return n
}

func TestParseInputArtists(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"commas and newlines", "Artist A, Artist B\n\n  Artist C  \n,", []string{"Artist A", "Artist B", "Artist C"}},
		{"quoted name with comma", `"Earth, Wind & Fire", Artist B` + "\nArtist C", []string{"Earth, Wind & Fire", "Artist B", "Artist C"}},
		{"quoted alone", `"Crosby, Stills & Nash"`, []string{"Crosby, Stills & Nash"}},
		{"unquoted name is split", "Earth, Wind & Fire", []string{"Earth", "Wind & Fire"}},
		{"stray quote", `Artist "A, Artist B`, []string{`Artist "A`, "Artist B"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseInputArtists(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("parseInputArtists(%q) = %q, want %q", tt.input, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("parseInputArtists(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestManager_AddArtistsDeduplicates(t *testing.T) {
	m, err := NewManager(testSettings(t, "xlsx"), &fakeLookup{}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if n := m.Initialize("Artist A\nartist a\nARTIST A"); n != 1 {
		t.Errorf("Initialize() = %d, want 1", n)
	}
	if n := m.AddArtists("Artist B", "  ", "Artist A"); n != 1 {
		t.Errorf("AddArtists() = %d, want 1", n)
	}
	if got := m.Artists(); len(got) != 2 || got[0] != "Artist A" || got[1] != "Artist B" {
		t.Errorf("Artists() = %v", got)
	}
}

func TestManager_StartExports(t *testing.T) {
	tests := []struct {
		format string
		file   string
	}{
		{"xlsx", "Artist_A_Chart_History.xlsx"},
		{"csv", "Artist_A_Chart_History.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			settings := testSettings(t, tt.format)
			lookup := &fakeLookup{reports: map[string]*model.Report{"Artist A": testReport("Artist A")}}
			var ev events

			m, err := NewManager(settings, lookup, ev.add)
			if err != nil {
				t.Fatal(err)
			}
			m.Initialize("Artist A\nArtist Q")

			if err := m.StartExports(context.Background()); err != nil {
				t.Fatalf("StartExports() error = %v", err)
			}

			path := filepath.Join(settings.OutputDir, tt.file)
			if info, err := os.Stat(path); err != nil || info.Size() == 0 {
				t.Errorf("export %s missing: %v", path, err)
			}

			exported, failed, total := m.GetProgress()
			if exported != 1 || failed != 1 || total != 2 {
				t.Errorf("GetProgress() = %d, %d, %d", exported, failed, total)
			}
			if ev.count(LevelSuccess) != 1 || ev.count(LevelWarning) != 1 {
				t.Errorf("events = %+v", ev.list)
			}

			results := m.Results()
			sort.Slice(results, func(i, j int) bool { return results[i].Artist < results[j].Artist })
			if results[0].Path != path || results[0].Songs != 1 {
				t.Errorf("result = %+v", results[0])
			}
			if !errors.Is(results[1].Err, chart.ErrNoMatch) {
				t.Errorf("result error = %v, want ErrNoMatch", results[1].Err)
			}
		})
	}
}

func TestManager_DryRun(t *testing.T) {
	settings := testSettings(t, "xlsx")
	lookup := &fakeLookup{reports: map[string]*model.Report{"Artist A": testReport("Artist A")}}

	m, err := NewManager(settings, lookup, nil)
	if err != nil {
		t.Fatal(err)
	}
	m.SetDryRun(true)
	m.Initialize("Artist A")

	if err := m.StartExports(context.Background()); err != nil {
		t.Fatalf("StartExports() error = %v", err)
	}

	entries, _ := os.ReadDir(settings.OutputDir)
	if len(entries) != 0 {
		t.Errorf("dry run wrote %d files", len(entries))
	}
	if r := m.Results(); len(r) != 1 || r[0].Songs != 1 || r[0].Path != "" {
		t.Errorf("Results() = %+v", r)
	}
}

func TestManager_DatasetUnavailableStopsBatch(t *testing.T) {
	m, err := NewManager(testSettings(t, "xlsx"), &fakeLookup{err: chart.ErrDatasetUnavailable}, nil)
	if err != nil {
		t.Fatal(err)
	}
	m.Initialize("Artist A, Artist B")

	if err := m.StartExports(context.Background()); !errors.Is(err, chart.ErrDatasetUnavailable) {
		t.Errorf("StartExports() error = %v, want ErrDatasetUnavailable", err)
	}
}

func TestNewManager_BadFormat(t *testing.T) {
	s := testSettings(t, "xlsx")
	s.ExportFormat = "pdf"
	// Format() falls back to xlsx, so construction still succeeds.
	if _, err := NewManager(s, &fakeLookup{}, nil); err != nil {
		t.Errorf("NewManager() error = %v", err)
	}
}
