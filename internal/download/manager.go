package download

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/handiism/hot100-history/internal/chart"
	"github.com/handiism/hot100-history/internal/config"
	"github.com/handiism/hot100-history/internal/export"
	ioutils "github.com/handiism/hot100-history/internal/io"
	"github.com/handiism/hot100-history/internal/match"
	"github.com/handiism/hot100-history/internal/model"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents an export progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Lookuper builds an artist report. *chart.Service implements it.
type Lookuper interface {
	Lookup(ctx context.Context, artist string) (*model.Report, error)
}

// Result is the outcome of one artist export.
type Result struct {
	Artist string

	// Path is the written file, empty on failure or in a dry run.
	Path string

	// Songs is the number of charting songs found.
	Songs int

	Err error
}

// Manager coordinates chart history exports for many artists.
type Manager struct {
	settings *config.Settings
	lookup   Lookuper
	sink     export.Sink
	dryRun   bool

	artists  []string
	seen     map[string]bool
	results  []Result
	exported int32
	failed   int32

	onProgress func(ProgressEvent)
	mu         sync.Mutex
}

// NewManager creates a new export Manager writing in the configured format.
func NewManager(settings *config.Settings, lookup Lookuper, onProgress func(ProgressEvent)) (*Manager, error) {
	sink, err := export.NewSink(settings.Format(), settings.ToXLSXOptions())
	if err != nil {
		return nil, err
	}
	return &Manager{
		settings:   settings,
		lookup:     lookup,
		sink:       sink,
		seen:       make(map[string]bool),
		onProgress: onProgress,
	}, nil
}

// SetDryRun makes the Manager look artists up without writing files.
func (m *Manager) SetDryRun(dryRun bool) {
	m.dryRun = dryRun
}

// Initialize queues the artists listed in input, separated by newlines or
// commas. Names containing a comma are double-quoted. It returns the number
// of newly queued artists.
func (m *Manager) Initialize(input string) int {
	return m.AddArtists(parseInputArtists(input)...)
}

// AddArtists queues artists, skipping blanks and names already queued.
func (m *Manager) AddArtists(names ...string) int {
	added := 0
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := match.Normalize(name)
		if key == "" || m.seen[key] {
			continue
		}
		m.seen[key] = true
		m.artists = append(m.artists, name)
		added++
	}
	return added
}

// Artists returns the queued artists in order.
func (m *Manager) Artists() []string {
	return m.artists
}

// StartExports exports every queued artist.
//
// An artist without chart entries is reported and skipped. Only a missing
// dataset or a cancelled context stop the whole batch.
func (m *Manager) StartExports(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.settings.MaxConcurrentExports)

	for _, artist := range m.artists {
		artist := artist
		g.Go(func() error {
			return m.exportArtist(ctx, artist)
		})
	}

	return g.Wait()
}

// GetProgress returns how many artists were exported, failed and queued.
func (m *Manager) GetProgress() (exported, failed, total int32) {
	return atomic.LoadInt32(&m.exported), atomic.LoadInt32(&m.failed), int32(len(m.artists))
}

// Results returns the finished exports in completion order.
func (m *Manager) Results() []Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Result, len(m.results))
	copy(out, m.results)
	return out
}

// parseInputArtists reads one CSV record per line, so a name containing a
// comma can be quoted: "Earth, Wind & Fire", Drake.
func parseInputArtists(input string) []string {
	r := csv.NewReader(strings.NewReader(input))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		records = [][]string{strings.FieldsFunc(input, func(r rune) bool {
			return r == '\n' || r == ','
		})}
	}

	var artists []string
	for _, record := range records {
		for _, f := range record {
			if f = strings.TrimSpace(f); f != "" {
				artists = append(artists, f)
			}
		}
	}
	return artists
}

func (m *Manager) exportArtist(ctx context.Context, artist string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Looking up %s", artist), Level: LevelVerbose})

	report, err := m.lookup.Lookup(ctx, artist)
	if err != nil {
		m.record(Result{Artist: artist, Err: err})

		var noMatch *chart.NoMatchError
		switch {
		case errors.As(err, &noMatch):
			msg := fmt.Sprintf("No chart history for %s", artist)
			if len(noMatch.Suggestions) > 0 {
				msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(noMatch.Suggestions, ", "))
			}
			m.progress(ProgressEvent{Message: msg, Level: LevelWarning})
			return nil
		case errors.Is(err, chart.ErrDatasetUnavailable):
			m.progress(ProgressEvent{Message: "Chart dataset is not loaded", Level: LevelError})
			return err
		default:
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error looking up %s: %v", artist, err), Level: LevelError})
			return nil
		}
	}

	songs := len(report.Tables)
	if m.dryRun {
		m.record(Result{Artist: artist, Songs: songs})
		m.progress(ProgressEvent{Message: fmt.Sprintf("%s: %d songs (dry run)", artist, songs), Level: LevelSuccess})
		return nil
	}

	data, err := m.sink.Write(report)
	if err != nil {
		m.record(Result{Artist: artist, Songs: songs, Err: err})
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error encoding %s: %v", artist, err), Level: LevelError})
		return nil
	}

	path := filepath.Join(m.settings.OutputDir, export.FileName(artist, m.sink.Extension()))
	if err := ioutils.WriteFile(ctx, path, data); err != nil {
		m.record(Result{Artist: artist, Songs: songs, Err: err})
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error writing %s: %v", path, err), Level: LevelError})
		return nil
	}

	m.record(Result{Artist: artist, Path: path, Songs: songs})
	if report.Stats.DuplicateDates > 0 {
		m.progress(ProgressEvent{Message: fmt.Sprintf("%s: resolved %d duplicate chart weeks", artist, report.Stats.DuplicateDates), Level: LevelVerbose})
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Exported %s: %d songs to %s", artist, songs, filepath.Base(path)), Level: LevelSuccess})
	return nil
}

func (m *Manager) record(r Result) {
	if r.Err != nil {
		atomic.AddInt32(&m.failed, 1)
	} else {
		atomic.AddInt32(&m.exported, 1)
	}
	m.mu.Lock()
	m.results = append(m.results, r)
	m.mu.Unlock()
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
