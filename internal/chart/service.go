package chart

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/handiism/hot100-history/internal/dataset"
	"github.com/handiism/hot100-history/internal/history"
	"github.com/handiism/hot100-history/internal/match"
	"github.com/handiism/hot100-history/internal/model"
	"github.com/handiism/hot100-history/internal/report"
)

// Lookup outcomes passed to a Recorder.
const (
	OutcomeOK          = "ok"
	OutcomeNoMatch     = "no_match"
	OutcomeEmptyQuery  = "empty_query"
	OutcomeUnavailable = "unavailable"
)

// DefaultSuggestions is the number of names offered after a failed lookup.
const DefaultSuggestions = 5

// Snapshotter hands out the current dataset. *dataset.Store implements it.
type Snapshotter interface {
	Snapshot() *dataset.Table
}

// Recorder observes lookups, typically to export metrics.
type Recorder interface {
	ObserveLookup(outcome string, duration time.Duration)
}

// Options configures a Service.
type Options struct {
	Match   match.Options
	History history.Options

	// Suggestions caps the names offered in a NoMatchError.
	Suggestions int

	Recorder Recorder
	Logger   *slog.Logger
}

// DefaultOptions returns the default separators, weekly cadence and five
// suggestions.
func DefaultOptions() Options {
	return Options{
		Match:       match.DefaultOptions(),
		History:     history.DefaultOptions(),
		Suggestions: DefaultSuggestions,
	}
}

// Service runs artist lookups. It is safe for concurrent use.
type Service struct {
	store       Snapshotter
	matcher     *match.Matcher
	aggregator  *history.Aggregator
	suggestions int
	recorder    Recorder
	logger      *slog.Logger
}

// NewService creates a Service reading from store.
func NewService(store Snapshotter, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.History.Logger == nil {
		opts.History.Logger = opts.Logger
	}
	return &Service{
		store:       store,
		matcher:     match.NewMatcher(opts.Match),
		aggregator:  history.NewAggregator(opts.History),
		suggestions: opts.Suggestions,
		recorder:    opts.Recorder,
		logger:      opts.Logger,
	}
}

// Lookup builds the chart history of artist.
//
// It returns ErrEmptyQuery for blank input, a *NoMatchError (matching
// ErrNoMatch) when the artist never charted and ErrDatasetUnavailable when
// no data is loaded. The whole lookup uses a single dataset snapshot.
func (s *Service) Lookup(ctx context.Context, artist string) (*model.Report, error) {
	start := time.Now()
	rep, err := s.lookup(artist)
	s.observe(ctx, artist, rep, err, time.Since(start))
	return rep, err
}

func (s *Service) lookup(artist string) (*model.Report, error) {
	q := match.NewQuery(artist)
	if q.Empty() {
		return nil, ErrEmptyQuery
	}

	table := s.store.Snapshot()
	if table.Len() == 0 {
		return nil, ErrDatasetUnavailable
	}

	matched := s.matcher.Match(q.Raw, table.Entries())
	if len(matched) == 0 {
		return nil, &NoMatchError{
			Artist:      q.Raw,
			Suggestions: s.matcher.Suggest(q.Raw, table.Entries(), s.suggestions),
		}
	}

	timelines, stats := s.aggregator.Aggregate(matched)
	stats.SkippedRows = table.Skipped

	rep := report.Build(timelines, report.Options{Calendar: table.Dates()})
	rep.Artist = q.Raw
	rep.Query = q.Normalized
	rep.DatasetVersion = table.Version
	rep.Stats = stats
	return rep, nil
}

func (s *Service) observe(ctx context.Context, artist string, rep *model.Report, err error, d time.Duration) {
	outcome := OutcomeOK
	switch {
	case errors.Is(err, ErrEmptyQuery):
		outcome = OutcomeEmptyQuery
	case errors.Is(err, ErrNoMatch):
		outcome = OutcomeNoMatch
	case errors.Is(err, ErrDatasetUnavailable):
		outcome = OutcomeUnavailable
	}
	if s.recorder != nil {
		s.recorder.ObserveLookup(outcome, d)
	}

	if rep == nil {
		s.logger.InfoContext(ctx, "artist lookup", "artist", artist, "outcome", outcome, "duration", d)
		return
	}
	s.logger.InfoContext(ctx, "artist lookup",
		"artist", artist,
		"outcome", outcome,
		"songs", len(rep.Tables),
		"rows", rep.Stats.MatchedRows,
		"duplicates", rep.Stats.DuplicateDates,
		"duration", d,
	)
}
