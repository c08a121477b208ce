package history

import (
	"log/slog"
	"sort"
	"time"

	"github.com/handiism/hot100-history/internal/match"
	"github.com/handiism/hot100-history/internal/model"
)

// Defaults for run detection.
const (
	DefaultCadence = 7 * 24 * time.Hour
	DefaultSlack   = 7 * 24 * time.Hour
)

// SongKey identifies a song within one aggregation.
type SongKey struct {
	// Title is the normalized song title.
	Title string

	// Artist is the normalized artist credit.
	Artist string
}

// Options configures an Aggregator.
type Options struct {
	// Cadence is the interval between two published charts.
	Cadence time.Duration

	// Slack is the extra gap tolerated before a new run starts.
	Slack time.Duration

	// Logger receives duplicate-date diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns weekly cadence with one week of slack.
func DefaultOptions() Options {
	return Options{Cadence: DefaultCadence, Slack: DefaultSlack}
}

// Aggregator builds SongTimelines from matched entries.
//
// An Aggregator keeps no state between calls and is safe for concurrent use.
type Aggregator struct {
	cadence time.Duration
	slack   time.Duration
	logger  *slog.Logger
}

// NewAggregator creates an Aggregator. Non-positive durations fall back to
// the defaults, except a zero Slack which is kept as is.
func NewAggregator(opts Options) *Aggregator {
	if opts.Cadence <= 0 {
		opts.Cadence = DefaultCadence
	}
	if opts.Slack < 0 {
		opts.Slack = DefaultSlack
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Aggregator{cadence: opts.Cadence, slack: opts.Slack, logger: opts.Logger}
}

type group struct {
	weeks   []model.WeekRank
	titles  map[string]int
	artists map[string]int
}

// Aggregate groups entries by song and builds one timeline per song.
//
// The returned map is never nil. Stats.MatchedRows is len(entries) and
// Stats.DuplicateDates counts same-date rows that were discarded.
func (a *Aggregator) Aggregate(entries []model.ChartEntry) (map[SongKey]*model.SongTimeline, model.Stats) {
	stats := model.Stats{MatchedRows: len(entries)}
	timelines := make(map[SongKey]*model.SongTimeline)
	if len(entries) == 0 {
		return timelines, stats
	}

	groups := make(map[SongKey]*group)
	for _, e := range entries {
		key := SongKey{Title: match.Normalize(e.Song), Artist: match.Normalize(e.Artist)}
		g, ok := groups[key]
		if !ok {
			g = &group{titles: make(map[string]int), artists: make(map[string]int)}
			groups[key] = g
		}
		g.weeks = append(g.weeks, model.WeekRank{Date: e.Date, Rank: e.Rank})
		g.titles[e.Song]++
		g.artists[e.Artist]++
	}

	for key, g := range groups {
		weeks, dropped := dedupe(g.weeks)
		if dropped > 0 {
			stats.DuplicateDates += dropped
			a.logger.Debug("discarded duplicate chart weeks",
				slog.String("song", key.Title),
				slog.String("artist", key.Artist),
				slog.Int("count", dropped))
		}

		timelines[key] = &model.SongTimeline{
			Song:    mostFrequent(g.titles),
			Artist:  mostFrequent(g.artists),
			Entries: weeks,
			Runs:    DetectRuns(weeks, a.cadence, a.slack),
		}
	}

	return timelines, stats
}

// dedupe sorts weeks by date and keeps the best rank for each date.
func dedupe(weeks []model.WeekRank) ([]model.WeekRank, int) {
	sorted := make([]model.WeekRank, len(weeks))
	copy(sorted, weeks)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].Rank < sorted[j].Rank
	})

	out := sorted[:0]
	dropped := 0
	for _, w := range sorted {
		if n := len(out); n > 0 && out[n-1].Date.Equal(w.Date) {
			dropped++
			continue
		}
		out = append(out, w)
	}
	return out, dropped
}

// DetectRuns splits date-ordered weeks into chart runs. A new run starts
// whenever two consecutive weeks are more than cadence+slack apart.
//
// Example:
//
//	// weeks on Jan 4, 11, 18 and then Apr 4
//	runs := DetectRuns(weeks, 7*24*time.Hour, 0)
//	// runs[0].Weeks == 3, runs[1].Weeks == 1
func DetectRuns(weeks []model.WeekRank, cadence, slack time.Duration) []model.ChartRun {
	if len(weeks) == 0 {
		return nil
	}

	maxGap := cadence + slack
	var runs []model.ChartRun
	current := model.ChartRun{Index: 1, Start: weeks[0].Date, End: weeks[0].Date, Peak: weeks[0].Rank, Weeks: 1}

	for i := 1; i < len(weeks); i++ {
		w := weeks[i]
		if w.Date.Sub(weeks[i-1].Date) > maxGap {
			runs = append(runs, current)
			current = model.ChartRun{Index: current.Index + 1, Start: w.Date, End: w.Date, Peak: w.Rank, Weeks: 1}
			continue
		}
		current.End = w.Date
		current.Weeks++
		if w.Rank < current.Peak {
			current.Peak = w.Rank
		}
	}

	return append(runs, current)
}

// mostFrequent returns the key with the highest count, ties broken by the
// lexicographically smallest key.
func mostFrequent(counts map[string]int) string {
	best, bestCount := "", -1
	for s, n := range counts {
		if n > bestCount || (n == bestCount && s < best) {
			best, bestCount = s, n
		}
	}
	return best
}
