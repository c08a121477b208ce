package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/handiism/hot100-history/internal/history"
	"github.com/handiism/hot100-history/internal/match"
	"github.com/handiism/hot100-history/internal/model"
)

// Options configures Build.
type Options struct {
	// Calendar is the sorted list of chart dates published in the dataset.
	// The pivot spans the calendar from the first charted week of the
	// artist to its end. When empty, the pivot only holds weeks in which
	// one of the songs charted.
	Calendar []time.Time
}

type song struct {
	key      history.SongKey
	timeline *model.SongTimeline
}

// Build turns timelines into a Report with one table per song.
//
// Songs are ordered by first chart week, then by title and credit. Artist,
// Query, DatasetVersion and Stats are left for the caller to fill in.
func Build(timelines map[history.SongKey]*model.SongTimeline, opts Options) *model.Report {
	songs := orderSongs(timelines)
	names := tableNames(songs)

	report := &model.Report{
		Tables:  make([]model.Table, 0, len(songs)),
		Summary: make([]model.SongSummary, 0, len(songs)),
	}
	for i, s := range songs {
		report.Tables = append(report.Tables, buildTable(names[i], s.timeline))
		report.Summary = append(report.Summary, summarize(s.timeline))
	}
	report.Pivot = buildPivot(songs, opts.Calendar)

	return report
}

func orderSongs(timelines map[history.SongKey]*model.SongTimeline) []song {
	songs := make([]song, 0, len(timelines))
	for k, tl := range timelines {
		if tl == nil || len(tl.Entries) == 0 {
			continue
		}
		songs = append(songs, song{key: k, timeline: tl})
	}

	sort.Slice(songs, func(i, j int) bool {
		a, b := songs[i], songs[j]
		if fa, fb := a.timeline.FirstWeek(), b.timeline.FirstWeek(); !fa.Equal(fb) {
			return fa.Before(fb)
		}
		if a.timeline.Song != b.timeline.Song {
			return a.timeline.Song < b.timeline.Song
		}
		if a.timeline.Artist != b.timeline.Artist {
			return a.timeline.Artist < b.timeline.Artist
		}
		if a.key.Title != b.key.Title {
			return a.key.Title < b.key.Title
		}
		return a.key.Artist < b.key.Artist
	})
	return songs
}

// tableNames names each table after its song, adding the credit when two
// songs share a title.
func tableNames(songs []song) []string {
	byTitle := make(map[string]int, len(songs))
	for _, s := range songs {
		byTitle[s.key.Title]++
	}

	names := make([]string, len(songs))
	used := make(map[string]int, len(songs))
	for i, s := range songs {
		name := s.timeline.Song
		if byTitle[s.key.Title] > 1 {
			name = label(s.timeline)
		}
		if n := used[match.Normalize(name)]; n > 0 {
			name = fmt.Sprintf("%s #%d", name, n+1)
		}
		used[match.Normalize(name)]++
		names[i] = name
	}
	return names
}

func label(tl *model.SongTimeline) string {
	return fmt.Sprintf("%s (%s)", tl.Song, tl.Artist)
}

func buildTable(name string, tl *model.SongTimeline) model.Table {
	multiRun := len(tl.Runs) > 1

	header := []string{model.ColumnDate, model.ColumnRank}
	if multiRun {
		header = append(header, model.ColumnRun)
	}

	rows := make([]model.Row, 0, len(tl.Entries))
	for _, e := range tl.Entries {
		row := model.Row{Date: e.Date, Rank: e.Rank}
		if multiRun {
			row.Run = tl.RunAt(e.Date)
		}
		rows = append(rows, row)
	}

	runs := make([]model.ChartRun, len(tl.Runs))
	copy(runs, tl.Runs)

	return model.Table{
		Name:   name,
		Song:   tl.Song,
		Artist: tl.Artist,
		Header: header,
		Rows:   rows,
		Peak:   tl.Peak(),
		Runs:   runs,
	}
}

func summarize(tl *model.SongTimeline) model.SongSummary {
	return model.SongSummary{
		Song:      tl.Song,
		Artist:    tl.Artist,
		FirstWeek: tl.FirstWeek(),
		LastWeek:  tl.LastWeek(),
		Peak:      tl.Peak(),
		Weeks:     len(tl.Entries),
		Runs:      len(tl.Runs),
	}
}

func buildPivot(songs []song, calendar []time.Time) model.PivotTable {
	if len(songs) == 0 {
		return model.PivotTable{}
	}

	first := songs[0].timeline.FirstWeek()
	set := make(map[time.Time]struct{})
	for _, d := range calendar {
		if !d.Before(first) {
			set[d] = struct{}{}
		}
	}
	for _, s := range songs {
		for _, e := range s.timeline.Entries {
			set[e.Date] = struct{}{}
		}
	}

	dates := make([]time.Time, 0, len(set))
	for d := range set {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	index := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		index[d] = i
	}

	columns := make([]string, len(songs))
	ranks := make([][]int, len(dates))
	for i := range ranks {
		ranks[i] = make([]int, len(songs))
	}
	for c, s := range songs {
		columns[c] = label(s.timeline)
		for _, e := range s.timeline.Entries {
			ranks[index[e.Date]][c] = e.Rank
		}
	}

	return model.PivotTable{Columns: columns, Dates: dates, Ranks: ranks}
}
