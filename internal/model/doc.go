// Package model defines the core data structures used throughout
// hot100-history.
//
// # Chart entries
//
// ChartEntry is one row of the weekly Hot 100 dataset. Entries are
// immutable once loaded and are shared by every request:
//
//	entry := model.ChartEntry{
//	    Date:   model.Day(2020, 1, 4),
//	    Song:   "Circles",
//	    Artist: "Post Malone",
//	    Rank:   3,
//	}
//
// # Timelines and runs
//
// SongTimeline is the per-song rank history derived for one request.
// Its Runs split the timeline into contiguous charting stints:
//
//	for _, run := range timeline.Runs {
//	    fmt.Printf("run %d: %s..%s peak #%d (%d weeks)\n",
//	        run.Index, run.Start.Format(model.DateLayout),
//	        run.End.Format(model.DateLayout), run.Peak, run.Weeks)
//	}
//
// # Reports
//
// Report is the ordered set of tables handed to an export sink. It holds one
// Table per song, a Summary of every song, and a Pivot in the date-by-song
// layout.
package model
