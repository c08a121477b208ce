package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/handiism/hot100-history/internal/chart"
	"github.com/handiism/hot100-history/internal/model"
)

// ErrResponse is the JSON body of a failed API call.
type ErrResponse struct {
	HTTPStatusCode int `json:"-"`

	StatusText  string   `json:"status"`
	ErrorText   string   `json:"error,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Render implements render.Renderer.
func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if e.StatusText == "" {
		e.StatusText = http.StatusText(e.HTTPStatusCode)
	}
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func errResponse(err error) *ErrResponse {
	resp := &ErrResponse{HTTPStatusCode: statusFor(err), ErrorText: err.Error()}
	var noMatch *chart.NoMatchError
	if errors.As(err, &noMatch) {
		resp.Suggestions = noMatch.Suggestions
	}
	if resp.HTTPStatusCode == http.StatusInternalServerError {
		resp.ErrorText = "internal error"
	}
	return resp
}

type historyResponse struct {
	Artist         string         `json:"artist"`
	Query          string         `json:"query"`
	DatasetVersion string         `json:"dataset_version"`
	Songs          []songResponse `json:"songs"`
	Stats          statsResponse  `json:"stats"`
}

type songResponse struct {
	Name      string          `json:"name"`
	Song      string          `json:"song"`
	Artist    string          `json:"artist"`
	Peak      int             `json:"peak"`
	Weeks     int             `json:"weeks"`
	FirstWeek string          `json:"first_week"`
	LastWeek  string          `json:"last_week"`
	Runs      []runResponse   `json:"runs"`
	Entries   []entryResponse `json:"entries"`
}

type runResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Peak  int    `json:"peak"`
	Weeks int    `json:"weeks"`
}

type entryResponse struct {
	Date string `json:"date"`
	Rank int    `json:"rank"`
	Run  int    `json:"run,omitempty"`
}

type statsResponse struct {
	MatchedRows    int `json:"matched_rows"`
	DuplicateDates int `json:"duplicate_dates"`
	SkippedRows    int `json:"skipped_rows"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Rows      int    `json:"rows,omitempty"`
	Skipped   int    `json:"skipped,omitempty"`
	Version   string `json:"version,omitempty"`
	Source    string `json:"source,omitempty"`
	LoadedAt  string `json:"loaded_at,omitempty"`
	FirstWeek string `json:"first_week,omitempty"`
	LastWeek  string `json:"last_week,omitempty"`
}

// Render implements render.Renderer.
func (h *historyResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func newHistoryResponse(report *model.Report) *historyResponse {
	resp := &historyResponse{
		Artist:         report.Artist,
		Query:          report.Query,
		DatasetVersion: report.DatasetVersion,
		Songs:          make([]songResponse, 0, len(report.Tables)),
		Stats: statsResponse{
			MatchedRows:    report.Stats.MatchedRows,
			DuplicateDates: report.Stats.DuplicateDates,
			SkippedRows:    report.Stats.SkippedRows,
		},
	}

	for i, t := range report.Tables {
		song := songResponse{
			Name:    t.Name,
			Song:    t.Song,
			Artist:  t.Artist,
			Peak:    t.Peak,
			Weeks:   len(t.Rows),
			Runs:    make([]runResponse, 0, len(t.Runs)),
			Entries: make([]entryResponse, 0, len(t.Rows)),
		}
		if i < len(report.Summary) {
			song.FirstWeek = report.Summary[i].FirstWeek.Format(model.DateLayout)
			song.LastWeek = report.Summary[i].LastWeek.Format(model.DateLayout)
		}
		for _, run := range t.Runs {
			song.Runs = append(song.Runs, runResponse{
				Start: run.Start.Format(model.DateLayout),
				End:   run.End.Format(model.DateLayout),
				Peak:  run.Peak,
				Weeks: run.Weeks,
			})
		}
		for _, row := range t.Rows {
			song.Entries = append(song.Entries, entryResponse{
				Date: row.Date.Format(model.DateLayout),
				Rank: row.Rank,
				Run:  row.Run,
			})
		}
		resp.Songs = append(resp.Songs, song)
	}
	return resp
}
