package server

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/handiism/hot100-history/internal/chart"
	"github.com/handiism/hot100-history/internal/export"
	"github.com/handiism/hot100-history/internal/model"
)

type indexPage struct {
	Artist      string
	Message     string
	Suggestions []string
	Rows        int
	FirstWeek   string
	LastWeek    string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, r, http.StatusOK, indexPage{})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	artist := strings.TrimSpace(r.FormValue("artist_name"))

	report, err := s.lookup.Lookup(r.Context(), artist)
	if err != nil {
		page := indexPage{Artist: artist}
		var noMatch *chart.NoMatchError
		switch {
		case errors.Is(err, chart.ErrEmptyQuery):
			page.Message = "Please enter an artist name"
		case errors.As(err, &noMatch):
			page.Message = "No results found for artist: " + artist
			page.Suggestions = noMatch.Suggestions
		case errors.Is(err, chart.ErrDatasetUnavailable):
			page.Message = "The chart dataset is not available yet, please try again shortly"
		default:
			page.Message = "An error occurred while building the report"
		}
		s.renderIndex(w, r, statusFor(err), page)
		return
	}

	s.sendReport(w, r, report, export.NewXLSXWriter(s.xlsx))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	report, err := s.lookup.Lookup(r.Context(), artistParam(r))
	if err != nil {
		render.Render(w, r, errResponse(err))
		return
	}
	if notModified(w, r, report.DatasetVersion) {
		return
	}
	render.Render(w, r, newHistoryResponse(report))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		render.Render(w, r, &ErrResponse{HTTPStatusCode: http.StatusBadRequest, ErrorText: err.Error()})
		return
	}
	sink, err := export.NewSink(format, s.xlsx)
	if err != nil {
		render.Render(w, r, &ErrResponse{HTTPStatusCode: http.StatusBadRequest, ErrorText: err.Error()})
		return
	}

	report, err := s.lookup.Lookup(r.Context(), artistParam(r))
	if err != nil {
		render.Render(w, r, errResponse(err))
		return
	}
	if notModified(w, r, report.DatasetVersion+"-"+string(format)) {
		return
	}
	s.sendReport(w, r, report, sink)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	table := s.dataset.Snapshot()
	resp := healthResponse{Status: "ok"}
	if table.Len() == 0 {
		resp.Status = "loading"
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, resp)
		return
	}

	first, last := table.Span()
	resp.Rows = table.Len()
	resp.Skipped = table.Skipped
	resp.Version = table.Version
	resp.Source = table.Source
	resp.LoadedAt = table.LoadedAt.UTC().Format(time.RFC3339)
	resp.FirstWeek = first.Format(model.DateLayout)
	resp.LastWeek = last.Format(model.DateLayout)
	render.JSON(w, r, resp)
}

func (s *Server) sendReport(w http.ResponseWriter, r *http.Request, report *model.Report, sink export.Sink) {
	data, err := sink.Write(report)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "encode report", "artist", report.Artist, "error", err)
		http.Error(w, "failed to encode report", http.StatusInternalServerError)
		return
	}
	if s.metrics != nil {
		s.metrics.ObserveExport(strings.TrimPrefix(sink.Extension(), "."))
	}

	name := export.FileName(report.Artist, sink.Extension())
	w.Header().Set("Content-Type", sink.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) renderIndex(w http.ResponseWriter, r *http.Request, status int, page indexPage) {
	if table := s.dataset.Snapshot(); table.Len() > 0 {
		first, last := table.Span()
		page.Rows = table.Len()
		page.FirstWeek = first.Format(model.DateLayout)
		page.LastWeek = last.Format(model.DateLayout)
	}

	var buf bytes.Buffer
	if err := s.index.Execute(&buf, page); err != nil {
		s.logger.ErrorContext(r.Context(), "render index", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func artistParam(r *http.Request) string {
	raw := chi.URLParam(r, "artist")
	if artist, err := url.PathUnescape(raw); err == nil {
		return artist
	}
	return raw
}

// notModified sets the ETag and answers 304 when the client already has
// this representation.
func notModified(w http.ResponseWriter, r *http.Request, version string) bool {
	if version == "" {
		return false
	}
	etag := `"` + version + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, chart.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, chart.ErrNoMatch):
		return http.StatusNotFound
	case errors.Is(err, chart.ErrDatasetUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
