package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/handiism/hot100-history/internal/chart"
	"github.com/handiism/hot100-history/internal/dataset"
	"github.com/handiism/hot100-history/internal/metrics"
	"github.com/handiism/hot100-history/internal/model"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestServer(t *testing.T, entries []model.ChartEntry) (*Server, *metrics.Metrics) {
	t.Helper()
	store := dataset.NewStore()
	if entries != nil {
		store.Swap(dataset.NewTable(entries, "test"))
	}
	m := metrics.New()

	opts := chart.DefaultOptions()
	opts.Logger = quiet
	opts.Recorder = m

	return New(Options{
		Lookup:  chart.NewService(store, opts),
		Dataset: store,
		Metrics: m,
		Logger:  quiet,
	}), m
}

func scenario() []model.ChartEntry {
	return []model.ChartEntry{
		{Date: model.Day(2020, 1, 4), Song: "Song X", Artist: "Artist A", Rank: 5},
		{Date: model.Day(2020, 1, 11), Song: "Song X", Artist: "Artist A", Rank: 2},
		{Date: model.Day(2020, 1, 18), Song: "Song X", Artist: "Artist A", Rank: 1},
		{Date: model.Day(2020, 1, 18), Song: "Duet", Artist: "Artist B Featuring Artist A", Rank: 30},
	}
}

func do(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func postForm(artist string) *http.Request {
	form := url.Values{"artist_name": {artist}}
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestIndex(t *testing.T) {
	s, _ := newTestServer(t, scenario())

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="artist_name"`)
	assert.Contains(t, rec.Body.String(), "4 chart entries from 2020-01-04 to 2020-01-18")
}

func TestAnalyze_DownloadsWorkbook(t *testing.T) {
	s, _ := newTestServer(t, scenario())

	rec := do(t, s, postForm("artist a"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=Artist_A_Chart_History.xlsx", rec.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Song X")
}

func TestAnalyze_NonASCIIFileName(t *testing.T) {
	s, _ := newTestServer(t, []model.ChartEntry{
		{Date: model.Day(2020, 1, 4), Song: "Halo", Artist: "Beyoncé", Rank: 5},
	})

	rec := do(t, s, postForm("Beyoncé"))
	require.Equal(t, http.StatusOK, rec.Code)

	disposition := rec.Header().Get("Content-Disposition")
	assert.Contains(t, disposition, "filename*=utf-8''Beyonc%C3%A9_Chart_History.xlsx")

	kind, params, err := mime.ParseMediaType(disposition)
	require.NoError(t, err)
	assert.Equal(t, "attachment", kind)
	assert.Equal(t, "Beyoncé_Chart_History.xlsx", params["filename"])
}

func TestAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name    string
		entries []model.ChartEntry
		artist  string
		status  int
		message string
	}{
		{"empty", scenario(), "  ", http.StatusBadRequest, "Please enter an artist name"},
		{"no match", scenario(), "Artist Q", http.StatusNotFound, "No results found for artist: Artist Q"},
		{"no dataset", nil, "Artist A", http.StatusServiceUnavailable, "not available yet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, tt.entries)
			rec := do(t, s, postForm(tt.artist))
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
			assert.Contains(t, rec.Body.String(), tt.message)
		})
	}
}

func TestAnalyze_Suggestions(t *testing.T) {
	s, _ := newTestServer(t, scenario())

	rec := do(t, s, postForm("Artis"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "<strong>Artist A</strong>")
}

func TestHistoryAPI(t *testing.T) {
	s, _ := newTestServer(t, scenario())

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/artists/Artist%20A/history", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("ETag"))

	var body historyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Artist A", body.Artist)
	require.Len(t, body.Songs, 2)
	assert.Equal(t, "Song X", body.Songs[0].Name)
	assert.Equal(t, 1, body.Songs[0].Peak)
	assert.Equal(t, 3, body.Songs[0].Weeks)
	assert.Equal(t, "2020-01-04", body.Songs[0].FirstWeek)
	assert.Equal(t, "Duet", body.Songs[1].Name)
	assert.Equal(t, 4, body.Stats.MatchedRows)
}

func TestHistoryAPI_NotModified(t *testing.T) {
	s, _ := newTestServer(t, scenario())

	first := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/artists/Artist%20A/history", nil))
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/artists/Artist%20A/history", nil)
	req.Header.Set("If-None-Match", etag)
	rec := do(t, s, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHistoryAPI_NoMatch(t *testing.T) {
	s, _ := newTestServer(t, scenario())

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/artists/Art/history", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Not Found", body.StatusText)
	assert.Equal(t, []string{"Artist A", "Artist B"}, body.Suggestions)
}

func TestExportAPI(t *testing.T) {
	s, _ := newTestServer(t, scenario())

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/artists/artist%20b/export?format=csv", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=Artist_B_Chart_History.csv", rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), "Duet,Artist B Featuring Artist A,2020-01-18,30,1")

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/artists/artist%20b/export?format=pdf", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	metricsRec := do(t, s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, metricsRec.Body.String(), `hot100_exports_total{format="csv"} 1`)
	assert.Contains(t, metricsRec.Body.String(), `hot100_lookups_total{outcome="ok"} 1`)
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, scenario())
	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 4, body.Rows)
	assert.Equal(t, "2020-01-18", body.LastWeek)

	loading, _ := newTestServer(t, nil)
	rec = do(t, loading, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListenAndServe_Shutdown(t *testing.T) {
	s, _ := newTestServer(t, scenario())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()

	err := <-done
	assert.False(t, errors.Is(err, http.ErrServerClosed))
	assert.NoError(t, err)
}
