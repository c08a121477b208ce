package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/hot100-history/internal/dataset"
	"github.com/handiism/hot100-history/internal/model"
)

func TestObserveLookup(t *testing.T) {
	m := New()
	m.ObserveLookup("ok", 20*time.Millisecond)
	m.ObserveLookup("ok", 30*time.Millisecond)
	m.ObserveLookup("no_match", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.lookups.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lookups.WithLabelValues("no_match")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.lookupDuration))
}

func TestObserveRefresh(t *testing.T) {
	m := New()
	table := dataset.NewTable([]model.ChartEntry{
		{Date: model.Day(2020, 1, 4), Song: "Song X", Artist: "Artist A", Rank: 5},
	}, "test")
	table.Skipped = 4

	m.ObserveRefresh(table, nil)
	m.ObserveRefresh(nil, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.datasetRows))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.skippedRows))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.refreshes.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.refreshes.WithLabelValues("error")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveExport("xlsx")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `hot100_exports_total{format="xlsx"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
